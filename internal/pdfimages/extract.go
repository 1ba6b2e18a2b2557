package pdfimages

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfig sync.Once

type Extracted struct {
	Page  int
	Index int
	// Name is the XObject resource name, as reported by Inspect.
	Name  string
	Path  string
	Bytes int
}

type pending struct {
	page int
	name string
	ext  string
	data []byte
}

// Extract writes every image of the PDF at path into dir, creating dir if
// needed, and returns the files in page order.
func Extract(path, dir string) ([]Extracted, error) {
	disableConfig.Do(api.DisableConfigDir)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var images []pending
	digest := func(img model.Image, _ bool, _ int) error {
		data, err := io.ReadAll(img)
		if err != nil {
			return err
		}
		images = append(images, pending{page: img.PageNr, name: img.Name, ext: normalizeExt(img.FileType), data: data})
		return nil
	}
	if err := api.ExtractImages(f, nil, digest, nil); err != nil {
		return nil, fmt.Errorf("extract images: %w", err)
	}

	sort.SliceStable(images, func(i, j int) bool {
		return before(images[i].page, images[i].name, images[j].page, images[j].name)
	})

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	out := make([]Extracted, 0, len(images))
	perPage := map[int]int{}
	for _, img := range images {
		perPage[img.page]++
		target := filepath.Join(dir, FileName(img.page, perPage[img.page], img.ext))
		if err := os.WriteFile(target, img.data, 0o644); err != nil {
			return out, fmt.Errorf("save %s: %w", filepath.Base(target), err)
		}
		out = append(out, Extracted{Page: img.page, Index: perPage[img.page], Name: img.name, Path: target, Bytes: len(img.data)})
	}
	return out, nil
}

func normalizeExt(fileType string) string {
	ext := strings.TrimPrefix(strings.ToLower(fileType), ".")
	switch ext {
	case "":
		return "png"
	case "jpeg":
		return "jpg"
	case "tiff":
		return "tif"
	}
	return ext
}
