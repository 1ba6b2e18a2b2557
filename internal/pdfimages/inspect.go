// Package pdfimages lists and extracts the raster images embedded in a PDF.
package pdfimages

import (
	"fmt"
	"sort"

	"github.com/ledongthuc/pdf"
)

type ImageInfo struct {
	Page   int
	Index  int
	Name   string
	Width  int64
	Height int64
	Filter string
	Ext    string
}

func (i ImageInfo) FileName() string {
	return FileName(i.Page, i.Index, i.Ext)
}

// FileName is image_page{page}_{index}.{ext}, both counters starting at 1.
func FileName(page, index int, ext string) string {
	return fmt.Sprintf("image_page%d_%d.%s", page, index, ext)
}

// before orders images by page, then by XObject resource name. Inspect and
// Extract both number images in this order.
func before(pageA int, nameA string, pageB int, nameB string) bool {
	if pageA != pageB {
		return pageA < pageB
	}
	return nameA < nameB
}

// Inspect walks each page's XObject resources and reports the images found.
func Inspect(path string) (out []ImageInfo, err error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("inspect pdf: %v", rec)
		}
	}()

	for p := 1; p <= r.NumPage(); p++ {
		page := r.Page(p)
		if page.V.IsNull() {
			continue
		}
		xobjects := page.Resources().Key("XObject")
		names := xobjects.Keys()
		sort.Slice(names, func(i, j int) bool { return before(p, names[i], p, names[j]) })
		index := 0
		for _, name := range names {
			obj := xobjects.Key(name)
			if obj.Key("Subtype").Name() != "Image" {
				continue
			}
			index++
			filter := filterName(obj.Key("Filter"))
			out = append(out, ImageInfo{
				Page:   p,
				Index:  index,
				Name:   name,
				Width:  obj.Key("Width").Int64(),
				Height: obj.Key("Height").Int64(),
				Filter: filter,
				Ext:    extFor(filter),
			})
		}
	}
	return out, nil
}

func filterName(v pdf.Value) string {
	switch v.Kind() {
	case pdf.Name:
		return v.Name()
	case pdf.Array:
		if v.Len() > 0 {
			return v.Index(v.Len() - 1).Name()
		}
	}
	return ""
}

func extFor(filter string) string {
	switch filter {
	case "DCTDecode":
		return "jpg"
	case "JPXDecode":
		return "jp2"
	case "CCITTFaxDecode":
		return "tif"
	default:
		return "png"
	}
}
