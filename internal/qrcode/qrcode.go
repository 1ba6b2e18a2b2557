// Package qrcode renders links as borderless black-on-white QR PNGs.
package qrcode

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	goqr "github.com/skip2/go-qrcode"
)

const DefaultBoxSize = 5

type Info struct {
	Version int
	Modules int
	Pixels  int
}

// PNG encodes content with low error correction at boxSize pixels per module.
func PNG(content string, boxSize int) ([]byte, Info, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, Info{}, errors.New("qr content is empty")
	}
	if boxSize <= 0 {
		boxSize = DefaultBoxSize
	}
	q, err := goqr.New(content, goqr.Low)
	if err != nil {
		return nil, Info{}, fmt.Errorf("encode qr: %w", err)
	}
	q.DisableBorder = true
	q.ForegroundColor = color.Black
	q.BackgroundColor = color.White

	blob, err := q.PNG(-boxSize)
	if err != nil {
		return nil, Info{}, err
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(blob))
	if err != nil {
		return nil, Info{}, err
	}
	return blob, Info{Version: q.VersionNumber, Modules: cfg.Width / boxSize, Pixels: cfg.Width}, nil
}

func WriteFile(path, content string, boxSize int) (Info, error) {
	blob, info, err := PNG(content, boxSize)
	if err != nil {
		return Info{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Info{}, err
	}
	return info, os.WriteFile(path, blob, 0o644)
}
