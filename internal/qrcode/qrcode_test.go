package qrcode

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNGSizeFollowsBoxSize(t *testing.T) {
	blob, info, err := PNG("https://encurtador.com.br/AgKPH", 5)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(blob))
	require.NoError(t, err)
	assert.Equal(t, 17+4*info.Version, info.Modules)
	assert.Equal(t, info.Modules*5, img.Bounds().Dx())
	assert.Equal(t, info.Pixels, img.Bounds().Dy())

	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Zero(t, r+g+b, "finder pattern corner must be black without a border")
}

func TestPNGRejectsEmpty(t *testing.T) {
	_, _, err := PNG("  ", 5)
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "qrcode_personalizado.png")
	info, err := WriteFile(path, "https://vestibular.fatec.sp.gov.br/demanda/", 0)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, info.Modules*DefaultBoxSize, cfg.Width)
}
