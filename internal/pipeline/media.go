package pipeline

import (
	"go.uber.org/zap"

	"fatecdata/internal/pdfimages"
	"fatecdata/internal/qrcode"
	"fatecdata/internal/storage"
)

// MediaService wraps the PDF image and QR helpers so their runs are recorded.
type MediaService struct {
	ledger Ledger
	logger *zap.Logger
}

func NewMediaService(ledger Ledger, logger *zap.Logger) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaService{ledger: ledger, logger: logger}
}

func (s *MediaService) ListImages(path string) (images []pdfimages.ImageInfo, err error) {
	r := startRun(s.ledger, s.logger, "pdf:images")
	defer func() { r.finish(statusFor(len(images)), err) }()

	images, err = pdfimages.Inspect(path)
	r.count("images", len(images))
	return images, err
}

func (s *MediaService) ExtractImages(path, dir string) (files []pdfimages.Extracted, err error) {
	r := startRun(s.ledger, s.logger, "pdf:images")
	defer func() { r.finish(statusFor(len(files)), err) }()

	files, err = pdfimages.Extract(path, dir)
	r.count("images", len(files))
	return files, err
}

func (s *MediaService) QRCode(content, output string, boxSize int) (info qrcode.Info, err error) {
	r := startRun(s.ledger, s.logger, "qrcode")
	defer func() { r.finish(storage.StatusOK, err) }()

	info, err = qrcode.WriteFile(output, content, boxSize)
	r.count("modules", info.Modules)
	r.count("pixels", info.Pixels)
	return info, err
}
