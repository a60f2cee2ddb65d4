package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"parsepro/resume-analyzer/internal/services"
)

const resumeField = "resume"

// DocumentReader turns the multipart "resume" field into plain text.
type DocumentReader struct {
	uploads   services.UploadService
	extractor services.TextExtractor
	metrics   *services.Metrics
}

func NewDocumentReader(uploads services.UploadService, extractor services.TextExtractor, metrics *services.Metrics) *DocumentReader {
	return &DocumentReader{
		uploads:   uploads,
		extractor: extractor,
		metrics:   metrics,
	}
}

// Read returns the uploaded file and its text. A missing file is
// services.ErrMissingInput.
func (r *DocumentReader) Read(c *fiber.Ctx) (*services.UploadedFile, string, error) {
	fileHeader, err := c.FormFile(resumeField)
	if err != nil {
		return nil, "", fmt.Errorf("%w: no file uploaded in field %q", services.ErrMissingInput, resumeField)
	}

	file, err := r.uploads.ReadFile(fileHeader)
	if err != nil {
		return nil, "", err
	}

	text, err := r.extractor.ExtractText(file.Filename, file.Data)
	r.metrics.ObserveExtraction(err)
	if err != nil {
		return nil, "", err
	}

	return file, text, nil
}
