package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// UploadedFile is an upload held fully in memory for the life of a request.
type UploadedFile struct {
	Filename string
	Data     []byte
}

type UploadService interface {
	ReadFile(file *multipart.FileHeader) (*UploadedFile, error)
}

type uploadService struct {
	maxFileSize int64
	allowedExts map[string]bool
}

func NewUploadService(maxFileSize int64) UploadService {
	return &uploadService{
		maxFileSize: maxFileSize,
		allowedExts: map[string]bool{
			".pdf":  true,
			".docx": true,
			".txt":  true,
			".md":   true,
		},
	}
}

func (s *uploadService) ReadFile(file *multipart.FileHeader) (*UploadedFile, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: no file uploaded", ErrMissingInput)
	}

	// Validate file extensions
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !s.allowedExts[ext] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}

	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return nil, fmt.Errorf("%w: max size is %d bytes", ErrFileTooLarge, s.maxFileSize)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open uploaded file: %v", ErrExtraction, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read uploaded file: %v", ErrExtraction, err)
	}

	return &UploadedFile{Filename: file.Filename, Data: data}, nil
}
