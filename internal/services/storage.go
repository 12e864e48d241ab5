package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"hireflow/internal/apperr"
)

// StorageService owns the resume object store: binary PDFs keyed by a
// generated filename, addressable through a public URL.
type StorageService interface {
	SaveResume(file *multipart.FileHeader) (string, string, error)
	ReadResume(filename string) ([]byte, error)
	ResumePath(filename string) (string, error)
	ResumeURL(filename string) string
	DeleteResume(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
	baseURL    string
}

func NewStorageService(uploadPath, baseURL string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

// SaveResume stores the uploaded PDF under a generated filename and returns
// the filename and its public URL.
func (s *storageService) SaveResume(file *multipart.FileHeader) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return "", "", apperr.Validation("invalid file extension: %s", ext)
	}

	filename := fmt.Sprintf("resume_%s%s", uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, filename)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return filename, s.ResumeURL(filename), nil
}

func (s *storageService) ReadResume(filename string) ([]byte, error) {
	path, err := s.ResumePath(filename)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return nil, fmt.Errorf("%w: resume %s", apperr.ErrResourceDenied, filename)
		}
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	return data, nil
}

// ResumePath resolves a stored filename to a disk path, rejecting anything
// that would escape the upload directory.
func (s *storageService) ResumePath(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", apperr.Validation("invalid resume filename")
	}
	return filepath.Join(s.uploadPath, filename), nil
}

func (s *storageService) ResumeURL(filename string) string {
	return fmt.Sprintf("%s/api/v1/resumes/%s", s.baseURL, filename)
}

func (s *storageService) DeleteResume(filename string) error {
	path, err := s.ResumePath(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	return nil
}
