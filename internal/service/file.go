package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/vibeshare/vibeshare/internal/model"
	"github.com/vibeshare/vibeshare/internal/repository"
	"github.com/vibeshare/vibeshare/internal/storage"
	"github.com/vibeshare/vibeshare/internal/validation"
)

var ErrInvalidUpload = errors.New("invalid upload")

type FileService struct {
	fileRepo repository.FileRepository
	storage  storage.Storage
}

func NewFileService(fileRepo repository.FileRepository, storage storage.Storage) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		storage:  storage,
	}
}

// UploadPostMedia validates an image, stores it and records it against
// the post it belongs to.
func (s *FileService) UploadPostMedia(ctx context.Context, viewer *model.Session, postID string, header *multipart.FileHeader) (*model.File, error) {
	mimeType, err := validation.ValidateMedia(header, validation.PostMedia)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUpload, err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	fileID := uuid.New().String()
	ext := validation.PostMedia.MimeTypes[mimeType]
	if ext == "" {
		ext = filepath.Ext(header.Filename)
	}
	key := storage.MediaKey(viewer.ID, fileID, ext)

	err = s.storage.Save(ctx, key, file, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	record := &model.File{
		ID:           fileID,
		UserID:       viewer.ID,
		OwnerType:    model.FileOwnerPost,
		OwnerID:      postID,
		Type:         model.FileTypePostMedia,
		Filename:     filepath.Base(key),
		OriginalName: header.Filename,
		MimeType:     mimeType,
		Size:         header.Size,
		StoragePath:  key,
		Public:       true,
		CreatedAt:    time.Now(),
	}

	err = s.fileRepo.Create(ctx, record)
	if err != nil {
		delErr := s.storage.Delete(ctx, key)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", key)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	slog.Info("post media uploaded", "file_id", fileID, "post_id", postID, "size", header.Size)
	return record, nil
}

// MediaPath is the app route that redirects to a fresh storage URL.
func MediaPath(fileID string) string {
	return "/media/" + fileID
}

// URL returns a browser-loadable storage URL for a stored file.
func (s *FileService) URL(ctx context.Context, fileID string) (string, error) {
	file, err := s.fileRepo.ByID(ctx, fileID)
	if err != nil {
		return "", err
	}
	if !file.Public {
		return "", repository.ErrFileNotFound
	}
	return s.storage.PublicURL(ctx, file.StoragePath), nil
}

// Delete removes a file from storage and database.
func (s *FileService) Delete(ctx context.Context, fileID string) error {
	file, err := s.fileRepo.ByID(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	delErr := s.storage.Delete(ctx, file.StoragePath)
	if delErr != nil {
		slog.Error("failed to delete file from storage", "error", delErr, "path", file.StoragePath)
	}

	err = s.fileRepo.Delete(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}
	return nil
}
