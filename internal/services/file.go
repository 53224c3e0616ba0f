package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spendsense/spendsense-backend/internal/logger"
	"github.com/spendsense/spendsense-backend/internal/repos"
	"github.com/spendsense/spendsense-backend/internal/types"
)

// Content types a lead may attach: invoices, order guides and price lists in
// the formats vendors actually send them in.
var allowedUploadContentTypes = map[string]bool{
	"application/pdf": true,
	"text/csv":        true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       true,
	"application/vnd.ms-excel":                                                true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/png":  true,
	"image/jpeg": true,
	"image/heic": true,
	"image/webp": true,
	"text/plain": true,
}

const maxUploadBytes = 25 << 20

const signedURLTTL = 15 * time.Minute

// SignedUpload is what the client needs to PUT one file to storage.
type SignedUpload struct {
	FileID     uuid.UUID `json:"file_id"`
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type FileService interface {
	SignUpload(ctx context.Context, submissionID uuid.UUID, originalName, contentType string, sizeBytes int64) (*SignedUpload, error)
	ConfirmUpload(ctx context.Context, fileID uuid.UUID, sizeBytes int64) (*types.SubmissionFile, error)
	AbandonUpload(ctx context.Context, fileID uuid.UUID) error
}

type fileService struct {
	db                 *gorm.DB
	log                *logger.Logger
	bucketService      BucketService
	submissionRepo     repos.SubmissionRepo
	submissionFileRepo repos.SubmissionFileRepo
}

func NewFileService(
	db *gorm.DB,
	log *logger.Logger,
	bucketService BucketService,
	submissionRepo repos.SubmissionRepo,
	submissionFileRepo repos.SubmissionFileRepo,
) FileService {
	serviceLog := log.With("service", "FileService")
	return &fileService{
		db:                 db,
		log:                serviceLog,
		bucketService:      bucketService,
		submissionRepo:     submissionRepo,
		submissionFileRepo: submissionFileRepo,
	}
}

// SignUpload validates the declared file, records a pending row and returns a
// signed PUT URL. The row stays pending until ConfirmUpload.
func (fs *fileService) SignUpload(ctx context.Context, submissionID uuid.UUID, originalName, contentType string, sizeBytes int64) (*SignedUpload, error) {
	if fs.bucketService == nil {
		return nil, fmt.Errorf("File uploads are not configured")
	}
	originalName = strings.TrimSpace(originalName)
	if originalName == "" {
		return nil, fmt.Errorf("File name is required")
	}
	if !allowedUploadContentTypes[contentType] {
		return nil, fmt.Errorf("Content type %q is not allowed", contentType)
	}
	if sizeBytes <= 0 || sizeBytes > maxUploadBytes {
		return nil, fmt.Errorf("File size must be between 1 byte and %d bytes", maxUploadBytes)
	}

	submissions, sErr := fs.submissionRepo.GetByIDs(ctx, nil, []uuid.UUID{submissionID})
	if sErr != nil {
		return nil, fmt.Errorf("Failed to load submission: %w", sErr)
	}
	if len(submissions) == 0 {
		return nil, fmt.Errorf("Unknown submission")
	}

	fileID := uuid.New()
	key := fmt.Sprintf("submissions/%s/%s%s", submissionID, fileID, sanitizedExt(originalName))

	url, uErr := fs.bucketService.SignUploadURL(ctx, key, contentType, signedURLTTL)
	if uErr != nil {
		return nil, fmt.Errorf("Failed to sign upload URL: %w", uErr)
	}

	record := &types.SubmissionFile{
		ID:           fileID,
		SubmissionID: submissionID,
		OriginalName: originalName,
		ContentType:  contentType,
		SizeBytes:    sizeBytes,
		StorageKey:   key,
		FileURL:      fs.bucketService.GetPublicURL(key),
		Status:       types.SubmissionFileStatusPending,
	}
	if _, cErr := fs.submissionFileRepo.Create(ctx, nil, []*types.SubmissionFile{record}); cErr != nil {
		return nil, fmt.Errorf("Failed to record pending file: %w", cErr)
	}

	return &SignedUpload{
		FileID:     fileID,
		UploadURL:  url,
		StorageKey: key,
		ExpiresAt:  time.Now().Add(signedURLTTL),
	}, nil
}

func (fs *fileService) ConfirmUpload(ctx context.Context, fileID uuid.UUID, sizeBytes int64) (*types.SubmissionFile, error) {
	files, fErr := fs.submissionFileRepo.GetByIDs(ctx, nil, []uuid.UUID{fileID})
	if fErr != nil {
		return nil, fmt.Errorf("Failed to load file record: %w", fErr)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("Unknown file")
	}
	if mErr := fs.submissionFileRepo.MarkUploaded(ctx, nil, fileID, sizeBytes); mErr != nil {
		return nil, fmt.Errorf("Failed to mark file uploaded: %w", mErr)
	}
	confirmed, rErr := fs.submissionFileRepo.GetByIDs(ctx, nil, []uuid.UUID{fileID})
	if rErr != nil || len(confirmed) == 0 {
		return nil, fmt.Errorf("Failed to reload file record: %w", rErr)
	}
	return confirmed[0], nil
}

// AbandonUpload discards a pending file the client gave up on: the object is
// removed from the bucket if the signed PUT ever ran, then the row goes. An
// uploaded file belongs to the submission and cannot be abandoned.
func (fs *fileService) AbandonUpload(ctx context.Context, fileID uuid.UUID) error {
	files, fErr := fs.submissionFileRepo.GetByIDs(ctx, nil, []uuid.UUID{fileID})
	if fErr != nil {
		return fmt.Errorf("Failed to load file record: %w", fErr)
	}
	if len(files) == 0 {
		return fmt.Errorf("Unknown file")
	}
	file := files[0]
	if file.Status != types.SubmissionFileStatusPending {
		return fmt.Errorf("Only pending uploads can be abandoned")
	}
	if fs.bucketService != nil {
		if dErr := fs.bucketService.DeleteFile(ctx, file.StorageKey); dErr != nil {
			// The object may never have been written; the row delete
			// still proceeds.
			fs.log.Warn("Failed to delete abandoned object", "storage_key", file.StorageKey, "error", dErr)
		}
	}
	if dErr := fs.submissionFileRepo.DeleteByIDs(ctx, nil, []uuid.UUID{fileID}); dErr != nil {
		return fmt.Errorf("Failed to delete file record: %w", dErr)
	}
	return nil
}

// sanitizedExt keeps only a plain alphanumeric extension from the uploaded
// name; anything odd becomes extensionless rather than leaking into the key.
func sanitizedExt(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" || len(ext) > 8 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
