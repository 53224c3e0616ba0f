package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spendsense/spendsense-backend/internal/repos"
	"github.com/spendsense/spendsense-backend/internal/types"
)

type fakeBucket struct {
	signed  []string
	deleted []string
}

func (f *fakeBucket) SignUploadURL(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	f.signed = append(f.signed, key)
	return "https://signed.example/" + key, nil
}

func (f *fakeBucket) DeleteFile(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeBucket) GetPublicURL(key string) string {
	return "https://cdn.example/" + key
}

type fakeSubmissionRepo struct {
	submissions map[uuid.UUID]*types.Submission
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, tx *gorm.DB, subs []*types.Submission) ([]*types.Submission, error) {
	for _, s := range subs {
		f.submissions[s.ID] = s
	}
	return subs, nil
}

func (f *fakeSubmissionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Submission, error) {
	var out []*types.Submission
	for _, id := range ids {
		if s, ok := f.submissions[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) GetByStripeSessionID(ctx context.Context, tx *gorm.DB, sid string) (*types.Submission, error) {
	return nil, nil
}

func (f *fakeSubmissionRepo) List(ctx context.Context, tx *gorm.DB, filter repos.SubmissionFilter) ([]*types.Submission, int64, error) {
	return nil, 0, nil
}

func (f *fakeSubmissionRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	return nil
}

func (f *fakeSubmissionRepo) UpdateStripeRefs(ctx context.Context, tx *gorm.DB, id uuid.UUID, sessionID, customerID string) error {
	return nil
}

type fakeSubmissionFileRepo struct {
	files map[uuid.UUID]*types.SubmissionFile
}

func (f *fakeSubmissionFileRepo) Create(ctx context.Context, tx *gorm.DB, files []*types.SubmissionFile) ([]*types.SubmissionFile, error) {
	for _, file := range files {
		f.files[file.ID] = file
	}
	return files, nil
}

func (f *fakeSubmissionFileRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SubmissionFile, error) {
	var out []*types.SubmissionFile
	for _, id := range ids {
		if file, ok := f.files[id]; ok {
			out = append(out, file)
		}
	}
	return out, nil
}

func (f *fakeSubmissionFileRepo) GetBySubmissionIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SubmissionFile, error) {
	return nil, nil
}

func (f *fakeSubmissionFileRepo) MarkUploaded(ctx context.Context, tx *gorm.DB, id uuid.UUID, sizeBytes int64) error {
	file, ok := f.files[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	file.Status = types.SubmissionFileStatusUploaded
	if sizeBytes > 0 {
		file.SizeBytes = sizeBytes
	}
	return nil
}

func (f *fakeSubmissionFileRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(f.files, id)
	}
	return nil
}

func newFileServiceFixture(t *testing.T) (FileService, *fakeBucket, *fakeSubmissionRepo, *fakeSubmissionFileRepo) {
	t.Helper()
	bucket := &fakeBucket{}
	subRepo := &fakeSubmissionRepo{submissions: map[uuid.UUID]*types.Submission{}}
	fileRepo := &fakeSubmissionFileRepo{files: map[uuid.UUID]*types.SubmissionFile{}}
	svc := NewFileService(nil, testLogger(t), bucket, subRepo, fileRepo)
	return svc, bucket, subRepo, fileRepo
}

func TestFileService_SignRejectsDisallowedContentType(t *testing.T) {
	ctx := context.Background()
	svc, _, subRepo, _ := newFileServiceFixture(t)
	submissionID := uuid.New()
	subRepo.submissions[submissionID] = &types.Submission{ID: submissionID}

	if _, err := svc.SignUpload(ctx, submissionID, "evil.exe", "application/x-msdownload", 100); err == nil {
		t.Fatalf("expected disallowed content type to be rejected")
	}
	if _, err := svc.SignUpload(ctx, submissionID, "invoice.pdf", "application/pdf", 100); err != nil {
		t.Fatalf("pdf should be allowed: %v", err)
	}
}

func TestFileService_SignConfirmLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, bucket, subRepo, fileRepo := newFileServiceFixture(t)
	submissionID := uuid.New()
	subRepo.submissions[submissionID] = &types.Submission{ID: submissionID}

	signed, err := svc.SignUpload(ctx, submissionID, "invoice.pdf", "application/pdf", 2048)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if len(bucket.signed) != 1 || bucket.signed[0] != signed.StorageKey {
		t.Fatalf("signed keys = %v, want %q", bucket.signed, signed.StorageKey)
	}
	if fileRepo.files[signed.FileID].Status != types.SubmissionFileStatusPending {
		t.Fatalf("new file not pending: %+v", fileRepo.files[signed.FileID])
	}

	confirmed, err := svc.ConfirmUpload(ctx, signed.FileID, 4096)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != types.SubmissionFileStatusUploaded || confirmed.SizeBytes != 4096 {
		t.Fatalf("confirm left %+v", confirmed)
	}
}

func TestFileService_AbandonDeletesPendingObjectAndRow(t *testing.T) {
	ctx := context.Background()
	svc, bucket, subRepo, fileRepo := newFileServiceFixture(t)
	submissionID := uuid.New()
	subRepo.submissions[submissionID] = &types.Submission{ID: submissionID}

	signed, err := svc.SignUpload(ctx, submissionID, "invoice.pdf", "application/pdf", 2048)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if err := svc.AbandonUpload(ctx, signed.FileID); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if len(bucket.deleted) != 1 || bucket.deleted[0] != signed.StorageKey {
		t.Fatalf("bucket deletes = %v, want %q", bucket.deleted, signed.StorageKey)
	}
	if _, ok := fileRepo.files[signed.FileID]; ok {
		t.Fatalf("abandoned row survived")
	}
}

func TestFileService_AbandonRefusesUploadedFile(t *testing.T) {
	ctx := context.Background()
	svc, bucket, subRepo, fileRepo := newFileServiceFixture(t)
	submissionID := uuid.New()
	subRepo.submissions[submissionID] = &types.Submission{ID: submissionID}

	signed, err := svc.SignUpload(ctx, submissionID, "invoice.pdf", "application/pdf", 2048)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.ConfirmUpload(ctx, signed.FileID, 2048); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if err := svc.AbandonUpload(ctx, signed.FileID); err == nil {
		t.Fatalf("expected abandon of an uploaded file to be refused")
	}
	if len(bucket.deleted) != 0 {
		t.Fatalf("uploaded object was deleted: %v", bucket.deleted)
	}
	if _, ok := fileRepo.files[signed.FileID]; !ok {
		t.Fatalf("uploaded row was deleted")
	}
}
