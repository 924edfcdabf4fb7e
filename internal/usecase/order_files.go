package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/luckydevstar/custom-frame-sizes-sub010/configs"
	domain "github.com/luckydevstar/custom-frame-sizes-sub010/internal/entity"
)

// GetOrderFile is a pure read: no retry, no side effects.
type GetOrderFile struct {
	cfg  configs.Config
	repo OrderFileRepo
}

func NewGetOrderFile(cfg configs.Config, repo OrderFileRepo) *GetOrderFile {
	return &GetOrderFile{cfg: cfg, repo: repo}
}

func (uc *GetOrderFile) Execute(ctx context.Context, fileID, siteID string) (*domain.OrderFile, error) {
	if fileID == "" {
		return nil, domain.NewValidationError("id", "must not be empty")
	}
	site, err := resolveStore(uc.cfg, "siteId", siteID)
	if err != nil {
		return nil, err
	}

	f, err := uc.repo.GetByID(ctx, fileID, site)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.NewNotFoundError("order file", fileID)
	}
	return f, nil
}

type IngestOrderFileInput struct {
	FileID   string // optional; assigned when empty
	OrderID  string
	SiteID   string
	FileURL  string
	FileName string
	FileType string
	FileSize int64
	Metadata map[string]string
}

// IngestOrderFile persists order-file metadata. Fed by the admin route and
// by the fulfillment Kafka stream; both paths are idempotent upserts.
type IngestOrderFile struct {
	cfg  configs.Config
	repo OrderFileRepo
	now  func() time.Time
}

func NewIngestOrderFile(cfg configs.Config, repo OrderFileRepo) *IngestOrderFile {
	return &IngestOrderFile{cfg: cfg, repo: repo, now: time.Now}
}

func (uc *IngestOrderFile) Execute(ctx context.Context, in IngestOrderFileInput) (*domain.OrderFile, error) {
	site, err := resolveStore(uc.cfg, "siteId", in.SiteID)
	if err != nil {
		return nil, err
	}
	if in.OrderID == "" {
		return nil, domain.NewValidationError("orderId", "must not be empty")
	}
	if in.FileURL == "" {
		return nil, domain.NewValidationError("fileUrl", "must not be empty")
	}
	if in.FileName == "" {
		return nil, domain.NewValidationError("fileName", "must not be empty")
	}

	id := in.FileID
	if id == "" {
		id = uuid.NewString()
	}

	now := uc.now().UTC()
	f := &domain.OrderFile{
		ID:        id,
		OrderID:   in.OrderID,
		SiteID:    site,
		FileURL:   in.FileURL,
		FileName:  in.FileName,
		FileType:  in.FileType,
		FileSize:  in.FileSize,
		Metadata:  in.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Upsert(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}
