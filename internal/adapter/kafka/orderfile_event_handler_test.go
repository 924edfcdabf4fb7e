package kafka

import (
	"context"
	"testing"

	"github.com/luckydevstar/custom-frame-sizes-sub010/configs"
	domain "github.com/luckydevstar/custom-frame-sizes-sub010/internal/entity"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/usecase"
)

type memRepo struct {
	files map[string]*domain.OrderFile
}

func (m *memRepo) GetByID(_ context.Context, fileID, siteID string) (*domain.OrderFile, error) {
	return m.files[fileID+"|"+siteID], nil
}

func (m *memRepo) Upsert(_ context.Context, f *domain.OrderFile) error {
	m.files[f.ID+"|"+f.SiteID] = f
	return nil
}

func TestOrderFileEventHandler_Upserts(t *testing.T) {
	var cfg configs.Config
	cfg.Stores = map[string]configs.StoreConfig{
		"custom-frame-sizes": {Domain: "d", StorefrontToken: "t"},
	}
	repo := &memRepo{files: map[string]*domain.OrderFile{}}
	h := NewOrderFileEventHandler(usecase.NewIngestOrderFile(cfg, repo))

	ev := usecase.OrderFileEventMsg{
		FileID:   "file-7",
		OrderID:  "order-3",
		SiteID:   "Custom-Frame-Sizes",
		FileURL:  "https://cdn.example/art.pdf",
		FileName: "art.pdf",
		FileType: "application/pdf",
		FileSize: 1024,
		Metadata: map[string]string{"dpi": "300"},
	}
	if err := h.Handle(context.Background(), ev); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	got := repo.files["file-7|custom-frame-sizes"]
	if got == nil {
		t.Fatal("record not persisted under sanitized site id")
	}
	if got.OrderID != "order-3" || got.Metadata["dpi"] != "300" {
		t.Errorf("persisted = %+v", got)
	}

	// Redelivery is an idempotent overwrite.
	if err := h.Handle(context.Background(), ev); err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if len(repo.files) != 1 {
		t.Errorf("files = %d, want 1", len(repo.files))
	}
}
