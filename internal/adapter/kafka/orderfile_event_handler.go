package kafka

import (
	"context"

	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/usecase"
)

// OrderFileEventHandler persists order-file metadata emitted by the framing
// fulfillment pipeline, making it servable by the lookup route.
type OrderFileEventHandler struct {
	Ingest *usecase.IngestOrderFile
}

func NewOrderFileEventHandler(ingest *usecase.IngestOrderFile) *OrderFileEventHandler {
	return &OrderFileEventHandler{Ingest: ingest}
}

func (h *OrderFileEventHandler) Handle(ctx context.Context, ev usecase.OrderFileEventMsg) error {
	_, err := h.Ingest.Execute(ctx, usecase.IngestOrderFileInput{
		FileID:   ev.FileID,
		OrderID:  ev.OrderID,
		SiteID:   ev.SiteID,
		FileURL:  ev.FileURL,
		FileName: ev.FileName,
		FileType: ev.FileType,
		FileSize: ev.FileSize,
		Metadata: ev.Metadata,
	})
	return err
}
