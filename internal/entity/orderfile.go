package domain

import "time"

// OrderFile is a metadata record for a customer artwork file attached to an
// order (the framing pipeline stores the bytes elsewhere; we keep the
// pointer and its metadata, scoped per site).
type OrderFile struct {
	ID        string            `json:"id"`
	OrderID   string            `json:"orderId"`
	SiteID    string            `json:"siteId"`
	FileURL   string            `json:"fileUrl"`
	FileName  string            `json:"fileName"`
	FileType  string            `json:"fileType,omitempty"`
	FileSize  int64             `json:"fileSize,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
