package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luckydevstar/custom-frame-sizes-sub010/configs"
	domain "github.com/luckydevstar/custom-frame-sizes-sub010/internal/entity"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/usecase"
)

type OrderFileHandler struct {
	get     *usecase.GetOrderFile
	ingest  *usecase.IngestOrderFile
	timeout time.Duration
}

func NewOrderFileHandler(cfg configs.Config, get *usecase.GetOrderFile, ingest *usecase.IngestOrderFile) *OrderFileHandler {
	return &OrderFileHandler{get: get, ingest: ingest, timeout: cfg.HTTP.HandlerTimeout}
}

// GetByID handles GET /api/orders/files/:id?siteId=... Both identifiers are
// mandatory; each missing one is its own validation error.
func (h *OrderFileHandler) GetByID(c *gin.Context) {
	fileID := c.Param("id")
	if fileID == "" {
		respondError(c, domain.NewValidationError("id", "must not be empty"))
		return
	}
	siteID := c.Query("siteId")
	if siteID == "" {
		respondError(c, domain.NewValidationError("siteId", "must not be empty"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	f, err := h.get.Execute(ctx, fileID, siteID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"file": f})
}

type createOrderFileReq struct {
	FileID   string            `json:"fileId"`
	OrderID  string            `json:"orderId" binding:"required"`
	SiteID   string            `json:"siteId" binding:"required"`
	FileURL  string            `json:"fileUrl" binding:"required,url"`
	FileName string            `json:"fileName" binding:"required"`
	FileType string            `json:"fileType"`
	FileSize int64             `json:"fileSize" binding:"omitempty,min=0"`
	Metadata map[string]string `json:"metadata"`
}

// Create handles POST /api/orders/files (internal surface, JWT-guarded).
func (h *OrderFileHandler) Create(c *gin.Context) {
	var req createOrderFileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	f, err := h.ingest.Execute(ctx, usecase.IngestOrderFileInput{
		FileID:   req.FileID,
		OrderID:  req.OrderID,
		SiteID:   req.SiteID,
		FileURL:  req.FileURL,
		FileName: req.FileName,
		FileType: req.FileType,
		FileSize: req.FileSize,
		Metadata: req.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"file": f})
}
