package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rmg-pricing/internal/api/models"
	"rmg-pricing/internal/model"
)

// SnapshotLoader builds a fresh snapshot from the backing dataset.
// Handlers call it once per request; snapshots are never shared or cached,
// so concurrent requests cannot observe each other's working state.
type SnapshotLoader func() (*model.Snapshot, error)

// SKUHandler serves the catalog endpoints.
type SKUHandler struct {
	load SnapshotLoader
}

func NewSKUHandler(load SnapshotLoader) *SKUHandler {
	return &SKUHandler{load: load}
}

// ListSKUs handles GET /api/skus
func (h *SKUHandler) ListSKUs(c *gin.Context) {
	snapshot, ok := h.loadSnapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.SKUListResponse{
		SKUs:  snapshot.Records(),
		Count: snapshot.Len(),
	})
}

// SearchSKUs handles GET /api/skus/search
func (h *SKUHandler) SearchSKUs(c *gin.Context) {
	snapshot, ok := h.loadSnapshot(c)
	if !ok {
		return
	}
	matches := snapshot.Filter(
		c.Query("query"),
		c.Query("ownership"),
		c.Query("category"),
		c.Query("segment"),
	)
	c.JSON(http.StatusOK, models.SKUListResponse{
		SKUs:  matches,
		Count: len(matches),
	})
}

// GetSKU handles GET /api/skus/:name
func (h *SKUHandler) GetSKU(c *gin.Context) {
	snapshot, ok := h.loadSnapshot(c)
	if !ok {
		return
	}
	rec, found := snapshot.Lookup(c.Param("name"))
	if !found {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SKU_NOT_FOUND",
				Message: "SKU not found",
			},
		})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *SKUHandler) loadSnapshot(c *gin.Context) (*model.Snapshot, bool) {
	snapshot, err := h.load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "DATA_LOAD_ERROR",
				Message: err.Error(),
			},
		})
		return nil, false
	}
	return snapshot, true
}
