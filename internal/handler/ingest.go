package handler

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"tradebi/internal/etl"
)

type IngestHandler struct {
	Loader *etl.Loader
}

func (h *IngestHandler) Register(r *gin.Engine) {
	r.POST("/api/ingest", h.upload)
}

// @Summary Upload a trade CSV
// @Tags ingest
// @Accept multipart/form-data
// @Param file formData file true "CSV with symbol,trader,strategy,timestamp,quantity,price columns"
// @Router /api/ingest [post]
func (h *IngestHandler) upload(c *gin.Context) {
	if h.Loader == nil {
		Error(c, http.StatusInternalServerError, "loader unavailable", nil)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		Error(c, http.StatusBadRequest, "missing file field", nil)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	defer f.Close()

	result, err := h.Loader.LoadCSV(c.Request.Context(), f, filepath.Base(fileHeader.Filename))
	if err != nil {
		Error(c, http.StatusUnprocessableEntity, err.Error(), map[string]any{
			"trades":  result.Trades,
			"skipped": result.Skipped,
		})
		return
	}
	Ok(c, result, nil)
}
