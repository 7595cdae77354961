package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zhilfond/server/config"
)

// GetNews returns published news, newest first.
func (h *Handler) GetNews(c *gin.Context) {
	items, err := h.db.ListNews(true)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"news": items, "total": len(items)})
}

func (h *Handler) GetNewsItem(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	item, err := h.db.GetNews(id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"news": item})
}

// GetDistricts returns the districts offered by the listing form.
func (h *Handler) GetDistricts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"districts": config.SupportedDistricts})
}
