package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zhilfond/server/internal/models"
)

type moderateRequest struct {
	Action string `json:"action" binding:"required"`
}

// AdminGetListings returns listings in any status for the moderation
// queue; ?status narrows it.
func (h *Handler) AdminGetListings(c *gin.Context) {
	filter := models.ListingFilter{Status: c.Query("status")}

	result, err := h.listings.List(filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": result, "total": len(result)})
}

// ModerateListing applies one moderation action to a listing.
func (h *Handler) ModerateListing(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req moderateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action is required"})
		return
	}

	if err := h.listings.Moderate(id, req.Action); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing " + req.Action + " applied"})
}

// AdminDeleteListing removes a listing and its images permanently.
func (h *Handler) AdminDeleteListing(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.listings.Delete(id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted"})
}

type newsRequest struct {
	Title       string `json:"title" binding:"required"`
	Summary     string `json:"summary"`
	Body        string `json:"body"`
	IsPublished *bool  `json:"is_published"`
}

func (h *Handler) AdminCreateNews(c *gin.Context) {
	var req newsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	item := &models.News{
		Title:       req.Title,
		Summary:     req.Summary,
		Body:        req.Body,
		IsPublished: req.IsPublished == nil || *req.IsPublished,
	}
	if err := h.db.CreateNews(item); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"news": item})
}

func (h *Handler) AdminUpdateNews(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req newsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	item, err := h.db.GetNews(id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	item.Title = req.Title
	item.Summary = req.Summary
	item.Body = req.Body
	if req.IsPublished != nil {
		item.IsPublished = *req.IsPublished
	}
	if err := h.db.UpdateNews(item); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"news": item})
}

func (h *Handler) AdminDeleteNews(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.db.DeleteNews(id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "News deleted"})
}
