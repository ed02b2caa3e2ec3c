package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eblotter/api/internal/service"
)

type announcementRequest struct {
	Title     string    `json:"title" binding:"required"`
	Details   string    `json:"details" binding:"required"`
	Date      time.Time `json:"date" binding:"required"`
	StationID string    `json:"stationId"`
}

func (h HandlerSet) CreateAnnouncement(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	announcement, err := h.announcementService.Create(c.Request.Context(), actor, service.AnnouncementInput{
		Title:     req.Title,
		Details:   req.Details,
		Date:      req.Date,
		StationID: req.StationID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"announcement": announcement})
}

func (h HandlerSet) ListAnnouncements(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	announcements, err := h.announcementService.List(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"announcements": announcements})
}

func (h HandlerSet) UpdateAnnouncement(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	announcement, err := h.announcementService.Update(c.Request.Context(), actor, c.Param("id"), service.AnnouncementInput{
		Title:     req.Title,
		Details:   req.Details,
		Date:      req.Date,
		StationID: req.StationID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"announcement": announcement})
}

func (h HandlerSet) DeleteAnnouncement(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.announcementService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
