package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"eblotter/api/internal/models"
	"eblotter/api/internal/service"
)

type submitBlotterRequest struct {
	UserID       string           `json:"userId"` // admin only, files on behalf of a citizen
	IncidentType string           `json:"incidentType" binding:"required"`
	Date         time.Time        `json:"date" binding:"required"`
	Description  string           `json:"description" binding:"required"`
	Location     *models.Location `json:"location"`
	StationID    string           `json:"stationId"`
}

type blotterResponse struct {
	ID                string              `json:"id"`
	Number            string              `json:"blotterNumber"`
	UserID            string              `json:"userId"`
	IncidentType      string              `json:"incidentType"`
	Date              time.Time           `json:"date"`
	Description       string              `json:"description"`
	Location          *models.Location    `json:"location,omitempty"`
	Status            string              `json:"status"`
	AssignedOfficerID string              `json:"assignedOfficerId,omitempty"`
	StationID         string              `json:"stationId,omitempty"`
	Attachments       []models.Attachment `json:"attachments,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

func toBlotterResponse(b models.Blotter) blotterResponse {
	return blotterResponse{
		ID:                b.ID,
		Number:            b.Number,
		UserID:            b.UserID,
		IncidentType:      string(b.Incident.Type),
		Date:              b.Incident.Date,
		Description:       b.Incident.Description,
		Location:          b.Incident.Location,
		Status:            string(b.Status),
		AssignedOfficerID: b.AssignedOfficerID,
		StationID:         b.StationID,
		Attachments:       b.Attachments,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

func (h HandlerSet) SubmitBlotter(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req submitBlotterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	blotter, err := h.blotterService.Submit(c.Request.Context(), actor, service.SubmitBlotterInput{
		UserID: req.UserID,
		Incident: models.Incident{
			Type:        models.IncidentType(req.IncidentType),
			Date:        req.Date,
			Location:    req.Location,
			Description: req.Description,
		},
		StationID: req.StationID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"blotter": toBlotterResponse(blotter)})
}

func (h HandlerSet) ListBlotters(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	blotters, err := h.blotterService.List(c.Request.Context(), actor, limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]blotterResponse, 0, len(blotters))
	for _, b := range blotters {
		resp = append(resp, toBlotterResponse(b))
	}

	c.JSON(http.StatusOK, gin.H{"blotters": resp})
}

func (h HandlerSet) TrackBlotter(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	view, err := h.blotterService.Track(c.Request.Context(), actor, c.Param("number"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) UpdateBlotterStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	blotter, err := h.blotterService.UpdateStatus(c.Request.Context(), actor, c.Param("id"), models.BlotterStatus(req.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"blotter": toBlotterResponse(blotter)})
}

type assignOfficerRequest struct {
	OfficerID string `json:"officerId" binding:"required"`
}

func (h HandlerSet) AssignOfficer(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req assignOfficerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	blotter, err := h.blotterService.AssignOfficer(c.Request.Context(), actor, c.Param("id"), req.OfficerID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"blotter": toBlotterResponse(blotter)})
}

func (h HandlerSet) AttachEvidence(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable_file"})
		return
	}

	attachment, err := h.blotterService.AttachEvidence(c.Request.Context(), actor, c.Param("id"), data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"attachment": attachment})
}

func (h HandlerSet) DeleteBlotter(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.blotterService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
