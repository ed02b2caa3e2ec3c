package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eblotter/api/internal/models"
)

// Coordinates are pointers so zero latitude or longitude still binds;
// "required" on a plain float64 would reject points on the equator or
// prime meridian.
type submitSOSRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

func (h HandlerSet) SubmitSOS(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req submitSOSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.sosService.Submit(c.Request.Context(), actor, models.Location{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sos": request})
}

func (h HandlerSet) ListSOS(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	status := models.SOSStatus(c.DefaultQuery("status", string(models.SOSPending)))

	requests, err := h.sosService.List(c.Request.Context(), actor, status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h HandlerSet) RespondSOS(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	request, err := h.sosService.Respond(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sos": request})
}
