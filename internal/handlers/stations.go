package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eblotter/api/internal/service"
)

type createStationRequest struct {
	Name        string  `json:"name" binding:"required"`
	Address     string  `json:"address" binding:"required"`
	PhoneNumber string  `json:"phoneNumber"`
	Landline    string  `json:"landline"`
	Email       string  `json:"email"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func (h HandlerSet) CreateStation(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req createStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	station, err := h.stationService.Create(c.Request.Context(), actor, service.CreateStationInput{
		Name:        req.Name,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Landline:    req.Landline,
		Email:       req.Email,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"station": station})
}

func (h HandlerSet) ListStations(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	stations, err := h.stationService.List(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stations": stations})
}

func (h HandlerSet) GetStation(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	view, err := h.stationService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
