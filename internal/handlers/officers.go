package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eblotter/api/internal/models"
	"eblotter/api/internal/service"
)

type officerResponse struct {
	ID           string `json:"id"`
	Number       string `json:"number"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Rank         string `json:"rank"`
	StationID    string `json:"stationId"`
	MobileNumber string `json:"mobileNumber"`
	RadioID      string `json:"radioId"`
	Status       string `json:"status"`
}

func toOfficerResponse(officer models.Officer) officerResponse {
	return officerResponse{
		ID:           officer.ID,
		Number:       officer.Number,
		Email:        officer.Email,
		FirstName:    officer.FirstName,
		LastName:     officer.LastName,
		Rank:         officer.Rank,
		StationID:    officer.StationID,
		MobileNumber: officer.MobileNumber,
		RadioID:      officer.RadioID,
		Status:       string(officer.Status),
	}
}

type createOfficerRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	Rank         string `json:"rank"`
	StationID    string `json:"stationId" binding:"required"`
	MobileNumber string `json:"mobileNumber" binding:"required"`
	RadioID      string `json:"radioId"`
}

func (h HandlerSet) CreateOfficer(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req createOfficerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	officer, err := h.officerService.Create(c.Request.Context(), actor, service.CreateOfficerInput{
		Email:        req.Email,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Rank:         req.Rank,
		StationID:    req.StationID,
		MobileNumber: req.MobileNumber,
		RadioID:      req.RadioID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"officer": toOfficerResponse(officer)})
}

func (h HandlerSet) ListOfficers(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	officers, err := h.officerService.List(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]officerResponse, 0, len(officers))
	for _, officer := range officers {
		resp = append(resp, toOfficerResponse(officer))
	}

	c.JSON(http.StatusOK, gin.H{"officers": resp})
}

type updateOfficerRequest struct {
	Email        string `json:"email" binding:"required,email"`
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	Rank         string `json:"rank"`
	StationID    string `json:"stationId" binding:"required"`
	MobileNumber string `json:"mobileNumber"`
	RadioID      string `json:"radioId"`
	Status       string `json:"status"`
}

func (h HandlerSet) UpdateOfficer(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req updateOfficerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	officer, err := h.officerService.Update(c.Request.Context(), actor, c.Param("id"), service.UpdateOfficerInput{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Rank:         req.Rank,
		StationID:    req.StationID,
		MobileNumber: req.MobileNumber,
		RadioID:      req.RadioID,
		Status:       models.AccountStatus(req.Status),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"officer": toOfficerResponse(officer)})
}

func (h HandlerSet) DeleteOfficer(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.officerService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h HandlerSet) OfficerProfile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	officer, err := h.officerService.Profile(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"officer": toOfficerResponse(officer)})
}

type updateProfileRequest struct {
	Email        string `json:"email" binding:"required,email"`
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	MobileNumber string `json:"mobileNumber"`
	RadioID      string `json:"radioId"`
}

func (h HandlerSet) UpdateOfficerProfile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	officer, err := h.officerService.UpdateProfile(c.Request.Context(), actor, service.UpdateProfileInput{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MobileNumber: req.MobileNumber,
		RadioID:      req.RadioID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"officer": toOfficerResponse(officer)})
}
