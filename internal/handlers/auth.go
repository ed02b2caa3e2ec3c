package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eblotter/api/internal/service"
)

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone"`
}

type authResponse struct {
	AccessToken string            `json:"accessToken"`
	Account     principalResponse `json:"account"`
}

type principalResponse struct {
	ID        string `json:"id"`
	Number    string `json:"number"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Status    string `json:"status"`
}

func (h HandlerSet) RegisterAccount(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	sendAuthResponse(c, http.StatusCreated, result)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	sendAuthResponse(c, http.StatusOK, result)
}

func sendAuthResponse(c *gin.Context, status int, result service.AuthResult) {
	c.JSON(status, authResponse{
		AccessToken: result.AccessToken,
		Account: principalResponse{
			ID:        result.Principal.ID,
			Number:    result.Principal.Number,
			Email:     result.Principal.Email,
			FirstName: result.Principal.FirstName,
			LastName:  result.Principal.LastName,
			Role:      string(result.Principal.Role),
			Status:    string(result.Principal.Status),
		},
	})
}

func (h HandlerSet) Me(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     actor.ID,
		"role":   string(actor.Role),
		"status": string(actor.Status),
	})
}
