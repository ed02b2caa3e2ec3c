package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"eblotter/api/internal/config"
	"eblotter/api/internal/middleware"
	"eblotter/api/internal/models"
	"eblotter/api/internal/repository"
	"eblotter/api/internal/security"
	"eblotter/api/internal/service"
	"eblotter/api/internal/storage"
)

type HandlerSet struct {
	log                 zerolog.Logger
	cfg                 *config.AppConfig
	authService         *service.AuthService
	userService         *service.UserService
	blotterService      *service.BlotterService
	officerService      *service.OfficerService
	stationService      *service.StationService
	announcementService *service.AnnouncementService
	sosService          *service.SOSService
	db                  *pgxpool.Pool
	cache               *redis.Client
	store               *storage.ObjectStore
	blotters            *repository.BlotterRepository
}

// SOSService exposes the emergency-request service for background jobs.
func (h HandlerSet) SOSService() *service.SOSService { return h.sosService }

// BlotterRepo exposes the report repository for background jobs.
func (h HandlerSet) BlotterRepo() *repository.BlotterRepository { return h.blotters }

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	officerRepo := repository.NewOfficerRepository(db)
	blotterRepo := repository.NewBlotterRepository(db)
	stationRepo := repository.NewStationRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	sosRepo := repository.NewSOSRepository(db)

	throttle := service.NewLoginThrottle(cache, cfg.Security.LoginMaxAttempts, cfg.Security.LoginWindow)
	auth := service.NewAuthService(userRepo, officerRepo, throttle, cfg, log)
	users := service.NewUserService(userRepo, log)
	stations := service.NewStationService(stationRepo, officerRepo, log)
	officers := service.NewOfficerService(officerRepo, stationRepo, log)
	blotters := service.NewBlotterService(blotterRepo, officerRepo, store, log)
	announcements := service.NewAnnouncementService(announcementRepo, stationRepo, log)
	sos := service.NewSOSService(sosRepo, stations, log)

	return HandlerSet{
		log:                 log,
		cfg:                 cfg,
		authService:         auth,
		userService:         users,
		blotterService:      blotters,
		officerService:      officers,
		stationService:      stations,
		announcementService: announcements,
		sosService:          sos,
		db:                  db,
		cache:               cache,
		store:               store,
		blotters:            blotterRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", h.RegisterAccount)
		auth.POST("/login", h.Login)

		protected := v1.Group("/auth")
		protected.Use(middleware.Auth(h.cfg, h.authService))
		protected.GET("/me", h.Me)
	}

	authed := middleware.Auth(h.cfg, h.authService)

	users := v1.Group("/users")
	users.Use(authed)
	users.GET("", middleware.RequireRoles(models.RoleAdmin), h.ListUsers)
	users.GET("/:id", h.GetUser)
	users.PUT("/:id", h.UpdateUser)
	users.PUT("/:id/password", h.ChangePassword)
	users.DELETE("/:id", h.DeleteUser)

	blotters := v1.Group("/blotters")
	blotters.Use(authed)
	blotters.POST("", h.SubmitBlotter)
	blotters.GET("", h.ListBlotters)
	blotters.GET("/track/:number", h.TrackBlotter)
	blotters.PATCH("/:id/status", middleware.RequireRoles(models.RoleOfficer, models.RoleAdmin), h.UpdateBlotterStatus)
	blotters.PATCH("/:id/officer", middleware.RequireRoles(models.RoleOfficer, models.RoleAdmin), h.AssignOfficer)
	blotters.POST("/:id/evidence", h.AttachEvidence)
	blotters.DELETE("/:id", h.DeleteBlotter)

	officers := v1.Group("/officers")
	officers.Use(authed)
	officers.GET("/profile", middleware.RequireRoles(models.RoleOfficer), h.OfficerProfile)
	officers.PUT("/profile", middleware.RequireRoles(models.RoleOfficer), h.UpdateOfficerProfile)
	officers.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleOfficer), h.ListOfficers)
	officers.POST("", middleware.RequireRoles(models.RoleAdmin), h.CreateOfficer)
	officers.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), h.UpdateOfficer)
	officers.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), h.DeleteOfficer)

	stations := v1.Group("/stations")
	stations.Use(authed)
	stations.GET("", h.ListStations)
	stations.GET("/:id", h.GetStation)
	stations.POST("", middleware.RequireRoles(models.RoleAdmin), h.CreateStation)

	announcements := v1.Group("/announcements")
	announcements.Use(authed)
	announcements.GET("", h.ListAnnouncements)
	announcements.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleOfficer), h.CreateAnnouncement)
	announcements.PUT("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleOfficer), h.UpdateAnnouncement)
	announcements.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleOfficer), h.DeleteAnnouncement)

	sos := v1.Group("/sos")
	sos.Use(authed)
	sos.POST("", h.SubmitSOS)
	sos.GET("", middleware.RequireRoles(models.RoleOfficer, models.RoleAdmin), h.ListSOS)
	sos.PATCH("/:id/respond", middleware.RequireRoles(models.RoleOfficer, models.RoleAdmin), h.RespondSOS)
}

// respondError maps domain errors onto HTTP statuses in one place.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
	case errors.Is(err, service.ErrTooManyAttempts):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too_many_attempts"})
	case errors.Is(err, security.ErrRoleForbidden),
		errors.Is(err, security.ErrNotOwner),
		errors.Is(err, security.ErrAccountSuspended):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate"})
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrOfficerNotFound),
		errors.Is(err, repository.ErrBlotterNotFound),
		errors.Is(err, repository.ErrStationNotFound),
		errors.Is(err, repository.ErrAnnouncementNotFound),
		errors.Is(err, repository.ErrSOSNotFound),
		errors.Is(err, service.ErrOfficerNotFound),
		errors.Is(err, service.ErrStationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
	}
}

func (h HandlerSet) actor(c *gin.Context) (security.Actor, bool) {
	actor, ok := middleware.Actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return actor, ok
}
