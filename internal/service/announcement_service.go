package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"eblotter/api/internal/ids"
	"eblotter/api/internal/models"
	"eblotter/api/internal/repository"
	"eblotter/api/internal/security"
)

type AnnouncementService struct {
	announcements AnnouncementStore
	stations      StationStore
	numbers       *ids.Generator
	log           zerolog.Logger
}

func NewAnnouncementService(announcements AnnouncementStore, stations StationStore, log zerolog.Logger) *AnnouncementService {
	return &AnnouncementService{
		announcements: announcements,
		stations:      stations,
		numbers:       ids.NewGenerator(ids.PrefixAnnouncement, announcements),
		log:           log,
	}
}

type AnnouncementInput struct {
	Title     string
	Details   string
	Date      time.Time
	StationID string // empty means system-wide
}

func (s *AnnouncementService) Create(ctx context.Context, actor security.Actor, input AnnouncementInput) (models.Announcement, error) {
	if err := security.Authorize(actor, []models.Role{models.RoleAdmin, models.RoleOfficer}, ""); err != nil {
		return models.Announcement{}, err
	}
	if err := s.validate(ctx, input); err != nil {
		return models.Announcement{}, err
	}

	announcement := models.Announcement{
		ID:        ids.New(),
		StationID: input.StationID,
		Title:     input.Title,
		Details:   input.Details,
		Date:      input.Date,
	}

	for attempt := 0; attempt < 2; attempt++ {
		number, err := s.numbers.Generate(ctx)
		if err != nil {
			return models.Announcement{}, err
		}
		announcement.Number = number

		err = s.announcements.Create(ctx, announcement)
		if err == nil {
			s.log.Info().Str("number", announcement.Number).Msg("announcement published")
			return announcement, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return models.Announcement{}, err
		}
	}
	return models.Announcement{}, repository.ErrDuplicate
}

func (s *AnnouncementService) validate(ctx context.Context, input AnnouncementInput) error {
	if input.Title == "" || input.Details == "" {
		return fmt.Errorf("%w: title and details are required", ErrValidation)
	}
	if input.Date.IsZero() {
		return fmt.Errorf("%w: announcement date required", ErrValidation)
	}
	if input.StationID != "" {
		if _, err := s.stations.GetByID(ctx, input.StationID); err != nil {
			if errors.Is(err, repository.ErrStationNotFound) {
				return ErrStationNotFound
			}
			return err
		}
	}
	return nil
}

// List is public to any authenticated account.
func (s *AnnouncementService) List(ctx context.Context, actor security.Actor) ([]models.Announcement, error) {
	if err := security.Authorize(actor, nil, ""); err != nil {
		return nil, err
	}
	return s.announcements.List(ctx)
}

func (s *AnnouncementService) Update(ctx context.Context, actor security.Actor, id string, input AnnouncementInput) (models.Announcement, error) {
	if err := security.Authorize(actor, []models.Role{models.RoleAdmin, models.RoleOfficer}, ""); err != nil {
		return models.Announcement{}, err
	}
	if err := s.validate(ctx, input); err != nil {
		return models.Announcement{}, err
	}

	announcement, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		return models.Announcement{}, err
	}

	announcement.Title = input.Title
	announcement.Details = input.Details
	announcement.Date = input.Date
	announcement.StationID = input.StationID

	if err := s.announcements.Update(ctx, announcement); err != nil {
		return models.Announcement{}, err
	}
	return announcement, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, actor security.Actor, id string) error {
	if err := security.Authorize(actor, []models.Role{models.RoleAdmin, models.RoleOfficer}, ""); err != nil {
		return err
	}
	return s.announcements.Delete(ctx, id)
}
