package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"eblotter/api/internal/ids"
	"eblotter/api/internal/models"
	"eblotter/api/internal/repository"
	"eblotter/api/internal/security"
)

type OfficerService struct {
	officers OfficerStore
	stations StationStore
	numbers  *ids.Generator
	log      zerolog.Logger
}

func NewOfficerService(officers OfficerStore, stations StationStore, log zerolog.Logger) *OfficerService {
	return &OfficerService{
		officers: officers,
		stations: stations,
		numbers:  ids.NewGenerator(ids.PrefixOfficer, officers),
		log:      log,
	}
}

type CreateOfficerInput struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	Rank         string
	StationID    string
	MobileNumber string
	RadioID      string
}

func (s *OfficerService) Create(ctx context.Context, actor security.Actor, input CreateOfficerInput) (models.Officer, error) {
	if err := security.Authorize(actor, []models.Role{models.RoleAdmin}, ""); err != nil {
		return models.Officer{}, err
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.FirstName == "" || input.LastName == "" || input.StationID == "" || input.MobileNumber == "" {
		return models.Officer{}, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if !emailPattern.MatchString(input.Email) {
		return models.Officer{}, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if len(input.Password) < 6 {
		return models.Officer{}, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	if _, err := s.stations.GetByID(ctx, input.StationID); err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return models.Officer{}, ErrStationNotFound
		}
		return models.Officer{}, err
	}

	if _, err := s.officers.FindByEmail(ctx, input.Email); err == nil {
		return models.Officer{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrOfficerNotFound) {
		return models.Officer{}, err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.Officer{}, err
	}

	officer := models.Officer{
		ID:           ids.New(),
		Email:        input.Email,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Rank:         input.Rank,
		StationID:    input.StationID,
		MobileNumber: input.MobileNumber,
		RadioID:      input.RadioID,
		Status:       models.AccountActive,
	}

	for attempt := 0; attempt < 2; attempt++ {
		number, err := s.numbers.Generate(ctx)
		if err != nil {
			return models.Officer{}, err
		}
		officer.Number = number

		err = s.officers.Create(ctx, officer)
		if err == nil {
			s.log.Info().Str("number", officer.Number).Str("station_id", officer.StationID).Msg("officer created")
			return officer, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return models.Officer{}, err
		}
		if _, lookupErr := s.officers.FindByEmail(ctx, officer.Email); lookupErr == nil {
			return models.Officer{}, ErrEmailTaken
		}
	}
	return models.Officer{}, repository.ErrDuplicate
}

func (s *OfficerService) List(ctx context.Context, actor security.Actor) ([]models.Officer, error) {
	if err := security.Authorize(actor, []models.Role{models.RoleAdmin, models.RoleOfficer}, ""); err != nil {
		return nil, err
	}
	return s.officers.List(ctx)
}

type UpdateOfficerInput struct {
	Email        string
	FirstName    string
	LastName     string
	Rank         string
	StationID    string
	MobileNumber string
	RadioID      string
	Status       models.AccountStatus
}

func (s *OfficerService) Update(ctx context.Context, actor security.Actor, id string, input UpdateOfficerInput) (models.Officer, error) {
	if err := security.Authorize(actor, []models.Role{models.RoleAdmin}, ""); err != nil {
		return models.Officer{}, err
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.FirstName == "" || input.LastName == "" || input.StationID == "" {
		return models.Officer{}, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if !emailPattern.MatchString(input.Email) {
		return models.Officer{}, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if input.Status != "" && !input.Status.Valid() {
		return models.Officer{}, fmt.Errorf("%w: unknown account status %q", ErrValidation, input.Status)
	}

	officer, err := s.officers.GetByID(ctx, id)
	if err != nil {
		return models.Officer{}, err
	}

	officer.Email = input.Email
	officer.FirstName = input.FirstName
	officer.LastName = input.LastName
	officer.Rank = input.Rank
	officer.StationID = input.StationID
	officer.MobileNumber = input.MobileNumber
	officer.RadioID = input.RadioID
	if input.Status != "" {
		officer.Status = input.Status
	}

	if err := s.officers.Update(ctx, officer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.Officer{}, ErrEmailTaken
		}
		return models.Officer{}, err
	}
	return officer, nil
}

func (s *OfficerService) Delete(ctx context.Context, actor security.Actor, id string) error {
	if err := security.Authorize(actor, []models.Role{models.RoleAdmin}, ""); err != nil {
		return err
	}
	return s.officers.Delete(ctx, id)
}

// Profile returns the officer's own record.
func (s *OfficerService) Profile(ctx context.Context, actor security.Actor) (models.Officer, error) {
	if err := security.Authorize(actor, []models.Role{models.RoleOfficer}, ""); err != nil {
		return models.Officer{}, err
	}
	return s.officers.GetByID(ctx, actor.ID)
}

type UpdateProfileInput struct {
	Email        string
	FirstName    string
	LastName     string
	MobileNumber string
	RadioID      string
}

// UpdateProfile lets an officer edit their own contact details. Rank,
// station and status stay admin-controlled.
func (s *OfficerService) UpdateProfile(ctx context.Context, actor security.Actor, input UpdateProfileInput) (models.Officer, error) {
	if err := security.Authorize(actor, []models.Role{models.RoleOfficer}, ""); err != nil {
		return models.Officer{}, err
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.FirstName == "" || input.LastName == "" {
		return models.Officer{}, fmt.Errorf("%w: first name, last name and email are required", ErrValidation)
	}
	if !emailPattern.MatchString(input.Email) {
		return models.Officer{}, fmt.Errorf("%w: invalid email format", ErrValidation)
	}

	officer, err := s.officers.GetByID(ctx, actor.ID)
	if err != nil {
		return models.Officer{}, err
	}

	officer.Email = input.Email
	officer.FirstName = input.FirstName
	officer.LastName = input.LastName
	if input.MobileNumber != "" {
		officer.MobileNumber = input.MobileNumber
	}
	if input.RadioID != "" {
		officer.RadioID = input.RadioID
	}

	if err := s.officers.Update(ctx, officer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.Officer{}, ErrEmailTaken
		}
		return models.Officer{}, err
	}
	return officer, nil
}
