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

type SOSService struct {
	requests SOSStore
	stations *StationService
	numbers  *ids.Generator
	log      zerolog.Logger
}

func NewSOSService(requests SOSStore, stations *StationService, log zerolog.Logger) *SOSService {
	return &SOSService{
		requests: requests,
		stations: stations,
		numbers:  ids.NewGenerator(ids.PrefixSOS, requests),
		log:      log,
	}
}

// Submit files an emergency request and routes it to the station nearest
// to the caller's position.
func (s *SOSService) Submit(ctx context.Context, actor security.Actor, location models.Location) (models.SOSRequest, error) {
	if err := security.Authorize(actor, []models.Role{models.RoleUser, models.RoleAdmin}, ""); err != nil {
		return models.SOSRequest{}, err
	}
	if location.Latitude == 0 && location.Longitude == 0 {
		return models.SOSRequest{}, fmt.Errorf("%w: location required", ErrValidation)
	}

	nearest, err := s.stations.Nearest(ctx, location)
	if err != nil && !errors.Is(err, ErrStationNotFound) {
		return models.SOSRequest{}, err
	}

	request := models.SOSRequest{
		ID:               ids.New(),
		UserID:           actor.ID,
		NearestStationID: nearest.ID,
		Location:         location,
		Status:           models.SOSPending,
	}

	for attempt := 0; attempt < 2; attempt++ {
		number, err := s.numbers.Generate(ctx)
		if err != nil {
			return models.SOSRequest{}, err
		}
		request.Number = number

		err = s.requests.Create(ctx, request)
		if err == nil {
			s.log.Warn().
				Str("number", request.Number).
				Str("station_id", request.NearestStationID).
				Float64("lat", location.Latitude).
				Float64("lng", location.Longitude).
				Msg("sos request received")
			return request, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return models.SOSRequest{}, err
		}
	}
	return models.SOSRequest{}, repository.ErrDuplicate
}

// List shows pending (or filtered) requests to responders.
func (s *SOSService) List(ctx context.Context, actor security.Actor, status models.SOSStatus) ([]models.SOSRequest, error) {
	if err := security.Authorize(actor, []models.Role{models.RoleOfficer, models.RoleAdmin}, ""); err != nil {
		return nil, err
	}
	return s.requests.List(ctx, status)
}

// Respond marks a pending request as handled.
func (s *SOSService) Respond(ctx context.Context, actor security.Actor, id string) (models.SOSRequest, error) {
	if err := security.Authorize(actor, []models.Role{models.RoleOfficer, models.RoleAdmin}, ""); err != nil {
		return models.SOSRequest{}, err
	}

	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return models.SOSRequest{}, err
	}
	if request.Status != models.SOSPending {
		return models.SOSRequest{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, request.Status, models.SOSResponded)
	}

	if err := s.requests.UpdateStatus(ctx, id, models.SOSPending, models.SOSResponded); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return models.SOSRequest{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, request.Status, models.SOSResponded)
		}
		return models.SOSRequest{}, err
	}
	request.Status = models.SOSResponded
	request.UpdatedAt = time.Now()
	return request, nil
}

// ExpireStale flips pending requests older than the cutoff to Expired.
// Run by the scheduler, not exposed over HTTP.
func (s *SOSService) ExpireStale(ctx context.Context, staleAfter time.Duration) (int64, error) {
	expired, err := s.requests.ExpireStale(ctx, time.Now().Add(-staleAfter))
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		s.log.Info().Int64("count", expired).Msg("stale sos requests expired")
	}
	return expired, nil
}
