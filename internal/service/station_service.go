package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"eblotter/api/internal/ids"
	"eblotter/api/internal/models"
	"eblotter/api/internal/security"
)

type StationService struct {
	stations StationStore
	officers OfficerStore
	log      zerolog.Logger
}

func NewStationService(stations StationStore, officers OfficerStore, log zerolog.Logger) *StationService {
	return &StationService{stations: stations, officers: officers, log: log}
}

type CreateStationInput struct {
	Name        string
	Address     string
	PhoneNumber string
	Landline    string
	Email       string
	Latitude    float64
	Longitude   float64
}

func (s *StationService) Create(ctx context.Context, actor security.Actor, input CreateStationInput) (models.Station, error) {
	if err := security.Authorize(actor, []models.Role{models.RoleAdmin}, ""); err != nil {
		return models.Station{}, err
	}
	if input.Name == "" || input.Address == "" {
		return models.Station{}, fmt.Errorf("%w: station name and address are required", ErrValidation)
	}

	station := models.Station{
		ID:          ids.New(),
		Name:        input.Name,
		Address:     input.Address,
		PhoneNumber: input.PhoneNumber,
		Landline:    input.Landline,
		Email:       input.Email,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
	}
	if err := s.stations.Create(ctx, station); err != nil {
		return models.Station{}, err
	}
	s.log.Info().Str("station_id", station.ID).Str("name", station.Name).Msg("station created")
	return station, nil
}

// StationView couples a station with its officer roster.
type StationView struct {
	Station  models.Station   `json:"station"`
	Officers []models.Officer `json:"officers"`
}

// List is readable by any authenticated account; citizens use it to find
// their nearest station.
func (s *StationService) List(ctx context.Context, actor security.Actor) ([]models.Station, error) {
	if err := security.Authorize(actor, nil, ""); err != nil {
		return nil, err
	}
	return s.stations.List(ctx)
}

func (s *StationService) Get(ctx context.Context, actor security.Actor, id string) (StationView, error) {
	if err := security.Authorize(actor, nil, ""); err != nil {
		return StationView{}, err
	}
	station, err := s.stations.GetByID(ctx, id)
	if err != nil {
		return StationView{}, err
	}
	officers, err := s.officers.ListByStation(ctx, id)
	if err != nil {
		return StationView{}, err
	}
	return StationView{Station: station, Officers: officers}, nil
}

// Nearest returns the station closest to the given coordinates, by
// haversine distance.
func (s *StationService) Nearest(ctx context.Context, location models.Location) (models.Station, error) {
	stations, err := s.stations.List(ctx)
	if err != nil {
		return models.Station{}, err
	}
	if len(stations) == 0 {
		return models.Station{}, ErrStationNotFound
	}

	best := stations[0]
	bestDist := haversineKm(location.Latitude, location.Longitude, best.Latitude, best.Longitude)
	for _, station := range stations[1:] {
		d := haversineKm(location.Latitude, location.Longitude, station.Latitude, station.Longitude)
		if d < bestDist {
			best, bestDist = station, d
		}
	}
	return best, nil
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
