package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eblotter/api/internal/models"
)

var ErrStationNotFound = errors.New("station not found")

const stationColumns = `id, name, address, phone_number, landline, email, latitude, longitude, created_at, updated_at`

type StationRepository struct {
	pool *pgxpool.Pool
}

func NewStationRepository(pool *pgxpool.Pool) *StationRepository {
	return &StationRepository{pool: pool}
}

func (r *StationRepository) Create(ctx context.Context, station models.Station) error {
	const query = `
		INSERT INTO stations (
			id, name, address, phone_number, landline, email, latitude, longitude, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		station.ID,
		station.Name,
		station.Address,
		station.PhoneNumber,
		station.Landline,
		station.Email,
		station.Latitude,
		station.Longitude,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *StationRepository) scanStation(row pgx.Row) (models.Station, error) {
	var station models.Station
	if err := row.Scan(
		&station.ID,
		&station.Name,
		&station.Address,
		&station.PhoneNumber,
		&station.Landline,
		&station.Email,
		&station.Latitude,
		&station.Longitude,
		&station.CreatedAt,
		&station.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Station{}, ErrStationNotFound
		}
		return models.Station{}, err
	}
	return station, nil
}

func (r *StationRepository) GetByID(ctx context.Context, id string) (models.Station, error) {
	const query = `SELECT ` + stationColumns + ` FROM stations WHERE id = $1`
	return r.scanStation(r.pool.QueryRow(ctx, query, id))
}

func (r *StationRepository) List(ctx context.Context) ([]models.Station, error) {
	const query = `SELECT ` + stationColumns + ` FROM stations ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		station, err := r.scanStation(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, station)
	}
	return stations, rows.Err()
}
