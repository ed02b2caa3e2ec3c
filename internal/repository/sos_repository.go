package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eblotter/api/internal/models"
)

var ErrSOSNotFound = errors.New("sos request not found")

const sosColumns = `id, number, user_id, nearest_station_id, latitude, longitude, status, created_at, updated_at`

type SOSRepository struct {
	pool *pgxpool.Pool
}

func NewSOSRepository(pool *pgxpool.Pool) *SOSRepository {
	return &SOSRepository{pool: pool}
}

func (r *SOSRepository) Create(ctx context.Context, request models.SOSRequest) error {
	const query = `
		INSERT INTO sos_requests (
			id, number, user_id, nearest_station_id, latitude, longitude, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		request.ID,
		request.Number,
		request.UserID,
		request.NearestStationID,
		request.Location.Latitude,
		request.Location.Longitude,
		request.Status,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *SOSRepository) scanRequest(row pgx.Row) (models.SOSRequest, error) {
	var request models.SOSRequest
	if err := row.Scan(
		&request.ID,
		&request.Number,
		&request.UserID,
		&request.NearestStationID,
		&request.Location.Latitude,
		&request.Location.Longitude,
		&request.Status,
		&request.CreatedAt,
		&request.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.SOSRequest{}, ErrSOSNotFound
		}
		return models.SOSRequest{}, err
	}
	return request, nil
}

func (r *SOSRepository) GetByID(ctx context.Context, id string) (models.SOSRequest, error) {
	const query = `SELECT ` + sosColumns + ` FROM sos_requests WHERE id = $1`
	return r.scanRequest(r.pool.QueryRow(ctx, query, id))
}

func (r *SOSRepository) List(ctx context.Context, status models.SOSStatus) ([]models.SOSRequest, error) {
	query := `SELECT ` + sosColumns + ` FROM sos_requests ORDER BY created_at DESC`
	args := []any{}
	if status != "" {
		query = `SELECT ` + sosColumns + ` FROM sos_requests WHERE status = $1 ORDER BY created_at DESC`
		args = append(args, status)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.SOSRequest
	for rows.Next() {
		request, err := r.scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

// UpdateStatus is a compare-and-set so two responders cannot both claim
// the same pending request.
func (r *SOSRepository) UpdateStatus(ctx context.Context, id string, from, to models.SOSStatus) error {
	const query = `UPDATE sos_requests SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3`
	cmd, err := r.pool.Exec(ctx, query, id, to, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		const existsQuery = `SELECT EXISTS (SELECT 1 FROM sos_requests WHERE id = $1)`
		var exists bool
		if err := r.pool.QueryRow(ctx, existsQuery, id).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrStatusConflict
		}
		return ErrSOSNotFound
	}
	return nil
}

// ExpireStale flips pending requests older than the cutoff to Expired and
// returns how many were touched. Run by the maintenance scheduler.
func (r *SOSRepository) ExpireStale(ctx context.Context, olderThan time.Time) (int64, error) {
	const query = `
		UPDATE sos_requests
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND created_at < $3
	`
	cmd, err := r.pool.Exec(ctx, query, models.SOSExpired, models.SOSPending, olderThan)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *SOSRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM sos_requests WHERE number = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, number).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
