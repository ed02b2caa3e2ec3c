package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eblotter/api/internal/models"
)

var ErrOfficerNotFound = errors.New("officer not found")

const officerColumns = `id, number, email, password_hash, first_name, last_name, rank, station_id, mobile_number, radio_id, status, created_at, updated_at`

type OfficerRepository struct {
	pool *pgxpool.Pool
}

func NewOfficerRepository(pool *pgxpool.Pool) *OfficerRepository {
	return &OfficerRepository{pool: pool}
}

func (r *OfficerRepository) Create(ctx context.Context, officer models.Officer) error {
	const query = `
		INSERT INTO officers (
			id, number, email, password_hash, first_name, last_name, rank, station_id, mobile_number, radio_id, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		officer.ID,
		officer.Number,
		officer.Email,
		officer.PasswordHash,
		officer.FirstName,
		officer.LastName,
		officer.Rank,
		officer.StationID,
		officer.MobileNumber,
		officer.RadioID,
		officer.Status,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *OfficerRepository) scanOfficer(row pgx.Row) (models.Officer, error) {
	var officer models.Officer
	if err := row.Scan(
		&officer.ID,
		&officer.Number,
		&officer.Email,
		&officer.PasswordHash,
		&officer.FirstName,
		&officer.LastName,
		&officer.Rank,
		&officer.StationID,
		&officer.MobileNumber,
		&officer.RadioID,
		&officer.Status,
		&officer.CreatedAt,
		&officer.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Officer{}, ErrOfficerNotFound
		}
		return models.Officer{}, err
	}
	return officer, nil
}

func (r *OfficerRepository) GetByID(ctx context.Context, id string) (models.Officer, error) {
	const query = `SELECT ` + officerColumns + ` FROM officers WHERE id = $1`
	return r.scanOfficer(r.pool.QueryRow(ctx, query, id))
}

func (r *OfficerRepository) FindByEmail(ctx context.Context, email string) (models.Officer, error) {
	const query = `SELECT ` + officerColumns + ` FROM officers WHERE email = $1`
	return r.scanOfficer(r.pool.QueryRow(ctx, query, email))
}

func (r *OfficerRepository) List(ctx context.Context) ([]models.Officer, error) {
	const query = `SELECT ` + officerColumns + ` FROM officers ORDER BY last_name, first_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var officers []models.Officer
	for rows.Next() {
		officer, err := r.scanOfficer(rows)
		if err != nil {
			return nil, err
		}
		officers = append(officers, officer)
	}
	return officers, rows.Err()
}

func (r *OfficerRepository) ListByStation(ctx context.Context, stationID string) ([]models.Officer, error) {
	const query = `SELECT ` + officerColumns + ` FROM officers WHERE station_id = $1 ORDER BY last_name, first_name`

	rows, err := r.pool.Query(ctx, query, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var officers []models.Officer
	for rows.Next() {
		officer, err := r.scanOfficer(rows)
		if err != nil {
			return nil, err
		}
		officers = append(officers, officer)
	}
	return officers, rows.Err()
}

func (r *OfficerRepository) Update(ctx context.Context, officer models.Officer) error {
	const query = `
		UPDATE officers
		SET email = $2, first_name = $3, last_name = $4, rank = $5, station_id = $6,
		    mobile_number = $7, radio_id = $8, status = $9, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		officer.ID,
		officer.Email,
		officer.FirstName,
		officer.LastName,
		officer.Rank,
		officer.StationID,
		officer.MobileNumber,
		officer.RadioID,
		officer.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOfficerNotFound
	}
	return nil
}

func (r *OfficerRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM officers WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOfficerNotFound
	}
	return nil
}

func (r *OfficerRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM officers WHERE number = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, number).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
