package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eblotter/api/internal/models"
)

var ErrBlotterNotFound = errors.New("blotter not found")

type BlotterRepository struct {
	pool *pgxpool.Pool
}

func NewBlotterRepository(pool *pgxpool.Pool) *BlotterRepository {
	return &BlotterRepository{pool: pool}
}

const blotterColumns = `id, number, user_id, incident, attachments, assigned_officer_id, station_id, status, created_at, updated_at`

func (r *BlotterRepository) Create(ctx context.Context, blotter models.Blotter) error {
	incident, attachments, err := marshalBlotterDocs(blotter)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO blotters (
			id, number, user_id, incident, attachments, assigned_officer_id, station_id, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, NOW(), NOW()
		)
	`

	_, err = r.pool.Exec(ctx, query,
		blotter.ID,
		blotter.Number,
		blotter.UserID,
		incident,
		attachments,
		blotter.AssignedOfficerID,
		blotter.StationID,
		blotter.Status,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *BlotterRepository) scanBlotter(row pgx.Row) (models.Blotter, error) {
	var (
		blotter         models.Blotter
		incidentRaw     []byte
		attachmentsRaw  []byte
		assignedOfficer *string
		stationID       *string
	)
	if err := row.Scan(
		&blotter.ID,
		&blotter.Number,
		&blotter.UserID,
		&incidentRaw,
		&attachmentsRaw,
		&assignedOfficer,
		&stationID,
		&blotter.Status,
		&blotter.CreatedAt,
		&blotter.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Blotter{}, ErrBlotterNotFound
		}
		return models.Blotter{}, err
	}

	if err := json.Unmarshal(incidentRaw, &blotter.Incident); err != nil {
		return models.Blotter{}, fmt.Errorf("decode incident: %w", err)
	}
	if len(attachmentsRaw) > 0 {
		if err := json.Unmarshal(attachmentsRaw, &blotter.Attachments); err != nil {
			return models.Blotter{}, fmt.Errorf("decode attachments: %w", err)
		}
	}
	if assignedOfficer != nil {
		blotter.AssignedOfficerID = *assignedOfficer
	}
	if stationID != nil {
		blotter.StationID = *stationID
	}
	return blotter, nil
}

func (r *BlotterRepository) GetByID(ctx context.Context, id string) (models.Blotter, error) {
	const query = `SELECT ` + blotterColumns + ` FROM blotters WHERE id = $1`
	return r.scanBlotter(r.pool.QueryRow(ctx, query, id))
}

func (r *BlotterRepository) GetByNumber(ctx context.Context, number string) (models.Blotter, error) {
	const query = `SELECT ` + blotterColumns + ` FROM blotters WHERE number = $1`
	return r.scanBlotter(r.pool.QueryRow(ctx, query, number))
}

func (r *BlotterRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Blotter, error) {
	const query = `
		SELECT ` + blotterColumns + ` FROM blotters
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.list(ctx, query, limit, offset)
}

func (r *BlotterRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Blotter, error) {
	const query = `
		SELECT ` + blotterColumns + ` FROM blotters
		WHERE user_id = $3
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.list(ctx, query, limit, offset, userID)
}

func (r *BlotterRepository) list(ctx context.Context, query string, args ...any) ([]models.Blotter, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blotters []models.Blotter
	for rows.Next() {
		blotter, err := r.scanBlotter(rows)
		if err != nil {
			return nil, err
		}
		blotters = append(blotters, blotter)
	}
	return blotters, rows.Err()
}

// UpdateStatus is a compare-and-set: the write only lands if the stored
// status still equals the one the caller read, so concurrent writers
// cannot move a report backward past each other.
func (r *BlotterRepository) UpdateStatus(ctx context.Context, id string, from, to models.BlotterStatus) error {
	const query = `UPDATE blotters SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3`
	cmd, err := r.pool.Exec(ctx, query, id, to, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		const existsQuery = `SELECT EXISTS (SELECT 1 FROM blotters WHERE id = $1)`
		var exists bool
		if err := r.pool.QueryRow(ctx, existsQuery, id).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrStatusConflict
		}
		return ErrBlotterNotFound
	}
	return nil
}

func (r *BlotterRepository) AssignOfficer(ctx context.Context, id string, officerID string) error {
	const query = `UPDATE blotters SET assigned_officer_id = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, officerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBlotterNotFound
	}
	return nil
}

func (r *BlotterRepository) AppendAttachment(ctx context.Context, id string, attachment models.Attachment) error {
	doc, err := json.Marshal(attachment)
	if err != nil {
		return fmt.Errorf("encode attachment: %w", err)
	}

	const query = `
		UPDATE blotters
		SET attachments = COALESCE(attachments, '[]'::jsonb) || $2::jsonb, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, doc)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBlotterNotFound
	}
	return nil
}

func (r *BlotterRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM blotters WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBlotterNotFound
	}
	return nil
}

func (r *BlotterRepository) CountByStatus(ctx context.Context, status models.BlotterStatus) (int, error) {
	const query = `SELECT COUNT(*) FROM blotters WHERE status = $1`
	var count int
	if err := r.pool.QueryRow(ctx, query, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BlotterRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM blotters WHERE number = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, number).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func marshalBlotterDocs(blotter models.Blotter) ([]byte, []byte, error) {
	incident, err := json.Marshal(blotter.Incident)
	if err != nil {
		return nil, nil, fmt.Errorf("encode incident: %w", err)
	}
	attachments := blotter.Attachments
	if attachments == nil {
		attachments = []models.Attachment{}
	}
	attachmentsDoc, err := json.Marshal(attachments)
	if err != nil {
		return nil, nil, fmt.Errorf("encode attachments: %w", err)
	}
	return incident, attachmentsDoc, nil
}
