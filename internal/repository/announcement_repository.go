package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eblotter/api/internal/models"
)

var ErrAnnouncementNotFound = errors.New("announcement not found")

const announcementColumns = `id, number, station_id, title, details, date, created_at, updated_at`

type AnnouncementRepository struct {
	pool *pgxpool.Pool
}

func NewAnnouncementRepository(pool *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{pool: pool}
}

func (r *AnnouncementRepository) Create(ctx context.Context, announcement models.Announcement) error {
	const query = `
		INSERT INTO announcements (
			id, number, station_id, title, details, date, created_at, updated_at
		) VALUES (
			$1, $2, NULLIF($3, ''), $4, $5, $6, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		announcement.ID,
		announcement.Number,
		announcement.StationID,
		announcement.Title,
		announcement.Details,
		announcement.Date,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *AnnouncementRepository) scanAnnouncement(row pgx.Row) (models.Announcement, error) {
	var (
		announcement models.Announcement
		stationID    *string
	)
	if err := row.Scan(
		&announcement.ID,
		&announcement.Number,
		&stationID,
		&announcement.Title,
		&announcement.Details,
		&announcement.Date,
		&announcement.CreatedAt,
		&announcement.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Announcement{}, ErrAnnouncementNotFound
		}
		return models.Announcement{}, err
	}
	if stationID != nil {
		announcement.StationID = *stationID
	}
	return announcement, nil
}

func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (models.Announcement, error) {
	const query = `SELECT ` + announcementColumns + ` FROM announcements WHERE id = $1`
	return r.scanAnnouncement(r.pool.QueryRow(ctx, query, id))
}

func (r *AnnouncementRepository) List(ctx context.Context) ([]models.Announcement, error) {
	const query = `SELECT ` + announcementColumns + ` FROM announcements ORDER BY date DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var announcements []models.Announcement
	for rows.Next() {
		announcement, err := r.scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		announcements = append(announcements, announcement)
	}
	return announcements, rows.Err()
}

func (r *AnnouncementRepository) Update(ctx context.Context, announcement models.Announcement) error {
	const query = `
		UPDATE announcements
		SET station_id = NULLIF($2, ''), title = $3, details = $4, date = $5, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		announcement.ID,
		announcement.StationID,
		announcement.Title,
		announcement.Details,
		announcement.Date,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAnnouncementNotFound
	}
	return nil
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM announcements WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAnnouncementNotFound
	}
	return nil
}

func (r *AnnouncementRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM announcements WHERE number = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, number).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
