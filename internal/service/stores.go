package service

import (
	"context"
	"time"

	"eblotter/api/internal/models"
)

// Store interfaces are defined where they are consumed so services can be
// exercised against in-memory fakes. The pgx repositories satisfy them.

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, user models.User) error
	UpdatePassword(ctx context.Context, id string, passwordHash []byte) error
	Delete(ctx context.Context, id string) error
	NumberExists(ctx context.Context, number string) (bool, error)
}

type OfficerStore interface {
	Create(ctx context.Context, officer models.Officer) error
	GetByID(ctx context.Context, id string) (models.Officer, error)
	FindByEmail(ctx context.Context, email string) (models.Officer, error)
	List(ctx context.Context) ([]models.Officer, error)
	ListByStation(ctx context.Context, stationID string) ([]models.Officer, error)
	Update(ctx context.Context, officer models.Officer) error
	Delete(ctx context.Context, id string) error
	NumberExists(ctx context.Context, number string) (bool, error)
}

type StationStore interface {
	Create(ctx context.Context, station models.Station) error
	GetByID(ctx context.Context, id string) (models.Station, error)
	List(ctx context.Context) ([]models.Station, error)
}

type BlotterStore interface {
	Create(ctx context.Context, blotter models.Blotter) error
	GetByID(ctx context.Context, id string) (models.Blotter, error)
	GetByNumber(ctx context.Context, number string) (models.Blotter, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Blotter, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Blotter, error)
	UpdateStatus(ctx context.Context, id string, from, to models.BlotterStatus) error
	AssignOfficer(ctx context.Context, id string, officerID string) error
	AppendAttachment(ctx context.Context, id string, attachment models.Attachment) error
	Delete(ctx context.Context, id string) error
	NumberExists(ctx context.Context, number string) (bool, error)
}

type AnnouncementStore interface {
	Create(ctx context.Context, announcement models.Announcement) error
	GetByID(ctx context.Context, id string) (models.Announcement, error)
	List(ctx context.Context) ([]models.Announcement, error)
	Update(ctx context.Context, announcement models.Announcement) error
	Delete(ctx context.Context, id string) error
	NumberExists(ctx context.Context, number string) (bool, error)
}

type SOSStore interface {
	Create(ctx context.Context, request models.SOSRequest) error
	GetByID(ctx context.Context, id string) (models.SOSRequest, error)
	List(ctx context.Context, status models.SOSStatus) ([]models.SOSRequest, error)
	UpdateStatus(ctx context.Context, id string, from, to models.SOSStatus) error
	ExpireStale(ctx context.Context, olderThan time.Time) (int64, error)
	NumberExists(ctx context.Context, number string) (bool, error)
}
