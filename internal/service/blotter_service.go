package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/rs/zerolog"

	"eblotter/api/internal/ids"
	"eblotter/api/internal/media/sniffer"
	"eblotter/api/internal/models"
	"eblotter/api/internal/repository"
	"eblotter/api/internal/security"
)

const (
	defaultListLimit = 50
	presignExpiry    = 15 * time.Minute
	maxEvidenceBytes = 10 << 20
)

// EvidenceStore is the object-storage boundary for attachment files.
type EvidenceStore interface {
	PutEvidence(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	PresignEvidenceURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}

// BlotterService owns the report lifecycle: submission, status
// progression, officer assignment, tracking and deletion.
type BlotterService struct {
	blotters BlotterStore
	officers OfficerStore
	evidence EvidenceStore
	numbers  *ids.Generator
	log      zerolog.Logger
}

func NewBlotterService(
	blotters BlotterStore,
	officers OfficerStore,
	evidence EvidenceStore,
	log zerolog.Logger,
) *BlotterService {
	return &BlotterService{
		blotters: blotters,
		officers: officers,
		evidence: evidence,
		numbers:  ids.NewGenerator(ids.PrefixBlotter, blotters),
		log:      log,
	}
}

type SubmitBlotterInput struct {
	UserID    string // admin may submit on behalf of a user
	Incident  models.Incident
	StationID string
}

// Submit files a new report. Status always starts at Pending; only an
// admin may set the owner to someone other than themselves.
func (s *BlotterService) Submit(ctx context.Context, actor security.Actor, input SubmitBlotterInput) (models.Blotter, error) {
	if err := security.Authorize(actor, []models.Role{models.RoleUser, models.RoleAdmin}, ""); err != nil {
		return models.Blotter{}, err
	}

	ownerID := actor.ID
	if actor.IsAdmin() && input.UserID != "" {
		ownerID = input.UserID
	}

	if !input.Incident.Type.Valid() {
		return models.Blotter{}, fmt.Errorf("%w: unknown incident type %q", ErrValidation, input.Incident.Type)
	}
	if input.Incident.Description == "" {
		return models.Blotter{}, fmt.Errorf("%w: incident description required", ErrValidation)
	}
	if input.Incident.Date.IsZero() {
		return models.Blotter{}, fmt.Errorf("%w: incident date required", ErrValidation)
	}

	now := time.Now()
	blotter := models.Blotter{
		ID:        ids.New(),
		UserID:    ownerID,
		Incident:  input.Incident,
		StationID: input.StationID,
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for attempt := 0; attempt < 2; attempt++ {
		number, err := s.numbers.Generate(ctx)
		if err != nil {
			return models.Blotter{}, err
		}
		blotter.Number = number

		err = s.blotters.Create(ctx, blotter)
		if err == nil {
			s.log.Info().Str("number", blotter.Number).Str("user_id", ownerID).Msg("blotter submitted")
			return blotter, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return models.Blotter{}, err
		}
	}
	return models.Blotter{}, repository.ErrDuplicate
}

// List returns reports visible to the actor: citizens see their own,
// officers and admins see everything.
func (s *BlotterService) List(ctx context.Context, actor security.Actor, limit, offset int) ([]models.Blotter, error) {
	if err := security.Authorize(actor, nil, ""); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if actor.Role == models.RoleUser {
		return s.blotters.ListByUser(ctx, actor.ID, limit, offset)
	}
	return s.blotters.ListAll(ctx, limit, offset)
}

// TrackView is the tracking payload shown to the reporter.
type TrackView struct {
	Number          string               `json:"blotterNumber"`
	IncidentType    models.IncidentType  `json:"incidentType"`
	DateTime        string               `json:"dateTime"`
	Description     string               `json:"description"`
	Status          models.BlotterStatus `json:"status"`
	AssignedOfficer string               `json:"assignedOfficer"`
	Timeline        []models.Milestone   `json:"timeline"`
	Attachments     []models.Attachment  `json:"attachments"`
}

// Track fetches a report by its public number. Non-admin actors may only
// track reports they own; officers may track any report.
func (s *BlotterService) Track(ctx context.Context, actor security.Actor, number string) (TrackView, error) {
	blotter, err := s.blotters.GetByNumber(ctx, number)
	if err != nil {
		return TrackView{}, err
	}

	if actor.Role != models.RoleOfficer {
		if err := security.Authorize(actor, nil, blotter.UserID); err != nil {
			return TrackView{}, err
		}
	} else if err := security.Authorize(actor, nil, ""); err != nil {
		return TrackView{}, err
	}

	view := TrackView{
		Number:          blotter.Number,
		IncidentType:    blotter.Incident.Type,
		DateTime:        blotter.Incident.Date.Format("Jan 2, 03:04 PM"),
		Description:     blotter.Incident.Description,
		Status:          blotter.Status,
		AssignedOfficer: "Pending",
		Timeline:        blotter.Timeline(),
		Attachments:     s.refreshAttachmentURLs(ctx, blotter.Attachments),
	}

	if blotter.AssignedOfficerID != "" {
		if officer, err := s.officers.GetByID(ctx, blotter.AssignedOfficerID); err == nil {
			view.AssignedOfficer = officer.FirstName + " " + officer.LastName
		}
	}

	return view, nil
}

func (s *BlotterService) refreshAttachmentURLs(ctx context.Context, attachments []models.Attachment) []models.Attachment {
	if s.evidence == nil || len(attachments) == 0 {
		return attachments
	}
	out := make([]models.Attachment, len(attachments))
	for i, a := range attachments {
		if url, err := s.evidence.PresignEvidenceURL(ctx, a.ObjectKey, presignExpiry); err == nil {
			a.URL = url
		}
		out[i] = a
	}
	return out
}

// UpdateStatus advances a report through the review lifecycle. Only
// officers and admins may move status, and only forward.
func (s *BlotterService) UpdateStatus(ctx context.Context, actor security.Actor, id string, next models.BlotterStatus) (models.Blotter, error) {
	if err := security.Authorize(actor, []models.Role{models.RoleOfficer, models.RoleAdmin}, ""); err != nil {
		return models.Blotter{}, err
	}
	if !next.Valid() {
		return models.Blotter{}, fmt.Errorf("%w: unknown status %q", ErrValidation, next)
	}

	blotter, err := s.blotters.GetByID(ctx, id)
	if err != nil {
		return models.Blotter{}, err
	}
	if !blotter.Status.CanTransitionTo(next) {
		return models.Blotter{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, blotter.Status, next)
	}

	// The store write is conditioned on the status we just read, so a
	// concurrent writer that lands first makes this a conflict rather
	// than a silent overwrite.
	if err := s.blotters.UpdateStatus(ctx, id, blotter.Status, next); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return models.Blotter{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, blotter.Status, next)
		}
		return models.Blotter{}, err
	}

	s.log.Info().
		Str("number", blotter.Number).
		Str("from", string(blotter.Status)).
		Str("to", string(next)).
		Str("actor_id", actor.ID).
		Msg("blotter status changed")

	blotter.Status = next
	blotter.UpdatedAt = time.Now()
	return blotter, nil
}

// AssignOfficer links an existing officer to the report.
func (s *BlotterService) AssignOfficer(ctx context.Context, actor security.Actor, id string, officerID string) (models.Blotter, error) {
	if err := security.Authorize(actor, []models.Role{models.RoleOfficer, models.RoleAdmin}, ""); err != nil {
		return models.Blotter{}, err
	}

	if _, err := s.officers.GetByID(ctx, officerID); err != nil {
		if errors.Is(err, repository.ErrOfficerNotFound) {
			return models.Blotter{}, ErrOfficerNotFound
		}
		return models.Blotter{}, err
	}

	blotter, err := s.blotters.GetByID(ctx, id)
	if err != nil {
		return models.Blotter{}, err
	}

	if err := s.blotters.AssignOfficer(ctx, id, officerID); err != nil {
		return models.Blotter{}, err
	}

	blotter.AssignedOfficerID = officerID
	blotter.UpdatedAt = time.Now()
	return blotter, nil
}

// Delete removes a report. Owners may delete their own; admins any.
func (s *BlotterService) Delete(ctx context.Context, actor security.Actor, id string) error {
	blotter, err := s.blotters.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := security.Authorize(actor, nil, blotter.UserID); err != nil {
		return err
	}
	return s.blotters.Delete(ctx, id)
}

// AttachEvidence sniffs, stores and records an evidence file for the
// report. Owners and admins only.
func (s *BlotterService) AttachEvidence(ctx context.Context, actor security.Actor, id string, data []byte) (models.Attachment, error) {
	blotter, err := s.blotters.GetByID(ctx, id)
	if err != nil {
		return models.Attachment{}, err
	}
	if err := security.Authorize(actor, nil, blotter.UserID); err != nil {
		return models.Attachment{}, err
	}
	if len(data) == 0 {
		return models.Attachment{}, fmt.Errorf("%w: empty file", ErrValidation)
	}
	if len(data) > maxEvidenceBytes {
		return models.Attachment{}, fmt.Errorf("%w: file too large", ErrValidation)
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	detected, err := sniffer.DetectHead(head)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	objectKey := path.Join(blotter.Number, ids.New()+"."+string(detected.Type))
	if err := s.evidence.PutEvidence(ctx, objectKey, bytes.NewReader(data), int64(len(data)), detected.MIME); err != nil {
		return models.Attachment{}, err
	}

	attachment := models.Attachment{
		Type:      string(detected.Type),
		ObjectKey: objectKey,
		CreatedAt: time.Now(),
	}
	if url, err := s.evidence.PresignEvidenceURL(ctx, objectKey, presignExpiry); err == nil {
		attachment.URL = url
	}

	if err := s.blotters.AppendAttachment(ctx, id, attachment); err != nil {
		return models.Attachment{}, err
	}

	s.log.Info().Str("number", blotter.Number).Str("object_key", objectKey).Msg("evidence attached")
	return attachment, nil
}
