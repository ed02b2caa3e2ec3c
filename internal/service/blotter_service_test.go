package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"eblotter/api/internal/models"
	"eblotter/api/internal/repository"
	"eblotter/api/internal/security"
)

var (
	citizen = security.Actor{ID: "user-1", Role: models.RoleUser, Status: models.AccountActive}
	other   = security.Actor{ID: "user-2", Role: models.RoleUser, Status: models.AccountActive}
	officer = security.Actor{ID: "off-1", Role: models.RoleOfficer, Status: models.AccountActive}
	admin   = security.Actor{ID: "adm-1", Role: models.RoleAdmin, Status: models.AccountActive}
)

func newTestBlotterService(t *testing.T) (*BlotterService, *fakeBlotterStore, *fakeOfficerStore) {
	t.Helper()
	blotters := newFakeBlotterStore()
	officers := newFakeOfficerStore()
	svc := NewBlotterService(blotters, officers, newFakeEvidenceStore(), zerolog.Nop())
	return svc, blotters, officers
}

func validIncident() models.Incident {
	return models.Incident{
		Type:        models.IncidentTheft,
		Date:        time.Date(2024, time.May, 10, 21, 0, 0, 0, time.UTC),
		Description: "Bicycle stolen from the front yard",
	}
}

func TestSubmitBlotter(t *testing.T) {
	svc, _, _ := newTestBlotterService(t)

	blotter, err := svc.Submit(context.Background(), citizen, SubmitBlotterInput{Incident: validIncident()})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if blotter.Status != models.StatusPending {
		t.Errorf("status = %q, want Pending", blotter.Status)
	}
	if !strings.HasPrefix(blotter.Number, "BLT-") || len(blotter.Number) != 14 {
		t.Errorf("number = %q, want BLT- plus 10 characters", blotter.Number)
	}
	if blotter.UserID != citizen.ID {
		t.Errorf("owner = %q, want %q", blotter.UserID, citizen.ID)
	}
}

func TestSubmitBlotterValidation(t *testing.T) {
	svc, _, _ := newTestBlotterService(t)
	ctx := context.Background()

	bad := validIncident()
	bad.Type = "Jaywalking"
	if _, err := svc.Submit(ctx, citizen, SubmitBlotterInput{Incident: bad}); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown type err = %v, want ErrValidation", err)
	}

	bad = validIncident()
	bad.Description = ""
	if _, err := svc.Submit(ctx, citizen, SubmitBlotterInput{Incident: bad}); !errors.Is(err, ErrValidation) {
		t.Errorf("empty description err = %v, want ErrValidation", err)
	}

	bad = validIncident()
	bad.Date = time.Time{}
	if _, err := svc.Submit(ctx, citizen, SubmitBlotterInput{Incident: bad}); !errors.Is(err, ErrValidation) {
		t.Errorf("zero date err = %v, want ErrValidation", err)
	}
}

func TestSubmitBlotterOnBehalf(t *testing.T) {
	svc, _, _ := newTestBlotterService(t)
	ctx := context.Background()

	// Admin files for a citizen; the citizen owns the report.
	blotter, err := svc.Submit(ctx, admin, SubmitBlotterInput{UserID: citizen.ID, Incident: validIncident()})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if blotter.UserID != citizen.ID {
		t.Errorf("owner = %q, want %q", blotter.UserID, citizen.ID)
	}

	// A citizen cannot plant a report on someone else.
	blotter, err = svc.Submit(ctx, citizen, SubmitBlotterInput{UserID: other.ID, Incident: validIncident()})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if blotter.UserID != citizen.ID {
		t.Errorf("owner = %q, non-admin UserID override must be ignored", blotter.UserID)
	}

	// Officers do not file reports.
	if _, err := svc.Submit(ctx, officer, SubmitBlotterInput{Incident: validIncident()}); !errors.Is(err, security.ErrRoleForbidden) {
		t.Errorf("officer submit err = %v, want ErrRoleForbidden", err)
	}
}

func TestListScopedByRole(t *testing.T) {
	svc, _, _ := newTestBlotterService(t)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, citizen, SubmitBlotterInput{Incident: validIncident()}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Submit(ctx, other, SubmitBlotterInput{Incident: validIncident()}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	mine, err := svc.List(ctx, citizen, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 || mine[0].UserID != citizen.ID {
		t.Errorf("citizen sees %d reports, want only their own", len(mine))
	}

	all, err := svc.List(ctx, officer, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("officer sees %d reports, want 2", len(all))
	}
}

func TestUpdateStatusLifecycle(t *testing.T) {
	svc, _, _ := newTestBlotterService(t)
	ctx := context.Background()

	blotter, err := svc.Submit(ctx, citizen, SubmitBlotterInput{Incident: validIncident()})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, officer, blotter.ID, models.StatusUnderReview)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if updated.Status != models.StatusUnderReview {
		t.Errorf("status = %q", updated.Status)
	}

	// Backward move refused.
	if _, err := svc.UpdateStatus(ctx, officer, blotter.ID, models.StatusPending); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("backward err = %v, want ErrInvalidTransition", err)
	}

	// Forward to terminal, then frozen.
	if _, err := svc.UpdateStatus(ctx, officer, blotter.ID, models.StatusResolved); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, officer, blotter.ID, models.StatusClosed); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("terminal move err = %v, want ErrInvalidTransition", err)
	}

	// Citizens cannot touch status at all.
	if _, err := svc.UpdateStatus(ctx, citizen, blotter.ID, models.StatusClosed); !errors.Is(err, security.ErrRoleForbidden) {
		t.Errorf("citizen err = %v, want ErrRoleForbidden", err)
	}

	// Unknown status is a validation failure, not a transition one.
	if _, err := svc.UpdateStatus(ctx, officer, blotter.ID, "Archived"); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown status err = %v, want ErrValidation", err)
	}
}

// staleStatusStore serves every read from a fixed snapshot so two
// writers both see the same pre-update status, the way two requests
// racing on the same report would.
type staleStatusStore struct {
	*fakeBlotterStore
	snapshot models.Blotter
}

func (s *staleStatusStore) GetByID(ctx context.Context, id string) (models.Blotter, error) {
	if id == s.snapshot.ID {
		return s.snapshot, nil
	}
	return s.fakeBlotterStore.GetByID(ctx, id)
}

func TestUpdateStatusLostRace(t *testing.T) {
	blotters := newFakeBlotterStore()
	ctx := context.Background()

	blotter := models.Blotter{
		ID:       "blt-1",
		Number:   "BLT-AAAAAAAAAA",
		UserID:   citizen.ID,
		Incident: validIncident(),
		Status:   models.StatusPending,
	}
	if err := blotters.Create(ctx, blotter); err != nil {
		t.Fatalf("seed: %v", err)
	}

	stale := &staleStatusStore{fakeBlotterStore: blotters, snapshot: blotter}
	svc := NewBlotterService(stale, newFakeOfficerStore(), newFakeEvidenceStore(), zerolog.Nop())

	// Both writers read Pending; the first lands Resolved.
	if _, err := svc.UpdateStatus(ctx, officer, blotter.ID, models.StatusResolved); err != nil {
		t.Fatalf("first writer: %v", err)
	}

	// The second still believes the report is Pending; the conditional
	// write must refuse rather than drag it back to Under Review.
	if _, err := svc.UpdateStatus(ctx, admin, blotter.ID, models.StatusUnderReview); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second writer err = %v, want ErrInvalidTransition", err)
	}

	stored, err := blotters.GetByID(ctx, blotter.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != models.StatusResolved {
		t.Errorf("status = %q, want Resolved after lost race", stored.Status)
	}
}

func TestTrack(t *testing.T) {
	svc, _, officers := newTestBlotterService(t)
	ctx := context.Background()

	if err := officers.Create(ctx, models.Officer{ID: "off-9", Email: "j@station.test", FirstName: "Jo", LastName: "Lim"}); err != nil {
		t.Fatalf("seed officer: %v", err)
	}

	blotter, err := svc.Submit(ctx, citizen, SubmitBlotterInput{Incident: validIncident()})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	view, err := svc.Track(ctx, citizen, blotter.Number)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if view.Number != blotter.Number {
		t.Errorf("number = %q", view.Number)
	}
	if len(view.Timeline) != 4 {
		t.Errorf("timeline length = %d, want 4", len(view.Timeline))
	}
	if view.AssignedOfficer != "Pending" {
		t.Errorf("assigned = %q, want Pending before assignment", view.AssignedOfficer)
	}

	// Another citizen cannot track someone else's report.
	if _, err := svc.Track(ctx, other, blotter.Number); !errors.Is(err, security.ErrNotOwner) {
		t.Errorf("other err = %v, want ErrNotOwner", err)
	}

	// Officers and admins can.
	if _, err := svc.Track(ctx, officer, blotter.Number); err != nil {
		t.Errorf("officer track: %v", err)
	}
	if _, err := svc.Track(ctx, admin, blotter.Number); err != nil {
		t.Errorf("admin track: %v", err)
	}

	// After assignment the view names the officer.
	if _, err := svc.AssignOfficer(ctx, admin, blotter.ID, "off-9"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	view, err = svc.Track(ctx, citizen, blotter.Number)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if view.AssignedOfficer != "Jo Lim" {
		t.Errorf("assigned = %q, want Jo Lim", view.AssignedOfficer)
	}

	if _, err := svc.Track(ctx, citizen, "BLT-0000000000"); !errors.Is(err, repository.ErrBlotterNotFound) {
		t.Errorf("unknown number err = %v, want ErrBlotterNotFound", err)
	}
}

func TestAssignOfficerUnknown(t *testing.T) {
	svc, _, _ := newTestBlotterService(t)
	ctx := context.Background()

	blotter, err := svc.Submit(ctx, citizen, SubmitBlotterInput{Incident: validIncident()})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.AssignOfficer(ctx, admin, blotter.ID, "ghost"); !errors.Is(err, ErrOfficerNotFound) {
		t.Fatalf("err = %v, want ErrOfficerNotFound", err)
	}
}

func TestDeleteOwnership(t *testing.T) {
	svc, blotters, _ := newTestBlotterService(t)
	ctx := context.Background()

	blotter, err := svc.Submit(ctx, citizen, SubmitBlotterInput{Incident: validIncident()})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := svc.Delete(ctx, other, blotter.ID); !errors.Is(err, security.ErrNotOwner) {
		t.Errorf("other delete err = %v, want ErrNotOwner", err)
	}
	if err := svc.Delete(ctx, citizen, blotter.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := blotters.GetByID(ctx, blotter.ID); !errors.Is(err, repository.ErrBlotterNotFound) {
		t.Error("report still present after delete")
	}

	// Admin may delete reports they do not own.
	blotter, err = svc.Submit(ctx, citizen, SubmitBlotterInput{Incident: validIncident()})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := svc.Delete(ctx, admin, blotter.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestAttachEvidence(t *testing.T) {
	svc, blotters, _ := newTestBlotterService(t)
	ctx := context.Background()

	blotter, err := svc.Submit(ctx, citizen, SubmitBlotterInput{Incident: validIncident()})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	pngHeader := append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)

	attachment, err := svc.AttachEvidence(ctx, citizen, blotter.ID, pngHeader)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if attachment.Type != "png" {
		t.Errorf("type = %q, want png", attachment.Type)
	}
	if attachment.URL == "" {
		t.Error("no presigned url on attachment")
	}

	stored, _ := blotters.GetByID(ctx, blotter.ID)
	if len(stored.Attachments) != 1 {
		t.Errorf("attachments = %d, want 1", len(stored.Attachments))
	}

	// Unsupported content is rejected before any storage write.
	if _, err := svc.AttachEvidence(ctx, citizen, blotter.ID, []byte("#!/bin/sh\nrm -rf /")); !errors.Is(err, ErrValidation) {
		t.Errorf("script err = %v, want ErrValidation", err)
	}

	// Only the owner or an admin may attach.
	if _, err := svc.AttachEvidence(ctx, other, blotter.ID, pngHeader); !errors.Is(err, security.ErrNotOwner) {
		t.Errorf("other err = %v, want ErrNotOwner", err)
	}
}
