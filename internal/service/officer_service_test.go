package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"eblotter/api/internal/models"
	"eblotter/api/internal/security"
)

func newTestOfficerService(t *testing.T) (*OfficerService, *fakeOfficerStore, *fakeStationStore) {
	t.Helper()
	officers := newFakeOfficerStore()
	stations := newFakeStationStore()
	svc := NewOfficerService(officers, stations, zerolog.Nop())
	return svc, officers, stations
}

func validOfficerInput(stationID string) CreateOfficerInput {
	return CreateOfficerInput{
		Email:        "dela.cruz@station.test",
		Password:     "radio1234",
		FirstName:    "Dela",
		LastName:     "Cruz",
		Rank:         "PO1",
		StationID:    stationID,
		MobileNumber: "09170000000",
		RadioID:      "R-42",
	}
}

func TestCreateOfficer(t *testing.T) {
	svc, _, stations := newTestOfficerService(t)
	ctx := context.Background()

	if err := stations.Create(ctx, models.Station{ID: "st-1", Name: "Central"}); err != nil {
		t.Fatalf("seed station: %v", err)
	}

	officer, err := svc.Create(ctx, admin, validOfficerInput("st-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !strings.HasPrefix(officer.Number, "OFC-") || len(officer.Number) != 14 {
		t.Errorf("number = %q, want OFC- plus 10 characters", officer.Number)
	}
	if officer.Status != models.AccountActive {
		t.Errorf("status = %q, want active", officer.Status)
	}
	if len(officer.PasswordHash) == 0 {
		t.Error("password not hashed")
	}
}

func TestCreateOfficerAdminOnly(t *testing.T) {
	svc, _, stations := newTestOfficerService(t)
	ctx := context.Background()
	_ = stations.Create(ctx, models.Station{ID: "st-1"})

	for _, actor := range []security.Actor{citizen, officer} {
		if _, err := svc.Create(ctx, actor, validOfficerInput("st-1")); !errors.Is(err, security.ErrRoleForbidden) {
			t.Errorf("role %q err = %v, want ErrRoleForbidden", actor.Role, err)
		}
	}
}

func TestCreateOfficerUnknownStation(t *testing.T) {
	svc, _, _ := newTestOfficerService(t)

	if _, err := svc.Create(context.Background(), admin, validOfficerInput("nowhere")); !errors.Is(err, ErrStationNotFound) {
		t.Fatalf("err = %v, want ErrStationNotFound", err)
	}
}

func TestCreateOfficerDuplicateEmail(t *testing.T) {
	svc, _, stations := newTestOfficerService(t)
	ctx := context.Background()
	_ = stations.Create(ctx, models.Station{ID: "st-1"})

	if _, err := svc.Create(ctx, admin, validOfficerInput("st-1")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, admin, validOfficerInput("st-1")); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("second create err = %v, want ErrEmailTaken", err)
	}
}

func TestUpdateOfficerStatusValidated(t *testing.T) {
	svc, officers, stations := newTestOfficerService(t)
	ctx := context.Background()
	_ = stations.Create(ctx, models.Station{ID: "st-1"})

	created, err := svc.Create(ctx, admin, validOfficerInput("st-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	input := UpdateOfficerInput{
		Email:     created.Email,
		FirstName: created.FirstName,
		LastName:  created.LastName,
		Rank:      created.Rank,
		StationID: created.StationID,
		Status:    "Banana",
	}
	if _, err := svc.Update(ctx, admin, created.ID, input); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown status err = %v, want ErrValidation", err)
	}

	stored, _ := officers.GetByID(ctx, created.ID)
	if stored.Status != models.AccountActive {
		t.Errorf("status = %q, want Active untouched", stored.Status)
	}

	input.Status = models.AccountSuspended
	updated, err := svc.Update(ctx, admin, created.ID, input)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != models.AccountSuspended {
		t.Errorf("status = %q, want Suspended", updated.Status)
	}
}

func TestOfficerProfileUpdateKeepsAssignment(t *testing.T) {
	svc, officers, stations := newTestOfficerService(t)
	ctx := context.Background()
	_ = stations.Create(ctx, models.Station{ID: "st-1"})

	created, err := svc.Create(ctx, admin, validOfficerInput("st-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	self := security.Actor{ID: created.ID, Role: models.RoleOfficer, Status: models.AccountActive}
	updated, err := svc.UpdateProfile(ctx, self, UpdateProfileInput{
		Email:     "new.email@station.test",
		FirstName: "Dela",
		LastName:  "Cruz",
		RadioID:   "R-99",
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}

	if updated.Email != "new.email@station.test" {
		t.Errorf("email = %q", updated.Email)
	}
	if updated.RadioID != "R-99" {
		t.Errorf("radio = %q", updated.RadioID)
	}
	// Station, rank and status are not self-service.
	if updated.StationID != "st-1" || updated.Rank != "PO1" || updated.Status != models.AccountActive {
		t.Errorf("assignment fields changed: %+v", updated)
	}

	stored, _ := officers.GetByID(ctx, created.ID)
	if stored.Email != "new.email@station.test" {
		t.Error("update not persisted")
	}
}

func TestOfficerProfileRequiresOfficerRole(t *testing.T) {
	svc, _, _ := newTestOfficerService(t)

	if _, err := svc.Profile(context.Background(), citizen); !errors.Is(err, security.ErrRoleForbidden) {
		t.Fatalf("err = %v, want ErrRoleForbidden", err)
	}
}
