package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"eblotter/api/internal/models"
	"eblotter/api/internal/repository"
)

// In-memory stores backing the service tests. They mirror the pgx
// repositories' error contracts, unique constraints included.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]models.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email || existing.Number == user.Number {
			return repository.ErrDuplicate
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetByID(ctx context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	return out, nil
}

func (s *fakeUserStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

func (s *fakeUserStore) Update(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) UpdatePassword(ctx context.Context, id string, passwordHash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	s.users[id] = user
	return nil
}

func (s *fakeUserStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) NumberExists(ctx context.Context, number string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Number == number {
			return true, nil
		}
	}
	return false, nil
}

type fakeOfficerStore struct {
	mu       sync.Mutex
	officers map[string]models.Officer
}

func newFakeOfficerStore() *fakeOfficerStore {
	return &fakeOfficerStore{officers: make(map[string]models.Officer)}
}

func (s *fakeOfficerStore) Create(ctx context.Context, officer models.Officer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.officers {
		if existing.Email == officer.Email || existing.Number == officer.Number {
			return repository.ErrDuplicate
		}
	}
	s.officers[officer.ID] = officer
	return nil
}

func (s *fakeOfficerStore) GetByID(ctx context.Context, id string) (models.Officer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	officer, ok := s.officers[id]
	if !ok {
		return models.Officer{}, repository.ErrOfficerNotFound
	}
	return officer, nil
}

func (s *fakeOfficerStore) FindByEmail(ctx context.Context, email string) (models.Officer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, officer := range s.officers {
		if officer.Email == email {
			return officer, nil
		}
	}
	return models.Officer{}, repository.ErrOfficerNotFound
}

func (s *fakeOfficerStore) List(ctx context.Context) ([]models.Officer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Officer, 0, len(s.officers))
	for _, officer := range s.officers {
		out = append(out, officer)
	}
	return out, nil
}

func (s *fakeOfficerStore) ListByStation(ctx context.Context, stationID string) ([]models.Officer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Officer
	for _, officer := range s.officers {
		if officer.StationID == stationID {
			out = append(out, officer)
		}
	}
	return out, nil
}

func (s *fakeOfficerStore) Update(ctx context.Context, officer models.Officer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.officers[officer.ID]; !ok {
		return repository.ErrOfficerNotFound
	}
	s.officers[officer.ID] = officer
	return nil
}

func (s *fakeOfficerStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.officers[id]; !ok {
		return repository.ErrOfficerNotFound
	}
	delete(s.officers, id)
	return nil
}

func (s *fakeOfficerStore) NumberExists(ctx context.Context, number string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, officer := range s.officers {
		if officer.Number == number {
			return true, nil
		}
	}
	return false, nil
}

type fakeBlotterStore struct {
	mu       sync.Mutex
	blotters map[string]models.Blotter
}

func newFakeBlotterStore() *fakeBlotterStore {
	return &fakeBlotterStore{blotters: make(map[string]models.Blotter)}
}

func (s *fakeBlotterStore) Create(ctx context.Context, blotter models.Blotter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.blotters {
		if existing.Number == blotter.Number {
			return repository.ErrDuplicate
		}
	}
	s.blotters[blotter.ID] = blotter
	return nil
}

func (s *fakeBlotterStore) GetByID(ctx context.Context, id string) (models.Blotter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blotter, ok := s.blotters[id]
	if !ok {
		return models.Blotter{}, repository.ErrBlotterNotFound
	}
	return blotter, nil
}

func (s *fakeBlotterStore) GetByNumber(ctx context.Context, number string) (models.Blotter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, blotter := range s.blotters {
		if blotter.Number == number {
			return blotter, nil
		}
	}
	return models.Blotter{}, repository.ErrBlotterNotFound
}

func (s *fakeBlotterStore) ListAll(ctx context.Context, limit, offset int) ([]models.Blotter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Blotter, 0, len(s.blotters))
	for _, blotter := range s.blotters {
		out = append(out, blotter)
	}
	return out, nil
}

func (s *fakeBlotterStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Blotter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Blotter
	for _, blotter := range s.blotters {
		if blotter.UserID == userID {
			out = append(out, blotter)
		}
	}
	return out, nil
}

func (s *fakeBlotterStore) UpdateStatus(ctx context.Context, id string, from, to models.BlotterStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	blotter, ok := s.blotters[id]
	if !ok {
		return repository.ErrBlotterNotFound
	}
	if blotter.Status != from {
		return repository.ErrStatusConflict
	}
	blotter.Status = to
	blotter.UpdatedAt = time.Now()
	s.blotters[id] = blotter
	return nil
}

func (s *fakeBlotterStore) AssignOfficer(ctx context.Context, id string, officerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	blotter, ok := s.blotters[id]
	if !ok {
		return repository.ErrBlotterNotFound
	}
	blotter.AssignedOfficerID = officerID
	s.blotters[id] = blotter
	return nil
}

func (s *fakeBlotterStore) AppendAttachment(ctx context.Context, id string, attachment models.Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	blotter, ok := s.blotters[id]
	if !ok {
		return repository.ErrBlotterNotFound
	}
	blotter.Attachments = append(blotter.Attachments, attachment)
	s.blotters[id] = blotter
	return nil
}

func (s *fakeBlotterStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blotters[id]; !ok {
		return repository.ErrBlotterNotFound
	}
	delete(s.blotters, id)
	return nil
}

func (s *fakeBlotterStore) NumberExists(ctx context.Context, number string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, blotter := range s.blotters {
		if blotter.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeBlotterStore) CountByStatus(ctx context.Context, status models.BlotterStatus) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, blotter := range s.blotters {
		if blotter.Status == status {
			count++
		}
	}
	return count, nil
}

type fakeStationStore struct {
	mu       sync.Mutex
	stations map[string]models.Station
}

func newFakeStationStore() *fakeStationStore {
	return &fakeStationStore{stations: make(map[string]models.Station)}
}

func (s *fakeStationStore) Create(ctx context.Context, station models.Station) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stations[station.ID] = station
	return nil
}

func (s *fakeStationStore) GetByID(ctx context.Context, id string) (models.Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	station, ok := s.stations[id]
	if !ok {
		return models.Station{}, repository.ErrStationNotFound
	}
	return station, nil
}

func (s *fakeStationStore) List(ctx context.Context) ([]models.Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Station, 0, len(s.stations))
	for _, station := range s.stations {
		out = append(out, station)
	}
	return out, nil
}

// fakeEvidenceStore records uploads instead of talking to object storage.
type fakeEvidenceStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeEvidenceStore() *fakeEvidenceStore {
	return &fakeEvidenceStore{objects: make(map[string][]byte)}
}

func (s *fakeEvidenceStore) PutEvidence(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[objectKey] = data
	return nil
}

func (s *fakeEvidenceStore) PresignEvidenceURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://evidence.test/%s", objectKey), nil
}
