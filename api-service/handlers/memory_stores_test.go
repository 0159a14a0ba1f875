package handlers

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"ngoconnect-backend/shared/database/models"
	"ngoconnect-backend/shared/utils/apperrors"
)

// memoryUserStore is an in-memory UserStore with the same duplicate-email
// behavior as the database-backed one.
type memoryUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: map[uuid.UUID]*models.User{}}
}

func (s *memoryUserStore) FindUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "User not found")
	}
	copied := *user
	return &copied, nil
}

func (s *memoryUserStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.New(apperrors.KindNotFound, "User not found")
}

func (s *memoryUserStore) EmailTaken(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryUserStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return apperrors.New(apperrors.KindConflict, "The email already exists.")
		}
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *memoryUserStore) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, *user)
	}
	return users, nil
}

func (s *memoryUserStore) SaveUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.ID != user.ID && existing.Email == user.Email {
			return apperrors.New(apperrors.KindConflict, "The email already exists.")
		}
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

// memoryNGOStore is an in-memory NGOStore.
type memoryNGOStore struct {
	mu   sync.Mutex
	ngos map[uuid.UUID]*models.NGO
}

func newMemoryNGOStore() *memoryNGOStore {
	return &memoryNGOStore{ngos: map[uuid.UUID]*models.NGO{}}
}

func (s *memoryNGOStore) FindNGOByID(_ context.Context, id uuid.UUID) (*models.NGO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ngo, ok := s.ngos[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "NGO not found")
	}
	copied := *ngo
	return &copied, nil
}

func (s *memoryNGOStore) CreateNGO(_ context.Context, ngo *models.NGO) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *ngo
	s.ngos[ngo.ID] = &copied
	return nil
}

func (s *memoryNGOStore) ListNGOsByState(_ context.Context, state string) ([]models.NGO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ngos := make([]models.NGO, 0, len(s.ngos))
	for _, ngo := range s.ngos {
		if ngo.DocumentState == state {
			ngos = append(ngos, *ngo)
		}
	}
	return ngos, nil
}

func (s *memoryNGOStore) SaveNGO(_ context.Context, ngo *models.NGO) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ngos[ngo.ID]; !ok {
		return apperrors.New(apperrors.KindNotFound, "NGO not found")
	}
	copied := *ngo
	s.ngos[ngo.ID] = &copied
	return nil
}
