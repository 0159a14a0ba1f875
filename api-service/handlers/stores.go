package handlers

import (
	"context"

	"github.com/google/uuid"

	"ngoconnect-backend/shared/database/models"
)

// UserStore is the persistence surface the auth and user handlers need.
// Duplicate-email writes come back as Conflict errors so the handlers can
// answer with the platform's duplicate message.
type UserStore interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
}

// NGOStore is the persistence surface the NGO handlers need.
type NGOStore interface {
	FindNGOByID(ctx context.Context, id uuid.UUID) (*models.NGO, error)
	CreateNGO(ctx context.Context, ngo *models.NGO) error
	ListNGOsByState(ctx context.Context, state string) ([]models.NGO, error)
	SaveNGO(ctx context.Context, ngo *models.NGO) error
}
