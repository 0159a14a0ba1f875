package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ngoconnect-backend/shared/database/models"
	"ngoconnect-backend/shared/utils/apperrors"
)

// appendRetryLimit bounds the optimistic-concurrency retry loop on the
// document-list append.
const appendRetryLimit = 5

// GormUserStore backs UserFinder with the users table.
type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "User not found")
		}
		return nil, apperrors.Wrap(apperrors.KindUpstreamStorage, "Failed to fetch user", err)
	}
	return &user, nil
}

func (s *GormUserStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "User not found")
		}
		return nil, apperrors.Wrap(apperrors.KindUpstreamStorage, "Failed to fetch user", err)
	}
	return &user, nil
}

func (s *GormUserStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.KindUpstreamStorage, "Failed to check email", err)
	}
	return count > 0, nil
}

func (s *GormUserStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKeyError(err) {
			return apperrors.Wrap(apperrors.KindConflict, "The email already exists.", err)
		}
		return apperrors.Wrap(apperrors.KindUpstreamStorage, "Could not create user.", err)
	}
	return nil
}

func (s *GormUserStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstreamStorage, "Failed to fetch users", err)
	}
	return users, nil
}

func (s *GormUserStore) SaveUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if isDuplicateKeyError(err) {
			return apperrors.Wrap(apperrors.KindConflict, "The email already exists.", err)
		}
		return apperrors.Wrap(apperrors.KindUpstreamStorage, "Could not update user.", err)
	}
	return nil
}

// GormNGOStore backs NGODocumentStore with the ngos table.
type GormNGOStore struct {
	db *gorm.DB
}

func NewGormNGOStore(db *gorm.DB) *GormNGOStore {
	return &GormNGOStore{db: db}
}

func (s *GormNGOStore) FindNGOByID(ctx context.Context, id uuid.UUID) (*models.NGO, error) {
	var ngo models.NGO
	if err := s.db.WithContext(ctx).First(&ngo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "NGO not found")
		}
		return nil, apperrors.Wrap(apperrors.KindUpstreamStorage, "Failed to fetch NGO", err)
	}
	return &ngo, nil
}

func (s *GormNGOStore) CreateNGO(ctx context.Context, ngo *models.NGO) error {
	if err := s.db.WithContext(ctx).Create(ngo).Error; err != nil {
		return apperrors.Wrap(apperrors.KindUpstreamStorage, "Could not create NGO.", err)
	}
	return nil
}

func (s *GormNGOStore) ListNGOsByState(ctx context.Context, state string) ([]models.NGO, error) {
	var ngos []models.NGO
	if err := s.db.WithContext(ctx).Where("document_state = ?", state).Find(&ngos).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstreamStorage, "Failed to fetch NGOs", err)
	}
	return ngos, nil
}

// SaveNGO writes everything except the document list, which only moves
// through AppendDocument so a profile update can never clobber a
// concurrent upload.
func (s *GormNGOStore) SaveNGO(ctx context.Context, ngo *models.NGO) error {
	if err := s.db.WithContext(ctx).Omit("documents", "documents_version").Save(ngo).Error; err != nil {
		return apperrors.Wrap(apperrors.KindUpstreamStorage, "Could not update NGO.", err)
	}
	return nil
}

// AppendDocument reads the current list, appends the reference, and writes
// it back guarded by the documents_version counter. A concurrent append
// bumps the version and the write matches zero rows; the read is then
// repeated with the fresh list, so no reference is ever dropped.
func (s *GormNGOStore) AppendDocument(ctx context.Context, ngoID uuid.UUID, ref models.DocumentRef) error {
	for attempt := 0; attempt < appendRetryLimit; attempt++ {
		ngo, err := s.FindNGOByID(ctx, ngoID)
		if err != nil {
			return err
		}

		documents := append(append(models.DocumentRefs{}, ngo.Documents...), ref)

		result := s.db.WithContext(ctx).Model(&models.NGO{}).
			Where("id = ? AND documents_version = ?", ngoID, ngo.DocumentsVersion).
			Updates(map[string]interface{}{
				"documents":         documents,
				"documents_version": ngo.DocumentsVersion + 1,
			})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.KindUpstreamStorage, "Error during image/document upload.", result.Error)
		}
		if result.RowsAffected > 0 {
			return nil
		}
		// Lost the race; reread and retry.
	}

	return apperrors.New(apperrors.KindUpstreamStorage, "Error during image/document upload.")
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Postgres unique_violation surfaces as SQLSTATE 23505.
	return strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "duplicate key")
}
