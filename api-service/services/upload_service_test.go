package services

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"ngoconnect-backend/shared/database/models"
	"ngoconnect-backend/shared/utils/apperrors"
)

// memoryUserStore is an in-memory UserFinder for tests.
type memoryUserStore struct {
	users map[uuid.UUID]*models.User
}

func (s *memoryUserStore) FindUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "User not found")
	}
	return user, nil
}

// memoryNGOStore mimics the versioned append semantics of the gorm store.
type memoryNGOStore struct {
	mu   sync.Mutex
	ngos map[uuid.UUID]*models.NGO
}

func (s *memoryNGOStore) FindNGOByID(_ context.Context, id uuid.UUID) (*models.NGO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ngo, ok := s.ngos[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "NGO not found")
	}
	copied := *ngo
	copied.Documents = append(models.DocumentRefs{}, ngo.Documents...)
	return &copied, nil
}

func (s *memoryNGOStore) AppendDocument(_ context.Context, ngoID uuid.UUID, ref models.DocumentRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ngo, ok := s.ngos[ngoID]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "NGO not found")
	}
	ngo.Documents = append(ngo.Documents, ref)
	ngo.DocumentsVersion++
	return nil
}

// memoryBlobStore records puts and removals.
type memoryBlobStore struct {
	mu      sync.Mutex
	puts    []string
	removed []string
	failPut bool
}

func (s *memoryBlobStore) Put(_ context.Context, objectKey, originalName, contentType string, reader io.Reader, size int64) (models.DocumentRef, error) {
	if s.failPut {
		return models.DocumentRef{}, apperrors.New(apperrors.KindUpstreamStorage, "Error during image/document upload.")
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return models.DocumentRef{}, err
	}
	s.mu.Lock()
	s.puts = append(s.puts, objectKey)
	s.mu.Unlock()
	return models.DocumentRef{
		ObjectKey:    objectKey,
		FileName:     objectKey,
		OriginalName: originalName,
		ContentType:  contentType,
		Size:         size,
		UploadedAt:   time.Now().UTC(),
	}, nil
}

func (s *memoryBlobStore) Remove(_ context.Context, objectKey string) error {
	s.mu.Lock()
	s.removed = append(s.removed, objectKey)
	s.mu.Unlock()
	return nil
}

type uploadFixture struct {
	service *UploadService
	users   *memoryUserStore
	ngos    *memoryNGOStore
	blobs   *memoryBlobStore

	ngoID         uuid.UUID
	adminID       uuid.UUID
	affiliatedID  uuid.UUID
	independentID uuid.UUID
}

func newUploadFixture() *uploadFixture {
	ngoID := uuid.New()
	adminID := uuid.New()
	affiliatedID := uuid.New()
	independentID := uuid.New()
	otherNGO := uuid.New()

	users := &memoryUserStore{users: map[uuid.UUID]*models.User{
		adminID:       {ID: adminID, Role: models.RoleAdmin},
		affiliatedID:  {ID: affiliatedID, Role: models.RoleNGO, AffiliatedNGOID: &ngoID},
		independentID: {ID: independentID, Role: models.RoleIndependent, AffiliatedNGOID: &otherNGO},
	}}
	ngos := &memoryNGOStore{ngos: map[uuid.UUID]*models.NGO{
		ngoID: {ID: ngoID, Name: "Helping Hands", DocumentState: models.DocumentStatePending},
	}}
	blobs := &memoryBlobStore{}

	return &uploadFixture{
		service:       NewUploadService(users, ngos, blobs),
		users:         users,
		ngos:          ngos,
		blobs:         blobs,
		ngoID:         ngoID,
		adminID:       adminID,
		affiliatedID:  affiliatedID,
		independentID: independentID,
	}
}

func pdfUpload(name string) FileUpload {
	content := "%PDF-1.4 test"
	return FileUpload{
		FileName:    name,
		ContentType: "application/pdf",
		Size:        int64(len(content)),
		Reader:      strings.NewReader(content),
	}
}

func Test_Upload_AffiliatedUser(t *testing.T) {
	f := newUploadFixture()

	ref, err := f.service.Upload(context.Background(), f.affiliatedID, f.ngoID, pdfUpload("doc.pdf"))
	require.NoError(t, err)

	assert.Contains(t, ref.ObjectKey, "doc.pdf")
	assert.Equal(t, "application/pdf", ref.ContentType)

	ngo, err := f.ngos.FindNGOByID(context.Background(), f.ngoID)
	require.NoError(t, err)
	require.Len(t, ngo.Documents, 1)
	assert.Equal(t, ref.ObjectKey, ngo.Documents[0].ObjectKey)
}

func Test_Upload_AdminBypassesAffiliation(t *testing.T) {
	f := newUploadFixture()

	_, err := f.service.Upload(context.Background(), f.adminID, f.ngoID, pdfUpload("doc.pdf"))
	require.NoError(t, err)
}

func Test_Upload_ForbiddenForUnaffiliated(t *testing.T) {
	f := newUploadFixture()

	_, err := f.service.Upload(context.Background(), f.independentID, f.ngoID, pdfUpload("doc.pdf"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	// Nothing was streamed and nothing was recorded.
	assert.Empty(t, f.blobs.puts)
	ngo, _ := f.ngos.FindNGOByID(context.Background(), f.ngoID)
	assert.Empty(t, ngo.Documents)
}

func Test_Upload_RejectsDisallowedType(t *testing.T) {
	f := newUploadFixture()

	upload := FileUpload{
		FileName:    "malware.exe",
		ContentType: "application/pdf",
		Size:        4,
		Reader:      strings.NewReader("MZ\x90\x00"),
	}

	// Admins are subject to type validation like everyone else.
	_, err := f.service.Upload(context.Background(), f.adminID, f.ngoID, upload)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Empty(t, f.blobs.puts)
}

func Test_Upload_UnknownNGO(t *testing.T) {
	f := newUploadFixture()

	_, err := f.service.Upload(context.Background(), f.adminID, uuid.New(), pdfUpload("doc.pdf"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.Empty(t, f.blobs.puts)
}

func Test_Upload_StreamFailureLeavesRecordUntouched(t *testing.T) {
	f := newUploadFixture()
	f.blobs.failPut = true

	_, err := f.service.Upload(context.Background(), f.affiliatedID, f.ngoID, pdfUpload("doc.pdf"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindUpstreamStorage))

	ngo, _ := f.ngos.FindNGOByID(context.Background(), f.ngoID)
	assert.Empty(t, ngo.Documents)
}

func Test_Upload_RecordFailureRemovesBlob(t *testing.T) {
	f := newUploadFixture()
	// The existence check passes; the append itself fails.
	failing := &recordFailingNGOStore{inner: f.ngos}
	service := NewUploadService(f.users, failing, f.blobs)

	_, err := service.Upload(context.Background(), f.affiliatedID, f.ngoID, pdfUpload("doc.pdf"))
	require.Error(t, err)

	require.Len(t, f.blobs.puts, 1)
	assert.Equal(t, f.blobs.puts, f.blobs.removed)
}

type recordFailingNGOStore struct {
	inner *memoryNGOStore
}

func (s *recordFailingNGOStore) FindNGOByID(ctx context.Context, id uuid.UUID) (*models.NGO, error) {
	return s.inner.FindNGOByID(ctx, id)
}

func (s *recordFailingNGOStore) AppendDocument(context.Context, uuid.UUID, models.DocumentRef) error {
	return apperrors.New(apperrors.KindUpstreamStorage, "Error during image/document upload.")
}

func Test_Upload_ConcurrentUploadsBothRecorded(t *testing.T) {
	f := newUploadFixture()

	var group errgroup.Group
	group.Go(func() error {
		_, err := f.service.Upload(context.Background(), f.affiliatedID, f.ngoID, pdfUpload("first.pdf"))
		return err
	})
	group.Go(func() error {
		_, err := f.service.Upload(context.Background(), f.adminID, f.ngoID, pdfUpload("second.pdf"))
		return err
	})
	require.NoError(t, group.Wait())

	ngo, err := f.ngos.FindNGOByID(context.Background(), f.ngoID)
	require.NoError(t, err)
	require.Len(t, ngo.Documents, 2, "a concurrent append must never drop a reference")

	names := []string{ngo.Documents[0].OriginalName, ngo.Documents[1].OriginalName}
	assert.ElementsMatch(t, []string{"first.pdf", "second.pdf"}, names)
}
