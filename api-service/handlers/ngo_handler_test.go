package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngoconnect-backend/shared/database/models"
	"ngoconnect-backend/shared/utils/apperrors"
)

func Test_ToPublicNGO(t *testing.T) {
	ngo := &models.NGO{
		ID:                 uuid.New(),
		Name:               "Helping Hands",
		Image:              "https://example.org/logo.png",
		Webpage:            "https://example.org",
		Description:        "Community support",
		MainRepresentative: "Jordan Reyes",
		Affinities:         models.StringList{"community", "education"},
		Contact: models.Contact{
			Address: "12 Main Street",
			Phone:   "+1 555 0100",
		},
		DocumentState: models.DocumentStateApproved,
		Documents: models.DocumentRefs{
			{ObjectKey: "file_abc_doc.pdf", OriginalName: "doc.pdf"},
		},
	}

	public := ToPublicNGO(ngo)

	assert.Equal(t, ngo.ID, public.ID)
	assert.Equal(t, "Helping Hands", public.Name)
	assert.Equal(t, "https://example.org/logo.png", public.Image)
	assert.Equal(t, "Community support", public.Description)
	assert.Equal(t, []string{"community", "education"}, public.Affinities)
}

func Test_GetNGOs_OnlyApprovedListed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ngos := newMemoryNGOStore()
	approvedA := &models.NGO{ID: uuid.New(), Name: "Helping Hands", DocumentState: models.DocumentStateApproved}
	approvedB := &models.NGO{ID: uuid.New(), Name: "Green Earth", DocumentState: models.DocumentStateApproved}
	pending := &models.NGO{ID: uuid.New(), Name: "Still Waiting", DocumentState: models.DocumentStatePending}
	rejected := &models.NGO{ID: uuid.New(), Name: "Turned Down", DocumentState: models.DocumentStateRejected}
	for _, ngo := range []*models.NGO{approvedA, approvedB, pending, rejected} {
		require.NoError(t, ngos.CreateNGO(context.Background(), ngo))
	}

	router := gin.New()
	router.GET("/api/ngos", NewNGOHandler(ngos).GetNGOs)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ngos", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		NGOs []PublicNGO `json:"ngos"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	listed := make([]uuid.UUID, 0, len(resp.NGOs))
	for _, ngo := range resp.NGOs {
		listed = append(listed, ngo.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{approvedA.ID, approvedB.ID}, listed)

	// Pending and rejected records never reach the listing, and the
	// projection carries no contact or document fields.
	assert.NotContains(t, w.Body.String(), "Still Waiting")
	assert.NotContains(t, w.Body.String(), "Turned Down")
	assert.NotContains(t, w.Body.String(), "contact")
	assert.NotContains(t, w.Body.String(), "documents")
}

func Test_RespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		body   string
	}{
		{apperrors.New(apperrors.KindForbidden, "Error during image/document upload."), http.StatusForbidden, "Error during image/document upload."},
		{apperrors.New(apperrors.KindValidation, "Only images or pdf documents."), http.StatusBadRequest, "Only images or pdf documents."},
		{apperrors.New(apperrors.KindNotFound, "NGO not found"), http.StatusNotFound, "NGO not found"},
		{assert.AnError, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondError(c, tc.err)

		assert.Equal(t, tc.status, w.Code)
		assert.Contains(t, w.Body.String(), tc.body)
		// Internal details never reach the wire.
		assert.NotContains(t, w.Body.String(), "assert.AnError")
	}
}
