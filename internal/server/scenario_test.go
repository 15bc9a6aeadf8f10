package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"donorconnect/internal/auth"
	"donorconnect/internal/insights"
	"donorconnect/internal/seed"
	"donorconnect/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSeededScenario walks the demo data set through the JSON API the way
// an API client would: log in, list, try a forbidden delete, record a gift.
func TestSeededScenario(t *testing.T) {
	memory := newMemoryStore()
	repos := memory.repositories()

	summary, err := seed.Run(t.Context(), seed.Repositories{
		Users:     memoryUsers{memory},
		Donors:    repos.Donors,
		Donations: repos.Donations,
		Campaigns: repos.Campaigns,
		Tasks:     repos.Tasks,
	})
	require.NoError(t, err)
	require.Equal(t, 5, summary.Donors)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sessions, err := auth.NewSessionManager(auth.SessionConfig{
		Secret:     []byte("scenario-session-secret-0123456789abcdef"),
		CookieName: "donorconnect_session",
		MaxAge:     time.Hour,
		HashKey:    []byte("0123456789abcdef0123456789abcdef"),
		BlockKey:   []byte("abcdef0123456789abcdef0123456789"),
	})
	require.NoError(t, err)

	completer := &recordingCompleter{reply: "ok"}
	svc, err := New(&types.Config{CookieName: "donorconnect_session"}, logger, sessions, repos, insights.NewGenerator(completer), &fakeExporter{}, nil)
	require.NoError(t, err)

	h := &harness{t: t, svc: svc, store: memory, sessions: sessions, completer: completer}

	login := func(email, password string) string {
		rec := h.sendJSON(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body loginResponse
		decodeBody(t, rec, &body)
		return body.Token
	}

	withToken := func(req *http.Request, token string) *httptest.ResponseRecorder {
		req.Header.Set("Authorization", "Bearer "+token)
		return h.do(req, nil)
	}

	staffToken := login("staff@donorconnect.com", "staff123")

	rec := withToken(httptest.NewRequest(http.MethodGet, "/api/donors", nil), staffToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var donors []*types.Donor
	decodeBody(t, rec, &donors)
	require.Len(t, donors, 5)

	var listed float64
	for _, d := range donors {
		for _, dn := range d.Donations {
			listed += dn.Amount
		}
	}
	assert.InDelta(t, summary.TotalRaised, listed, 0.001)

	target := donors[0].ID
	rec = withToken(httptest.NewRequest(http.MethodDelete, "/api/donors/"+target, nil), staffToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, memory.donors, target)

	adminToken := login("admin@donorconnect.com", "admin123")

	req := httptest.NewRequest(http.MethodPost, "/api/donations",
		jsonBody(t, map[string]any{"amount": 500, "date": "2024-01-15", "type": "Cash", "donorId": target}))
	req.Header.Set("Content-Type", "application/json")
	rec = withToken(req, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var donation types.Donation
	decodeBody(t, rec, &donation)
	require.NotNil(t, donation.Donor)
	assert.Equal(t, target, donation.Donor.ID)
	assert.Equal(t, donors[0].Name, donation.Donor.Name)
	assert.Equal(t, donors[0].Email, donation.Donor.Email)
}
