package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoute(t *testing.T) {
	cases := map[string]string{
		"/":                                            "/",
		"/dashboard":                                   "/dashboard",
		"/api/donors/V1StGXR8Z5jdHi6BmyTabcdEFGhijk12": "/api/donors/:id",
		"/donors/V1StGXR8Z5jdHi6BmyTabcdEFGhijk12/edit": "/donors/:id/edit",
		"/static/css/app.css":                          "/static",
		"/ai-insights":                                 "/ai-insights",
	}

	for in, want := range cases {
		assert.Equal(t, want, Route(in), in)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	LoginAttempts.WithLabelValues("success").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(LoginAttempts.WithLabelValues("success")), 1.0)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "donorconnect_auth_login_attempts_total")
}
