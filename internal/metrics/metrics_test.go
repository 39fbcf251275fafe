package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRequest(t *testing.T) {
	counter := httpRequests.WithLabelValues("GET", "unmatched", "404")
	before := testutil.ToFloat64(counter)

	RecordRequest("GET", "", http.StatusNotFound, 5*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRecordLoginAndActivity(t *testing.T) {
	beforeLogin := testutil.ToFloat64(logins.WithLabelValues(LoginInvalid))
	beforeActivity := testutil.ToFloat64(activitiesCreated.WithLabelValues("meal"))
	beforeRegistrations := testutil.ToFloat64(registrations)

	RecordLogin(LoginInvalid)
	RecordActivityCreated("meal")
	RecordRegistration()

	assert.Equal(t, beforeLogin+1, testutil.ToFloat64(logins.WithLabelValues(LoginInvalid)))
	assert.Equal(t, beforeActivity+1, testutil.ToFloat64(activitiesCreated.WithLabelValues("meal")))
	assert.Equal(t, beforeRegistrations+1, testutil.ToFloat64(registrations))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordRegistration()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fittrack_auth_registrations_total")
}
