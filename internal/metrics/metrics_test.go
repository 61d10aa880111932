package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/photofeed/internal/domain"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, OutcomeOK},
		{"invalid input", domain.ErrEmailRequired, OutcomeInvalidInput},
		{"not found", domain.ErrPostNotFound, OutcomeNotFound},
		{"conflict", domain.ErrEmailAlreadyExists, OutcomeConflict},
		{"file access", domain.NewDomainError(domain.ErrImageFileMissing, "gone", "/x"), OutcomeFileAccess},
		{"other", errors.New("boom"), OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Outcome(tt.err))
		})
	}
}

func TestRecordOperation(t *testing.T) {
	m := New()

	m.RecordOperation("user", "create", nil)
	m.RecordOperation("user", "create", nil)
	m.RecordOperation("user", "create", domain.ErrEmailAlreadyExists)

	require.Equal(t, 2.0, testutil.ToFloat64(m.StoreOperations.WithLabelValues("user", "create", OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.StoreOperations.WithLabelValues("user", "create", OutcomeConflict)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	require.NotPanics(t, func() {
		m.RecordOperation("post", "list", nil)
		m.AddEntities("post", 1)
		m.RecordImageStored(10)
		m.RecordImageServed(10)
		m.RecordHTTPRequest(http.MethodGet, "/posts", http.StatusOK, time.Millisecond)
	})
}

func TestImageBytes(t *testing.T) {
	m := New()

	m.RecordImageStored(100)
	m.RecordImageStored(28)
	m.RecordImageServed(64)

	require.Equal(t, 128.0, testutil.ToFloat64(m.ImageBytesStored))
	require.Equal(t, 64.0, testutil.ToFloat64(m.ImageBytesServed))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.RecordHTTPRequest(http.MethodGet, "/users", http.StatusOK, 5*time.Millisecond)
	m.AddEntities("user", 3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.True(t, strings.Contains(body, `photofeed_http_requests_total{method="GET",route="/users",status="200"} 1`))
	require.True(t, strings.Contains(body, `photofeed_entities{entity="user"} 3`))
}
