package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeProbe(t *testing.T, rec *httptest.ResponseRecorder) probeResponse {
	t.Helper()
	var out probeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestLiveEndpointHealthy(t *testing.T) {
	s := New()
	s.AddLivenessCheck("ok", time.Second, func(context.Context) error { return nil })
	s.runAll(context.Background())

	rec := httptest.NewRecorder()
	s.LiveEndpoint(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeProbe(t, rec).Status)
}

func TestCheckFailsOnlyAfterThreshold(t *testing.T) {
	s := New()
	s.AddLivenessCheck("flaky", time.Second, func(context.Context) error {
		return errors.New("boom")
	})

	for i := 0; i < failureThreshold-1; i++ {
		s.runAll(context.Background())
	}

	rec := httptest.NewRecorder()
	s.LiveEndpoint(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "below the threshold the check still passes")

	s.runAll(context.Background())

	rec = httptest.NewRecorder()
	s.LiveEndpoint(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	got := decodeProbe(t, rec)
	assert.Equal(t, "unhealthy", got.Status)
	assert.Equal(t, "boom", got.Checks["flaky"])
}

func TestSingleSuccessResets(t *testing.T) {
	fail := true
	s := New()
	s.AddReadinessCheck("db", time.Second, func(context.Context) error {
		if fail {
			return errors.New("down")
		}
		return nil
	})
	s.SetReady(true)

	for i := 0; i < failureThreshold; i++ {
		s.runAll(context.Background())
	}
	assert.False(t, s.IsReady())

	fail = false
	s.runAll(context.Background())
	assert.True(t, s.IsReady())
}

func TestReadyEndpointGatedOnManualFlag(t *testing.T) {
	s := New()
	s.AddReadinessCheck("db", time.Second, func(context.Context) error { return nil })
	s.runAll(context.Background())

	rec := httptest.NewRecorder()
	s.ReadyEndpoint(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "not ready until marked")
	assert.Contains(t, decodeProbe(t, rec).Checks, "_readiness")

	s.SetReady(true)
	rec = httptest.NewRecorder()
	s.ReadyEndpoint(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Draining flips it back.
	s.SetReady(false)
	rec = httptest.NewRecorder()
	s.ReadyEndpoint(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLivenessAndReadinessIndependent(t *testing.T) {
	s := New()
	s.AddLivenessCheck("live", time.Second, func(context.Context) error { return nil })
	s.AddReadinessCheck("db", time.Second, func(context.Context) error {
		return errors.New("down")
	})
	s.SetReady(true)

	for i := 0; i < failureThreshold; i++ {
		s.runAll(context.Background())
	}

	rec := httptest.NewRecorder()
	s.LiveEndpoint(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "a readiness failure must not fail liveness")

	rec = httptest.NewRecorder()
	s.ReadyEndpoint(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCheckTimeout(t *testing.T) {
	s := New()
	s.AddLivenessCheck("slow", 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	for i := 0; i < failureThreshold; i++ {
		s.runAll(context.Background())
	}

	rec := httptest.NewRecorder()
	s.LiveEndpoint(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStartAndStop(t *testing.T) {
	runs := make(chan struct{}, 16)
	s := New()
	s.AddLivenessCheck("tick", time.Second, func(context.Context) error {
		select {
		case runs <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background(), 5*time.Millisecond)
	select {
	case <-runs:
	case <-time.After(time.Second):
		t.Fatal("check never ran")
	}

	s.Stop()
	s.Stop() // idempotent
}
