package partner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/berkvakar/athleticfinance-web/internal/models"
)

func newTestResolver(t *testing.T, handler http.Handler) (*HTTPResolver, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	r := NewHTTPResolver(srv.URL, 5*time.Second, nil)
	r.retryBase = time.Millisecond
	return r, srv
}

func TestResolve_MapsPayload(t *testing.T) {
	status := "pending"
	r, _ := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "/check-status", req.URL.Path)
		require.Equal(t, http.MethodPost, req.Method)

		var body statusRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		require.Equal(t, "a@b.com", body.Email)

		json.NewEncoder(w).Encode(statusResponse{
			Exists:        true,
			IsPartner:     false,
			PartnerStatus: &status,
			UserID:        "sub-1",
			EmailVerified: true,
		})
	}))

	res, err := r.Resolve(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.True(t, res.Exists)
	require.False(t, res.IsPartner)
	require.Equal(t, models.PartnerStatusPending, res.Status)
	require.Equal(t, "sub-1", res.UserID)
	require.True(t, res.EmailVerified)
	require.False(t, res.APIUnavailable)
}

func TestResolve_NullStatusIsNone(t *testing.T) {
	r, _ := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"exists": true, "isPartner": false, "partnerStatus": null, "userId": "sub-1", "emailVerified": false}`))
	}))

	res, err := r.Resolve(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.Equal(t, models.PartnerStatusNone, res.Status)
}

func TestResolve_404IsDeliberateFallback(t *testing.T) {
	r, _ := newTestResolver(t, http.NotFoundHandler())

	res, err := r.Resolve(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.True(t, res.APIUnavailable)
	require.False(t, res.Exists)
	require.False(t, res.IsPartner)
}

func TestResolve_UnreachableHostIsDeliberateFallback(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens anymore

	r := NewHTTPResolver(srv.URL, time.Second, nil)
	r.retryBase = time.Millisecond

	res, err := r.Resolve(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.True(t, res.APIUnavailable)
}

func TestResolve_ServerErrorBlocks(t *testing.T) {
	r, _ := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := r.Resolve(context.Background(), "a@b.com")
	require.Error(t, err)
}

func TestResolve_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	r, _ := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "try again", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"exists": false}`))
	}))

	res, err := r.Resolve(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.False(t, res.Exists)
	require.Equal(t, int32(2), calls.Load())
}

func TestConvertToPending_Success(t *testing.T) {
	r, _ := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "/convert-to-pending", req.URL.Path)

		var body convertRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		require.Equal(t, "a@b.com", body.Email)
		require.Equal(t, "sub-1", body.UserID)

		json.NewEncoder(w).Encode(convertResponse{Success: true})
	}))

	res, err := r.ConvertToPending(context.Background(), "a@b.com", "sub-1")
	require.NoError(t, err)
	require.True(t, res.Success)
	require.False(t, res.ManualUpdate)
}

func TestConvertToPending_AbsentEndpointStillSucceeds(t *testing.T) {
	r, _ := newTestResolver(t, http.NotFoundHandler())

	res, err := r.ConvertToPending(context.Background(), "a@b.com", "sub-1")
	require.NoError(t, err)
	require.True(t, res.Success)
	require.True(t, res.ManualUpdate)
}

func TestConvertToPending_BackendRefusal(t *testing.T) {
	r, _ := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(convertResponse{Success: false})
	}))

	res, err := r.ConvertToPending(context.Background(), "a@b.com", "sub-1")
	require.NoError(t, err)
	require.False(t, res.Success)
}

func TestNotifyAdmin_SendsPayloadAndReportsFailure(t *testing.T) {
	r, _ := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "/notify-admin", req.URL.Path)

		var body notifyRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		require.Equal(t, "a@b.com", body.Email)
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, r.NotifyAdmin(context.Background(), "a@b.com", "Ada", "sub-1"))

	broken, _ := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	// Failures are reported but callers treat the call as fire-and-forget.
	require.Error(t, broken.NotifyAdmin(context.Background(), "a@b.com", "Ada", "sub-1"))
}
