package partner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/berkvakar/athleticfinance-web/internal/logging"
	"github.com/berkvakar/athleticfinance-web/internal/models"
)

// errEndpointUnavailable marks a 404 or a transport failure: the backend (or
// the specific route) does not exist from the client's point of view.
var errEndpointUnavailable = errors.New("partner endpoint unavailable")

const defaultRequestTimeout = 10 * time.Second

// HTTPResolver implements Resolver against the partner-status HTTP backend.
// Transient failures (network errors, 5xx) are retried with exponential
// backoff before the degraded path kicks in.
type HTTPResolver struct {
	baseURL string
	httpc   *http.Client
	log     logging.Logger

	// retryBase is the initial backoff step; shortened in tests.
	retryBase  time.Duration
	maxRetries uint64
}

func NewHTTPResolver(baseURL string, timeout time.Duration, log logging.Logger) *HTTPResolver {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPResolver{
		baseURL:    baseURL,
		httpc:      &http.Client{Timeout: timeout},
		log:        log,
		retryBase:  200 * time.Millisecond,
		maxRetries: 2,
	}
}

type statusRequest struct {
	Email string `json:"email"`
}

type statusResponse struct {
	Exists        bool    `json:"exists"`
	IsPartner     bool    `json:"isPartner"`
	PartnerStatus *string `json:"partnerStatus"`
	UserID        string  `json:"userId"`
	EmailVerified bool    `json:"emailVerified"`
}

func (r *HTTPResolver) Resolve(ctx context.Context, email string) (*StatusResult, error) {
	var resp statusResponse
	err := r.postJSON(ctx, "/check-status", statusRequest{Email: email}, &resp)
	if err != nil {
		if errors.Is(err, errEndpointUnavailable) {
			r.log.Info(ctx, "partner status backend unavailable, proceeding without check", "email", email)
			return &StatusResult{APIUnavailable: true}, nil
		}
		return nil, fmt.Errorf("check partner status: %w", err)
	}

	status := ""
	if resp.PartnerStatus != nil {
		status = *resp.PartnerStatus
	}

	return &StatusResult{
		Exists:        resp.Exists,
		IsPartner:     resp.IsPartner,
		Status:        models.ParsePartnerStatus(status),
		UserID:        resp.UserID,
		EmailVerified: resp.EmailVerified,
	}, nil
}

type convertRequest struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
}

type convertResponse struct {
	Success bool `json:"success"`
}

func (r *HTTPResolver) ConvertToPending(ctx context.Context, email, userID string) (*ConvertResult, error) {
	var resp convertResponse
	err := r.postJSON(ctx, "/convert-to-pending", convertRequest{Email: email, UserID: userID}, &resp)
	if err != nil {
		if errors.Is(err, errEndpointUnavailable) {
			// The application still counts as submitted; the status change
			// is reconciled out of band.
			r.log.Warn(ctx, "conversion endpoint unavailable, flagging for manual update", "email", email)
			return &ConvertResult{Success: true, ManualUpdate: true}, nil
		}
		return nil, fmt.Errorf("convert to pending: %w", err)
	}

	return &ConvertResult{Success: resp.Success}, nil
}

type notifyRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

func (r *HTTPResolver) NotifyAdmin(ctx context.Context, email, name, userID string) error {
	var resp struct{}
	if err := r.postJSON(ctx, "/notify-admin", notifyRequest{Email: email, Name: name, UserID: userID}, &resp); err != nil {
		r.log.Warn(ctx, "admin notification failed", "email", email, "error", err)
		return err
	}
	return nil
}

// postJSON posts body to path and decodes a 2xx answer into out. A 404 or a
// transport failure (after retries) is errEndpointUnavailable; any other
// non-2xx status is a hard error.
func (r *HTTPResolver) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	backoff := retry.WithMaxRetries(r.maxRetries, retry.NewExponential(r.retryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := r.httpc.Do(req)
		if err != nil {
			// Network-level failure: worth another attempt, unavailable
			// once retries are exhausted.
			return retry.RetryableError(fmt.Errorf("%w: %v", errEndpointUnavailable, err))
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return errEndpointUnavailable
		case resp.StatusCode >= 500:
			return retry.RetryableError(fmt.Errorf("backend returned %s", resp.Status))
		case resp.StatusCode >= 300:
			b, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("backend returned %s: %s", resp.Status, string(b))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}
