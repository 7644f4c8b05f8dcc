package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/crewclock/crewclock/internal/apperr"
	"github.com/crewclock/crewclock/internal/export"
)

// Client submits timesheet payloads to a user-configured webhook.
//
// The body is posted as text/plain and the response is discarded. Success
// means the request was dispatched without a transport-level error; the
// status code is not consulted and there is no delivery confirmation.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// SubmitPayload posts one payload. Exactly one attempt is made; retries
// are the caller's responsibility. A failure is reported as a
// TransportError and has no other side effect.
func (c *Client) SubmitPayload(ctx context.Context, url string, payload export.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	if err != nil {
		c.logger.Error("Failed to submit payload",
			zap.Error(err),
			zap.String("week_start", payload.Week.Start),
			zap.Duration("duration", duration),
		)
		return apperr.Transport(err, "webhook submission failed")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	c.logger.Info("Payload submitted",
		zap.String("employee_id", payload.Employee.ID),
		zap.String("week_start", payload.Week.Start),
		zap.Duration("duration", duration),
	)
	return nil
}
