package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/genricoloni/nowrelay/internal/config"
	"github.com/genricoloni/nowrelay/internal/domain"
	"go.uber.org/zap"
)

// Response bodies returned to callers. The device's own body is only passed
// through on success.
const (
	BodyDeviceError       = "ESP error"
	BodyDeviceUnreachable = "ESP unreachable"
	BodyTooLarge          = "Payload Too Large"
	BodyInvalidJSON       = "Invalid JSON"
	BodyNotFound          = "Not Found"
	BodyOK                = "OK"

	noTitle = "no title"

	// maxDeviceResponse caps how much of the device reply is relayed back
	maxDeviceResponse = 1 << 20
)

// Outcome is the terminal state of one forwarding attempt
type Outcome string

const (
	OutcomeForwarded   Outcome = "forwarded"
	OutcomeRejected    Outcome = "rejected"
	OutcomeTimedOut    Outcome = "timed_out"
	OutcomeUnreachable Outcome = "unreachable"
)

// result captures Forwarding -> {Forwarded(status) | TimedOut | Unreachable}
type result struct {
	outcome     Outcome
	status      int
	body        []byte
	contentType string
	err         error
}

// Handler forwards payloads and commands to the display device.
// It keeps no state between requests besides the fixed device address.
type Handler struct {
	logger *zap.Logger
	client *http.Client
	cfg    config.GatewayConfig
}

// NewHandler creates the gateway request handler
func NewHandler(logger *zap.Logger, cfg *config.Config) *Handler {
	return &Handler{
		logger: logger,
		// Per-request deadlines come from cfg.Timeout via context
		client: &http.Client{},
		cfg:    cfg.Gateway,
	}
}

// Routes returns the gateway's HTTP surface
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /update", h.handleUpdate)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /{command}", h.handleCommand)
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "text/plain; charset=utf-8", []byte("ok"))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	// Size ceiling is enforced before any forwarding logic runs
	if r.ContentLength > h.cfg.MaxBodyBytes {
		h.rejectTooLarge(w, r.ContentLength)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.rejectTooLarge(w, -1)
			return
		}
		h.logger.Warn("Failed to read request body", zap.Error(err))
		writeText(w, http.StatusBadRequest, "text/plain; charset=utf-8", []byte("Bad Request"))
		return
	}

	if !json.Valid(body) {
		h.logger.Warn("Rejected update with invalid JSON", zap.Int("bytes", len(body)))
		writeText(w, http.StatusBadRequest, "text/plain; charset=utf-8", []byte(BodyInvalidJSON))
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	res := h.forward(r.Context(), http.MethodPost, h.cfg.DeviceURL+"/update", contentType, body)
	h.respond(w, res, zap.String("endpoint", "update"), zap.String("title", payloadTitle(body)))
}

func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("command")
	cmd, err := domain.ParseCommand(token)
	if err != nil {
		h.logger.Warn("Unknown command", zap.String("command", token))
		writeText(w, http.StatusNotFound, "text/plain; charset=utf-8", []byte(BodyNotFound))
		return
	}

	if !h.cfg.ForwardCommands {
		h.logger.Info("Command acknowledged", zap.String("command", cmd.Token()))
		writeText(w, http.StatusOK, "text/plain; charset=utf-8", []byte(BodyOK))
		return
	}

	res := h.forward(r.Context(), http.MethodGet, h.cfg.DeviceURL+"/"+cmd.Token(), "", nil)
	h.respond(w, res, zap.String("endpoint", "command"), zap.String("command", cmd.Token()))
}

// forward makes the single outbound attempt. The caller going away does not
// cancel it; only the configured timeout does.
func (h *Handler) forward(parent context.Context, method, url, contentType string, body []byte) result {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), h.cfg.Timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return result{outcome: OutcomeUnreachable, err: fmt.Errorf("%w: %w", domain.ErrDeviceUnreachable, err)}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		outcome := OutcomeUnreachable
		if isTimeout(err) {
			outcome = OutcomeTimedOut
		}
		return result{outcome: outcome, err: fmt.Errorf("%w: %w", domain.ErrDeviceUnreachable, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDeviceResponse))
		return result{
			outcome: OutcomeRejected,
			status:  resp.StatusCode,
			err:     &domain.DeviceError{Status: resp.StatusCode},
		}
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxDeviceResponse))
	if err != nil {
		outcome := OutcomeUnreachable
		if isTimeout(err) {
			outcome = OutcomeTimedOut
		}
		return result{outcome: outcome, err: fmt.Errorf("%w: reading response: %w", domain.ErrDeviceUnreachable, err)}
	}

	return result{
		outcome:     OutcomeForwarded,
		status:      resp.StatusCode,
		body:        respBody,
		contentType: resp.Header.Get("Content-Type"),
	}
}

// respond applies the fixed outcome mapping:
// device 2xx -> 200 + device body, device status S -> S + "ESP error",
// unreachable or timeout -> 502 + "ESP unreachable".
func (h *Handler) respond(w http.ResponseWriter, res result, fields ...zap.Field) {
	fields = append(fields, zap.String("outcome", string(res.outcome)))

	switch res.outcome {
	case OutcomeForwarded:
		h.logger.Info("Forwarded to device", append(fields, zap.Int("deviceStatus", res.status))...)
		contentType := res.contentType
		if contentType == "" {
			contentType = "text/plain; charset=utf-8"
		}
		writeText(w, http.StatusOK, contentType, res.body)
	case OutcomeRejected:
		h.logger.Error("Device responded with error status", append(fields, zap.Int("deviceStatus", res.status))...)
		writeText(w, res.status, "text/plain; charset=utf-8", []byte(BodyDeviceError))
	default:
		h.logger.Error("Failed to reach device", append(fields, zap.Error(res.err))...)
		writeText(w, http.StatusBadGateway, "text/plain; charset=utf-8", []byte(BodyDeviceUnreachable))
	}
}

func (h *Handler) rejectTooLarge(w http.ResponseWriter, size int64) {
	fields := []zap.Field{zap.String("limit", humanize.IBytes(uint64(h.cfg.MaxBodyBytes)))}
	if size > 0 {
		fields = append(fields, zap.String("size", humanize.IBytes(uint64(size))))
	}
	h.logger.Warn("Rejected oversized update", fields...)
	writeText(w, http.StatusRequestEntityTooLarge, "text/plain; charset=utf-8", []byte(BodyTooLarge))
}

// payloadTitle extracts the title for logging, falling back to a placeholder
func payloadTitle(body []byte) string {
	var p struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(body, &p); err != nil || p.Title == "" {
		return noTitle
	}
	return p.Title
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func writeText(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
