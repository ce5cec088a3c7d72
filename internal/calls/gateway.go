package calls

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/medischedule/medischedule-server/internal/observability/metrics"
	"github.com/medischedule/medischedule-server/pkg/logging"
)

// CallInitiator is the slice of VapiClient the gateway depends on.
type CallInitiator interface {
	InitiateCall(ctx context.Context, req OutboundCallRequest) (string, error)
}

// Gateway is the HTTP boundary for the call workflow: it places outbound
// calls, serves polled status reads from the registry, and folds vendor
// webhooks into it.
type Gateway struct {
	registry  *Registry
	initiator CallInitiator
	logger    *logging.Logger
	metrics   *metrics.CallMetrics
	now       func() time.Time
}

// GatewayConfig configures the Gateway. Initiator may be nil when no
// vendor credentials are configured; outbound calls then fail with a
// configuration error while webhooks and status reads keep working.
type GatewayConfig struct {
	Registry  *Registry
	Initiator CallInitiator
	Logger    *logging.Logger
	Metrics   *metrics.CallMetrics
}

// NewGateway creates a Gateway.
func NewGateway(cfg GatewayConfig) *Gateway {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Gateway{
		registry:  cfg.Registry,
		initiator: cfg.Initiator,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		now:       time.Now,
	}
}

// startCallRequest is the body of POST /api/demo/vapi-call.
type startCallRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	ConsentType string `json:"consentType"`
	CustomerID  string `json:"customerId"`
}

// webhookEnvelope is the vendor push payload. Only the message envelope is
// validated; everything inside it is best-effort.
type webhookEnvelope struct {
	Message *webhookMessage `json:"message"`
}

type webhookMessage struct {
	Call           *webhookCall `json:"call"`
	Type           string       `json:"type"`
	Status         string       `json:"status"`
	TranscriptType string       `json:"transcriptType"`
	Role           string       `json:"role"`
	Transcript     string       `json:"transcript"`
}

type webhookCall struct {
	ID       string `json:"id"`
	Customer struct {
		Number string `json:"number"`
	} `json:"customer"`
}

// HandleStartCall is POST /api/demo/vapi-call. One outbound attempt per
// request; vendor errors are surfaced verbatim with no retry.
func (g *Gateway) HandleStartCall(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		g.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var req startCallRequest
	if err := json.Unmarshal(body, &req); err != nil {
		g.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PhoneNumber == "" {
		g.writeError(w, http.StatusBadRequest, "phoneNumber required")
		return
	}
	if g.initiator == nil {
		g.metrics.ObserveOutbound("not_configured")
		g.writeError(w, http.StatusInternalServerError, "voice vendor not configured")
		return
	}

	callID, err := g.initiator.InitiateCall(r.Context(), OutboundCallRequest{
		PhoneNumber: req.PhoneNumber,
		ConsentType: req.ConsentType,
		CustomerID:  req.CustomerID,
	})
	if err != nil {
		g.logger.Error("gateway: outbound call failed", "error", err)
		g.metrics.ObserveOutbound("vendor_error")
		g.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	g.registry.Create(callID, req.PhoneNumber)
	g.metrics.ObserveOutbound("success")
	g.writeJSON(w, http.StatusOK, map[string]string{
		"callId": callID,
		"status": StatusInitiated,
	})
}

// HandleCallStatus is GET /api/demo/call/{callID}, the polled status read.
func (g *Gateway) HandleCallStatus(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "callID")
	rec, ok := g.registry.Get(callID)
	if !ok {
		g.writeError(w, http.StatusNotFound, "Call not found")
		return
	}
	g.writeJSON(w, http.StatusOK, rec)
}

// HandleWebhook is POST /api/webhooks/vapi. A missing message envelope is
// the only rejection; everything else is acknowledged so the vendor never
// retries, even when the inner event is unusable.
func (g *Gateway) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	start := g.now()

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		g.writeError(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}
	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Message == nil {
		g.logger.Warn("gateway: webhook without message envelope")
		g.writeError(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	msg := envelope.Message
	if msg.Call == nil || msg.Call.ID == "" {
		// Drop-and-acknowledge: no call id, nothing to mutate.
		g.logger.Warn("gateway: webhook missing call id", "event_type", msg.Type)
		g.metrics.ObserveWebhook(msg.Type, "dropped")
		g.writeJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	g.logger.Info("gateway: webhook received",
		"event_type", msg.Type,
		"call_id", msg.Call.ID,
	)

	g.registry.ApplyEvent(msg.Call.ID, Event{
		Type:           msg.Type,
		Status:         msg.Status,
		TranscriptType: msg.TranscriptType,
		Role:           msg.Role,
		Transcript:     msg.Transcript,
		PhoneNumber:    msg.Call.Customer.Number,
	})

	g.metrics.ObserveWebhook(msg.Type, "applied")
	g.metrics.ObserveWebhookLatency(msg.Type, g.now().Sub(start).Seconds())
	g.writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// HandleWebhookTest is GET /api/webhooks/test, a reachability diagnostic.
func (g *Gateway) HandleWebhookTest(w http.ResponseWriter, r *http.Request) {
	g.writeJSON(w, http.StatusOK, map[string]any{
		"status":      "Webhook endpoint is working",
		"activeCalls": g.registry.ActiveCallIDs(),
		"timestamp":   g.now().UTC().Format(time.RFC3339),
	})
}

// HandleListCalls is GET /api/demo/calls, a debug dump of all records.
func (g *Gateway) HandleListCalls(w http.ResponseWriter, r *http.Request) {
	records := g.registry.All()
	g.writeJSON(w, http.StatusOK, map[string]any{
		"calls": records,
		"count": len(records),
	})
}

// RunJanitor evicts completed records on a fixed cadence until ctx is
// done. Only started when a retention is configured.
func (g *Gateway) RunJanitor(ctx context.Context, retention time.Duration) {
	ticker := time.NewTicker(retention)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := g.registry.Sweep(retention); removed > 0 {
				g.logger.Info("gateway: evicted completed calls", "count", removed)
			}
		}
	}
}

func (g *Gateway) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (g *Gateway) writeError(w http.ResponseWriter, code int, msg string) {
	g.writeJSON(w, code, map[string]string{"error": msg})
}
