package calls

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medischedule/medischedule-server/pkg/logging"
)

type fakeInitiator struct {
	callID string
	err    error
	gotReq OutboundCallRequest
}

func (f *fakeInitiator) InitiateCall(ctx context.Context, req OutboundCallRequest) (string, error) {
	f.gotReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.callID, nil
}

func newTestGateway(initiator CallInitiator) (*Gateway, *Registry) {
	registry := NewRegistry()
	gw := NewGateway(GatewayConfig{
		Registry:  registry,
		Initiator: initiator,
		Logger:    logging.NewWithWriter("error", io.Discard),
	})
	return gw, registry
}

func mountGateway(gw *Gateway) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/demo/vapi-call", gw.HandleStartCall)
	r.Get("/api/demo/call/{callID}", gw.HandleCallStatus)
	r.Get("/api/demo/calls", gw.HandleListCalls)
	r.Post("/api/webhooks/vapi", gw.HandleWebhook)
	r.Get("/api/webhooks/test", gw.HandleWebhookTest)
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestStartCallRequiresPhoneNumber(t *testing.T) {
	gw, _ := newTestGateway(&fakeInitiator{callID: "call-1"})
	handler := mountGateway(gw)

	req := httptest.NewRequest(http.MethodPost, "/api/demo/vapi-call", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "phoneNumber required", decodeBody(t, rec)["error"])
}

func TestStartCallSuccessRegistersCall(t *testing.T) {
	initiator := &fakeInitiator{callID: "call-abc"}
	gw, registry := newTestGateway(initiator)
	handler := mountGateway(gw)

	req := httptest.NewRequest(http.MethodPost, "/api/demo/vapi-call",
		strings.NewReader(`{"phoneNumber":"+15550100","consentType":"appointment","customerId":"pat-1"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "call-abc", body["callId"])
	assert.Equal(t, "initiated", body["status"])

	assert.Equal(t, "+15550100", initiator.gotReq.PhoneNumber)
	assert.Equal(t, "appointment", initiator.gotReq.ConsentType)
	assert.Equal(t, "pat-1", initiator.gotReq.CustomerID)

	record, ok := registry.Get("call-abc")
	require.True(t, ok)
	assert.Equal(t, StatusInitiated, record.Status)
	assert.Equal(t, "+15550100", record.PhoneNumber)
}

func TestStartCallVendorErrorSurfaced(t *testing.T) {
	gw, registry := newTestGateway(&fakeInitiator{err: errors.New("Invalid phone number format")})
	handler := mountGateway(gw)

	req := httptest.NewRequest(http.MethodPost, "/api/demo/vapi-call",
		strings.NewReader(`{"phoneNumber":"+15550100"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Invalid phone number format", decodeBody(t, rec)["error"])
	assert.Empty(t, registry.ActiveCallIDs())
}

func TestStartCallWithoutInitiatorFails(t *testing.T) {
	gw, _ := newTestGateway(nil)
	handler := mountGateway(gw)

	req := httptest.NewRequest(http.MethodPost, "/api/demo/vapi-call",
		strings.NewReader(`{"phoneNumber":"+15550100"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCallStatusNotFound(t *testing.T) {
	gw, _ := newTestGateway(&fakeInitiator{callID: "call-1"})
	handler := mountGateway(gw)

	req := httptest.NewRequest(http.MethodGet, "/api/demo/call/no-such-call", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Call not found", decodeBody(t, rec)["error"])
}

func TestWebhookRejectsMissingEnvelope(t *testing.T) {
	gw, _ := newTestGateway(nil)
	handler := mountGateway(gw)

	for _, payload := range []string{`{}`, `not json`, `{"other":1}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/vapi", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "payload %q", payload)
		assert.Equal(t, "Invalid webhook payload", decodeBody(t, rec)["error"])
	}
}

func TestWebhookWithoutCallIDAcknowledged(t *testing.T) {
	gw, registry := newTestGateway(nil)
	handler := mountGateway(gw)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/vapi",
		strings.NewReader(`{"message":{"type":"status-update","status":"ringing"}}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["received"])
	assert.Empty(t, registry.ActiveCallIDs())
}

func TestWebhookLifecycle(t *testing.T) {
	gw, _ := newTestGateway(&fakeInitiator{callID: "call-xyz"})
	handler := mountGateway(gw)

	post := func(payload string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/vapi", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		return rec
	}

	start := httptest.NewRequest(http.MethodPost, "/api/demo/vapi-call",
		strings.NewReader(`{"phoneNumber":"+15550199"}`))
	startRec := httptest.NewRecorder()
	handler.ServeHTTP(startRec, start)
	require.Equal(t, http.StatusOK, startRec.Code)

	post(`{"message":{"call":{"id":"call-xyz"},"type":"status-update","status":"in-progress"}}`)
	post(`{"message":{"call":{"id":"call-xyz"},"type":"transcript","transcriptType":"partial","role":"user","transcript":"Ye"}}`)
	post(`{"message":{"call":{"id":"call-xyz"},"type":"transcript","transcriptType":"final","role":"assistant","transcript":"Do you consent to this call?"}}`)
	post(`{"message":{"call":{"id":"call-xyz"},"type":"transcript","transcriptType":"final","role":"user","transcript":"Yes, I agree."}}`)
	post(`{"message":{"call":{"id":"call-xyz"},"type":"call-end"}}`)

	req := httptest.NewRequest(http.MethodGet, "/api/demo/call/call-xyz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var record CallRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, StatusCompleted, record.Status)
	assert.Equal(t, ConsentApproved, record.Consent)
	assert.Equal(t, []string{
		"AI: Do you consent to this call?",
		"Customer: Yes, I agree.",
	}, record.Transcript)
}

func TestWebhookSynthesizesUnknownCall(t *testing.T) {
	gw, registry := newTestGateway(nil)
	handler := mountGateway(gw)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/vapi",
		strings.NewReader(`{"message":{"call":{"id":"orphan-1","customer":{"number":"+15550142"}},"type":"status-update","status":"ringing"}}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	record, ok := registry.Get("orphan-1")
	require.True(t, ok)
	assert.Equal(t, "ringing", record.Status)
	assert.Equal(t, "+15550142", record.PhoneNumber)
}

func TestWebhookTestEndpoint(t *testing.T) {
	gw, registry := newTestGateway(nil)
	registry.Create("call-1", "+15550100")
	handler := mountGateway(gw)

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Webhook endpoint is working", body["status"])
	assert.Len(t, body["activeCalls"], 1)
	assert.NotEmpty(t, body["timestamp"])
}

func TestListCalls(t *testing.T) {
	gw, registry := newTestGateway(nil)
	registry.Create("call-1", "+15550100")
	registry.Create("call-2", "+15550101")
	handler := mountGateway(gw)

	req := httptest.NewRequest(http.MethodGet, "/api/demo/calls", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["count"])
	assert.Len(t, body["calls"], 2)
}
