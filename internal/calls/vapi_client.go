package calls

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/medischedule/medischedule-server/pkg/logging"
)

const (
	defaultVapiBaseURL = "https://api.vapi.ai"
	vapiCallTimeout    = 15 * time.Second
)

// VapiClient places outbound calls via the Vapi voice API.
type VapiClient struct {
	apiKey        string
	assistantID   string
	phoneNumberID string
	baseURL       string
	httpClient    *http.Client
	logger        *logging.Logger
}

// VapiClientConfig configures the outbound voice client.
type VapiClientConfig struct {
	// APIKey is the Vapi API key (Bearer token).
	APIKey string
	// AssistantID is the Vapi assistant that conducts the call.
	AssistantID string
	// PhoneNumberID is the Vapi originating phone number resource.
	PhoneNumberID string
	// BaseURL overrides the Vapi API base URL (for testing).
	BaseURL string
	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// NewVapiClient creates a client for initiating outbound AI voice calls.
// Missing credentials are a configuration error surfaced at startup, not a
// retryable condition.
func NewVapiClient(cfg VapiClientConfig) (*VapiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("vapi client: API key required")
	}
	if strings.TrimSpace(cfg.AssistantID) == "" {
		return nil, fmt.Errorf("vapi client: assistant ID required")
	}
	if strings.TrimSpace(cfg.PhoneNumberID) == "" {
		return nil, fmt.Errorf("vapi client: phone number ID required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultVapiBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: vapiCallTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &VapiClient{
		apiKey:        cfg.APIKey,
		assistantID:   cfg.AssistantID,
		phoneNumberID: cfg.PhoneNumberID,
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    httpClient,
		logger:        logger,
	}, nil
}

// OutboundCallRequest contains the parameters for initiating a call.
type OutboundCallRequest struct {
	// PhoneNumber is the patient's number (E.164).
	PhoneNumber string
	// ConsentType tags the call's consent context (defaults to "marketing").
	ConsentType string
	// CustomerID optionally links the call to a patient record.
	CustomerID string
}

// vapiCallRequest is the Vapi wire format.
type vapiCallRequest struct {
	AssistantID   string           `json:"assistantId"`
	PhoneNumberID string           `json:"phoneNumberId"`
	Customer      vapiCustomer     `json:"customer"`
	Metadata      vapiCallMetadata `json:"metadata"`
}

type vapiCustomer struct {
	Number string `json:"number"`
}

type vapiCallMetadata struct {
	ConsentType string `json:"consentType"`
	CustomerID  string `json:"customerId,omitempty"`
	Source      string `json:"source"`
}

// vapiCallResponse is the subset of the Vapi response we use.
type vapiCallResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// InitiateCall starts an outbound AI voice call and returns the vendor
// call id. A single attempt is made per invocation; vendor rejections are
// surfaced with the vendor's own error message.
func (c *VapiClient) InitiateCall(ctx context.Context, req OutboundCallRequest) (string, error) {
	if req.PhoneNumber == "" {
		return "", fmt.Errorf("vapi: phone number required")
	}
	if req.ConsentType == "" {
		req.ConsentType = "marketing"
	}

	body, err := json.Marshal(vapiCallRequest{
		AssistantID:   c.assistantID,
		PhoneNumberID: c.phoneNumberID,
		Customer:      vapiCustomer{Number: req.PhoneNumber},
		Metadata: vapiCallMetadata{
			ConsentType: req.ConsentType,
			CustomerID:  req.CustomerID,
			Source:      "demo",
		},
	})
	if err != nil {
		return "", fmt.Errorf("vapi: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/call", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("vapi: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Info("vapi: initiating outbound call",
		"to", maskPhone(req.PhoneNumber),
		"consent_type", req.ConsentType,
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("vapi: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("vapi: read response: %w", err)
	}

	var apiResp vapiCallResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil && resp.StatusCode < 300 {
		return "", fmt.Errorf("vapi: decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("vapi: API error",
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		if apiResp.Message != "" {
			return "", fmt.Errorf("%s", apiResp.Message)
		}
		return "", fmt.Errorf("vapi: API returned %d", resp.StatusCode)
	}

	if apiResp.ID == "" {
		return "", fmt.Errorf("vapi: response missing call id")
	}

	c.logger.Info("vapi: outbound call initiated",
		"call_id", apiResp.ID,
		"to", maskPhone(req.PhoneNumber),
	)
	return apiResp.ID, nil
}

// maskPhone keeps only the last four digits for logs.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return "****" + phone[len(phone)-4:]
}
