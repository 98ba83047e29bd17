package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"lms/config"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrPaymentVerificationFailed covers transport errors, non-success gateway
	// envelopes and unknown references. Verification always fails closed.
	ErrPaymentVerificationFailed = errors.New("payment verification failed")

	// ErrAmountMismatch is returned when the gateway settled less than the
	// expected price. The gateway amount is authoritative.
	ErrAmountMismatch = errors.New("settled amount is below the expected price")
)

// VerificationOutcome classifies a gateway transaction status.
type VerificationOutcome string

const (
	VerificationSuccess VerificationOutcome = "success"
	VerificationFailed  VerificationOutcome = "failed"
	VerificationPending VerificationOutcome = "pending"
)

// gatewayEnvelope is the outer response wrapper used on every gateway endpoint
type gatewayEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// TransactionData is the verify-endpoint payload this service consumes
type TransactionData struct {
	Status    string `json:"status"` // success, failed, abandoned, pending...
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"` // minor currency unit
	PaidAt    string `json:"paid_at"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
	Metadata map[string]interface{} `json:"metadata"`
}

// InitializeData is the initialize-endpoint payload
type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// PaystackClient talks to the payment gateway's transaction endpoints
type PaystackClient struct {
	client  *resty.Client
	baseURL string
}

// NewPaystackClient builds a client from the application config.
func NewPaystackClient() *PaystackClient {
	return NewPaystackClientWith(config.AppConfig.PaystackBaseURL, config.AppConfig.PaystackSecretKey)
}

// NewPaystackClientWith builds a client against an explicit base URL and
// secret. Gateway calls carry a bounded timeout so a hung gateway fails closed
// instead of pinning the request.
func NewPaystackClientWith(baseURL, secretKey string) *PaystackClient {
	client := resty.New().
		SetTimeout(15 * time.Second).
		SetAuthToken(secretKey).
		SetHeader("Content-Type", "application/json")

	return &PaystackClient{client: client, baseURL: baseURL}
}

// InitializeTransaction registers a pending transaction with the gateway and
// returns the authorization URL to redirect the payer to. The reference is
// ours; the gateway echoes it back at verification time.
func (p *PaystackClient) InitializeTransaction(email string, amount int64, reference string, metadata map[string]interface{}) (*InitializeData, error) {
	body := map[string]interface{}{
		"email":        email,
		"amount":       amount,
		"reference":    reference,
		"callback_url": config.AppConfig.PaymentCallback,
		"metadata":     metadata,
	}

	resp, err := p.client.R().
		SetBody(body).
		Post(p.baseURL + "/transaction/initialize")
	if err != nil {
		return nil, fmt.Errorf("gateway initialize request: %w", err)
	}

	var envelope gatewayEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("gateway initialize response: %w", err)
	}
	if resp.StatusCode() != 200 || !envelope.Status {
		return nil, fmt.Errorf("gateway initialize rejected: %s", envelope.Message)
	}

	var data InitializeData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, fmt.Errorf("gateway initialize data: %w", err)
	}

	return &data, nil
}

// VerifyTransaction asks the gateway for the state of a transaction reference.
// Any transport error or a false envelope status yields
// ErrPaymentVerificationFailed; a successful call returns the transaction data
// plus the raw response body for the audit trail.
func (p *PaystackClient) VerifyTransaction(reference string) (*TransactionData, string, error) {
	resp, err := p.client.R().
		Get(p.baseURL + "/transaction/verify/" + reference)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrPaymentVerificationFailed, err)
	}

	raw := string(resp.Body())

	var envelope gatewayEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, raw, fmt.Errorf("%w: malformed response", ErrPaymentVerificationFailed)
	}
	if resp.StatusCode() != 200 || !envelope.Status {
		return nil, raw, fmt.Errorf("%w: %s", ErrPaymentVerificationFailed, envelope.Message)
	}

	var data TransactionData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, raw, fmt.Errorf("%w: malformed transaction data", ErrPaymentVerificationFailed)
	}

	return &data, raw, nil
}

// ClassifyTransaction maps the gateway transaction status onto the three-way
// outcome downstream code acts on. Only VerificationSuccess unlocks anything.
func ClassifyTransaction(data *TransactionData) VerificationOutcome {
	switch data.Status {
	case "success":
		return VerificationSuccess
	case "failed", "abandoned", "reversed":
		return VerificationFailed
	default:
		return VerificationPending
	}
}

// CheckSettledAmount enforces the price check on a verified transaction: the
// amount the gateway settled must cover the expected price.
func CheckSettledAmount(data *TransactionData, expected int64) error {
	if data.Amount < expected {
		return fmt.Errorf("%w: settled %d, expected %d", ErrAmountMismatch, data.Amount, expected)
	}
	return nil
}
