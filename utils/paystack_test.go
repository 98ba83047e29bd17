package utils

import (
	"fmt"
	"lms/config"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{
		PaymentCallback: "http://localhost:3000/payment/callback",
	}
	os.Exit(m.Run())
}

func verifyServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/transaction/verify/")
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestVerifyTransaction_Success(t *testing.T) {
	server := verifyServer(t, 200, `{
		"status": true,
		"message": "Verification successful",
		"data": {
			"status": "success",
			"reference": "ref-123",
			"amount": 500000,
			"paid_at": "2026-03-01T10:00:00.000Z",
			"customer": {"email": "nurse@example.org"},
			"metadata": {"purpose": "COURSE_ENROLLMENT", "course_id": 7}
		}
	}`)

	client := NewPaystackClientWith(server.URL, "sk_test_secret")

	data, raw, err := client.VerifyTransaction("ref-123")
	require.NoError(t, err)
	assert.NotEmpty(t, raw)

	assert.Equal(t, "success", data.Status)
	assert.Equal(t, "ref-123", data.Reference)
	assert.EqualValues(t, 500000, data.Amount)
	assert.Equal(t, "nurse@example.org", data.Customer.Email)
	assert.Equal(t, "COURSE_ENROLLMENT", data.Metadata["purpose"])

	assert.Equal(t, VerificationSuccess, ClassifyTransaction(data))
}

func TestVerifyTransaction_FalseEnvelopeFailsClosed(t *testing.T) {
	server := verifyServer(t, 200, `{"status": false, "message": "Transaction reference not found"}`)

	client := NewPaystackClientWith(server.URL, "sk_test_secret")

	_, _, err := client.VerifyTransaction("unknown-ref")
	assert.ErrorIs(t, err, ErrPaymentVerificationFailed)
}

func TestVerifyTransaction_HTTPErrorFailsClosed(t *testing.T) {
	server := verifyServer(t, 404, `{"status": false, "message": "not found"}`)

	client := NewPaystackClientWith(server.URL, "sk_test_secret")

	_, _, err := client.VerifyTransaction("ref-123")
	assert.ErrorIs(t, err, ErrPaymentVerificationFailed)
}

func TestVerifyTransaction_TransportErrorFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewPaystackClientWith(server.URL, "sk_test_secret")

	_, _, err := client.VerifyTransaction("ref-123")
	assert.ErrorIs(t, err, ErrPaymentVerificationFailed)
}

func TestVerifyTransaction_MalformedBodyFailsClosed(t *testing.T) {
	server := verifyServer(t, 200, `not json at all`)

	client := NewPaystackClientWith(server.URL, "sk_test_secret")

	_, _, err := client.VerifyTransaction("ref-123")
	assert.ErrorIs(t, err, ErrPaymentVerificationFailed)
}

func TestClassifyTransaction(t *testing.T) {
	tests := []struct {
		status string
		want   VerificationOutcome
	}{
		{"success", VerificationSuccess},
		{"failed", VerificationFailed},
		{"abandoned", VerificationFailed},
		{"reversed", VerificationFailed},
		{"pending", VerificationPending},
		{"ongoing", VerificationPending},
		{"", VerificationPending},
	}

	for _, tt := range tests {
		t.Run("status "+tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTransaction(&TransactionData{Status: tt.status}))
		})
	}
}

func TestCheckSettledAmount(t *testing.T) {
	assert.NoError(t, CheckSettledAmount(&TransactionData{Amount: 500000}, 500000))
	assert.NoError(t, CheckSettledAmount(&TransactionData{Amount: 600000}, 500000))

	err := CheckSettledAmount(&TransactionData{Amount: 499999}, 500000)
	assert.ErrorIs(t, err, ErrAmountMismatch)
}

func TestInitializeTransaction_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{
			"status": true,
			"message": "Authorization URL created",
			"data": {
				"authorization_url": "https://checkout.example.com/abc123",
				"access_code": "abc123",
				"reference": "ref-456"
			}
		}`)
	}))
	t.Cleanup(server.Close)

	client := NewPaystackClientWith(server.URL, "sk_test_secret")

	data, err := client.InitializeTransaction("nurse@example.org", 500000, "ref-456", map[string]interface{}{"purpose": "MEMBERSHIP"})
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.example.com/abc123", data.AuthorizationURL)
	assert.Equal(t, "ref-456", data.Reference)
}

func TestInitializeTransaction_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(400)
		fmt.Fprint(w, `{"status": false, "message": "Invalid amount"}`)
	}))
	t.Cleanup(server.Close)

	client := NewPaystackClientWith(server.URL, "sk_test_secret")

	_, err := client.InitializeTransaction("nurse@example.org", 0, "ref-789", nil)
	assert.Error(t, err)
}
