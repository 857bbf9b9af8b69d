package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) Config {
	return Config{
		PartnerCode: "PARTNER123",
		AccessKey:   "access-key",
		SecretKey:   "super-secret",
		Endpoint:    endpoint,
		RedirectURL: "http://localhost:8080/v1/payment/momo-return",
		IPNURL:      "http://localhost:8080/v1/payment/momo-ipn",
	}
}

func testIPNPayload() IPNPayload {
	return IPNPayload{
		PartnerCode:  "PARTNER123",
		OrderID:      "ORDER_1700000000000_abc123def456",
		RequestID:    "ORDER_1700000000000_abc123def456",
		Amount:       50000,
		OrderInfo:    "Top up 50000 VND",
		OrderType:    "momo_wallet",
		TransID:      4088878653,
		ResultCode:   0,
		Message:      "Success",
		PayType:      "qr",
		ResponseTime: 1700000001234,
		ExtraData:    EncodeExtraData(42),
	}
}

func TestSignIPN_Deterministic(t *testing.T) {
	client := NewClient(testConfig(""), time.Second)

	payload := testIPNPayload()
	first := client.SignIPN(&payload)
	second := client.SignIPN(&payload)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64) // hex-encoded SHA-256
}

func TestVerifyIPNSignature_Valid(t *testing.T) {
	client := NewClient(testConfig(""), time.Second)

	payload := testIPNPayload()
	payload.Signature = client.SignIPN(&payload)

	assert.True(t, client.VerifyIPNSignature(&payload))
}

func TestVerifyIPNSignature_TamperedFields(t *testing.T) {
	client := NewClient(testConfig(""), time.Second)

	base := testIPNPayload()
	base.Signature = client.SignIPN(&base)

	tests := []struct {
		name   string
		mutate func(p *IPNPayload)
	}{
		{"amount changed", func(p *IPNPayload) { p.Amount = 999999 }},
		{"orderId changed", func(p *IPNPayload) { p.OrderID = "ORDER_1_forged" }},
		{"resultCode changed", func(p *IPNPayload) { p.ResultCode = 1 }},
		{"extraData changed", func(p *IPNPayload) { p.ExtraData = EncodeExtraData(7) }},
		{"signature stripped", func(p *IPNPayload) { p.Signature = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := base
			tt.mutate(&payload)
			assert.False(t, client.VerifyIPNSignature(&payload))
		})
	}
}

func TestVerifyIPNSignature_WrongSecret(t *testing.T) {
	signer := NewClient(testConfig(""), time.Second)

	otherCfg := testConfig("")
	otherCfg.SecretKey = "different-secret"
	verifier := NewClient(otherCfg, time.Second)

	payload := testIPNPayload()
	payload.Signature = signer.SignIPN(&payload)

	assert.False(t, verifier.VerifyIPNSignature(&payload))
}

func TestCreateOrder_Success(t *testing.T) {
	var received CreateOrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(CreateOrderResponse{
			PayURL:     "https://pay.example/abc",
			QRCodeURL:  "https://qr.example/abc",
			Deeplink:   "momo://pay/abc",
			ResultCode: 0,
			Message:    "Success",
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), time.Second)

	resp, err := client.CreateOrder("req-1", "ORDER_1_x", "Top up 50000 VND", EncodeExtraData(42), 50000)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/abc", resp.PayURL)
	assert.Equal(t, "https://qr.example/abc", resp.QRCodeURL)

	// The request carried a signature the gateway can recompute.
	assert.Equal(t, "ORDER_1_x", received.OrderID)
	assert.Equal(t, int64(50000), received.Amount)
	assert.Equal(t, "captureWallet", received.RequestType)
	expected := client.SignCreateRequest("req-1", "ORDER_1_x", "Top up 50000 VND", received.ExtraData, 50000)
	assert.Equal(t, expected, received.Signature)
}

func TestCreateOrder_GatewayRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(CreateOrderResponse{
			ResultCode: 41,
			Message:    "Order already exists",
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), time.Second)

	_, err := client.CreateOrder("req-1", "ORDER_1_x", "info", "", 50000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Order already exists")
}

func TestCreateOrder_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(testConfig(server.URL), time.Second)

	_, err := client.CreateOrder("req-1", "ORDER_1_x", "info", "", 50000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway request failed")
}

func TestExtraData_RoundTrip(t *testing.T) {
	encoded := EncodeExtraData(42)

	userID, err := DecodeExtraData(encoded)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestDecodeExtraData_Invalid(t *testing.T) {
	_, err := DecodeExtraData("not-base64!!!")
	assert.Error(t, err)

	_, err = DecodeExtraData("e30=") // "{}" - no user reference
	assert.Error(t, err)
}
