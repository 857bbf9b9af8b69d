package gateway

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Config holds the credentials and endpoints for the MoMo gateway. It is
// populated from the application config at startup and injected here; the
// client never reads the environment.
type Config struct {
	PartnerCode string
	AccessKey   string
	SecretKey   string
	Endpoint    string
	RedirectURL string
	IPNURL      string
}

// Client talks to the MoMo create-payment API and verifies IPN signatures.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a gateway client with a bounded request timeout.
func NewClient(cfg Config, timeout time.Duration) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateOrderRequest is the payload sent to the gateway's create endpoint.
type CreateOrderRequest struct {
	PartnerCode string `json:"partnerCode"`
	AccessKey   string `json:"accessKey"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IPNURL      string `json:"ipnUrl"`
	ExtraData   string `json:"extraData"`
	RequestType string `json:"requestType"`
	Signature   string `json:"signature"`
	Lang        string `json:"lang"`
}

// CreateOrderResponse is the gateway's answer to a create request.
type CreateOrderResponse struct {
	PayURL     string `json:"payUrl"`
	QRCodeURL  string `json:"qrCodeUrl"`
	Deeplink   string `json:"deeplink"`
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
}

// IPNPayload is the asynchronous payment notification delivered by the
// gateway. The transport is unauthenticated; Signature is the only thing
// that makes the payload trustworthy.
type IPNPayload struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId" binding:"required"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

// sign computes the HMAC-SHA256 hex digest of the canonical string.
func (c *Client) sign(raw string) string {
	h := hmac.New(sha256.New, []byte(c.cfg.SecretKey))
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}

// SignCreateRequest produces the signature over the create-order canonical
// parameter string. Field order is fixed by the gateway protocol.
func (c *Client) SignCreateRequest(requestID, orderID, orderInfo, extraData string, amount int64) string {
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=captureWallet",
		c.cfg.AccessKey, amount, extraData, c.cfg.IPNURL, orderID, orderInfo,
		c.cfg.PartnerCode, c.cfg.RedirectURL, requestID,
	)
	return c.sign(raw)
}

// SignIPN computes the signature over the IPN canonical parameter string.
// Used both for verification and for locally simulated notifications.
func (c *Client) SignIPN(p *IPNPayload) string {
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		c.cfg.AccessKey, p.Amount, p.ExtraData, p.Message, p.OrderID, p.OrderInfo,
		p.OrderType, c.cfg.PartnerCode, p.PayType, p.RequestID, p.ResponseTime,
		p.ResultCode, p.TransID,
	)
	return c.sign(raw)
}

// VerifyIPNSignature recomputes the IPN signature from the payload fields
// and compares it in constant time against the delivered one.
func (c *Client) VerifyIPNSignature(p *IPNPayload) bool {
	expected := c.SignIPN(p)
	return hmac.Equal([]byte(expected), []byte(p.Signature))
}

// CreateOrder submits a signed create request to the gateway and returns
// the redirect and QR data. Network failures and non-zero result codes are
// both returned as errors; no local state is written here.
func (c *Client) CreateOrder(requestID, orderID, orderInfo, extraData string, amount int64) (*CreateOrderResponse, error) {
	reqBody := CreateOrderRequest{
		PartnerCode: c.cfg.PartnerCode,
		AccessKey:   c.cfg.AccessKey,
		RequestID:   requestID,
		Amount:      amount,
		OrderID:     orderID,
		OrderInfo:   orderInfo,
		RedirectURL: c.cfg.RedirectURL,
		IPNURL:      c.cfg.IPNURL,
		ExtraData:   extraData,
		RequestType: "captureWallet",
		Signature:   c.SignCreateRequest(requestID, orderID, orderInfo, extraData, amount),
		Lang:        "vi",
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(c.cfg.Endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	var result CreateOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("gateway response decode failed: %w", err)
	}

	if result.ResultCode != 0 {
		return nil, fmt.Errorf("gateway rejected order %s: %s (code %d)", orderID, result.Message, result.ResultCode)
	}

	return &result, nil
}

// extraData carries the purchasing user through the gateway round trip.
type extraData struct {
	UserID uint `json:"userId"`
}

// EncodeExtraData packs the user reference into the base64 blob the
// gateway echoes back on the IPN.
func EncodeExtraData(userID uint) string {
	data, _ := json.Marshal(extraData{UserID: userID})
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeExtraData unpacks the user reference from an IPN payload.
func DecodeExtraData(encoded string) (uint, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return 0, fmt.Errorf("invalid extraData encoding: %w", err)
	}
	var extra extraData
	if err := json.Unmarshal(data, &extra); err != nil {
		return 0, fmt.Errorf("invalid extraData payload: %w", err)
	}
	if extra.UserID == 0 {
		return 0, fmt.Errorf("extraData missing user reference")
	}
	return extra.UserID, nil
}
