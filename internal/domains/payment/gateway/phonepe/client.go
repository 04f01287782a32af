package phonepe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pujaseva-backend/internal/config"
	"pujaseva-backend/internal/domains/payment/gateway"
	"pujaseva-backend/internal/domains/payment/model"
	"pujaseva-backend/pkg/logger"
)

const (
	payPath    = "/pg/v1/pay"
	statusPath = "/pg/v1/status"
	tokenPath  = "/v1/oauth/token"

	// auth modes
	AuthModeOAuth    = "oauth"
	AuthModeChecksum = "checksum"
)

// the gateway bills in paise
var paiseFactor = decimal.NewFromInt(100)

// Client talks to the PhonePe Standard Checkout API. Depending on
// AuthMode it signs requests with the legacy salt-key checksum or an
// OAuth bearer token.
type Client struct {
	cfg        config.PhonePeConfig
	httpClient *http.Client
	tokens     *tokenManager
}

func NewClient(cfg config.PhonePeConfig) *Client {
	httpClient := &http.Client{Timeout: 15 * time.Second}

	c := &Client{
		cfg:        cfg,
		httpClient: httpClient,
	}
	if cfg.AuthMode == AuthModeOAuth {
		c.tokens = newTokenManager(httpClient, strings.TrimRight(cfg.APIURL, "/")+tokenPath, cfg.ClientID, cfg.ClientSecret)
	}
	return c
}

// InitiatePayment opens a hosted pay-page session and returns the URL
// the user must be redirected to.
func (c *Client) InitiatePayment(ctx context.Context, req *gateway.InitiationRequest) (*gateway.InitiationResult, error) {
	instrument := "PAY_PAGE"
	if req.Method != "" {
		instrument = strings.ToUpper(req.Method)
	}

	payload := payRequest{
		MerchantID:            c.cfg.MerchantID,
		MerchantTransactionID: req.MerchantTxnID,
		MerchantUserID:        req.UserID,
		Amount:                req.Amount.Mul(paiseFactor).IntPart(),
		RedirectURL:           req.RedirectURL,
		RedirectMode:          "REDIRECT",
		CallbackURL:           req.CallbackURL,
		PaymentInstrument:     paymentInstrument{Type: instrument},
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal pay request: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(payloadJSON)

	bodyJSON, err := json.Marshal(map[string]string{"request": encoded})
	if err != nil {
		return nil, fmt.Errorf("marshal pay body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.cfg.APIURL, "/")+payPath, bytes.NewReader(bodyJSON))
	if err != nil {
		return nil, fmt.Errorf("build pay request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if err := c.authorize(ctx, httpReq, encoded, payPath); err != nil {
		return nil, err
	}

	var pr payResponse
	if err := c.do(httpReq, &pr); err != nil {
		return nil, err
	}
	if !pr.Success || pr.Data.InstrumentResponse.RedirectInfo.URL == "" {
		logger.Warn("PhonePe pay call rejected", map[string]interface{}{
			"merchant_txn_id": req.MerchantTxnID,
			"code":            pr.Code,
		})
		return nil, fmt.Errorf("%w: %s", model.ErrGatewayUnavailable, pr.Code)
	}

	return &gateway.InitiationResult{
		RedirectURL: pr.Data.InstrumentResponse.RedirectInfo.URL,
	}, nil
}

// VerifyStatus asks the gateway for the authoritative state of a
// transaction.
func (c *Client) VerifyStatus(ctx context.Context, merchantTxnID string) (*gateway.StatusResult, error) {
	path := fmt.Sprintf("%s/%s/%s", statusPath, c.cfg.MerchantID, merchantTxnID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimRight(c.cfg.APIURL, "/")+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-MERCHANT-ID", c.cfg.MerchantID)
	if err := c.authorize(ctx, httpReq, "", path); err != nil {
		return nil, err
	}

	var sr statusResponse
	if err := c.do(httpReq, &sr); err != nil {
		return nil, err
	}

	return &gateway.StatusResult{
		Outcome:      mapState(sr.Data.State, sr.Code),
		GatewayTxnID: sr.Data.TransactionID,
		Instrument:   sr.Data.PaymentInstrument.Type,
		ResponseCode: sr.Data.ResponseCode,
	}, nil
}

// authorize attaches the scheme the merchant account is configured
// for: X-VERIFY checksum or an O-Bearer OAuth token.
func (c *Client) authorize(ctx context.Context, req *http.Request, base64Payload, path string) error {
	if c.cfg.AuthMode == AuthModeOAuth {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", model.ErrGatewayUnavailable, err)
		}
		req.Header.Set("Authorization", "O-Bearer "+token)
		return nil
	}

	req.Header.Set("X-VERIFY", BuildChecksum(base64Payload, path, c.cfg.SaltKey, c.cfg.SaltIndex))
	return nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read gateway response: %w", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: gateway returned %d", model.ErrGatewayUnavailable, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	return nil
}

// mapState folds PhonePe's state/code vocabulary into the internal
// outcomes. PENDING is the safe default for anything unknown.
func mapState(state, code string) string {
	switch strings.ToUpper(state) {
	case "COMPLETED":
		return model.OutcomeSuccess
	case "FAILED":
		return model.OutcomeFailed
	}
	switch strings.ToUpper(code) {
	case "PAYMENT_SUCCESS":
		return model.OutcomeSuccess
	case "PAYMENT_ERROR", "PAYMENT_DECLINED", "TIMED_OUT":
		return model.OutcomeFailed
	default:
		return model.OutcomePending
	}
}
