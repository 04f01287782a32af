package model

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"
)

// WebhookEvent is the single normalized shape every gateway delivery
// is reduced to before any business logic runs.
type WebhookEvent struct {
	EventType     string `json:"event_type"`
	MerchantTxnID string `json:"merchant_txn_id"`
	Outcome       string `json:"outcome"`
	GatewayTxnID  string `json:"gateway_txn_id"`
	Instrument    string `json:"instrument"`
	ResponseCode  string `json:"response_code"`
}

// phonePeCallback mirrors the gateway's JSON delivery. The legacy
// delivery wraps the same payload base64-encoded under "response".
type phonePeCallback struct {
	Event    string `json:"event"`
	Type     string `json:"type"`
	Response string `json:"response"`
	Payload  struct {
		MerchantTransactionID string `json:"merchantTransactionId"`
		MerchantOrderID       string `json:"merchantOrderId"`
		TransactionID         string `json:"transactionId"`
		State                 string `json:"state"`
		ResponseCode          string `json:"responseCode"`
		PaymentInstrument     struct {
			Type string `json:"type"`
		} `json:"paymentInstrument"`
	} `json:"payload"`
	Data json.RawMessage `json:"data"`
}

// NormalizeWebhookBody parses a raw delivery into a WebhookEvent. The
// gateway has shipped three shapes over time: plain JSON with a
// payload object, JSON wrapping a base64 "response", and URL-encoded
// forms with a base64 "response" field. All three are accepted.
func NormalizeWebhookBody(contentType string, body []byte) (*WebhookEvent, error) {
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return nil, ErrInvalidWebhook
	}

	if strings.Contains(contentType, "application/x-www-form-urlencoded") {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return nil, ErrInvalidWebhook
		}
		encoded := values.Get("response")
		if encoded == "" {
			return nil, ErrInvalidWebhook
		}
		return normalizeEncodedResponse(encoded)
	}

	var cb phonePeCallback
	if err := json.Unmarshal(body, &cb); err != nil {
		return nil, ErrInvalidWebhook
	}

	if cb.Response != "" {
		return normalizeEncodedResponse(cb.Response)
	}

	return eventFromCallback(&cb)
}

func normalizeEncodedResponse(encoded string) (*WebhookEvent, error) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidWebhook
	}

	// The decoded document nests the transaction under "data".
	var outer struct {
		Code string `json:"code"`
		Data struct {
			MerchantTransactionID string `json:"merchantTransactionId"`
			TransactionID         string `json:"transactionId"`
			State                 string `json:"state"`
			ResponseCode          string `json:"responseCode"`
			PaymentInstrument     struct {
				Type string `json:"type"`
			} `json:"paymentInstrument"`
		} `json:"data"`
	}
	if err := json.Unmarshal(decoded, &outer); err != nil {
		return nil, ErrInvalidWebhook
	}
	if outer.Data.MerchantTransactionID == "" {
		return nil, ErrInvalidWebhook
	}

	return &WebhookEvent{
		EventType:     outer.Code,
		MerchantTxnID: outer.Data.MerchantTransactionID,
		Outcome:       mapGatewayState(outer.Data.State),
		GatewayTxnID:  outer.Data.TransactionID,
		Instrument:    outer.Data.PaymentInstrument.Type,
		ResponseCode:  outer.Data.ResponseCode,
	}, nil
}

func eventFromCallback(cb *phonePeCallback) (*WebhookEvent, error) {
	txnID := cb.Payload.MerchantTransactionID
	if txnID == "" {
		txnID = cb.Payload.MerchantOrderID
	}
	if txnID == "" {
		return nil, ErrInvalidWebhook
	}

	eventType := cb.Event
	if eventType == "" {
		eventType = cb.Type
	}

	return &WebhookEvent{
		EventType:     eventType,
		MerchantTxnID: txnID,
		Outcome:       mapGatewayState(cb.Payload.State),
		GatewayTxnID:  cb.Payload.TransactionID,
		Instrument:    cb.Payload.PaymentInstrument.Type,
		ResponseCode:  cb.Payload.ResponseCode,
	}, nil
}

// mapGatewayState folds the gateway's state vocabulary into the three
// internal outcomes. Anything unrecognized stays PENDING so a flaky
// delivery can never flip an order terminal by accident.
func mapGatewayState(state string) string {
	switch strings.ToUpper(state) {
	case "COMPLETED", "SUCCESS", "PAYMENT_SUCCESS":
		return OutcomeSuccess
	case "FAILED", "PAYMENT_ERROR", "PAYMENT_DECLINED", "TIMED_OUT":
		return OutcomeFailed
	default:
		return OutcomePending
	}
}
