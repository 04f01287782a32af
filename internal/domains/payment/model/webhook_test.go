package model

import (
	"encoding/base64"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWebhookBody_JSONPayload(t *testing.T) {
	body := []byte(`{
		"event": "pg.order.completed",
		"payload": {
			"merchantTransactionId": "TXN123",
			"transactionId": "GW456",
			"state": "COMPLETED",
			"responseCode": "SUCCESS",
			"paymentInstrument": {"type": "UPI"}
		}
	}`)

	event, err := NormalizeWebhookBody("application/json", body)
	require.NoError(t, err)

	assert.Equal(t, "TXN123", event.MerchantTxnID)
	assert.Equal(t, OutcomeSuccess, event.Outcome)
	assert.Equal(t, "GW456", event.GatewayTxnID)
	assert.Equal(t, "UPI", event.Instrument)
	assert.Equal(t, "pg.order.completed", event.EventType)
}

func TestNormalizeWebhookBody_Base64ResponseWrapper(t *testing.T) {
	inner := `{
		"code": "PAYMENT_SUCCESS",
		"data": {
			"merchantTransactionId": "TXN777",
			"transactionId": "GW777",
			"state": "COMPLETED",
			"responseCode": "SUCCESS",
			"paymentInstrument": {"type": "CARD"}
		}
	}`
	encoded := base64.StdEncoding.EncodeToString([]byte(inner))
	body := []byte(`{"response": "` + encoded + `"}`)

	event, err := NormalizeWebhookBody("application/json", body)
	require.NoError(t, err)

	assert.Equal(t, "TXN777", event.MerchantTxnID)
	assert.Equal(t, OutcomeSuccess, event.Outcome)
	assert.Equal(t, "CARD", event.Instrument)
}

func TestNormalizeWebhookBody_URLEncodedForm(t *testing.T) {
	inner := `{
		"code": "PAYMENT_ERROR",
		"data": {
			"merchantTransactionId": "TXN888",
			"transactionId": "GW888",
			"state": "FAILED",
			"responseCode": "ZU"
		}
	}`
	encoded := base64.StdEncoding.EncodeToString([]byte(inner))
	form := url.Values{}
	form.Set("response", encoded)

	event, err := NormalizeWebhookBody("application/x-www-form-urlencoded", []byte(form.Encode()))
	require.NoError(t, err)

	assert.Equal(t, "TXN888", event.MerchantTxnID)
	assert.Equal(t, OutcomeFailed, event.Outcome)
	assert.Equal(t, "ZU", event.ResponseCode)
}

func TestNormalizeWebhookBody_UnknownStateStaysPending(t *testing.T) {
	body := []byte(`{
		"event": "pg.order.updated",
		"payload": {
			"merchantTransactionId": "TXN999",
			"state": "SOMETHING_NEW"
		}
	}`)

	event, err := NormalizeWebhookBody("application/json", body)
	require.NoError(t, err)
	assert.Equal(t, OutcomePending, event.Outcome)
}

func TestNormalizeWebhookBody_Garbage(t *testing.T) {
	cases := map[string][]byte{
		"empty":                {},
		"whitespace":           []byte("   "),
		"not json":             []byte("<<<>>>"),
		"json without txn id":  []byte(`{"payload": {"state": "COMPLETED"}}`),
		"bad base64 response":  []byte(`{"response": "!!!not-base64!!!"}`),
		"form without field":   []byte("foo=bar"),
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			contentType := "application/json"
			if name == "form without field" {
				contentType = "application/x-www-form-urlencoded"
			}
			_, err := NormalizeWebhookBody(contentType, body)
			assert.ErrorIs(t, err, ErrInvalidWebhook)
		})
	}
}

func TestNormalizeWebhookBody_MerchantOrderIDFallback(t *testing.T) {
	body := []byte(`{
		"type": "CHECKOUT_ORDER_COMPLETED",
		"payload": {
			"merchantOrderId": "TXN555",
			"state": "COMPLETED"
		}
	}`)

	event, err := NormalizeWebhookBody("application/json", body)
	require.NoError(t, err)
	assert.Equal(t, "TXN555", event.MerchantTxnID)
	assert.Equal(t, "CHECKOUT_ORDER_COMPLETED", event.EventType)
}
