package phonepe

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildChecksum(t *testing.T) {
	payload := "eyJtZXJjaGFudElkIjoiTSJ9"
	path := "/pg/v1/pay"
	saltKey := "salt-key-1"

	got := BuildChecksum(payload, path, saltKey, "1")

	sum := sha256.Sum256([]byte(payload + path + saltKey))
	want := hex.EncodeToString(sum[:]) + "###1"
	assert.Equal(t, want, got)
}

func TestBuildChecksum_EmptyPayloadSignsPathOnly(t *testing.T) {
	path := "/pg/v1/status/M/TXN1"
	saltKey := "salt-key-1"

	got := BuildChecksum("", path, saltKey, "2")

	sum := sha256.Sum256([]byte(path + saltKey))
	assert.Equal(t, hex.EncodeToString(sum[:])+"###2", got)
}

func TestWebhookAuthDigest(t *testing.T) {
	got := WebhookAuthDigest("merchant", "s3cret")

	sum := sha256.Sum256([]byte("merchant:s3cret"))
	assert.Equal(t, hex.EncodeToString(sum[:]), got)
	assert.Equal(t, strings.ToLower(got), got, "digest must be lowercase hex")
}
