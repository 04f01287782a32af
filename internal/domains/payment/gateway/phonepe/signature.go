package phonepe

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// BuildChecksum computes the X-VERIFY header for the legacy salt-key
// auth scheme: SHA256(base64Payload + path + saltKey) + "###" + saltIndex.
// For GET endpoints base64Payload is empty and only the path is signed.
func BuildChecksum(base64Payload, path, saltKey, saltIndex string) string {
	sum := sha256.Sum256([]byte(base64Payload + path + saltKey))
	return hex.EncodeToString(sum[:]) + "###" + saltIndex
}

// WebhookAuthDigest computes the value PhonePe sends in the webhook
// Authorization header: SHA256 of "username:password" as configured in
// the merchant dashboard.
func WebhookAuthDigest(username, password string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s", username, password)))
	return hex.EncodeToString(sum[:])
}
