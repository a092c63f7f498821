package mesomb

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// WebhookSignatureHeader carries the hex HMAC-SHA1 of the raw webhook body
const WebhookSignatureHeader = "X-Mesomb-Signature"

// SignWebhook returns the signature a notification body must carry
func SignWebhook(secret string, body []byte) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhook reports whether signature matches body under secret.
// Nothing verifies against an empty secret.
func VerifyWebhook(secret string, body []byte, signature string) bool {
	if secret == "" {
		return false
	}
	got, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(signature), "sha1="))
	if err != nil || len(got) == 0 {
		return false
	}
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), got)
}
