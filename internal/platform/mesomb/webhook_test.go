package mesomb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyWebhook(t *testing.T) {
	body := []byte(`{"reference":"pk-1","status":"SUCCESS"}`)
	signature := SignWebhook("hook-secret", body)

	tests := []struct {
		name      string
		secret    string
		body      []byte
		signature string
		expected  bool
	}{
		{name: "Valid", secret: "hook-secret", body: body, signature: signature, expected: true},
		{name: "PrefixedValid", secret: "hook-secret", body: body, signature: "sha1=" + signature, expected: true},
		{name: "Missing", secret: "hook-secret", body: body, signature: "", expected: false},
		{name: "NotHex", secret: "hook-secret", body: body, signature: "zz", expected: false},
		{name: "WrongSecret", secret: "other", body: body, signature: signature, expected: false},
		{name: "TamperedBody", secret: "hook-secret", body: []byte(`{"reference":"pk-1","status":"FAILED"}`), signature: signature, expected: false},
		{name: "NoSecretConfigured", secret: "", body: body, signature: SignWebhook("", body), expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, VerifyWebhook(tc.secret, tc.body, tc.signature))
		})
	}
}
