package webhook_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structfi/bondledger/internal/webhook"
)

func seriesEvent(eventID, eventType string) webhook.WebhookEvent {
	classID := uint64(1)
	nonceID := uint64(0)
	holder := "0xAaAa000000000000000000000000000000000001"
	amount := "1000000000000000000"
	return webhook.WebhookEvent{
		EventID:   eventID,
		EventType: eventType,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Data: webhook.EventData{
			ClassID: &classID,
			NonceID: &nonceID,
			To:      &holder,
			Amount:  &amount,
		},
	}
}

func TestGenerateSignedPayload(t *testing.T) {
	t.Run("generates valid payload and signature", func(t *testing.T) {
		hexSecret := "746573742d7365637265742d6b6579"
		event := seriesEvent("01JG8XAMPLE1234567890123456", "bonds.issued")

		payload, signature, timestamp, err := webhook.GenerateSignedPayload(hexSecret, event)
		require.NoError(t, err)

		// Verify payload is valid JSON
		var parsedEvent webhook.WebhookEvent
		err = json.Unmarshal(payload, &parsedEvent)
		require.NoError(t, err)
		assert.Equal(t, event.EventID, parsedEvent.EventID)
		assert.Equal(t, event.EventType, parsedEvent.EventType)

		// Verify signature format
		assert.Contains(t, signature, "sha256=")
		assert.Greater(t, len(signature), 7) // "sha256=" + hash

		// Verify timestamp is reasonable (within last few seconds)
		now := time.Now().Unix()
		assert.GreaterOrEqual(t, now, timestamp)
		assert.Less(t, now-timestamp, int64(5))

		// Verify signature can be validated
		signaturePayload := fmt.Sprintf("%d.%s.%s", timestamp, event.EventID, string(payload))
		secretBytes, err := hex.DecodeString(hexSecret)
		require.NoError(t, err)
		h := hmac.New(sha256.New, secretBytes)
		h.Write([]byte(signaturePayload))
		expectedSignature := "sha256=" + hex.EncodeToString(h.Sum(nil))
		assert.Equal(t, expectedSignature, signature)
	})

	t.Run("different events produce different signatures", func(t *testing.T) {
		hexSecret := "746573742d7365637265742d6b6579"

		event1 := seriesEvent("01JG8XAMPLE1111111111111111", "bonds.issued")
		event2 := seriesEvent("01JG8XAMPLE2222222222222222", "bonds.transferred")

		_, signature1, _, err := webhook.GenerateSignedPayload(hexSecret, event1)
		require.NoError(t, err)

		_, signature2, _, err := webhook.GenerateSignedPayload(hexSecret, event2)
		require.NoError(t, err)

		assert.NotEqual(t, signature1, signature2)
	})

	t.Run("different secrets produce different signatures", func(t *testing.T) {
		event := seriesEvent("01JG8XAMPLE1234567890123456", "bonds.issued")

		// Hex encodings of "secret1" and "secret2"
		_, signature1, _, err := webhook.GenerateSignedPayload("73656372657431", event)
		require.NoError(t, err)

		_, signature2, _, err := webhook.GenerateSignedPayload("73656372657432", event)
		require.NoError(t, err)

		assert.NotEqual(t, signature1, signature2)
	})

	t.Run("signature includes event_id to prevent replay", func(t *testing.T) {
		hexSecret := "746573742d7365637265742d6b6579"

		// Same event data but different event IDs
		event1 := seriesEvent("01JG8XAMPLE1111111111111111", "dividend.deposited")
		event2 := seriesEvent("01JG8XAMPLE2222222222222222", "dividend.deposited")

		_, signature1, _, err := webhook.GenerateSignedPayload(hexSecret, event1)
		require.NoError(t, err)

		_, signature2, _, err := webhook.GenerateSignedPayload(hexSecret, event2)
		require.NoError(t, err)

		assert.NotEqual(t, signature1, signature2, "Different event IDs should produce different signatures")
	})

	t.Run("empty secret still produces valid signature", func(t *testing.T) {
		event := seriesEvent("01JG8XAMPLE1234567890123456", "bonds.issued")

		payload, signature, timestamp, err := webhook.GenerateSignedPayload("", event)
		require.NoError(t, err)
		assert.NotEmpty(t, payload)
		assert.NotEmpty(t, signature)
		assert.NotZero(t, timestamp)
	})

	t.Run("invalid hex secret returns error", func(t *testing.T) {
		invalidHexSecret := "not-valid-hex-string" //nolint:gosec,G101
		event := seriesEvent("01JG8XAMPLE1234567890123456", "bonds.issued")

		_, _, _, err := webhook.GenerateSignedPayload(invalidHexSecret, event)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode hex secret")
	})
}
