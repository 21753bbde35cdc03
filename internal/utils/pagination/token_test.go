package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeMultiFieldToken(t *testing.T) {
	// Standard two-field cursor (timestamp, entry ID)
	ts := time.Date(2026, 5, 15, 14, 30, 45, 123456789, time.UTC).Format(time.RFC3339Nano)
	token := EncodeMultiFieldToken(ts, "entry-42")
	assert.NotEmpty(t, token, "Token should not be empty")

	fields, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, []string{ts, "entry-42"}, fields, "Fields should round-trip")

	// Single field
	single := EncodeMultiFieldToken("only")
	fields, err = DecodeMultiFieldToken(single)
	assert.NoError(t, err)
	assert.Equal(t, []string{"only"}, fields)

	// Empty token decodes to one empty field
	fields, err = DecodeMultiFieldToken(EncodeMultiFieldToken(""))
	assert.NoError(t, err)
	assert.Equal(t, []string{""}, fields)
}

func TestDecodeMultiFieldTokenInvalidBase64(t *testing.T) {
	_, err := DecodeMultiFieldToken("not-valid-base64!!!")
	assert.Error(t, err, "Invalid base64 should return an error")
}
