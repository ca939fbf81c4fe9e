package fetcher

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gmail "google.golang.org/api/gmail/v1"
)

func TestRawMessageValidate(t *testing.T) {
	valid := RawMessage{ID: "x", Headers: map[string]string{}}
	assert.NoError(t, valid.Validate())

	noID := RawMessage{Headers: map[string]string{}}
	assert.Error(t, noID.Validate())

	noHeaders := RawMessage{ID: "x"}
	assert.Error(t, noHeaders.Validate())
}

func TestRawMessageHeaderLookup(t *testing.T) {
	m := RawMessage{
		ID:      "x",
		Headers: map[string]string{"Subject": "hello", "X-Custom": "v"},
	}

	assert.Equal(t, "hello", m.Header("Subject"))
	assert.Equal(t, "hello", m.Header("subject"))
	assert.Equal(t, "v", m.Header("x-custom"))
	assert.Empty(t, m.Header("Date"))
}

func TestDecodeBodyPaddingVariants(t *testing.T) {
	body := []byte("<p>hello world</p>")

	padded := base64.URLEncoding.EncodeToString(body)
	decoded, err := decodeBody(padded)
	require.NoError(t, err)
	assert.Equal(t, body, decoded)

	unpadded := base64.RawURLEncoding.EncodeToString(body)
	decoded, err = decodeBody(unpadded)
	require.NoError(t, err)
	assert.Equal(t, body, decoded)
}

func TestConvertPartNested(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmail.MessagePart{
			{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: base64.RawURLEncoding.EncodeToString([]byte("plain"))},
			},
			{
				MimeType: "text/html",
				Body:     &gmail.MessagePartBody{Data: base64.RawURLEncoding.EncodeToString([]byte("<b>html</b>"))},
			},
		},
	}

	part := convertPart(payload)
	assert.Equal(t, "multipart/alternative", part.MIMEType)
	require.Len(t, part.Parts, 2)
	assert.Equal(t, []byte("plain"), part.Parts[0].Data)
	assert.Equal(t, "text/html", part.Parts[1].MIMEType)
	assert.Equal(t, []byte("<b>html</b>"), part.Parts[1].Data)
}
