package fetcher

import (
	"context"
	"fmt"
	"net/textproto"
)

// RawMessage is the structural type every mail source is adapted into
// before normalization. It is validated at the adapter boundary so the
// normalizer never sees a half-built message.
type RawMessage struct {
	ID      string
	Headers map[string]string
	Parts   []BodyPart
}

// BodyPart is one decoded MIME part of a raw message. Multipart
// containers carry their children in Parts and usually have no Data.
type BodyPart struct {
	MIMEType string
	Data     []byte
	Parts    []BodyPart
}

// Validate checks the invariants the normalizer relies on.
func (m *RawMessage) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("raw message has empty id")
	}
	if m.Headers == nil {
		return fmt.Errorf("raw message %s has nil headers", m.ID)
	}
	return nil
}

// Header returns a header value using canonical MIME key lookup,
// so "subject" and "Subject" are equivalent.
func (m *RawMessage) Header(name string) string {
	if v, ok := m.Headers[name]; ok {
		return v
	}
	return m.Headers[textproto.CanonicalMIMEHeaderKey(name)]
}

// MessageFetcher is the read-only mail source adapter. ListMessageIDs
// returns identifiers of messages under the configured label;
// GetMessage fetches one message in full.
type MessageFetcher interface {
	ListMessageIDs(ctx context.Context) ([]string, error)
	GetMessage(ctx context.Context, id string) (RawMessage, error)
	Close() error
}
