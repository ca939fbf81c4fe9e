package fetcher

import (
	"context"
	"fmt"
	"io"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message"
	"github.com/sirupsen/logrus"

	"mailmuse/internal/config"
)

// IMAPFetcher implements MessageFetcher over IMAP. The configured label
// is used as the mailbox name; Gmail exposes labels as IMAP folders, so
// the same configuration works against both fetch paths. Message-ID
// headers serve as the stable identifier.
type IMAPFetcher struct {
	client  *client.Client
	mailbox string
}

// NewIMAPFetcher connects and logs in to the IMAP server
func NewIMAPFetcher(cfg *config.GmailConfig) (*IMAPFetcher, error) {
	c, err := client.DialTLS(fmt.Sprintf("%s:%d", cfg.IMAPHost, cfg.IMAPPort), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IMAP server: %w", err)
	}

	if err := c.Login(cfg.IMAPUser, cfg.IMAPPassword); err != nil {
		c.Logout()
		return nil, fmt.Errorf("failed to login to IMAP server: %w", err)
	}

	return &IMAPFetcher{
		client:  c,
		mailbox: cfg.Label,
	}, nil
}

// ListMessageIDs returns the Message-ID header of every message in the
// configured mailbox.
func (f *IMAPFetcher) ListMessageIDs(ctx context.Context) ([]string, error) {
	mbox, err := f.client.Select(f.mailbox, true)
	if err != nil {
		return nil, fmt.Errorf("failed to select mailbox %q: %w", f.mailbox, err)
	}

	if mbox.Messages == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddRange(1, mbox.Messages)

	messages := make(chan *imap.Message, 64)
	done := make(chan error, 1)
	go func() {
		done <- f.client.Fetch(seqset, []imap.FetchItem{imap.FetchEnvelope}, messages)
	}()

	var ids []string
	for msg := range messages {
		if msg.Envelope == nil || msg.Envelope.MessageId == "" {
			continue
		}
		ids = append(ids, msg.Envelope.MessageId)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to fetch envelopes: %w", err)
	}
	return ids, nil
}

// GetMessage fetches the message with the given Message-ID header and
// adapts it into a validated RawMessage.
func (f *IMAPFetcher) GetMessage(ctx context.Context, id string) (RawMessage, error) {
	if _, err := f.client.Select(f.mailbox, true); err != nil {
		return RawMessage{}, fmt.Errorf("failed to select mailbox %q: %w", f.mailbox, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Header.Add("Message-Id", id)

	seqNums, err := f.client.Search(criteria)
	if err != nil {
		return RawMessage{}, fmt.Errorf("failed to search for message %s: %w", id, err)
	}
	if len(seqNums) == 0 {
		return RawMessage{}, fmt.Errorf("message %s not found in mailbox %q", id, f.mailbox)
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(seqNums[0])

	section := &imap.BodySectionName{}
	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- f.client.Fetch(seqset, []imap.FetchItem{section.FetchItem()}, messages)
	}()

	var raw RawMessage
	for msg := range messages {
		r := msg.GetBody(section)
		if r == nil {
			continue
		}
		entity, err := message.Read(r)
		if err != nil {
			logrus.Warnf("Failed to read IMAP message %s: %v", id, err)
			continue
		}
		raw = convertEntity(id, entity)
	}

	if err := <-done; err != nil {
		return RawMessage{}, fmt.Errorf("failed to fetch message %s: %w", id, err)
	}

	if err := raw.Validate(); err != nil {
		return RawMessage{}, err
	}
	return raw, nil
}

// convertEntity adapts a parsed MIME entity into a RawMessage.
func convertEntity(id string, entity *message.Entity) RawMessage {
	raw := RawMessage{
		ID:      id,
		Headers: make(map[string]string),
	}

	fields := entity.Header.Fields()
	for fields.Next() {
		raw.Headers[fields.Key()] = fields.Value()
	}

	raw.Parts = []BodyPart{convertMIMEPart(entity)}
	return raw
}

// convertMIMEPart recursively converts a MIME entity into the BodyPart
// tree shared with the Gmail fetch path.
func convertMIMEPart(entity *message.Entity) BodyPart {
	mimeType, _, _ := entity.Header.ContentType()
	part := BodyPart{MIMEType: mimeType}

	if mr := entity.MultipartReader(); mr != nil {
		for {
			sub, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				logrus.Warnf("Failed to read MIME part: %v", err)
				break
			}
			part.Parts = append(part.Parts, convertMIMEPart(sub))
		}
		return part
	}

	data, err := io.ReadAll(entity.Body)
	if err == nil {
		part.Data = data
	}
	return part
}

// Close logs out from the IMAP server
func (f *IMAPFetcher) Close() error {
	return f.client.Logout()
}
