package fetcher

import (
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"mailmuse/internal/config"
)

// GmailFetcher implements MessageFetcher using the Gmail API with the
// read-only scope.
type GmailFetcher struct {
	service   *gmail.Service
	userEmail string
	label     string
	labelID   string
	max       int64
	fetchAll  bool
}

// NewGmailFetcher creates a new Gmail API fetcher
func NewGmailFetcher(ctx context.Context, cfg *config.GmailConfig) (*GmailFetcher, error) {
	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{gmail.GmailReadonlyScope},
		Endpoint:     google.Endpoint,
	}

	token := &oauth2.Token{
		RefreshToken: cfg.RefreshToken,
	}

	tokenSource := oauth2Config.TokenSource(ctx, token)

	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	userEmail := cfg.UserEmail
	if userEmail == "" {
		userEmail = "me"
	}

	return &GmailFetcher{
		service:   service,
		userEmail: userEmail,
		label:     cfg.Label,
		max:       cfg.MaxResults,
		fetchAll:  cfg.FetchAll,
	}, nil
}

// resolveLabelID looks up the label id for the configured label name.
func (f *GmailFetcher) resolveLabelID(ctx context.Context) (string, error) {
	if f.labelID != "" {
		return f.labelID, nil
	}

	resp, err := f.service.Users.Labels.List(f.userEmail).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to list labels: %w", err)
	}

	for _, label := range resp.Labels {
		if label.Name == f.label {
			f.labelID = label.Id
			return f.labelID, nil
		}
	}

	return "", fmt.Errorf("label %q not found", f.label)
}

// ListMessageIDs returns identifiers of messages under the configured
// label, newest first. When fetch_all is enabled it pages through the
// entire label.
func (f *GmailFetcher) ListMessageIDs(ctx context.Context) ([]string, error) {
	var ids []string
	pageToken := ""
	for {
		page, next, err := f.ListPage(ctx, pageToken, f.max)
		if err != nil {
			return nil, err
		}
		ids = append(ids, page...)

		if !f.fetchAll || next == "" {
			break
		}
		pageToken = next
	}
	return ids, nil
}

// ListPage returns one page of message identifiers plus the next page
// token, empty when the label is exhausted.
func (f *GmailFetcher) ListPage(ctx context.Context, pageToken string, max int64) ([]string, string, error) {
	labelID, err := f.resolveLabelID(ctx)
	if err != nil {
		return nil, "", err
	}

	call := f.service.Users.Messages.List(f.userEmail).
		LabelIds(labelID).
		MaxResults(max).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list messages: %w", err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		ids = append(ids, msg.Id)
	}
	return ids, resp.NextPageToken, nil
}

// GetMessage fetches one message in full format and adapts it into a
// validated RawMessage.
func (f *GmailFetcher) GetMessage(ctx context.Context, id string) (RawMessage, error) {
	msg, err := f.service.Users.Messages.Get(f.userEmail, id).Format("full").Context(ctx).Do()
	if err != nil {
		return RawMessage{}, fmt.Errorf("failed to get message %s: %w", id, err)
	}

	raw := RawMessage{
		ID:      msg.Id,
		Headers: make(map[string]string),
	}

	if msg.Payload != nil {
		for _, header := range msg.Payload.Headers {
			raw.Headers[header.Name] = header.Value
		}
		raw.Parts = []BodyPart{convertPart(msg.Payload)}
	}

	if err := raw.Validate(); err != nil {
		return RawMessage{}, err
	}
	return raw, nil
}

// convertPart recursively converts a Gmail message part, decoding
// body data along the way.
func convertPart(part *gmail.MessagePart) BodyPart {
	converted := BodyPart{MIMEType: part.MimeType}

	if part.Body != nil && part.Body.Data != "" {
		if data, err := decodeBody(part.Body.Data); err == nil {
			converted.Data = data
		}
	}

	for _, sub := range part.Parts {
		converted.Parts = append(converted.Parts, convertPart(sub))
	}

	return converted
}

// decodeBody decodes Gmail body data, which is base64url and may
// arrive with or without padding.
func decodeBody(data string) ([]byte, error) {
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return decoded, nil
	}
	return base64.RawURLEncoding.DecodeString(data)
}

// Close closes the Gmail fetcher
func (f *GmailFetcher) Close() error {
	// Gmail API service doesn't need explicit closing
	return nil
}
