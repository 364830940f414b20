package share

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

// StatusClientClosedRequest is returned by a webhook whose user dismissed
// the share.
const StatusClientClosedRequest = 499

// WebhookSharer posts the files as multipart/form-data to a URL.
type WebhookSharer struct {
	URL      string
	MaxBytes int64
	Client   *http.Client
}

func NewWebhookSharer(url string, maxBytes int64) *WebhookSharer {
	return &WebhookSharer{URL: url, MaxBytes: maxBytes, Client: http.DefaultClient}
}

// CanShare rejects empty payloads and files over MaxBytes.
func (w *WebhookSharer) CanShare(data ShareData) bool {
	if len(data.Files) == 0 {
		return false
	}
	if w.MaxBytes <= 0 {
		return true
	}
	for _, f := range data.Files {
		if int64(len(f.Data)) > w.MaxBytes {
			return false
		}
	}
	return true
}

func (w *WebhookSharer) Share(ctx context.Context, data ShareData) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("title", data.Title); err != nil {
		return err
	}
	if err := mw.WriteField("text", data.Text); err != nil {
		return err
	}
	for _, f := range data.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, f.Name))
		h.Set("Content-Type", f.ContentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			return err
		}
		if _, err := part.Write(f.Data); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, &body)
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("%w: %v", ErrShareCancelled, err)
		}
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == StatusClientClosedRequest:
		return ErrShareCancelled
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
