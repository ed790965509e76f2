package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-resty/resty/v2"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	blankPattern = regexp.MustCompile(`\n\s*\n+`)
)

// Bark pushes plain text to an iOS device. url is the device push URL,
// e.g. https://api.day.app/<key>.
type Bark struct {
	url    string
	client *resty.Client
}

type barkRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Group string `json:"group"`
}

type barkResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewBark(url string) *Bark {
	client := resty.New()
	client.SetTimeout(sendTimeout)

	return &Bark{
		url:    strings.TrimRight(url, "/"),
		client: client,
	}
}

// PlainText strips markup so HTML reports stay readable on plain text channels.
func PlainText(body string) string {
	text := tagPattern.ReplaceAllString(body, "\n")
	text = html.UnescapeString(text)
	text = blankPattern.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

func (b *Bark) Send(ctx context.Context, title, body string) error {
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(barkRequest{Title: title, Body: PlainText(body), Group: "coinreport"}).
		Post(b.url)
	if err != nil {
		return fmt.Errorf("bark request: %w", err)
	}

	var out barkResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return fmt.Errorf("bark response (status %d): %w", resp.StatusCode(), err)
	}
	if resp.StatusCode() != http.StatusOK || out.Code != http.StatusOK {
		return statusError("bark", out.Code, out.Message)
	}
	return nil
}
