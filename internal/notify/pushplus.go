package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const sendTimeout = 15 * time.Second

// PushPlus delivers HTML messages through pushplus.plus.
type PushPlus struct {
	url    string
	token  string
	client *resty.Client
}

type pushPlusRequest struct {
	Token    string `json:"token"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Template string `json:"template"`
}

type pushPlusResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func NewPushPlus(baseURL, token string) *PushPlus {
	client := resty.New()
	client.SetTimeout(sendTimeout)

	if baseURL == "" {
		baseURL = "https://www.pushplus.plus"
	}
	return &PushPlus{
		url:    strings.TrimRight(baseURL, "/") + "/send",
		token:  token,
		client: client,
	}
}

func (p *PushPlus) Send(ctx context.Context, title, body string) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(pushPlusRequest{Token: p.token, Title: title, Content: body, Template: "html"}).
		Post(p.url)
	if err != nil {
		return fmt.Errorf("pushplus request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return statusError("pushplus", resp.StatusCode(), resp.String())
	}

	var out pushPlusResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return fmt.Errorf("pushplus response: %w", err)
	}
	if out.Code != http.StatusOK {
		return statusError("pushplus", out.Code, out.Msg)
	}
	return nil
}
