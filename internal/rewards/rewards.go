package rewards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/GlebRadaev/coinreport/internal/config"
	"github.com/GlebRadaev/coinreport/internal/domain"
	"github.com/GlebRadaev/coinreport/internal/dto"
	"github.com/GlebRadaev/coinreport/pkg/clients"
)

const (
	userAgent = "Mozilla/5.0 (Linux; Android 10; Redmi K30 Pro) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0.0.0 Mobile Safari/537.36"
	referer   = "https://nebula.kuaishou.com/"

	EndpointBasic  = "basicInfo"
	EndpointDetail = "accountOverview"
)

var ErrUnexpectedStatus = errors.New("unexpected status code")

// FetchError scopes a failure to one endpoint of one account.
type FetchError struct {
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Client struct {
	basicURL  string
	detailURL string
	client    clients.HTTPClientI
}

func New(cfg *config.Config, client clients.HTTPClientI) *Client {
	return &Client{
		basicURL:  cfg.BasicInfoURL,
		detailURL: cfg.DetailInfoURL,
		client:    client,
	}
}

func headers(cred domain.Credential) http.Header {
	h := http.Header{}
	h.Set("User-Agent", userAgent)
	h.Set("Referer", referer)
	h.Set("Content-Type", "application/json;charset=UTF-8")
	h.Set("Cookie", string(cred))
	return h
}

func (c *Client) FetchBasicInfo(ctx context.Context, cred domain.Credential) (*dto.BasicInfo, error) {
	var resp dto.BasicInfoResponse
	if err := c.get(ctx, EndpointBasic, c.basicURL, cred, &resp); err != nil {
		return nil, err
	}
	if err := resp.Validate(); err != nil {
		return nil, &FetchError{Endpoint: EndpointBasic, Err: err}
	}
	return resp.Data, nil
}

func (c *Client) FetchDetailInfo(ctx context.Context, cred domain.Credential) (*dto.DetailInfo, error) {
	var resp dto.DetailInfoResponse
	if err := c.get(ctx, EndpointDetail, c.detailURL, cred, &resp); err != nil {
		return nil, err
	}
	if err := resp.Validate(); err != nil {
		return nil, &FetchError{Endpoint: EndpointDetail, Err: err}
	}
	return resp.Data, nil
}

func (c *Client) get(ctx context.Context, endpoint, url string, cred domain.Credential, out any) error {
	statusCode, body, err := c.client.Get(ctx, url, headers(cred))
	if err != nil {
		zap.L().Debug("rewards request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return &FetchError{Endpoint: endpoint, Err: err}
	}
	if statusCode != http.StatusOK {
		zap.L().Debug("rewards unexpected status", zap.String("endpoint", endpoint), zap.Int("status", statusCode))
		return &FetchError{Endpoint: endpoint, Err: fmt.Errorf("%w: %d", ErrUnexpectedStatus, statusCode)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &FetchError{Endpoint: endpoint, Err: fmt.Errorf("failed to parse response body: %w", err)}
	}
	return nil
}
