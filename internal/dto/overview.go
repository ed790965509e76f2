package dto

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ResultOK is the discriminator value the rewards API uses for success.
const ResultOK = 1

var (
	ErrUnexpectedResult = errors.New("unexpected result discriminator")
	ErrEmptyPayload     = errors.New("response has no data payload")
)

// Number accepts JSON numbers and numeric strings. Anything else decodes as not Valid.
type Number struct {
	Value float64
	Valid bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		s, err := strconv.Unquote(raw)
		if err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*n = Number{Value: v, Valid: true}
	return nil
}

func (n Number) Float(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Value
}

func (n Number) Int(def int64) int64 {
	if !n.Valid {
		return def
	}
	return int64(math.Round(n.Value))
}

type envelope struct {
	Result   int    `json:"result"`
	Msg      string `json:"msg"`
	ErrorMsg string `json:"error_msg"`
}

func (e envelope) check(hasData bool) error {
	if e.Result != ResultOK {
		msg := e.Msg
		if msg == "" {
			msg = e.ErrorMsg
		}
		if msg == "" {
			msg = "unknown error"
		}
		return fmt.Errorf("%w: result=%d, %s", ErrUnexpectedResult, e.Result, msg)
	}
	if !hasData {
		return ErrEmptyPayload
	}
	return nil
}

type UserData struct {
	Nickname string `json:"nickname"`
}

type BasicInfo struct {
	UserData  *UserData `json:"userData"`
	TotalCash Number    `json:"totalCash"`
	TotalCoin Number    `json:"totalCoin"`
}

type BasicInfoResponse struct {
	envelope
	Data *BasicInfo `json:"data"`
}

func (r *BasicInfoResponse) Validate() error {
	return r.check(r.Data != nil)
}

type CoinRecord struct {
	CreateTime string `json:"createTime"`
	EventType  string `json:"eventType"`
	Amount     Number `json:"amount"`
}

type CoinAccountPage struct {
	Data []CoinRecord `json:"data"`
}

type DetailInfo struct {
	CoinBalance        Number           `json:"coinBalance"`
	AccumulativeAmount Number           `json:"accumulativeAmount"`
	CoinAccountPage    *CoinAccountPage `json:"coinAccountPage"`
}

// Records returns the coin ledger, empty when the page is absent.
func (d *DetailInfo) Records() []CoinRecord {
	if d == nil || d.CoinAccountPage == nil {
		return nil
	}
	return d.CoinAccountPage.Data
}

type DetailInfoResponse struct {
	envelope
	Data *DetailInfo `json:"data"`
}

func (r *DetailInfoResponse) Validate() error {
	return r.check(r.Data != nil)
}
