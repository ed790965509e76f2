package domain

import (
	"fmt"
	"time"
)

// Credential is the opaque cookie that authenticates one account.
type Credential string

type Transaction struct {
	Date      time.Time
	EventType string
	Amount    int64
}

// Redemption reports whether the transaction spent coins.
func (t Transaction) Redemption() bool {
	return t.Amount < 0
}

type AccountSnapshot struct {
	Nickname              string
	TotalCashYuan         float64
	TotalCoins            int64
	CoinBalance           int64
	AccumulatedIncomeYuan float64
	Transactions          []Transaction
}

type Status int

const (
	StatusFailed Status = iota
	StatusPartial
	StatusOK
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusPartial:
		return "partial"
	default:
		return "failed"
	}
}

type AccountResult struct {
	Index             int
	Status            Status
	Snapshot          AccountSnapshot
	TodayTransactions []Transaction
	RedeemedToday     int64
	TodayEarnedCoins  int64
	// Err is the basic info failure for StatusFailed and the detail failure for StatusPartial.
	Err error
}

// Label is the 1-based, human readable account name.
func (r AccountResult) Label() string {
	return fmt.Sprintf("账号%d", r.Index+1)
}

// Reported reports whether the account contributes to totals and the report.
func (r AccountResult) Reported() bool {
	return r.Status != StatusFailed
}

type Summary struct {
	Processed        int
	Succeeded        int
	Partial          int
	TodayEarnedCoins int64
	CurrentCoins     int64
}

func Summarize(results []AccountResult) Summary {
	s := Summary{Processed: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusOK:
			s.Succeeded++
		case StatusPartial:
			s.Partial++
		default:
			continue
		}
		s.TodayEarnedCoins += r.TodayEarnedCoins
		s.CurrentCoins += r.Snapshot.CoinBalance
	}
	return s
}
