package aggregator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GlebRadaev/coinreport/internal/config"
	"github.com/GlebRadaev/coinreport/internal/domain"
	"github.com/GlebRadaev/coinreport/internal/dto"
	"github.com/GlebRadaev/coinreport/pkg/calendar"
	"github.com/GlebRadaev/coinreport/pkg/coins"
)

//go:generate mockgen -source=aggregator.go -destination=mock_aggregator.go -package=aggregator

var ErrPanic = errors.New("account processing panicked")

type RewardsAPI interface {
	FetchBasicInfo(ctx context.Context, cred domain.Credential) (*dto.BasicInfo, error)
	FetchDetailInfo(ctx context.Context, cred domain.Credential) (*dto.DetailInfo, error)
}

type Service struct {
	api      RewardsAPI
	workers  int
	loc      *time.Location
	now      func() time.Time
	nickname func() string
}

func New(cfg *config.Config, api RewardsAPI) *Service {
	return &Service{
		api:      api,
		workers:  max(cfg.Workers, 1),
		loc:      cfg.Location(),
		now:      time.Now,
		nickname: RandomNickname,
	}
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// RandomNickname is used for accounts whose profile carries no nickname.
func RandomNickname() string {
	var b strings.Builder
	b.WriteString("未知账号")
	for i := 0; i < 4; i++ {
		b.WriteByte(base36[rand.IntN(len(base36))])
	}
	return b.String()
}

// Today returns the reference day in the configured location.
func (s *Service) Today() time.Time {
	return s.now().In(s.loc)
}

// Run processes every credential and calls emit once per account in input order, on the
// caller's goroutine. The returned slice is ordered the same way.
func (s *Service) Run(ctx context.Context, creds []domain.Credential, emit func(domain.AccountResult)) []domain.AccountResult {
	results := make([]domain.AccountResult, len(creds))
	if len(creds) == 0 {
		return results
	}

	// Buffered for every account so workers never block on a stalled consumer.
	finished := make(chan domain.AccountResult, len(creds))
	pool := NewWorkerPool(min(s.workers, len(creds)))
	scheduled := make(chan struct{})

	go func() {
		defer close(scheduled)
		for i, cred := range creds {
			i, cred := i, cred
			err := pool.AddTask(ctx, func() error {
				if err := ctx.Err(); err != nil {
					finished <- domain.AccountResult{Index: i, Status: domain.StatusFailed, Err: err}
					return err
				}
				finished <- s.safeProcess(ctx, i, cred)
				return nil
			})
			if err != nil {
				zap.L().Warn("account not scheduled", zap.Int("index", i), zap.Error(err))
				finished <- domain.AccountResult{Index: i, Status: domain.StatusFailed, Err: err}
			}
		}
	}()
	defer func() {
		<-scheduled
		pool.Close()
	}()

	done := make([]bool, len(creds))
	next := 0
	for received := 0; received < len(creds); received++ {
		r := <-finished
		results[r.Index] = r
		done[r.Index] = true
		for next < len(done) && done[next] {
			if emit != nil {
				emit(results[next])
			}
			next++
		}
	}

	return results
}

func (s *Service) safeProcess(ctx context.Context, index int, cred domain.Credential) (result domain.AccountResult) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("account processing panicked", zap.Int("index", index), zap.Any("panic", r))
			result = domain.AccountResult{Index: index, Status: domain.StatusFailed, Err: fmt.Errorf("%w: %v", ErrPanic, r)}
		}
	}()
	return s.Process(ctx, index, cred)
}

// Process fetches and aggregates a single account. Basic info failures yield StatusFailed
// without a detail request, detail failures yield StatusPartial with basic totals.
func (s *Service) Process(ctx context.Context, index int, cred domain.Credential) domain.AccountResult {
	result := domain.AccountResult{Index: index, Status: domain.StatusFailed}

	basic, err := s.api.FetchBasicInfo(ctx, cred)
	if err != nil {
		result.Err = err
		return result
	}

	snap := domain.AccountSnapshot{
		Nickname:      s.nicknameOf(basic),
		TotalCashYuan: basic.TotalCash.Float(0),
		TotalCoins:    basic.TotalCoin.Int(0),
	}
	snap.CoinBalance = snap.TotalCoins

	detail, err := s.api.FetchDetailInfo(ctx, cred)
	if err != nil {
		result.Status = domain.StatusPartial
		result.Snapshot = snap
		result.Err = err
		return result
	}

	snap.CoinBalance = detail.CoinBalance.Int(snap.TotalCoins)
	snap.AccumulatedIncomeYuan = detail.AccumulativeAmount.Float(0)
	snap.Transactions = Transactions(detail.Records())

	today := s.Today()
	result.Status = domain.StatusOK
	result.Snapshot = snap
	result.TodayTransactions = OnDay(snap.Transactions, today)
	result.RedeemedToday = RedemptionCost(snap.Transactions, today)
	result.TodayEarnedCoins = coins.TodayEarned(snap.CoinBalance, result.RedeemedToday)
	return result
}

func (s *Service) nicknameOf(basic *dto.BasicInfo) string {
	if basic.UserData != nil {
		if name := strings.TrimSpace(basic.UserData.Nickname); name != "" {
			return name
		}
	}
	return s.nickname()
}

// Transactions converts ledger records. Records with an unreadable date keep a zero Date
// and never match a day.
func Transactions(records []dto.CoinRecord) []domain.Transaction {
	if len(records) == 0 {
		return nil
	}
	txs := make([]domain.Transaction, 0, len(records))
	for _, rec := range records {
		date, err := calendar.Parse(rec.CreateTime)
		if err != nil {
			zap.L().Debug("unreadable transaction date", zap.String("createTime", rec.CreateTime))
		}
		txs = append(txs, domain.Transaction{
			Date:      date,
			EventType: rec.EventType,
			Amount:    rec.Amount.Int(0),
		})
	}
	return txs
}

func OnDay(txs []domain.Transaction, day time.Time) []domain.Transaction {
	var out []domain.Transaction
	for _, tx := range txs {
		if !tx.Date.IsZero() && calendar.SameDay(tx.Date, day) {
			out = append(out, tx)
		}
	}
	return out
}

// RedemptionCost sums the absolute amounts of the redemptions made on day.
func RedemptionCost(txs []domain.Transaction, day time.Time) int64 {
	var cost int64
	for _, tx := range OnDay(txs, day) {
		if tx.Redemption() {
			cost += -tx.Amount
		}
	}
	return cost
}
