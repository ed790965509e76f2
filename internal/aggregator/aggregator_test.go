package aggregator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/GlebRadaev/coinreport/internal/config"
	"github.com/GlebRadaev/coinreport/internal/domain"
	"github.com/GlebRadaev/coinreport/internal/dto"
)

var (
	cst = time.FixedZone("CST", 8*3600)
	now = time.Date(2026, time.October, 14, 0, 30, 0, 0, cst)
)

func num(v float64) dto.Number {
	return dto.Number{Value: v, Valid: true}
}

func NewMock(t *testing.T, workers int) (*Service, *MockRewardsAPI) {
	ctrl := gomock.NewController(t)
	api := NewMockRewardsAPI(ctrl)
	return &Service{
		api:      api,
		workers:  workers,
		loc:      cst,
		now:      func() time.Time { return now },
		nickname: func() string { return "未知账号test" },
	}, api
}

func basicInfo(nickname string, cash float64, coins float64) *dto.BasicInfo {
	return &dto.BasicInfo{
		UserData:  &dto.UserData{Nickname: nickname},
		TotalCash: num(cash),
		TotalCoin: num(coins),
	}
}

func TestNew(t *testing.T) {
	s := New(&config.Config{Workers: 0, Timezone: "UTC"}, nil)
	assert.Equal(t, 1, s.workers)
	assert.Equal(t, time.UTC, s.loc)
	assert.NotNil(t, s.now)
}

func TestRandomNickname(t *testing.T) {
	name := RandomNickname()
	assert.True(t, len([]rune(name)) == 8, name)
	assert.Contains(t, name, "未知账号")
}

func TestService_Process(t *testing.T) {
	const cred = domain.Credential("cookie-aaaaaaaaaa")
	detail := &dto.DetailInfo{
		CoinBalance:        num(1200),
		AccumulativeAmount: num(15.5),
		CoinAccountPage: &dto.CoinAccountPage{Data: []dto.CoinRecord{
			{CreateTime: "2026-10-14 00:10:00", EventType: "看视频", Amount: num(300)},
			{CreateTime: "2026.10.14 00:20:00", EventType: "兑换", Amount: num(-10000)},
			{CreateTime: "2026-10-13 23:59:00", EventType: "兑换", Amount: num(-5000)},
			{CreateTime: "broken", EventType: "签到", Amount: num(-1)},
		}},
	}

	tests := []struct {
		name        string
		prepareMock func(api *MockRewardsAPI)
		expected    domain.AccountResult
		expectedErr error
	}{
		{
			name: "Basic info fails, detail is never requested",
			prepareMock: func(api *MockRewardsAPI) {
				api.EXPECT().FetchBasicInfo(gomock.Any(), cred).Return(nil, assert.AnError)
			},
			expected:    domain.AccountResult{Index: 3, Status: domain.StatusFailed},
			expectedErr: assert.AnError,
		},
		{
			name: "Detail fails, basic totals kept",
			prepareMock: func(api *MockRewardsAPI) {
				api.EXPECT().FetchBasicInfo(gomock.Any(), cred).Return(basicInfo("小明", 12.3, 4500), nil)
				api.EXPECT().FetchDetailInfo(gomock.Any(), cred).Return(nil, assert.AnError)
			},
			expected: domain.AccountResult{
				Index:  3,
				Status: domain.StatusPartial,
				Snapshot: domain.AccountSnapshot{
					Nickname:      "小明",
					TotalCashYuan: 12.3,
					TotalCoins:    4500,
					CoinBalance:   4500,
				},
			},
			expectedErr: assert.AnError,
		},
		{
			name: "Full success",
			prepareMock: func(api *MockRewardsAPI) {
				api.EXPECT().FetchBasicInfo(gomock.Any(), cred).Return(basicInfo("  ", 1, 900), nil)
				api.EXPECT().FetchDetailInfo(gomock.Any(), cred).Return(detail, nil)
			},
			expected: domain.AccountResult{
				Index:  3,
				Status: domain.StatusOK,
				Snapshot: domain.AccountSnapshot{
					Nickname:              "未知账号test",
					TotalCashYuan:         1,
					TotalCoins:            900,
					CoinBalance:           1200,
					AccumulatedIncomeYuan: 15.5,
					Transactions:          Transactions(detail.Records()),
				},
				TodayTransactions: Transactions(detail.Records())[:2],
				RedeemedToday:     10000,
				TodayEarnedCoins:  11200,
			},
		},
		{
			name: "Missing coin balance falls back to basic total",
			prepareMock: func(api *MockRewardsAPI) {
				api.EXPECT().FetchBasicInfo(gomock.Any(), cred).Return(&dto.BasicInfo{TotalCoin: num(700)}, nil)
				api.EXPECT().FetchDetailInfo(gomock.Any(), cred).Return(&dto.DetailInfo{}, nil)
			},
			expected: domain.AccountResult{
				Index:  3,
				Status: domain.StatusOK,
				Snapshot: domain.AccountSnapshot{
					Nickname:    "未知账号test",
					TotalCoins:  700,
					CoinBalance: 700,
				},
				TodayEarnedCoins: 700,
			},
		},
		{
			name: "Negative balance floors at zero",
			prepareMock: func(api *MockRewardsAPI) {
				api.EXPECT().FetchBasicInfo(gomock.Any(), cred).Return(basicInfo("n", 0, 0), nil)
				api.EXPECT().FetchDetailInfo(gomock.Any(), cred).Return(&dto.DetailInfo{CoinBalance: num(-50)}, nil)
			},
			expected: domain.AccountResult{
				Index:  3,
				Status: domain.StatusOK,
				Snapshot: domain.AccountSnapshot{
					Nickname:    "n",
					CoinBalance: -50,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, api := NewMock(t, 1)
			tt.prepareMock(api)

			got := s.Process(context.Background(), 3, cred)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, got.Err, tt.expectedErr)
			} else {
				assert.NoError(t, got.Err)
			}
			got.Err = nil
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRedemptionCost(t *testing.T) {
	today := time.Date(2026, time.October, 14, 23, 0, 0, 0, cst)
	txs := Transactions([]dto.CoinRecord{
		{CreateTime: "2026-10-14 01:00:00", Amount: num(-100)},
		{CreateTime: "2026.10.14 02:00:00", Amount: num(-250)},
		{CreateTime: "2026-10-14 03:00:00", Amount: num(999)},
		{CreateTime: "2026-10-13 23:59:59", Amount: num(-7000)},
	})

	assert.Equal(t, int64(350), RedemptionCost(txs, today))
	assert.Len(t, OnDay(txs, today), 3)
	assert.Equal(t, int64(7000), RedemptionCost(txs, today.AddDate(0, 0, -1)))
	assert.Zero(t, RedemptionCost(nil, today))
}

func TestService_Run(t *testing.T) {
	creds := []domain.Credential{"cookie-0000000000", "cookie-1111111111", "cookie-2222222222", "cookie-3333333333"}

	for _, workers := range []int{1, 3} {
		s, api := NewMock(t, workers)
		api.EXPECT().FetchBasicInfo(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, cred domain.Credential) (*dto.BasicInfo, error) {
				if cred == creds[1] {
					return nil, errors.New("expired")
				}
				if cred == creds[0] {
					// finish last so ordering is exercised
					time.Sleep(20 * time.Millisecond)
				}
				return basicInfo(string(cred), 1, 100), nil
			}).Times(len(creds))
		api.EXPECT().FetchDetailInfo(gomock.Any(), gomock.Any()).
			Return(&dto.DetailInfo{CoinBalance: num(100)}, nil).Times(len(creds) - 1)

		var mu sync.Mutex
		var emitted []int
		results := s.Run(context.Background(), creds, func(r domain.AccountResult) {
			mu.Lock()
			emitted = append(emitted, r.Index)
			mu.Unlock()
		})

		require.Len(t, results, len(creds))
		assert.Equal(t, []int{0, 1, 2, 3}, emitted)
		for i, r := range results {
			assert.Equal(t, i, r.Index)
		}
		assert.Equal(t, domain.StatusOK, results[0].Status)
		assert.Equal(t, string(creds[0]), results[0].Snapshot.Nickname)
		assert.Equal(t, domain.StatusFailed, results[1].Status)
		assert.Equal(t, domain.StatusOK, results[3].Status)
	}
}

func TestService_RunCanceled(t *testing.T) {
	s, _ := NewMock(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := s.Run(ctx, []domain.Credential{"cookie-0000000000", "cookie-1111111111"}, nil)

	require.Len(t, results, 2)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, domain.StatusFailed, r.Status)
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestService_RunRecoversPanic(t *testing.T) {
	s, api := NewMock(t, 1)
	api.EXPECT().FetchBasicInfo(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, domain.Credential) (*dto.BasicInfo, error) {
			panic("unexpected payload")
		})
	api.EXPECT().FetchBasicInfo(gomock.Any(), gomock.Any()).Return(basicInfo("ok", 0, 1), nil)
	api.EXPECT().FetchDetailInfo(gomock.Any(), gomock.Any()).Return(&dto.DetailInfo{}, nil)

	results := s.Run(context.Background(), []domain.Credential{"cookie-0000000000", "cookie-1111111111"}, nil)

	require.Len(t, results, 2)
	assert.Equal(t, domain.StatusFailed, results[0].Status)
	assert.ErrorIs(t, results[0].Err, ErrPanic)
	assert.Equal(t, domain.StatusOK, results[1].Status)
}

func TestService_RunEmitPanicReachesCaller(t *testing.T) {
	s, api := NewMock(t, 2)
	api.EXPECT().FetchBasicInfo(gomock.Any(), gomock.Any()).Return(basicInfo("n", 0, 1), nil).AnyTimes()
	api.EXPECT().FetchDetailInfo(gomock.Any(), gomock.Any()).Return(&dto.DetailInfo{}, nil).AnyTimes()

	creds := []domain.Credential{"cookie-0000000000", "cookie-1111111111", "cookie-2222222222"}
	assert.PanicsWithValue(t, "narration failed", func() {
		s.Run(context.Background(), creds, func(r domain.AccountResult) {
			if r.Index == 1 {
				panic("narration failed")
			}
		})
	})
}

func TestService_RunEmpty(t *testing.T) {
	s, _ := NewMock(t, 2)
	called := false
	results := s.Run(context.Background(), nil, func(domain.AccountResult) { called = true })
	assert.Empty(t, results)
	assert.False(t, called)
}
