// Package coins holds the arithmetic around the platform's virtual currency.
package coins

import (
	"fmt"
	"math"
)

// PerYuan is the fixed exchange rate: 10000 coins make one yuan.
const PerYuan = 10000

// ToCash converts coins to yuan rounded half away from zero to two decimals.
func ToCash(coins int64) string {
	neg := coins < 0
	if neg {
		coins = -coins
	}
	cents := (coins + PerYuan/200) / (PerYuan / 100)
	s := fmt.Sprintf("%d.%02d", cents/100, cents%100)
	if neg && cents > 0 {
		return "-" + s
	}
	return s
}

// Yuan formats an amount of yuan with two decimals.
func Yuan(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return fmt.Sprintf("%.2f", v)
}

// TodayEarned recovers the gross coins earned today: the current balance plus what was
// redeemed today, floored at zero.
func TodayEarned(balance, redeemedToday int64) int64 {
	return max(balance+redeemedToday, 0)
}
