package interest

import (
	"time"

	"github.com/shopspring/decimal"
)

// SecondsPerYear 365.25 days
var SecondsPerYear = decimal.NewFromInt(31557600)

// Elapsed time passed since the last accrual, zero when lastUpdate is in the future
func Elapsed(lastUpdate int64, now time.Time) time.Duration {
	seconds := now.Unix() - lastUpdate
	if seconds <= 0 {
		return 0
	}

	return time.Duration(seconds) * time.Second
}

// OutstandingInterest simple interest accrued on amount at apr over elapsed
func OutstandingInterest(apr, amount decimal.Decimal, elapsed time.Duration) decimal.Decimal {
	if elapsed <= 0 {
		return decimal.Zero
	}

	seconds := decimal.NewFromInt(int64(elapsed / time.Second))
	return amount.Mul(apr).Mul(seconds).Div(SecondsPerYear)
}
