package rules

import (
	"math"

	"github.com/shopspring/decimal"
)

// Band 달성률 구간
type Band string

const (
	BandComplete Band = "complete"
	BandGood     Band = "good"
	BandFair     Band = "fair"
	BandPoor     Band = "poor"
)

// Performance statuses derived from the achievement rate.
const (
	PerformanceCompleted    = "completed"
	PerformanceInProduction = "in_production"
)

var (
	hundred = decimal.NewFromInt(100)
	maxRate = decimal.NewFromInt(math.MaxInt32)
	minRate = decimal.NewFromInt(math.MinInt32)
)

// ComputeAchievement returns round(actual/planned*100). A non-positive
// planned quantity yields 0. The value is not clamped at 100, but it is
// held within the int32 range of the achievement_rate column.
func ComputeAchievement(actual, planned float64) int {
	if planned <= 0 {
		return 0
	}
	rate := decimal.NewFromFloat(actual).
		Div(decimal.NewFromFloat(planned)).
		Mul(hundred).
		Round(0)
	switch {
	case rate.GreaterThan(maxRate):
		return math.MaxInt32
	case rate.LessThan(minRate):
		return math.MinInt32
	}
	return int(rate.IntPart())
}

// AchievementBand maps a rate to its severity band.
func AchievementBand(rate int) Band {
	switch {
	case rate >= 100:
		return BandComplete
	case rate >= 70:
		return BandGood
	case rate >= 30:
		return BandFair
	default:
		return BandPoor
	}
}

func (b Band) Color() string {
	switch b {
	case BandComplete:
		return "green"
	case BandGood:
		return "blue"
	case BandFair:
		return "yellow"
	default:
		return "red"
	}
}

// BarWidth clamps a rate to a 0..100 progress bar width.
func BarWidth(rate int) int {
	if rate < 0 {
		return 0
	}
	if rate > 100 {
		return 100
	}
	return rate
}

// PerformanceStatus is completed once the plan is fully met.
func PerformanceStatus(rate int) string {
	if rate >= 100 {
		return PerformanceCompleted
	}
	return PerformanceInProduction
}

// RoundedMean averages rates and rounds half away from zero.
func RoundedMean(rates []int) int {
	if len(rates) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, r := range rates {
		sum = sum.Add(decimal.NewFromInt(int64(r)))
	}
	return int(sum.Div(decimal.NewFromInt(int64(len(rates)))).Round(0).IntPart())
}

// Percent returns round(part/whole*100), 0 when whole is 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(part)).
		Div(decimal.NewFromInt(int64(whole))).
		Mul(hundred).
		Round(0).
		IntPart())
}
