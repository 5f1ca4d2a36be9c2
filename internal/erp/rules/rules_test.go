package rules

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStockStatus(t *testing.T) {
	cases := []struct {
		qty  float64
		want StockStatus
	}{
		{-3, StockUnavailable},
		{0, StockUnavailable},
		{1, StockInsufficient},
		{5, StockInsufficient},
		{9.5, StockInsufficient},
		{10, StockSufficient},
		{15, StockSufficient},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DeriveStockStatus(c.qty, DefaultStockThreshold), "qty=%v", c.qty)
	}
	assert.Equal(t, "없음", StockUnavailable.Label())
	assert.Equal(t, "부족", StockInsufficient.Label())
	assert.Equal(t, "충분", StockSufficient.Label())
	assert.Equal(t, "red", StockUnavailable.Color())
}

func TestMaterialStatus(t *testing.T) {
	assert.Equal(t, StockUnavailable, MaterialStatus(nil, DefaultMaterialThreshold))
	assert.Equal(t, StockUnavailable, MaterialStatus([]float64{0, 0}, DefaultMaterialThreshold))
	assert.Equal(t, StockInsufficient, MaterialStatus([]float64{40, 59}, DefaultMaterialThreshold))
	assert.Equal(t, StockSufficient, MaterialStatus([]float64{40, 60}, DefaultMaterialThreshold))
}

func TestComputeAchievement(t *testing.T) {
	assert.Equal(t, 50, ComputeAchievement(50, 100))
	assert.Equal(t, 0, ComputeAchievement(100, 0))
	assert.Equal(t, 120, ComputeAchievement(120, 100))
	assert.Equal(t, 125, ComputeAchievement(250, 200))
	assert.Equal(t, 67, ComputeAchievement(2, 3))
	assert.Equal(t, 1, ComputeAchievement(1, 200))
	assert.Equal(t, 0, ComputeAchievement(1, 201))
}

func TestComputeAchievementStaysInRange(t *testing.T) {
	assert.Equal(t, math.MaxInt32, ComputeAchievement(1e30, 1))
	assert.Equal(t, math.MaxInt32, ComputeAchievement(99999999.9999, 0.0001))
	assert.Equal(t, math.MinInt32, ComputeAchievement(-1e30, 1))
	assert.Equal(t, 2147483600, ComputeAchievement(21474836, 1))
	assert.Positive(t, ComputeAchievement(99999999.9999, 1))
}

func TestAchievementBand(t *testing.T) {
	assert.Equal(t, BandComplete, AchievementBand(125))
	assert.Equal(t, BandComplete, AchievementBand(100))
	assert.Equal(t, BandGood, AchievementBand(70))
	assert.Equal(t, BandFair, AchievementBand(30))
	assert.Equal(t, BandPoor, AchievementBand(29))
	assert.Equal(t, "blue", BandGood.Color())
	assert.Equal(t, 100, BarWidth(125))
	assert.Equal(t, 42, BarWidth(42))
	assert.Equal(t, PerformanceCompleted, PerformanceStatus(100))
	assert.Equal(t, PerformanceInProduction, PerformanceStatus(99))
}

func TestRoundedMeanAndPercent(t *testing.T) {
	assert.Equal(t, 0, RoundedMean(nil))
	assert.Equal(t, 83, RoundedMean([]int{50, 100, 100}))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 0, Percent(1, 0))
}

func TestClassify(t *testing.T) {
	for q := 10.0; q < 200; q += 7 {
		assert.Equal(t, RecordIn, Classify(q))
	}
	for q := 0.0; q < 10; q++ {
		assert.Equal(t, RecordOut, Classify(q))
	}
}

func TestReconcileTypeAndQuantity(t *testing.T) {
	typ, qty := ReconcileTypeAndQuantity(RecordIn, 5)
	assert.Equal(t, RecordIn, typ)
	assert.Equal(t, 10.0, qty)

	typ, qty = ReconcileTypeAndQuantity(RecordOut, 15)
	assert.Equal(t, RecordOut, typ)
	assert.Equal(t, 9.0, qty)

	typ, qty = ReconcileTypeAndQuantity(RecordIn, 42)
	assert.Equal(t, RecordIn, typ)
	assert.Equal(t, 42.0, qty)
}

func TestReconcileQuantity(t *testing.T) {
	typ, qty := ReconcileQuantity(RecordOut, 12)
	assert.Equal(t, RecordIn, typ)
	assert.Equal(t, 12.0, qty)

	typ, qty = ReconcileQuantity(RecordIn, 3)
	assert.Equal(t, RecordOut, typ)
	assert.Equal(t, 3.0, qty)
}

func TestClassifierCustomThreshold(t *testing.T) {
	c := NewClassifier(50)
	assert.Equal(t, RecordOut, c.Classify(49))
	_, qty := c.ReconcileTypeAndQuantity(RecordOut, 80)
	assert.Equal(t, 49.0, qty)
	assert.Equal(t, DefaultClassifier, NewClassifier(0))
}

func TestParseRecordType(t *testing.T) {
	typ, err := ParseRecordType("")
	assert.NoError(t, err)
	assert.Equal(t, RecordIn, typ)
	_, err = ParseRecordType("SIDEWAYS")
	assert.Error(t, err)
}

func TestNextInvoiceNumber(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "DMC-20240315-005", NextInvoiceNumber("DMC", "DMC-20240101-004", now))
	assert.Equal(t, "DMC-20240315-001", NextInvoiceNumber("DMC", "", now))
	assert.Equal(t, "DMC-20240315-001", NextInvoiceNumber("DMC", "garbage", now))
	assert.Equal(t, "DMC-20240315-001", NextInvoiceNumber("", "DMC-20240101-xyz", now))
	assert.Equal(t, "INV-20240315-1000", NextInvoiceNumber("INV", "INV-20240314-999", now))
}

func TestTotalAmountAndDays(t *testing.T) {
	assert.Equal(t, 0.3, TotalAmount(3, 0.1))
	assert.Equal(t, 1500.0, TotalAmount(100, 15))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysRequired(start, start))
	assert.Equal(t, 10, DaysRequired(start, start.AddDate(0, 0, 10)))
	assert.Equal(t, 1, DaysRequired(start, start.Add(2*time.Hour)))
	assert.Equal(t, 3, DaysRequired(start.AddDate(0, 0, 3), start))
}
