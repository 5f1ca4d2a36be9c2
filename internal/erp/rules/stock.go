package rules

// StockStatus 재고 상태
type StockStatus string

const (
	StockSufficient   StockStatus = "sufficient"
	StockInsufficient StockStatus = "insufficient"
	StockUnavailable  StockStatus = "unavailable"
)

const (
	DefaultStockThreshold    = 10
	DefaultMaterialThreshold = 100
)

// Label returns the display label used on the dashboard screens.
func (s StockStatus) Label() string {
	switch s {
	case StockSufficient:
		return "충분"
	case StockInsufficient:
		return "부족"
	default:
		return "없음"
	}
}

// Color returns the display colour class.
func (s StockStatus) Color() string {
	switch s {
	case StockSufficient:
		return "green"
	case StockInsufficient:
		return "yellow"
	default:
		return "red"
	}
}

func (s StockStatus) Valid() bool {
	switch s {
	case StockSufficient, StockInsufficient, StockUnavailable:
		return true
	}
	return false
}

// DeriveStockStatus bands a quantity against threshold.
// Zero and negative quantities are unavailable.
func DeriveStockStatus(quantity, threshold float64) StockStatus {
	switch {
	case quantity <= 0:
		return StockUnavailable
	case quantity < threshold:
		return StockInsufficient
	default:
		return StockSufficient
	}
}

// MaterialStatus derives plan material availability from the quantities of
// every raw material item. No items at all means unavailable.
func MaterialStatus(quantities []float64, threshold float64) StockStatus {
	if len(quantities) == 0 {
		return StockUnavailable
	}
	var total float64
	for _, q := range quantities {
		total += q
	}
	return DeriveStockStatus(total, threshold)
}
