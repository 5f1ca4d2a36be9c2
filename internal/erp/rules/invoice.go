package rules

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultInvoicePrefix = "DMC"

// NextInvoiceNumber builds PREFIX-YYYYMMDD-NNN. The sequence continues from
// the numeric suffix of last regardless of its date; an empty or unparsable
// last number restarts at 001.
func NextInvoiceNumber(prefix, last string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultInvoicePrefix
	}
	seq := 1
	if parts := strings.Split(last, "-"); len(parts) >= 3 {
		if n, err := strconv.Atoi(parts[2]); err == nil && n >= 0 {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s-%s-%03d", prefix, now.Format("20060102"), seq)
}

// TotalAmount multiplies quantity and unit price without float drift.
func TotalAmount(quantity, unitPrice float64) float64 {
	return decimal.NewFromFloat(quantity).
		Mul(decimal.NewFromFloat(unitPrice)).
		Round(4).
		InexactFloat64()
}

// DaysRequired returns the number of started days between start and end.
func DaysRequired(start, end time.Time) int {
	d := end.Sub(start)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(d.Hours() / 24))
}
