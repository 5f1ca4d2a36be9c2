package rules

import "fmt"

// RecordType 입고/출고 구분
type RecordType string

const (
	RecordIn  RecordType = "IN"
	RecordOut RecordType = "OUT"
)

func ParseRecordType(s string) (RecordType, error) {
	switch RecordType(s) {
	case RecordIn, RecordOut:
		return RecordType(s), nil
	case "":
		return RecordIn, nil
	}
	return "", fmt.Errorf("unknown record type %q", s)
}

// Classifier classifies inventory records as inbound or outbound purely by
// quantity. Quantities at or above Threshold are inbound.
type Classifier struct {
	Threshold float64
}

// DefaultClassifier uses the threshold of 10 units.
var DefaultClassifier = Classifier{Threshold: DefaultStockThreshold}

func NewClassifier(threshold float64) Classifier {
	if threshold <= 0 {
		threshold = DefaultStockThreshold
	}
	return Classifier{Threshold: threshold}
}

func (c Classifier) Classify(quantity float64) RecordType {
	if quantity >= c.Threshold {
		return RecordIn
	}
	return RecordOut
}

// ReconcileTypeAndQuantity keeps the chosen type and clamps the quantity
// into its range: IN is raised to Threshold, OUT is lowered to Threshold-1.
func (c Classifier) ReconcileTypeAndQuantity(t RecordType, quantity float64) (RecordType, float64) {
	switch {
	case t == RecordIn && quantity < c.Threshold:
		return RecordIn, c.Threshold
	case t == RecordOut && quantity >= c.Threshold:
		return RecordOut, c.Threshold - 1
	}
	return t, quantity
}

// ReconcileQuantity keeps the edited quantity and flips the type to match it.
func (c Classifier) ReconcileQuantity(t RecordType, quantity float64) (RecordType, float64) {
	if derived := c.Classify(quantity); derived != t {
		return derived, quantity
	}
	return t, quantity
}

func Classify(quantity float64) RecordType {
	return DefaultClassifier.Classify(quantity)
}

func ReconcileTypeAndQuantity(t RecordType, quantity float64) (RecordType, float64) {
	return DefaultClassifier.ReconcileTypeAndQuantity(t, quantity)
}

func ReconcileQuantity(t RecordType, quantity float64) (RecordType, float64) {
	return DefaultClassifier.ReconcileQuantity(t, quantity)
}
