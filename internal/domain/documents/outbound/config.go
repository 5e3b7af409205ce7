package outbound

import "voltstock/pkg/numerator"

const (
	// NumberPrefix for outbound order numbers (CK20260831000001).
	NumberPrefix = "CK"

	// NumeratorStrategy: orders are accounting documents, so numbers
	// must be gap-free within a day.
	NumeratorStrategy = numerator.StrategyStrict
)
