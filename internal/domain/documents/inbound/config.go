package inbound

import "voltstock/pkg/numerator"

const (
	// NumberPrefix for inbound order numbers (RK20260831000001).
	NumberPrefix = "RK"

	// NumeratorStrategy: orders are accounting documents, so numbers
	// must be gap-free within a day.
	NumeratorStrategy = numerator.StrategyStrict
)
