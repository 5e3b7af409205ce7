// Package posting applies stock movements as one atomic unit of work.
// Order confirmation and BOM issuance both funnel through the engine so
// the ledger, the movement log, the BOM counters, and the document status
// can never disagree: either every write commits or none do.
package posting

import (
	"context"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/entity"
	"voltstock/internal/core/id"
	"voltstock/internal/core/tx"
	"voltstock/internal/core/types"
	"voltstock/pkg/logger"
)

// LedgerAdjuster applies atomic signed deltas to material balances.
// material.Repository satisfies this.
type LedgerAdjuster interface {
	AdjustStock(ctx context.Context, materialID id.ID, delta types.Quantity, allowNegative bool) (before, after types.Quantity, err error)
}

// RecordAppender appends to the immutable movement log.
type RecordAppender interface {
	Append(ctx context.Context, records []entity.StockRecord) error
}

// CounterAccumulator adds deltas to BOM line cumulative counters.
// bom.Repository satisfies this.
type CounterAccumulator interface {
	AccumulateIssue(ctx context.Context, itemID id.ID, issuedDelta, varianceDelta types.Quantity) error
}

// StockDelta is one ledger adjustment plus the movement record documenting
// it. The record's Before/After snapshots are filled by the engine from the
// atomic adjust result, never by the caller.
type StockDelta struct {
	MaterialID id.ID

	// Delta is signed: positive for inbound, negative for outbound.
	Delta types.Quantity

	// Record is the movement-log template. Quantity, RecordType,
	// WarehouseType, order/department/operator references must be set;
	// BeforeStock/AfterStock are overwritten by the engine.
	Record entity.StockRecord
}

// CounterDelta accumulates one BOM line's issued/variance counters.
type CounterDelta struct {
	ItemID   id.ID
	Issued   types.Quantity
	Variance types.Quantity
}

// MovementSet is everything one document commit writes.
type MovementSet struct {
	Deltas   []StockDelta
	Counters []CounterDelta

	// Finalize runs last inside the transaction, still on the tx context.
	// Used to insert the order row or flip its status.
	Finalize func(ctx context.Context) error
}

// Policy controls per-operation stock rules.
type Policy struct {
	// AllowNegativeStock lets the ledger go below zero. The issuance
	// recorder sets this: shop-floor ground truth wins over book stock.
	// Generic outbound confirmation leaves it false and gets
	// InsufficientStock instead.
	AllowNegativeStock bool
}

// Engine is the unit-of-work executor.
type Engine struct {
	txManager tx.Manager
	ledger    LedgerAdjuster
	records   RecordAppender
	counters  CounterAccumulator
}

// NewEngine creates a posting engine. counters may be nil when no BOM
// accumulation is ever needed (inbound-only wiring).
func NewEngine(txm tx.Manager, ledger LedgerAdjuster, records RecordAppender, counters CounterAccumulator) *Engine {
	return &Engine{
		txManager: txm,
		ledger:    ledger,
		records:   records,
		counters:  counters,
	}
}

// Apply commits the movement set inside one transaction.
//
// Business errors (insufficient stock, missing material) pass through
// unchanged; infrastructure failures are wrapped as Unavailable with the
// failing sub-step named, and the whole transaction rolls back.
func (e *Engine) Apply(ctx context.Context, set MovementSet, policy Policy) error {
	if len(set.Deltas) == 0 {
		return apperror.NewValidation("movement set has no stock deltas")
	}

	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		records := make([]entity.StockRecord, 0, len(set.Deltas))

		for _, d := range set.Deltas {
			before, after, err := e.ledger.AdjustStock(ctx, d.MaterialID, d.Delta, policy.AllowNegativeStock)
			if err != nil {
				return e.classify(ctx, "ledger", err)
			}

			rec := d.Record
			rec.BeforeStock = before
			rec.AfterStock = after
			records = append(records, rec)
		}

		if err := e.records.Append(ctx, records); err != nil {
			return e.classify(ctx, "movement_log", err)
		}

		for _, c := range set.Counters {
			if e.counters == nil {
				return apperror.NewInternal(nil).WithDetail("missing", "counter_accumulator")
			}
			if err := e.counters.AccumulateIssue(ctx, c.ItemID, c.Issued, c.Variance); err != nil {
				return e.classify(ctx, "bom_counters", err)
			}
		}

		if set.Finalize != nil {
			if err := set.Finalize(ctx); err != nil {
				return e.classify(ctx, "document", err)
			}
		}

		return nil
	})
}

// classify keeps structured business errors intact and wraps raw store
// failures as Unavailable so callers can tell the two apart.
func (e *Engine) classify(ctx context.Context, step string, err error) error {
	if apperror.IsAppError(err) {
		return err
	}
	logger.Error(ctx, "posting step failed", "step", step, "error", err)
	return apperror.NewUnavailable(step, err)
}
