package entity

import (
	"context"
	"time"

	"voltstock/internal/core/apperror"
	"voltstock/internal/core/id"
)

// DocumentStatus is the lifecycle state of a warehouse document.
type DocumentStatus string

const (
	// StatusDraft - document is editable, no stock effect yet
	StatusDraft DocumentStatus = "draft"
	// StatusConfirmed - stock movements applied, document is immutable
	StatusConfirmed DocumentStatus = "confirmed"
)

// Document is the base type for warehouse transactions.
// Examples: InboundOrder, OutboundOrder.
//
// The lifecycle is one-way: draft -> confirmed. There is no unconfirm;
// mistakes are corrected with a compensating document.
type Document struct {
	BaseDocument

	// Number is the document number (auto-generated, unique within type)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Status is draft or confirmed
	Status DocumentStatus `db:"status" json:"status"`

	// ConfirmedAt is set exactly once, when the document is confirmed
	ConfirmedAt *time.Time `db:"confirmed_at" json:"confirmedAt,omitempty"`

	// Operator is who created/confirmed the document
	Operator string `db:"operator" json:"operator,omitempty"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new draft Document with generated ID.
func NewDocument(operator string) Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
		Status:       StatusDraft,
		Operator:     operator,
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	if d.Status != StatusDraft && d.Status != StatusConfirmed {
		return apperror.NewValidation("invalid document status").
			WithDetail("field", "status").
			WithDetail("value", string(d.Status))
	}

	return nil
}

// CanModify checks if document can be modified.
// Confirmed documents are immutable.
func (d *Document) CanModify() error {
	if d.Status == StatusConfirmed {
		return apperror.NewInvalidState("cannot modify a confirmed document").
			WithDetail("document_id", d.ID.String()).
			WithDetail("number", d.Number)
	}
	return nil
}

// MarkConfirmed transitions the document to confirmed.
func (d *Document) MarkConfirmed() {
	now := time.Now().UTC()
	d.Status = StatusConfirmed
	d.ConfirmedAt = &now
	d.Touch()
}

// IsConfirmed reports whether the document has been confirmed.
func (d *Document) IsConfirmed() bool {
	return d.Status == StatusConfirmed
}

// IsBackdated checks if document date is in the past.
func (d *Document) IsBackdated() bool {
	return d.Date.Before(time.Now().UTC().Truncate(24 * time.Hour))
}

// --- Confirmable interface default implementations ---
// Document-specific types only need to implement GetDocumentType()
// and StockDeltas().

// GetID returns the document ID (Confirmable interface).
func (d *Document) GetID() id.ID {
	return d.ID
}

// GetNumber returns the document number (Confirmable interface).
func (d *Document) GetNumber() string {
	return d.Number
}

// CanConfirm validates if the document can be confirmed.
// Override in specific document types if additional validation is needed.
func (d *Document) CanConfirm(ctx context.Context) error {
	if d.Status != StatusDraft {
		return apperror.NewInvalidState("only draft documents can be confirmed").
			WithDetail("document_id", d.ID.String()).
			WithDetail("status", string(d.Status))
	}
	return d.Validate(ctx)
}
