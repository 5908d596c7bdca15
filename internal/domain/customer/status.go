package customer

import "time"

// DerivePaymentStatus recomputes the payment status for an update that
// touches pendingAmount or dueDate. Effective values come from the patch when
// supplied, otherwise from the existing record. The rule is evaluated in
// fixed priority order:
//
//  1. effective pendingAmount == 0            -> Paid
//  2. dueDate set and now is past the dueDate -> Overdue
//  3. effective pendingAmount > 0             -> Current
//
// The returned status overrides any caller-supplied paymentStatus. Delinquent
// is never produced here; it can only be written by a patch that leaves both
// financial fields alone. The second return value is false when the patch does
// not touch the financial fields or when no rule matches (in which case the
// stored status stays as it is).
func DerivePaymentStatus(existing *Customer, patch *UpdatePatch, now time.Time) (PaymentStatus, bool) {
	if !patch.TouchesFinancials() {
		return "", false
	}

	pending := existing.PendingAmount
	if patch.PendingAmount != nil {
		pending = *patch.PendingAmount
	}
	dueDate := existing.DueDate
	if patch.DueDate != nil {
		dueDate = patch.DueDate
	}

	switch {
	case pending.IsZero():
		return StatusPaid, true
	case dueDate != nil && now.After(*dueDate):
		return StatusOverdue, true
	case pending.IsPositive():
		return StatusCurrent, true
	}

	return "", false
}
