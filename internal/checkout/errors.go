package checkout

// Code classifies a checkout failure. The set is closed: every
// collaborator error is mapped into one of these before reaching a
// caller.
type Code string

const (
	CodeUnauthenticated   Code = "unauthenticated"
	CodeCreateFailed      Code = "order_create_failed"
	CodeItemsCreateFailed Code = "order_items_create_failed"
	CodeUpdateFailed      Code = "order_update_failed"
	CodeDeleteFailed      Code = "order_delete_failed"
	CodeUnknown           Code = "unknown_failure"
)

// Error is the structured result of a failed checkout operation.
//
// OrderID is set when a write already landed before the failure: an
// items-insert failure leaves the created order row in place, and the ID
// is surfaced so an operator can reconcile it rather than the
// inconsistency being hidden.
type Error struct {
	Code    Code
	OrderID string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
