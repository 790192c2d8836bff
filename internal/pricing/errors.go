package pricing

import "fmt"

// NotFoundError reports a SKU name that does not exist in the snapshot.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("SKU %q not found", e.Name)
}

// ZeroBaselineError reports a percentage change whose baseline is zero.
// The engine fails explicitly instead of letting NaN or Inf escape.
type ZeroBaselineError struct {
	Quantity string
}

func (e *ZeroBaselineError) Error() string {
	return fmt.Sprintf("cannot compute percentage change: baseline %s is zero", e.Quantity)
}

// MalformedRecordError reports a record missing a value the projection needs.
type MalformedRecordError struct {
	Name  string
	Field string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("SKU %q has no usable %s value", e.Name, e.Field)
}
