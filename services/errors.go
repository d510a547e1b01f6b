package services

import (
	"fmt"
	"sort"
	"strings"
)

// PreconditionError is returned when an operation is called on a document in
// the wrong state. Nothing has been written when it is returned.
type PreconditionError struct {
	Operation string
	Current   string
	Required  []string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s requires status %s, current status is %s",
		e.Operation, strings.Join(e.Required, " or "), e.Current)
}

// ValidationError carries per-field messages.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = msg
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConfigurationError means a row the system depends on (number series, role,
// item, unit) is missing.
type ConfigurationError struct {
	Kind string
	Name string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s %q is not configured", e.Kind, e.Name)
}

// QuantityExceededError is returned when delivery notes would cover more than
// the work order item quantity.
type QuantityExceededError struct {
	WorkOrderItemID uint
	Requested       int
	Allowed         int
}

func (e *QuantityExceededError) Error() string {
	return fmt.Sprintf("work order item %d: requested quantity %d exceeds remaining %d",
		e.WorkOrderItemID, e.Requested, e.Allowed)
}

// ConcurrentUpdateError is returned when another transition committed first.
type ConcurrentUpdateError struct {
	Entity string
	ID     uint
}

func (e *ConcurrentUpdateError) Error() string {
	return fmt.Sprintf("%s %d was modified concurrently, reload and retry", e.Entity, e.ID)
}

type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// ForbiddenError is returned when the acting user may not perform the call.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return "forbidden: " + e.Reason
}
