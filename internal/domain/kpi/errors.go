package kpi

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidFrequency = errors.New("invalid frequency")

	ErrEntryNotFound    = errors.New("kpi entry not found")
	ErrTemplateNotFound = errors.New("kpi template not found")
	ErrMemberNotFound   = errors.New("member not found")

	// ErrPeriodConflict is returned when an entry already exists for the
	// (template, member) pair inside the current period window.
	ErrPeriodConflict = errors.New("entry already exists for this period")

	// ErrReportAlreadyGenerated is returned when the pair has a generated
	// entry; creation for the pair is blocked from then on.
	ErrReportAlreadyGenerated = errors.New("report already generated for this member and template")

	ErrEntryLocked        = errors.New("entry is locked by report generation")
	ErrUpdateWindowClosed = errors.New("entry period has elapsed and can no longer be updated")

	ErrMissingRequiredValues = errors.New("missing required values")
	ErrMissingBypassScore    = errors.New("bypassed value requires a score")
	ErrInvalidValueType      = errors.New("value type does not match kpi type")
)

// MissingValuesError names every non-dynamic template item absent from a
// submission.
type MissingValuesError struct {
	Names []string
}

func (e *MissingValuesError) Error() string {
	return fmt.Sprintf("missing required values: %s", strings.Join(e.Names, ", "))
}

func (e *MissingValuesError) Unwrap() error {
	return ErrMissingRequiredValues
}

// InvalidValueTypeError reports a runtime type that violates the item's kpi
// type contract.
type InvalidValueTypeError struct {
	Name string
	Want string
	Got  string
}

func (e *InvalidValueTypeError) Error() string {
	return fmt.Sprintf("value %q must be %s, got %s", e.Name, e.Want, e.Got)
}

func (e *InvalidValueTypeError) Unwrap() error {
	return ErrInvalidValueType
}
