package template

import "errors"

var (
	ErrNotFound         = errors.New("kpi template not found")
	ErrInvalidFrequency = errors.New("invalid template frequency")
	ErrInvalidKPIType   = errors.New("invalid kpi type")
	ErrDuplicateItem    = errors.New("duplicate template item name")
)
