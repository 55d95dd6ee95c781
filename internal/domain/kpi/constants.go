package kpi

// Entry lifecycle. An entry is mutable while initiated and becomes immutable
// once report generation transitions it to generated. There is no transition
// back.
const (
	StatusInitiated = "initiated"
	StatusGenerated = "generated"
)
