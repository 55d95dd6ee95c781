package notifications

const (
	TypeEntryCreated    = "kpi.entry.created"
	TypeEntryUpdated    = "kpi.entry.updated"
	TypeReportGenerated = "kpi.report.generated"
)
