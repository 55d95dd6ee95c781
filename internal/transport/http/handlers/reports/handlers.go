package reportshandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jung-kurt/gofpdf"

	"kpitrack/internal/domain/audit"
	"kpitrack/internal/domain/auth"
	"kpitrack/internal/domain/kpi"
	"kpitrack/internal/domain/notifications"
	"kpitrack/internal/platform/metrics"
	"kpitrack/internal/transport/http/api"
	"kpitrack/internal/transport/http/middleware"
)

type Handler struct {
	Service *kpi.Service
	Perms   middleware.PermissionStore
	Notify  *notifications.Service
	Audit   *audit.Service
	Metrics *metrics.Collector
}

func NewHandler(service *kpi.Service, perms middleware.PermissionStore, notify *notifications.Service, auditSvc *audit.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Perms: perms, Notify: notify, Audit: auditSvc, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsGenerate, h.Perms)).Post("/department", h.handleGenerate)
		r.With(middleware.RequirePermission(auth.PermReportsGenerate, h.Perms)).Post("/department/preview", h.handlePreview)
		r.With(middleware.RequirePermission(auth.PermReportsGenerate, h.Perms)).Get("/department/{department}/templates/{templateID}/pdf", h.handleExportPDF)
	})
}

type reportRequest struct {
	Department    string `json:"department"`
	KPITemplateID string `json:"kpiTemplateId"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	payload, ok := decodeReportRequest(w, r)
	if !ok {
		return
	}

	report, err := h.Service.GenerateDepartmentReport(r.Context(), payload.Department, payload.KPITemplateID, user.UserID)
	if err != nil {
		failReportError(w, r, err)
		return
	}

	h.Metrics.RecordReportGenerated(report.EntriesLocked)
	if err := h.Audit.Record(r.Context(), user.UserID, "report.generate", "department_report", payload.Department, middleware.GetRequestID(r.Context()), middleware.ClientIP(r), payload); err != nil {
		slog.Warn("audit record failed", "action", "report.generate", "err", err)
	}
	for _, role := range report.Roles {
		for _, ranking := range role.Rankings {
			if !ranking.HasEntry {
				continue
			}
			if err := h.Notify.Create(r.Context(), ranking.MemberID, notifications.TypeReportGenerated, "Department report generated", "A KPI report including your entry was generated for "+report.Department+"."); err != nil {
				slog.Warn("notification create failed", "type", notifications.TypeReportGenerated, "err", err)
			}
		}
	}

	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	payload, ok := decodeReportRequest(w, r)
	if !ok {
		return
	}

	report, err := h.Service.PreviewDepartmentReport(r.Context(), payload.Department, payload.KPITemplateID, user.UserID)
	if err != nil {
		failReportError(w, r, err)
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

// handleExportPDF renders the preview as a PDF. It never locks entries, so
// exporting is repeatable while generation stays one-shot.
func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	department := chi.URLParam(r, "department")
	templateID := chi.URLParam(r, "templateID")

	report, err := h.Service.PreviewDepartmentReport(r.Context(), department, templateID, user.UserID)
	if err != nil {
		failReportError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := renderReportPDF(report, &buf); err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_pdf_failed", "failed to render report pdf", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "kpi-report-"+department+".pdf"))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("report pdf write failed", "err", err)
	}
}

func renderReportPDF(report *kpi.DepartmentReport, out *bytes.Buffer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "KPI Department Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Department: %s", report.Department))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Template: %s (%s)", report.TemplateName, report.Frequency))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	for _, role := range report.Roles {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, fmt.Sprintf("Role: %s", role.Role))
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, ranking := range role.Rankings {
			line := fmt.Sprintf("#%d  %s", ranking.Ranking, ranking.Name)
			if ranking.HasEntry {
				line += fmt.Sprintf("  %.2f", ranking.TotalScore)
			} else {
				line += "  (no entry)"
			}
			pdf.Cell(0, 6, line)
			pdf.Ln(6)
		}
		pdf.Cell(0, 6, fmt.Sprintf("Average %.2f  Completion %d%%", role.Stats.AverageScore, role.Stats.CompletionRate))
		pdf.Ln(10)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Department average %.2f  Completion %d%%", report.Stats.AverageScore, report.Stats.CompletionRate))

	return pdf.Output(out)
}

func decodeReportRequest(w http.ResponseWriter, r *http.Request) (reportRequest, bool) {
	var payload reportRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return payload, false
	}
	if payload.Department == "" || payload.KPITemplateID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "department and kpiTemplateId are required", middleware.GetRequestID(r.Context()))
		return payload, false
	}
	return payload, true
}

func failReportError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, kpi.ErrTemplateNotFound):
		api.Fail(w, http.StatusNotFound, "template_not_found", "template not found", requestID)
	case errors.Is(err, kpi.ErrReportAlreadyGenerated):
		api.Fail(w, http.StatusConflict, "report_already_generated", "report already generated", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build report", requestID)
	}
}
