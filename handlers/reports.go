package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Taylan474/winter-service-manager-sub001/config"
	"github.com/Taylan474/winter-service-manager-sub001/database"
	"github.com/Taylan474/winter-service-manager-sub001/middleware"
	"github.com/Taylan474/winter-service-manager-sub001/models"
	"github.com/Taylan474/winter-service-manager-sub001/period"
	"github.com/Taylan474/winter-service-manager-sub001/report"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ReportHandler struct {
	config  *config.Config
	builder *report.Builder
}

func NewReportHandler(cfg *config.Config, builder *report.Builder) *ReportHandler {
	return &ReportHandler{config: cfg, builder: builder}
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	query := database.GetDB().
		Omit("payload").
		Preload("Customer").
		Preload("Creator")

	if typeStr := r.URL.Query().Get("type"); typeStr != "" {
		query = query.Where("type = ?", typeStr)
	}
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		query = query.Where("status = ?", statusStr)
	}

	var reports []models.Report
	if err := query.Order("number desc").Find(&reports).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load reports")
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report ID")
		return
	}

	var rep models.Report
	if err := database.GetDB().Preload("Customer").Preload("Creator").First(&rep, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

type createReportRequest struct {
	Type       models.ReportType `json:"type"`
	Title      string            `json:"title"`
	Date       string            `json:"date"`
	From       string            `json:"from"`
	To         string            `json:"to"`
	CustomerID *uint             `json:"customer_id"`
}

// Create builds a report snapshot over the requested period and persists it
// with the next sequential BR number. The payload insert only happens after
// the build fully succeeded, so there is never a partial report.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if !user.CanCreateReports() {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req createReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	from, to, label, msg := h.resolvePeriod(&req)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	title := req.Title
	if title == "" {
		title = label
	}

	payload, err := h.builder.Build(r.Context(), from, to, req.CustomerID, user.ID)
	if err != nil {
		config.LogError(config.GetLogger(), "handlers", "Create", "report build",
			map[string]interface{}{"from": req.From, "to": req.To}, err)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode report")
		return
	}

	number, err := database.NextNumber(database.GetDB(), database.ScopeReport, time.Now().Year())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to assign report number")
		return
	}

	rep := models.Report{
		Number:      number,
		Reference:   uuid.NewString(),
		Type:        req.Type,
		Title:       title,
		PeriodStart: from,
		PeriodEnd:   to,
		CustomerID:  req.CustomerID,
		Payload:     data,
		Status:      models.ReportDraft,
		CreatedBy:   user.ID,
	}
	if err := database.GetDB().Create(&rep).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save report")
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}

func (h *ReportHandler) resolvePeriod(req *createReportRequest) (time.Time, time.Time, string, string) {
	switch req.Type {
	case models.ReportDaily, models.ReportWeekly, models.ReportMonthly:
		ref := time.Now()
		if req.Date != "" {
			parsed, err := parseDate(req.Date)
			if err != nil {
				return time.Time{}, time.Time{}, "", "invalid date"
			}
			ref = parsed
		}
		granularity := period.Day
		switch req.Type {
		case models.ReportWeekly:
			granularity = period.Week
		case models.ReportMonthly:
			granularity = period.Month
		}
		p := period.Resolve(ref, granularity)
		return p.Start, p.End, p.Label, ""
	case models.ReportCustom, models.ReportWorkSummary:
		from, err := parseDate(req.From)
		if err != nil {
			return time.Time{}, time.Time{}, "", "invalid from date"
		}
		to, err := parseDate(req.To)
		if err != nil {
			return time.Time{}, time.Time{}, "", "invalid to date"
		}
		if to.Before(from) {
			return time.Time{}, time.Time{}, "", "to must not be before from"
		}
		label := fmt.Sprintf("%s – %s", from.Format("02.01.2006"), to.Format("02.01.2006"))
		return from, to, label, ""
	default:
		return time.Time{}, time.Time{}, "", "invalid report type"
	}
}

type reportStatusRequest struct {
	Status models.ReportStatus `json:"status"`
}

// UpdateStatus moves a report along draft -> finalized -> archived. The
// payload itself never changes.
func (h *ReportHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report ID")
		return
	}

	var rep models.Report
	if err := database.GetDB().First(&rep, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}

	var req reportStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !rep.CanTransitionTo(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid status transition")
		return
	}

	if err := database.GetDB().Model(&rep).Update("status", req.Status).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update report")
		return
	}
	rep.Status = req.Status
	writeJSON(w, http.StatusOK, rep)
}

func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report ID")
		return
	}

	var rep models.Report
	if err := database.GetDB().First(&rep, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err := database.GetDB().Delete(&rep).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete report")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "report deleted"})
}

// ExportCSV streams the work-log rows of a persisted report as CSV. The
// rows come from the immutable payload, not from a fresh query, so the
// export always matches the snapshot.
func (h *ReportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report ID")
		return
	}

	var rep models.Report
	if err := database.GetDB().First(&rep, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}

	var payload report.Payload
	if err := json.Unmarshal(rep.Payload, &payload); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to decode report payload")
		return
	}

	filename := fmt.Sprintf("%s.csv", rep.Number)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"Mitarbeiter", "Datum", "Von", "Bis", "Stunden", "Strasse", "Notizen"}) //nolint:errcheck
	for _, row := range payload.WorkLogs {
		writer.Write([]string{ //nolint:errcheck
			row.UserName,
			row.Date,
			row.StartTime,
			row.EndTime,
			fmt.Sprintf("%.2f", row.Hours),
			row.StreetName,
			row.Notes,
		})
	}
}
