package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Taylan474/winter-service-manager-sub001/config"
	"github.com/Taylan474/winter-service-manager-sub001/database"
	"github.com/Taylan474/winter-service-manager-sub001/middleware"
	"github.com/Taylan474/winter-service-manager-sub001/models"
	"github.com/Taylan474/winter-service-manager-sub001/period"
	"github.com/Taylan474/winter-service-manager-sub001/reconcile"
	"github.com/Taylan474/winter-service-manager-sub001/worktime"

	"github.com/go-chi/chi/v5"
)

type WorkLogHandler struct {
	config     *config.Config
	reconciler *reconcile.Reconciler
}

func NewWorkLogHandler(cfg *config.Config, reconciler *reconcile.Reconciler) *WorkLogHandler {
	return &WorkLogHandler{
		config:     cfg,
		reconciler: reconciler,
	}
}

// List returns work logs visible to the caller, optionally filtered by
// date range, street and (for admins) user.
func (h *WorkLogHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	query := database.GetDB().Preload("User").Preload("Street").Preload("Street.Area")

	if user.CanViewAllWorkLogs() {
		if userIDStr := r.URL.Query().Get("user_id"); userIDStr != "" {
			if uid, err := strconv.ParseUint(userIDStr, 10, 32); err == nil && uid > 0 {
				query = query.Where("user_id = ?", uint(uid))
			}
		}
	} else {
		query = query.Where("user_id = ?", user.ID)
	}

	if streetIDStr := r.URL.Query().Get("street_id"); streetIDStr != "" {
		if sid, err := strconv.ParseUint(streetIDStr, 10, 32); err == nil && sid > 0 {
			query = query.Where("street_id = ?", uint(sid))
		}
	}

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		if from, err := parseDate(fromStr); err == nil {
			query = query.Where("work_logs.date >= ?", from)
		}
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		if to, err := parseDate(toStr); err == nil {
			query = query.Where("work_logs.date <= ?", to)
		}
	}

	var logs []models.WorkLog
	if err := query.Order("work_logs.date desc, work_logs.start_time desc").Limit(200).Find(&logs).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load work logs")
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// Summary aggregates the caller's (or, for admins, anyone's) work logs over
// a day, ISO week or month around the reference date, grouped per calendar
// day. An optional category filter keeps only public-contract or private
// logs.
func (h *WorkLogHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	refStr := r.URL.Query().Get("date")
	ref := time.Now()
	if refStr != "" {
		parsed, err := parseDate(refStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		ref = parsed
	}

	granularity := period.Granularity(r.URL.Query().Get("granularity"))
	switch granularity {
	case period.Day, period.Week, period.Month:
	case "":
		granularity = period.Day
	default:
		writeError(w, http.StatusBadRequest, "invalid granularity")
		return
	}

	category := worktime.Category(r.URL.Query().Get("category"))
	switch category {
	case worktime.CategoryAll, worktime.CategoryPublic, worktime.CategoryPrivate:
	default:
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}

	targetUserID := user.ID
	if userIDStr := r.URL.Query().Get("user_id"); userIDStr != "" && user.CanViewAllWorkLogs() {
		if uid, err := strconv.ParseUint(userIDStr, 10, 32); err == nil && uid > 0 {
			targetUserID = uint(uid)
		}
	}

	p := period.Resolve(ref, granularity)

	var logs []models.WorkLog
	err := database.GetDB().
		Preload("Street").
		Where("user_id = ?", targetUserID).
		Where("work_logs.date >= ? AND work_logs.date <= ?", p.Start, p.End).
		Find(&logs).Error
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load work logs")
		return
	}

	summary := worktime.Aggregate(logs, category)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"period":  p,
		"summary": summary,
	})
}

type workLogRequest struct {
	UserID    uint   `json:"user_id"`
	StreetID  *uint  `json:"street_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Notes     string `json:"notes"`
}

func (h *WorkLogHandler) validate(req *workLogRequest) (time.Time, string) {
	date, err := parseDate(req.Date)
	if err != nil {
		return time.Time{}, "invalid date format"
	}
	if _, err := worktime.ParseClock(req.StartTime); err != nil {
		return time.Time{}, "invalid start time"
	}
	if _, err := worktime.ParseClock(req.EndTime); err != nil {
		return time.Time{}, "invalid end time"
	}
	if len(req.Notes) > 500 {
		return time.Time{}, "notes too long"
	}
	return date, ""
}

func (h *WorkLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req workLogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	targetUserID := user.ID
	if req.UserID != 0 && user.IsAdmin() {
		targetUserID = req.UserID
	}
	if !user.CanManageWorkLogFor(targetUserID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	date, msg := h.validate(&req)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if req.StreetID != nil {
		var street models.Street
		if err := database.GetDB().First(&street, *req.StreetID).Error; err != nil {
			writeError(w, http.StatusBadRequest, "street not found")
			return
		}
	}

	entry := models.WorkLog{
		UserID:    targetUserID,
		StreetID:  req.StreetID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
	}
	if err := database.GetDB().Create(&entry).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create work log")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *WorkLogHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid work log ID")
		return
	}

	var entry models.WorkLog
	if err := database.GetDB().First(&entry, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "work log not found")
		return
	}
	if !user.CanManageWorkLogFor(entry.UserID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req workLogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	date, msg := h.validate(&req)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	entry.Date = date
	entry.StartTime = req.StartTime
	entry.EndTime = req.EndTime
	entry.Notes = req.Notes
	entry.StreetID = req.StreetID

	if err := database.GetDB().Save(&entry).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update work log")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Delete removes a work log and then reconciles the street's status for
// that day. Reconciliation is best effort: a failure is logged but the
// deletion stands.
func (h *WorkLogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid work log ID")
		return
	}

	var entry models.WorkLog
	if err := database.GetDB().First(&entry, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "work log not found")
		return
	}
	if !user.CanManageWorkLogFor(entry.UserID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := database.GetDB().Delete(&entry).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete work log")
		return
	}

	if entry.StreetID != nil {
		if err := h.reconciler.Reconcile(r.Context(), *entry.StreetID, entry.Date); err != nil {
			config.LogError(config.GetLogger(), "handlers", "Delete", "work log reconciliation",
				map[string]interface{}{"street_id": *entry.StreetID, "date": entry.Date.Format(dateLayout)}, err)
		}
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "work log deleted"})
}

// ExportCSV streams one month of work logs as CSV, admin only.
func (h *WorkLogHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}

	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, 0)

	var logs []models.WorkLog
	err = database.GetDB().
		Preload("User").
		Preload("Street").
		Where("work_logs.date >= ? AND work_logs.date < ?", startDate, endDate).
		Order("work_logs.date asc, work_logs.user_id asc").
		Find(&logs).Error
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load work logs")
		return
	}

	filename := fmt.Sprintf("arbeitszeiten_%d_%02d.csv", year, month)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	// Write header
	writer.Write([]string{"Mitarbeiter", "Datum", "Von", "Bis", "Minuten", "Strasse", "Notizen"}) //nolint:errcheck

	// Write data
	for _, log := range logs {
		streetName := ""
		if log.Street != nil {
			streetName = log.Street.Name
		}
		writer.Write([]string{ //nolint:errcheck
			log.User.DisplayName(),
			log.Date.Format("2006-01-02"),
			log.StartTime,
			log.EndTime,
			strconv.Itoa(worktime.Duration(log.StartTime, log.EndTime)),
			streetName,
			log.Notes,
		})
	}
}
