package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Taylan474/winter-service-manager-sub001/config"
	"github.com/Taylan474/winter-service-manager-sub001/database"
	"github.com/Taylan474/winter-service-manager-sub001/middleware"
	"github.com/Taylan474/winter-service-manager-sub001/models"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type StreetStatusHandler struct {
	config *config.Config
}

func NewStreetStatusHandler(cfg *config.Config) *StreetStatusHandler {
	return &StreetStatusHandler{config: cfg}
}

// DayOverview returns every street status row for one calendar day.
func (h *StreetStatusHandler) DayOverview(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	date := time.Now()
	if dateStr != "" {
		parsed, err := parseDate(dateStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		date = parsed
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var statuses []models.StreetStatus
	err := database.GetDB().
		Preload("Street").
		Preload("Street.Area").
		Where("date = ?", date).
		Find(&statuses).Error
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load street statuses")
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

// History returns a street's status rows over a date range, oldest first.
func (h *StreetStatusHandler) History(w http.ResponseWriter, r *http.Request) {
	streetID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid street ID")
		return
	}

	query := database.GetDB().Where("street_id = ?", uint(streetID))
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		if from, err := parseDate(fromStr); err == nil {
			query = query.Where("date >= ?", from)
		}
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		if to, err := parseDate(toStr); err == nil {
			query = query.Where("date <= ?", to)
		}
	}

	var statuses []models.StreetStatus
	if err := query.Order("date asc").Find(&statuses).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load status history")
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

type transitionRequest struct {
	Date   string                   `json:"date"`
	Status models.StreetStatusValue `json:"status"`
}

// Transition moves a street's status for one day along open -> enroute ->
// done. The first transition of a day creates the status row; every
// transition also maintains the per-round history. Completing a round on a
// street that needs more rounds reopens the street for the next pass.
func (h *StreetStatusHandler) Transition(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	streetID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid street ID")
		return
	}

	var street models.Street
	if err := database.GetDB().First(&street, streetID).Error; err != nil {
		writeError(w, http.StatusNotFound, "street not found")
		return
	}

	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != models.StatusEnRoute && req.Status != models.StatusDone {
		writeError(w, http.StatusBadRequest, "invalid target status")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	var status models.StreetStatus
	err = database.GetDB().Where("street_id = ? AND date = ?", street.ID, date).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		status = models.StreetStatus{
			StreetID:      street.ID,
			Date:          date,
			Status:        models.StatusOpen,
			AssignedUsers: models.UserIDList{},
			CurrentRound:  1,
			TotalRounds:   street.RoundsPerDay,
		}
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load street status")
		return
	}

	now := time.Now()
	switch req.Status {
	case models.StatusEnRoute:
		if status.Status == models.StatusDone {
			writeError(w, http.StatusBadRequest, "street is already done for this day")
			return
		}
		status.Status = models.StatusEnRoute
		if status.StartedAt == nil {
			status.StartedAt = &now
		}
		if !status.AssignedUsers.Contains(user.ID) {
			status.AssignedUsers = append(status.AssignedUsers, user.ID)
		}
	case models.StatusDone:
		if status.Status != models.StatusEnRoute {
			writeError(w, http.StatusBadRequest, "street must be en route before it can be done")
			return
		}
		if status.CurrentRound < status.TotalRounds {
			// Round finished but more passes are due today.
			status.Status = models.StatusOpen
			status.CurrentRound++
		} else {
			status.Status = models.StatusDone
			status.FinishedAt = &now
		}
	}

	if err := database.GetDB().Save(&status).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save street status")
		return
	}

	if err := h.recordRound(&status, req.Status, now); err != nil {
		config.LogError(config.GetLogger(), "handlers", "Transition", "round history",
			map[string]interface{}{"street_id": status.StreetID, "date": req.Date}, err)
	}

	writeJSON(w, http.StatusOK, status)
}

// recordRound mirrors the transition into the per-round history table.
func (h *StreetStatusHandler) recordRound(status *models.StreetStatus, target models.StreetStatusValue, now time.Time) error {
	round := status.CurrentRound
	if target == models.StatusDone && status.Status != models.StatusDone {
		// The round that was just completed, before CurrentRound advanced.
		round = status.CurrentRound - 1
	}
	if round < 1 {
		round = 1
	}

	var row models.StreetStatusRound
	err := database.GetDB().
		Where("street_id = ? AND date = ? AND round = ?", status.StreetID, status.Date, round).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.StreetStatusRound{
			StreetID:      status.StreetID,
			Date:          status.Date,
			Round:         round,
			AssignedUsers: models.UserIDList{},
		}
	} else if err != nil {
		return err
	}

	switch target {
	case models.StatusEnRoute:
		row.Status = models.StatusEnRoute
		if row.StartedAt == nil {
			row.StartedAt = &now
		}
	case models.StatusDone:
		row.Status = models.StatusDone
		row.FinishedAt = &now
	}
	row.AssignedUsers = status.AssignedUsers

	return database.GetDB().Save(&row).Error
}
