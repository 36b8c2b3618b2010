package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Taylan474/winter-service-manager-sub001/cache"
	"github.com/Taylan474/winter-service-manager-sub001/config"
	"github.com/Taylan474/winter-service-manager-sub001/database"
	"github.com/Taylan474/winter-service-manager-sub001/models"

	"github.com/go-chi/chi/v5"
)

// InventoryHandler serves the city/area/street tree. Reads of the slow-
// moving reference data go through the shared cache; every mutation
// invalidates the affected keys instead of waiting for TTL expiry.
type InventoryHandler struct {
	config *config.Config
	cache  *cache.Cache
}

func NewInventoryHandler(cfg *config.Config, c *cache.Cache) *InventoryHandler {
	return &InventoryHandler{config: cfg, cache: c}
}

const (
	cacheKeyCities  = "cities:all"
	cacheKeyStreets = "streets:"
)

func (h *InventoryHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.cache.Get(cacheKeyCities); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	value, err := cache.FetchWithRetry(r.Context(), func(ctx context.Context) (interface{}, error) {
		var cities []models.City
		err := database.GetDB().WithContext(ctx).
			Preload("Areas").
			Preload("Areas.Streets").
			Order("name asc").
			Find(&cities).Error
		return cities, err
	}, h.config.FetchTimeout, h.config.FetchAttempts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load cities")
		return
	}

	h.cache.Set(cacheKeyCities, value, cache.TTLCities)
	writeJSON(w, http.StatusOK, value)
}

type cityRequest struct {
	Name string `json:"name"`
}

func (h *InventoryHandler) CreateCity(w http.ResponseWriter, r *http.Request) {
	var req cityRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	var count int64
	database.GetDB().Model(&models.City{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		writeError(w, http.StatusBadRequest, "city already exists")
		return
	}

	city := models.City{Name: req.Name}
	if err := database.GetDB().Create(&city).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create city")
		return
	}
	h.cache.Invalidate(cacheKeyCities)
	writeJSON(w, http.StatusCreated, city)
}

func (h *InventoryHandler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid city ID")
		return
	}

	var city models.City
	if err := database.GetDB().First(&city, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "city not found")
		return
	}

	var areaCount int64
	database.GetDB().Model(&models.Area{}).Where("city_id = ?", city.ID).Count(&areaCount)
	if areaCount > 0 {
		writeError(w, http.StatusBadRequest, "city still has areas")
		return
	}

	if err := database.GetDB().Delete(&city).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete city")
		return
	}
	h.cache.Invalidate(cacheKeyCities)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "city deleted"})
}

type areaRequest struct {
	Name   string `json:"name"`
	CityID uint   `json:"city_id"`
}

func (h *InventoryHandler) CreateArea(w http.ResponseWriter, r *http.Request) {
	var req areaRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" || req.CityID == 0 {
		writeError(w, http.StatusBadRequest, "name and city_id are required")
		return
	}

	var city models.City
	if err := database.GetDB().First(&city, req.CityID).Error; err != nil {
		writeError(w, http.StatusBadRequest, "city not found")
		return
	}

	var count int64
	database.GetDB().Model(&models.Area{}).Where("city_id = ? AND name = ?", req.CityID, req.Name).Count(&count)
	if count > 0 {
		writeError(w, http.StatusBadRequest, "area already exists in this city")
		return
	}

	area := models.Area{Name: req.Name, CityID: req.CityID}
	if err := database.GetDB().Create(&area).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create area")
		return
	}
	h.cache.Invalidate(cacheKeyCities)
	writeJSON(w, http.StatusCreated, area)
}

func (h *InventoryHandler) DeleteArea(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid area ID")
		return
	}

	var area models.Area
	if err := database.GetDB().First(&area, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "area not found")
		return
	}

	var streetCount int64
	database.GetDB().Model(&models.Street{}).Where("area_id = ?", area.ID).Count(&streetCount)
	if streetCount > 0 {
		writeError(w, http.StatusBadRequest, "area still has streets")
		return
	}

	if err := database.GetDB().Delete(&area).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete area")
		return
	}
	h.cache.Invalidate(cacheKeyCities)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "area deleted"})
}

func (h *InventoryHandler) ListStreets(w http.ResponseWriter, r *http.Request) {
	areaIDStr := r.URL.Query().Get("area_id")
	key := cacheKeyStreets + areaIDStr

	if cached, ok := h.cache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	value, err := cache.FetchWithRetry(r.Context(), func(ctx context.Context) (interface{}, error) {
		query := database.GetDB().WithContext(ctx).
			Preload("Area").
			Preload("Area.City").
			Preload("Customer")
		if areaIDStr != "" {
			if aid, err := strconv.ParseUint(areaIDStr, 10, 32); err == nil && aid > 0 {
				query = query.Where("area_id = ?", uint(aid))
			}
		}
		var streets []models.Street
		err := query.Order("name asc").Find(&streets).Error
		return streets, err
	}, h.config.FetchTimeout, h.config.FetchAttempts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load streets")
		return
	}

	h.cache.Set(key, value, cache.TTLStreets)
	writeJSON(w, http.StatusOK, value)
}

type streetRequest struct {
	Name           string `json:"name"`
	AreaID         uint   `json:"area_id"`
	PublicContract bool   `json:"public_contract"`
	RoundsPerDay   int    `json:"rounds_per_day"`
	Priority       int    `json:"priority"`
	CustomerID     *uint  `json:"customer_id"`
}

func (h *InventoryHandler) CreateStreet(w http.ResponseWriter, r *http.Request) {
	var req streetRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" || req.AreaID == 0 {
		writeError(w, http.StatusBadRequest, "name and area_id are required")
		return
	}
	if req.RoundsPerDay < 1 {
		req.RoundsPerDay = 1
	}

	var area models.Area
	if err := database.GetDB().First(&area, req.AreaID).Error; err != nil {
		writeError(w, http.StatusBadRequest, "area not found")
		return
	}

	var count int64
	database.GetDB().Model(&models.Street{}).Where("area_id = ? AND name = ?", req.AreaID, req.Name).Count(&count)
	if count > 0 {
		writeError(w, http.StatusBadRequest, "street already exists in this area")
		return
	}

	street := models.Street{
		Name:           req.Name,
		AreaID:         req.AreaID,
		PublicContract: req.PublicContract,
		RoundsPerDay:   req.RoundsPerDay,
		Priority:       req.Priority,
		CustomerID:     req.CustomerID,
	}
	if err := database.GetDB().Create(&street).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create street")
		return
	}
	h.cache.InvalidatePattern(cacheKeyStreets)
	h.cache.Invalidate(cacheKeyCities)
	writeJSON(w, http.StatusCreated, street)
}

func (h *InventoryHandler) UpdateStreet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid street ID")
		return
	}

	var street models.Street
	if err := database.GetDB().First(&street, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "street not found")
		return
	}

	var req streetRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.RoundsPerDay < 1 {
		req.RoundsPerDay = 1
	}

	street.Name = req.Name
	street.PublicContract = req.PublicContract
	street.RoundsPerDay = req.RoundsPerDay
	street.Priority = req.Priority
	street.CustomerID = req.CustomerID
	if req.AreaID != 0 {
		street.AreaID = req.AreaID
	}

	if err := database.GetDB().Save(&street).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update street")
		return
	}
	h.cache.InvalidatePattern(cacheKeyStreets)
	h.cache.Invalidate(cacheKeyCities)
	writeJSON(w, http.StatusOK, street)
}

func (h *InventoryHandler) DeleteStreet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid street ID")
		return
	}

	var street models.Street
	if err := database.GetDB().First(&street, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "street not found")
		return
	}

	if err := database.GetDB().Delete(&street).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete street")
		return
	}
	h.cache.InvalidatePattern(cacheKeyStreets)
	h.cache.Invalidate(cacheKeyCities)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "street deleted"})
}
