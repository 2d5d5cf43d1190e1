package handlers

import (
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"

	"itms/internal/forms"
	"itms/internal/httpx"
	"itms/internal/models"
	"itms/internal/validation"
)

type RepairHandler struct{ DB *gorm.DB }

func NewRepairHandler(d *gorm.DB) *RepairHandler { return &RepairHandler{DB: d} }

// Create records a repair against an asset. date_reported defaults to
// today; a repair stays open until date_resolved is set.
func (h *RepairHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	f := forms.New(r.PostForm)
	assetID := f.Uint("asset_id")
	repair := models.Repair{
		AssetID:      assetID,
		Issue:        f.Required("issue"),
		ActionTaken:  f.String("action_taken"),
		Cost:         f.OptionalFloat("cost"),
		DateResolved: f.OptionalDate("date_resolved"),
		Vendor:       f.String("vendor"),
	}
	if reported := f.OptionalDate("date_reported"); reported != nil {
		repair.DateReported = *reported
	} else {
		repair.DateReported = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if repair.Cost != nil {
		validation.NonNegativeFloat("cost", *repair.Cost, f.V)
	}
	if !f.Ok() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", f.V)
		return
	}
	var count int64
	if err := h.DB.Model(&models.Asset{}).Where("id = ?", assetID).Count(&count).Error; err != nil || count == 0 {
		httpx.JSONError(w, http.StatusNotFound, "asset_not_found", nil)
		return
	}
	if err := h.DB.Create(&repair).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "repair_create_failed", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, repair)
		return
	}
	httpx.SetFlash(w, "Repair recorded")
	http.Redirect(w, r, "/assets/"+strconv.FormatUint(uint64(assetID), 10), statusSeeOther)
}
