package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"itms/internal/forms"
	"itms/internal/httpx"
	"itms/internal/models"
	"itms/internal/validation"
)

type ISPHandler struct{ DB *gorm.DB }

func NewISPHandler(d *gorm.DB) *ISPHandler { return &ISPHandler{DB: d} }

func (h *ISPHandler) List(w http.ResponseWriter, r *http.Request) {
	var items []models.ISP
	if err := h.DB.Order("name").Find(&items).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_isps", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, items)
		return
	}
	renderTemplate(w, r, "isps", map[string]any{"Items": items, "Flash": httpx.PopFlash(w, r)})
}

func (h *ISPHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	f := forms.New(r.PostForm)
	isp := models.ISP{
		Name:          f.Required("name"),
		MonthlyFee:    f.Float("monthly_fee"),
		AccountNumber: f.String("account_number"),
	}
	validation.PositiveFloat("monthly_fee", isp.MonthlyFee, f.V)
	if !f.Ok() {
		if wantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", f.V)
			return
		}
		var items []models.ISP
		_ = h.DB.Order("name").Find(&items).Error
		w.WriteHeader(http.StatusBadRequest)
		renderTemplate(w, r, "isps", map[string]any{"Errors": f.V, "Items": items})
		return
	}
	if err := h.DB.Create(&isp).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "isp_create_failed", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, isp)
		return
	}
	httpx.SetFlash(w, "ISP added")
	http.Redirect(w, r, "/isps", statusSeeOther)
}

// AddDowntime logs an outage window for an ISP. The window is stored as
// given; the net-pay report decides which month (if any) it counts toward.
func (h *ISPHandler) AddDowntime(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var count int64
	if err := h.DB.Model(&models.ISP{}).Where("id = ?", id).Count(&count).Error; err != nil || count == 0 {
		httpx.JSONError(w, http.StatusNotFound, "isp_not_found", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	f := forms.New(r.PostForm)
	d := models.ISPDowntime{
		ISPID:  id,
		Start:  f.DateTime("start"),
		End:    f.DateTime("end"),
		Reason: f.String("reason"),
	}
	if f.Ok() && d.End.Before(d.Start) {
		f.V["end"] = "must_not_precede_start"
	}
	if !f.Ok() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", f.V)
		return
	}
	if err := h.DB.Create(&d).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "downtime_create_failed", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, d)
		return
	}
	httpx.SetFlash(w, "Downtime logged")
	http.Redirect(w, r, "/isps", statusSeeOther)
}
