package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"itms/internal/forms"
	"itms/internal/httpx"
	"itms/internal/models"
	"itms/internal/validation"
)

type RecurringHandler struct{ DB *gorm.DB }

func NewRecurringHandler(d *gorm.DB) *RecurringHandler { return &RecurringHandler{DB: d} }

func (h *RecurringHandler) List(w http.ResponseWriter, r *http.Request) {
	var items []models.RecurringPayment
	if err := h.DB.Order("name").Find(&items).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_recurring", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, items)
		return
	}
	renderTemplate(w, r, "recurring", map[string]any{"Items": items, "Flash": httpx.PopFlash(w, r)})
}

func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	f := forms.New(r.PostForm)
	rp := models.RecurringPayment{
		Name:             f.Required("name"),
		Amount:           f.Float("amount"),
		Recurrence:       f.StringOr("recurrence", "Monthly"),
		DueDay:           f.IntOr("due_day", 1),
		NotifyBeforeDays: f.IntOr("notify_before_days", 5),
		LastPaidOn:       f.OptionalDate("last_paid_on"),
		Vendor:           f.String("vendor"),
	}
	validation.RangeInt("due_day", rp.DueDay, 1, 31, f.V)
	validation.PositiveFloat("amount", rp.Amount, f.V)
	if !f.Ok() {
		if wantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", f.V)
			return
		}
		var items []models.RecurringPayment
		_ = h.DB.Order("name").Find(&items).Error
		w.WriteHeader(http.StatusBadRequest)
		renderTemplate(w, r, "recurring", map[string]any{"Errors": f.V, "Items": items})
		return
	}
	if err := h.DB.Create(&rp).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "recurring_create_failed", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, rp)
		return
	}
	httpx.SetFlash(w, "Recurring payment added")
	http.Redirect(w, r, "/recurring", statusSeeOther)
}
