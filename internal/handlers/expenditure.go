package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"itms/internal/forms"
	"itms/internal/httpx"
	"itms/internal/models"
	"itms/internal/services"
)

type ExpenditureHandler struct {
	DB      *gorm.DB
	Reports *services.ReportService
}

func NewExpenditureHandler(d *gorm.DB) *ExpenditureHandler {
	return &ExpenditureHandler{DB: d, Reports: services.NewReportService(d)}
}

func (h *ExpenditureHandler) List(w http.ResponseWriter, r *http.Request) {
	exps, total, err := h.Reports.ExpendituresWithTotal()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_expenditures", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": exps, "total": total})
		return
	}
	var assets []models.Asset
	_ = h.DB.Order("tag").Find(&assets).Error
	renderTemplate(w, r, "expenditures", map[string]any{
		"Expenditures": exps,
		"Total":        total,
		"Assets":       assets,
		"Flash":        httpx.PopFlash(w, r),
	})
}

func (h *ExpenditureHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	f := forms.New(r.PostForm)
	exp := models.Expenditure{
		Date:        f.Date("date"),
		Category:    f.Required("category"),
		Description: f.Required("description"),
		Amount:      f.Float("amount"),
		DocType:     f.String("doc_type"),
		DocNumber:   f.String("doc_number"),
		AssetID:     f.OptionalUint("asset_id"),
		Vendor:      f.String("vendor"),
	}
	if !f.Ok() {
		if wantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", f.V)
			return
		}
		exps, total, _ := h.Reports.ExpendituresWithTotal()
		w.WriteHeader(http.StatusBadRequest)
		renderTemplate(w, r, "expenditures", map[string]any{"Errors": f.V, "Expenditures": exps, "Total": total})
		return
	}
	if exp.AssetID != nil {
		var count int64
		if err := h.DB.Model(&models.Asset{}).Where("id = ?", *exp.AssetID).Count(&count).Error; err != nil || count == 0 {
			httpx.JSONError(w, http.StatusNotFound, "asset_not_found", nil)
			return
		}
	}
	if err := h.DB.Create(&exp).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "expenditure_create_failed", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, exp)
		return
	}
	httpx.SetFlash(w, "Expenditure recorded")
	http.Redirect(w, r, "/expenditures", statusSeeOther)
}
