package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"itms/internal/forms"
	"itms/internal/httpx"
	"itms/internal/models"
	"itms/internal/validation"
)

type AssetHandler struct{ DB *gorm.DB }

func NewAssetHandler(d *gorm.DB) *AssetHandler { return &AssetHandler{DB: d} }

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	var assets []models.Asset
	if err := h.DB.Order("category, tag").Find(&assets).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_assets", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, assets)
		return
	}
	renderTemplate(w, r, "assets", map[string]any{"Assets": assets, "Flash": httpx.PopFlash(w, r)})
}

func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	f := forms.New(r.PostForm)
	asset := models.Asset{
		Tag:          f.Required("tag"),
		Name:         f.Required("name"),
		Category:     f.Required("category"),
		Condition:    f.StringOr("condition", "Good"),
		PurchaseDate: f.OptionalDate("purchase_date"),
		PurchaseCost: f.OptionalFloat("purchase_cost"),
		Vendor:       f.String("vendor"),
		Notes:        f.String("notes"),
	}
	if sn := f.String("serial_number"); sn != "" {
		asset.SerialNumber = &sn
	}
	if asset.PurchaseCost != nil {
		validation.NonNegativeFloat("purchase_cost", *asset.PurchaseCost, f.V)
	}
	if !f.Ok() {
		if wantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", f.V)
			return
		}
		var assets []models.Asset
		_ = h.DB.Order("category, tag").Find(&assets).Error
		w.WriteHeader(http.StatusBadRequest)
		renderTemplate(w, r, "assets", map[string]any{"Errors": f.V, "Assets": assets})
		return
	}
	if err := h.DB.Create(&asset).Error; err != nil {
		if isUniqueViolation(err) {
			if wantsJSON(r) {
				httpx.JSONError(w, http.StatusConflict, "tag_or_serial_already_exists", nil)
				return
			}
			httpx.SetFlash(w, "Asset tag or serial number already exists")
			http.Redirect(w, r, "/assets", statusSeeOther)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "asset_create_failed", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, asset)
		return
	}
	httpx.SetFlash(w, "Asset added")
	http.Redirect(w, r, "/assets", statusSeeOther)
}

// Show renders the asset detail page: components, current holder,
// assignment history and repair log.
func (h *AssetHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var asset models.Asset
	if err := h.DB.First(&asset, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "asset_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "asset_load_failed", nil)
		return
	}
	var components []models.AssetComponent
	_ = h.DB.Where("parent_asset_id = ?", asset.ID).Find(&components).Error
	var current *models.Assignment
	var active models.Assignment
	if err := h.DB.Preload("User").Where("asset_id = ? AND status = ?", asset.ID, models.StatusAssigned).First(&active).Error; err == nil {
		current = &active
	}
	var history []models.Assignment
	_ = h.DB.Preload("User").Where("asset_id = ?", asset.ID).Order("assigned_on desc").Find(&history).Error
	var repairs []models.Repair
	_ = h.DB.Where("asset_id = ?", asset.ID).Order("date_reported desc").Find(&repairs).Error
	var users []models.User
	_ = h.DB.Order("full_name").Find(&users).Error

	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"asset":              asset,
			"components":         components,
			"current_assignment": current,
			"history":            history,
			"repairs":            repairs,
		})
		return
	}
	renderTemplate(w, r, "asset_view", map[string]any{
		"Asset":             asset,
		"Components":        components,
		"CurrentAssignment": current,
		"History":           history,
		"Repairs":           repairs,
		"Users":             users,
		"Flash":             httpx.PopFlash(w, r),
	})
}

func (h *AssetHandler) AddComponent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var count int64
	if err := h.DB.Model(&models.Asset{}).Where("id = ?", id).Count(&count).Error; err != nil || count == 0 {
		httpx.JSONError(w, http.StatusNotFound, "asset_not_found", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	f := forms.New(r.PostForm)
	comp := models.AssetComponent{
		ParentAssetID: id,
		Name:          f.Required("name"),
		SerialNumber:  f.String("serial_number"),
		Condition:     f.StringOr("condition", "Good"),
	}
	if !f.Ok() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", f.V)
		return
	}
	if err := h.DB.Create(&comp).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "component_create_failed", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, comp)
		return
	}
	httpx.SetFlash(w, "Component added")
	http.Redirect(w, r, "/assets/"+r.PathValue("id"), statusSeeOther)
}
