package handlers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"itms/internal/httpx"
	"itms/internal/models"
	"itms/internal/services"
)

type DashboardHandler struct {
	DB      *gorm.DB
	Reports *services.ReportService
}

func NewDashboardHandler(d *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: d, Reports: services.NewReportService(d)}
}

// Show renders the landing dashboard: payment alerts, head counts, open
// repairs and this month's spend.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	today := time.Now().UTC()

	var payments []models.RecurringPayment
	if err := h.DB.Find(&payments).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "dashboard_load_failed", nil)
		return
	}
	alerts := services.ComputeAlerts(payments, today)

	var assetCount, staffCount, openRepairs int64
	h.DB.Model(&models.Asset{}).Count(&assetCount)
	h.DB.Model(&models.User{}).Count(&staffCount)
	h.DB.Model(&models.Repair{}).Where("date_resolved IS NULL").Count(&openRepairs)
	monthSpend, err := h.Reports.MonthlySpend(today)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "dashboard_load_failed", nil)
		return
	}

	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"alerts":       alerts,
			"asset_count":  assetCount,
			"staff_count":  staffCount,
			"open_repairs": openRepairs,
			"month_spend":  monthSpend,
		})
		return
	}
	data := map[string]any{
		"Alerts":      alerts,
		"AssetCount":  assetCount,
		"StaffCount":  staffCount,
		"OpenRepairs": openRepairs,
		"MonthSpend":  monthSpend,
		"Flash":       httpx.PopFlash(w, r),
	}
	if user := actingUser(h.DB, r); user != nil {
		data["User"] = user
	}
	renderTemplate(w, r, "dashboard", data)
}
