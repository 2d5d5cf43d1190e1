package handlers

import (
	"net/http"
	"time"

	"itms/internal/httpx"
	"itms/internal/services"
)

type ReportHandler struct {
	Reports *services.ReportService
}

func NewReportHandler(svc *services.ReportService) *ReportHandler { return &ReportHandler{Reports: svc} }

func (h *ReportHandler) AssetsByUser(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Reports.AssetsByHolder()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "report_failed", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, rows)
		return
	}
	renderTemplate(w, r, "report_assets_by_user", map[string]any{"Rows": rows})
}

func (h *ReportHandler) Expenditures(w http.ResponseWriter, r *http.Request) {
	exps, total, err := h.Reports.ExpendituresWithTotal()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "report_failed", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": exps, "total": total})
		return
	}
	renderTemplate(w, r, "report_expenditures", map[string]any{"Rows": exps, "Total": total})
}

func (h *ReportHandler) ISPNetPay(w http.ResponseWriter, r *http.Request) {
	today := time.Now().UTC()
	rows, err := h.Reports.ISPNetPay(today)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "report_failed", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, rows)
		return
	}
	renderTemplate(w, r, "report_isp_netpay", map[string]any{
		"Rows":  rows,
		"Month": today.Format("January 2006"),
	})
}
