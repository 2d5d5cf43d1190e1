package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"itms/internal/forms"
	"itms/internal/httpx"
	"itms/internal/services"
)

type AssignmentHandler struct {
	Svc *services.AssignmentService
}

func NewAssignmentHandler(svc *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{Svc: svc}
}

// Assign hands an asset to a user, superseding any current holder.
func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	f := forms.New(r.PostForm)
	assetID := f.Uint("asset_id")
	userID := f.Uint("user_id")
	if !f.Ok() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", f.V)
		return
	}
	assn, err := h.Svc.Assign(assetID, userID, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAssetNotFound):
			httpx.JSONError(w, http.StatusNotFound, "asset_not_found", nil)
		case errors.Is(err, services.ErrUserNotFound):
			httpx.JSONError(w, http.StatusNotFound, "user_not_found", nil)
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "assign_failed", nil)
		}
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, assn)
		return
	}
	httpx.SetFlash(w, "Asset assigned")
	http.Redirect(w, r, "/assets/"+strconv.FormatUint(uint64(assetID), 10), statusSeeOther)
}

// Return closes an assignment. Re-returning just re-stamps the date.
func (h *AssignmentHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	assn, err := h.Svc.Return(id, time.Now().UTC())
	if err != nil {
		if errors.Is(err, services.ErrAssignmentNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "assignment_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "return_failed", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, assn)
		return
	}
	httpx.SetFlash(w, "Asset returned")
	http.Redirect(w, r, "/assets/"+strconv.FormatUint(uint64(assn.AssetID), 10), statusSeeOther)
}
