package handlers

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"itms/internal/db"
	"itms/internal/forms"
	"itms/internal/httpx"
	"itms/internal/models"
)

type UserHandler struct{ DB *gorm.DB }

func NewUserHandler(d *gorm.DB) *UserHandler { return &UserHandler{DB: d} }

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.DB.Order("full_name").Find(&users).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_users", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, users)
		return
	}
	renderTemplate(w, r, "users", map[string]any{"Users": users, "Flash": httpx.PopFlash(w, r)})
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	f := forms.New(r.PostForm)
	username := f.Required("username")
	fullName := f.Required("full_name")
	role := f.StringOr("role", "staff")
	department := f.StringOr("department", "IT")
	// New accounts without an explicit password get the bootstrap default.
	password := f.StringOr("password", db.DefaultAdminPassword)
	if !f.Ok() {
		if wantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", f.V)
			return
		}
		var users []models.User
		_ = h.DB.Order("full_name").Find(&users).Error
		w.WriteHeader(http.StatusBadRequest)
		renderTemplate(w, r, "users", map[string]any{"Errors": f.V, "Users": users})
		return
	}
	var existing int64
	if err := h.DB.Model(&models.User{}).Where("username = ?", username).Count(&existing).Error; err == nil && existing > 0 {
		if wantsJSON(r) {
			httpx.JSONError(w, http.StatusConflict, "username_already_exists", nil)
			return
		}
		httpx.SetFlash(w, "Username already exists")
		http.Redirect(w, r, "/users", statusSeeOther)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "hash_failed", nil)
		return
	}
	user := models.User{Username: username, FullName: fullName, Role: role, Department: department, PasswordHash: string(hash)}
	if err := h.DB.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			if wantsJSON(r) {
				httpx.JSONError(w, http.StatusConflict, "username_already_exists", nil)
				return
			}
			httpx.SetFlash(w, "Username already exists")
			http.Redirect(w, r, "/users", statusSeeOther)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "user_create_failed", nil)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, user)
		return
	}
	httpx.SetFlash(w, "User added")
	http.Redirect(w, r, "/users", statusSeeOther)
}
