package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"itms/internal/auth"
	"itms/internal/models"
	"itms/internal/view"
)

// Explicit constant for 303 See Other (Post/Redirect/Get)
const statusSeeOther = 303

// renderTemplate wraps view.Render with a plain-text fallback so a broken
// template never hides the original handler outcome.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := view.Render(w, r, name+".html", data); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("template render error: " + err.Error()))
	}
}

// isUniqueViolation detects duplicate-key failures across sqlite and
// postgres without driver-specific error types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// wantsJSON reports whether the client asked for JSON rather than HTML.
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// pathID parses the {id} path value as a positive integer.
func pathID(r *http.Request) (uint, bool) {
	n, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// actingUser loads the authenticated user for the request, if any.
func actingUser(db *gorm.DB, r *http.Request) *models.User {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok || uid == 0 {
		return nil
	}
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		return nil
	}
	return &user
}
