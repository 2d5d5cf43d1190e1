package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"itms/internal/auth"
	"itms/internal/handlers"
	"itms/internal/httpx"
	"itms/internal/models"
	"itms/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// RequireAuth checks the session user still exists on each request.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"degraded"}`))
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	ah := handlers.NewAuthHandler(db)
	mux.HandleFunc("/login", ah.Login)
	mux.HandleFunc("GET /logout", ah.Logout)

	protected := func(h http.HandlerFunc) http.Handler { return auth.RequireAuth(h) }

	dash := handlers.NewDashboardHandler(db)
	mux.Handle("GET /{$}", protected(dash.Show))

	uh := handlers.NewUserHandler(db)
	mux.Handle("GET /users", protected(uh.List))
	mux.Handle("POST /users/add", protected(uh.Create))

	asseth := handlers.NewAssetHandler(db)
	mux.Handle("GET /assets", protected(asseth.List))
	mux.Handle("POST /assets/add", protected(asseth.Create))
	mux.Handle("GET /assets/{id}", protected(asseth.Show))
	mux.Handle("POST /assets/{id}/components/add", protected(asseth.AddComponent))

	assnh := handlers.NewAssignmentHandler(services.NewAssignmentService(db))
	mux.Handle("POST /assign", protected(assnh.Assign))
	mux.Handle("GET /assign/return/{id}", protected(assnh.Return))

	rh := handlers.NewRepairHandler(db)
	mux.Handle("POST /repairs/add", protected(rh.Create))

	eh := handlers.NewExpenditureHandler(db)
	mux.Handle("GET /expenditures", protected(eh.List))
	mux.Handle("POST /expenditures/add", protected(eh.Create))

	rph := handlers.NewRecurringHandler(db)
	mux.Handle("GET /recurring", protected(rph.List))
	mux.Handle("POST /recurring/add", protected(rph.Create))

	isph := handlers.NewISPHandler(db)
	mux.Handle("GET /isps", protected(isph.List))
	mux.Handle("POST /isps/add", protected(isph.Create))
	mux.Handle("POST /isps/{id}/downtime/add", protected(isph.AddDowntime))

	reph := handlers.NewReportHandler(services.NewReportService(db))
	mux.Handle("GET /reports/assets-by-user", protected(reph.AssetsByUser))
	mux.Handle("GET /reports/expenditures", protected(reph.Expenditures))
	mux.Handle("GET /reports/isp-netpay", protected(reph.ISPNetPay))

	return withRecover(withLogging(auth.Middleware(mux)))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
