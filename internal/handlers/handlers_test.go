package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"itms/internal/auth"
	"itms/internal/models"
	"itms/internal/server"
	"itms/internal/services"
)

func setupApp(t *testing.T) (http.Handler, *gorm.DB, *http.Cookie) {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.User{}, &models.Asset{}, &models.AssetComponent{},
		&models.Assignment{}, &models.Repair{}, &models.Expenditure{},
		&models.RecurringPayment{}, &models.ISP{}, &models.ISPDowntime{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admin := models.User{Username: "admin", FullName: "System Administrator", Role: "admin", PasswordHash: string(hash)}
	if err := conn.Create(&admin).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	rec := httptest.NewRecorder()
	auth.CreateSession(rec, admin.ID)
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie")
	}
	return server.New(conn), conn, cookies[0]
}

// postForm submits a urlencoded form with the session cookie and an Accept
// header asking for JSON, so handlers skip template rendering.
func postForm(h http.Handler, cookie *http.Cookie, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func getJSON(h http.Handler, cookie *http.Cookie, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	h, conn, cookie := setupApp(t)

	form := url.Values{"username": {"jdoe"}, "full_name": {"Jane Doe"}}
	if rec := postForm(h, cookie, "/users/add", form); rec.Code != http.StatusCreated {
		t.Fatalf("first create = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if rec := postForm(h, cookie, "/users/add", form); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate create = %d, want 409", rec.Code)
	}
	var count int64
	conn.Model(&models.User{}).Where("username = ?", "jdoe").Count(&count)
	if count != 1 {
		t.Errorf("jdoe rows = %d, want 1", count)
	}
}

func TestCreateUserRequiresFields(t *testing.T) {
	h, _, cookie := setupApp(t)

	rec := postForm(h, cookie, "/users/add", url.Values{"username": {"  "}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateAssetAndShow(t *testing.T) {
	h, _, cookie := setupApp(t)

	form := url.Values{
		"tag":           {"IT-001"},
		"name":          {"Latitude 5520"},
		"category":      {"Laptop"},
		"serial_number": {"SN-123"},
		"purchase_cost": {"950.00"},
	}
	rec := postForm(h, cookie, "/assets/add", form)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created models.Asset
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	show := getJSON(h, cookie, "/assets/1")
	if show.Code != http.StatusOK {
		t.Fatalf("show = %d, want 200", show.Code)
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(show.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode show: %v", err)
	}
	for _, key := range []string{"asset", "components", "history", "repairs"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("show payload missing %q", key)
		}
	}
}

func TestCreateAssetRejectsDuplicateTag(t *testing.T) {
	h, conn, cookie := setupApp(t)

	form := url.Values{"tag": {"IT-001"}, "name": {"Monitor"}, "category": {"Display"}}
	if rec := postForm(h, cookie, "/assets/add", form); rec.Code != http.StatusCreated {
		t.Fatalf("first create = %d, want 201", rec.Code)
	}
	if rec := postForm(h, cookie, "/assets/add", form); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate tag = %d, want 409", rec.Code)
	}
	var count int64
	conn.Model(&models.Asset{}).Count(&count)
	if count != 1 {
		t.Errorf("assets = %d, want 1", count)
	}
}

func TestCreateAssetRejectsNegativeCost(t *testing.T) {
	h, _, cookie := setupApp(t)

	form := url.Values{"tag": {"IT-002"}, "name": {"Dock"}, "category": {"Accessory"}, "purchase_cost": {"-5"}}
	if rec := postForm(h, cookie, "/assets/add", form); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAssignAndReturnRoutes(t *testing.T) {
	h, conn, cookie := setupApp(t)

	asset := models.Asset{Tag: "IT-010", Name: "ThinkPad", Category: "Laptop"}
	staff := models.User{Username: "bob", FullName: "Bob Stone", PasswordHash: "x"}
	if err := conn.Create(&asset).Error; err != nil {
		t.Fatal(err)
	}
	if err := conn.Create(&staff).Error; err != nil {
		t.Fatal(err)
	}

	rec := postForm(h, cookie, "/assign", url.Values{
		"asset_id": {"1"},
		"user_id":  {"2"},
	})
	if rec.Code != http.StatusCreated && rec.Code != http.StatusOK {
		t.Fatalf("assign = %d: %s", rec.Code, rec.Body.String())
	}
	var assn models.Assignment
	if err := conn.Where("asset_id = ? AND status = ?", asset.ID, models.StatusAssigned).First(&assn).Error; err != nil {
		t.Fatalf("no active assignment: %v", err)
	}

	// Browser-style return link.
	req := httptest.NewRequest(http.MethodGet, "/assign/return/1", nil)
	req.AddCookie(cookie)
	ret := httptest.NewRecorder()
	h.ServeHTTP(ret, req)
	if ret.Code != http.StatusSeeOther {
		t.Fatalf("return = %d, want 303", ret.Code)
	}
	if err := conn.First(&assn, assn.ID).Error; err != nil {
		t.Fatal(err)
	}
	if assn.Status != models.StatusReturned || assn.ReturnedOn == nil {
		t.Errorf("assignment not closed: status=%s returned_on=%v", assn.Status, assn.ReturnedOn)
	}
}

func TestAssignUnknownAssetIs404(t *testing.T) {
	h, _, cookie := setupApp(t)

	rec := postForm(h, cookie, "/assign", url.Values{"asset_id": {"42"}, "user_id": {"1"}})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAddComponentRequiresAsset(t *testing.T) {
	h, _, cookie := setupApp(t)

	rec := postForm(h, cookie, "/assets/99/components/add", url.Values{"name": {"RAM 16GB"}})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAddComponentAttachesToParent(t *testing.T) {
	h, conn, cookie := setupApp(t)

	parent := models.Asset{Tag: "IT-030", Name: "Tower PC", Category: "Desktop"}
	if err := conn.Create(&parent).Error; err != nil {
		t.Fatal(err)
	}
	rec := postForm(h, cookie, "/assets/1/components/add", url.Values{
		"name":          {"RAM 16GB"},
		"serial_number": {"RAM-001"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	var comp models.AssetComponent
	if err := conn.First(&comp).Error; err != nil {
		t.Fatalf("component not stored: %v", err)
	}
	if comp.ParentAssetID != parent.ID {
		t.Errorf("parent_asset_id = %d, want %d", comp.ParentAssetID, parent.ID)
	}
	if comp.Name != "RAM 16GB" {
		t.Errorf("name = %q", comp.Name)
	}
}

func TestRepairDefaultsReportDate(t *testing.T) {
	h, conn, cookie := setupApp(t)

	if err := conn.Create(&models.Asset{Tag: "IT-020", Name: "Printer", Category: "Printer"}).Error; err != nil {
		t.Fatal(err)
	}
	rec := postForm(h, cookie, "/repairs/add", url.Values{
		"asset_id": {"1"},
		"issue":    {"Paper jam"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	var rep models.Repair
	if err := conn.First(&rep).Error; err != nil {
		t.Fatal(err)
	}
	if rep.DateReported.IsZero() {
		t.Error("date_reported not defaulted")
	}
	if rep.DateResolved != nil {
		t.Error("new repair must be open")
	}
}

func TestExpenditureTotalsAndOrdering(t *testing.T) {
	h, _, cookie := setupApp(t)

	for _, e := range []url.Values{
		{"date": {"2026-01-10"}, "category": {"Hardware"}, "description": {"Mouse"}, "amount": {"25.50"}},
		{"date": {"2026-02-01"}, "category": {"Software"}, "description": {"License"}, "amount": {"74.50"}},
	} {
		if rec := postForm(h, cookie, "/expenditures/add", e); rec.Code != http.StatusCreated {
			t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
		}
	}
	rec := getJSON(h, cookie, "/expenditures")
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d", rec.Code)
	}
	var payload struct {
		Items []models.Expenditure `json:"items"`
		Total float64              `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Total != 100.0 {
		t.Errorf("total = %v, want 100", payload.Total)
	}
	if len(payload.Items) != 2 || !payload.Items[0].Date.After(payload.Items[1].Date) {
		t.Error("expenditures not ordered newest first")
	}
}

func TestExpenditureUnknownAssetIs404(t *testing.T) {
	h, _, cookie := setupApp(t)

	rec := postForm(h, cookie, "/expenditures/add", url.Values{
		"date": {"2026-01-10"}, "category": {"Hardware"}, "description": {"Disk"}, "amount": {"80"}, "asset_id": {"7"},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRecurringRejectsDueDayOutOfRange(t *testing.T) {
	h, _, cookie := setupApp(t)

	rec := postForm(h, cookie, "/recurring/add", url.Values{
		"name": {"Hosting"}, "amount": {"30"}, "due_day": {"32"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDowntimeRejectsReversedWindow(t *testing.T) {
	h, conn, cookie := setupApp(t)

	if err := conn.Create(&models.ISP{Name: "FiberCo", MonthlyFee: 3000}).Error; err != nil {
		t.Fatal(err)
	}
	rec := postForm(h, cookie, "/isps/1/downtime/add", url.Values{
		"start": {"2026-04-10T12:00"},
		"end":   {"2026-04-10T09:00"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var count int64
	conn.Model(&models.ISPDowntime{}).Count(&count)
	if count != 0 {
		t.Errorf("downtime rows = %d, want 0", count)
	}
}

func TestDowntimeStoredWindow(t *testing.T) {
	h, conn, cookie := setupApp(t)

	if err := conn.Create(&models.ISP{Name: "FiberCo", MonthlyFee: 3000}).Error; err != nil {
		t.Fatal(err)
	}
	rec := postForm(h, cookie, "/isps/1/downtime/add", url.Values{
		"start":  {"2026-04-10T09:00"},
		"end":    {"2026-04-11T21:00"},
		"reason": {"fiber cut"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	var d models.ISPDowntime
	if err := conn.First(&d).Error; err != nil {
		t.Fatal(err)
	}
	if got := d.End.Sub(d.Start); got != 36*time.Hour {
		t.Errorf("window = %v, want 36h", got)
	}
}

// getHTML requests a page the way a browser would: session cookie, no
// Accept override, so handlers take the template path.
func getHTML(h http.Handler, cookie *http.Cookie, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// seedFullDataset populates one row of every entity so each page renders
// non-empty tables, date/money formatting included.
func seedFullDataset(t *testing.T, conn *gorm.DB) {
	t.Helper()
	serial := "SN-777"
	cost := 950.0
	when := time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)
	asset := models.Asset{Tag: "IT-100", Name: "Latitude 5520", Category: "Laptop", SerialNumber: &serial, PurchaseDate: &when, PurchaseCost: &cost, Vendor: "Dell"}
	staff := models.User{Username: "carol", FullName: "Carol Diop", PasswordHash: "x"}
	for _, rec := range []any{&asset, &staff} {
		if err := conn.Create(rec).Error; err != nil {
			t.Fatal(err)
		}
	}
	rows := []any{
		&models.AssetComponent{ParentAssetID: asset.ID, Name: "SSD 1TB", SerialNumber: "SSD-1"},
		&models.Assignment{AssetID: asset.ID, UserID: staff.ID, AssignedOn: when, Status: models.StatusAssigned},
		&models.Repair{AssetID: asset.ID, Issue: "Dead pixel", DateReported: when, Cost: &cost},
		&models.Expenditure{Date: when, Category: "Hardware", Description: "Docking station", Amount: 180},
		&models.RecurringPayment{Name: "Hosting", Amount: 30, DueDay: 15, NotifyBeforeDays: 5},
		&models.ISP{Name: "FiberCo", MonthlyFee: 3000},
		&models.ISPDowntime{ISPID: 1, Start: when, End: when.Add(36 * time.Hour), Reason: "fiber cut"},
	}
	for _, rec := range rows {
		if err := conn.Create(rec).Error; err != nil {
			t.Fatal(err)
		}
	}
}

func TestHTMLPagesRender(t *testing.T) {
	h, conn, cookie := setupApp(t)
	seedFullDataset(t, conn)

	pages := []string{
		"/",
		"/users",
		"/assets",
		"/assets/1",
		"/expenditures",
		"/recurring",
		"/isps",
		"/reports/assets-by-user",
		"/reports/expenditures",
		"/reports/isp-netpay",
	}
	for _, path := range pages {
		rec := getHTML(h, cookie, path)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200: %s", path, rec.Code, rec.Body.String())
			continue
		}
		if strings.Contains(rec.Body.String(), "template render error") {
			t.Errorf("GET %s: %s", path, rec.Body.String())
		}
	}
}

func TestISPNetPayPageShowsProratedFigures(t *testing.T) {
	h, conn, cookie := setupApp(t)

	if err := conn.Create(&models.ISP{Name: "FiberCo", MonthlyFee: 3000}).Error; err != nil {
		t.Fatal(err)
	}
	// A 36h outage fully inside the current month, so the page shows a
	// concrete deduction rather than the fee untouched.
	start, end := services.MonthWindow(time.Now().UTC())
	down := models.ISPDowntime{ISPID: 1, Start: start.Add(24 * time.Hour), End: start.Add(60 * time.Hour)}
	if err := conn.Create(&down).Error; err != nil {
		t.Fatal(err)
	}
	expected := services.ComputeNetPay(3000, []models.ISPDowntime{down}, start, end)

	rec := getHTML(h, cookie, "/reports/isp-netpay")
	if rec.Code != http.StatusOK {
		t.Fatalf("page = %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	wants := []string{
		"FiberCo",
		fmt.Sprintf("%.2f", expected.DowntimeHours),
		fmt.Sprintf("%.2f", expected.Deduction),
		fmt.Sprintf("%.2f", expected.NetPay),
	}
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestDashboardJSON(t *testing.T) {
	h, conn, cookie := setupApp(t)

	if err := conn.Create(&models.Asset{Tag: "IT-001", Name: "Laptop", Category: "Laptop"}).Error; err != nil {
		t.Fatal(err)
	}
	rec := getJSON(h, cookie, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard = %d", rec.Code)
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"alerts", "asset_count", "staff_count", "open_repairs", "month_spend"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("dashboard payload missing %q", key)
		}
	}
}
