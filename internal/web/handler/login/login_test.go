package login

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"gorm.io/gorm"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/audit"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/auth"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/config"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/db/models"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/safeq"
	websess "github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/session"
)

// noOpViews is a minimal Fiber Views engine used for tests.
// It writes the "error" field from the provided fiber.Map (if any)
// so tests can assert error messages rendered by handlers.
type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			_, _ = io.WriteString(w, v.(string))
			return nil
		}
	}
	// write template name to have some content
	_, _ = io.WriteString(w, name)

	return nil
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{Views: noOpViews{}})
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.AuditEvent{}); err != nil {
		t.Fatalf("failed to migrate models: %v", err)
	}

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		DevMode: false,
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
		Auth: config.Auth{
			Emergency:  config.EmergencyAuth{Enabled: true},
			CloudLocal: config.CloudLocalAuth{Enabled: true, RequiredGroup: "Reports-View"},
		},
		SafeQ: config.SafeQ{LocalProvider: "local"},
	}
}

// testStorage is a minimal in-memory implementation of storage.Storage for tests.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.data[key]
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string][]byte)
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

func initSessionStore() {
	// Initialize a fresh in-memory session store for each test.
	websess.Init(&testStorage{data: make(map[string][]byte)})
}

func newService(t *testing.T, cfg *config.Config, client *safeq.Client) (*Service, *fiber.App, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	app := newTestApp()

	initSessionStore()

	var s Service
	if err := s.Init(app, cfg, db, client, audit.NewRecorder(db)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	return &s, app, db
}

func performPost(t *testing.T, app *fiber.App, target string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func TestPostEmergency_Success_SetsCookieAndRedirects(t *testing.T) {
	cfg := newTestConfig()
	_, app, db := newService(t, cfg, nil)

	lp := auth.NewLocalProvider(db)
	if _, err := lp.CreateUser("oncall", "oncall@school.example", "s3cr3t"); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	form := url.Values{
		"username": {"oncall"},
		"password": {"s3cr3t"},
	}
	resp := performPost(t, app, Path, form)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %s", loc)
	}

	setCookie := resp.Header.Get("Set-Cookie")
	if !strings.Contains(setCookie, "session=") {
		t.Fatalf("expected session cookie, got %q", setCookie)
	}

	if !strings.Contains(strings.ToLower(setCookie), "secure") {
		t.Fatalf("expected Secure flag on cookie when DevMode=false, got %q", setCookie)
	}

	// a success audit row must exist
	var count int64
	db.Model(&models.AuditEvent{}).
		Where("action = ? AND success = ?", audit.ActionLoginEmergency, true).
		Count(&count)

	if count != 1 {
		t.Errorf("expected 1 success audit event, got %d", count)
	}
}

func TestPostEmergency_DevModeDisablesSecure(t *testing.T) {
	cfg := newTestConfig()
	cfg.DevMode = true

	_, app, db := newService(t, cfg, nil)

	lp := auth.NewLocalProvider(db)
	if _, err := lp.CreateUser("oncall", "", "pass"); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	resp := performPost(t, app, Path, url.Values{
		"username": {"oncall"},
		"password": {"pass"},
	})

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	setCookie := resp.Header.Get("Set-Cookie")
	if strings.Contains(strings.ToLower(setCookie), "secure") {
		t.Fatalf("did not expect Secure flag when DevMode=true, got %q", setCookie)
	}
}

func TestPostEmergency_WrongPassword_RendersGenericError(t *testing.T) {
	cfg := newTestConfig()
	_, app, db := newService(t, cfg, nil)

	lp := auth.NewLocalProvider(db)
	if _, err := lp.CreateUser("oncall", "", "right"); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	resp := performPost(t, app, Path, url.Values{
		"username": {"oncall"},
		"password": {"wrong"},
	})

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK on render error page, got %d", resp.StatusCode)
	}

	bodyBytes, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(bodyBytes), "Invalid username or password") {
		t.Fatalf("expected generic credential error in body, got %q", string(bodyBytes))
	}

	var count int64
	db.Model(&models.AuditEvent{}).
		Where("action = ? AND success = ?", audit.ActionLoginEmergency, false).
		Count(&count)

	if count != 1 {
		t.Errorf("expected 1 failed audit event, got %d", count)
	}
}

func TestPostEmergency_Disabled(t *testing.T) {
	cfg := newTestConfig()
	cfg.Auth.Emergency.Enabled = false

	_, app, _ := newService(t, cfg, nil)

	resp := performPost(t, app, Path, url.Values{
		"username": {"oncall"},
		"password": {"whatever"},
	})

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 Forbidden, got %d", resp.StatusCode)
	}
}

// newSafeQStub serves a single local account with a card attribute and a
// group set, mimicking the backend endpoints the fallback login touches.
func newSafeQStub(t *testing.T, card string, groups []string) *safeq.Client {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/users", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"users":[{"userName":"principal","attributes":[{"kind":3,"value":"` + card + `"}]}]}`))
	})

	mux.HandleFunc("/api/v1/users/principal/groups", func(w http.ResponseWriter, _ *http.Request) {
		parts := make([]string, 0, len(groups))
		for _, g := range groups {
			parts = append(parts, `{"name":"`+g+`"}`)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"groups":[` + strings.Join(parts, ",") + `]}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return safeq.New(safeq.Config{ServerURL: srv.URL, APIKey: "test"})
}

func TestPostCloud_Success_RedirectsToReports(t *testing.T) {
	cfg := newTestConfig()
	client := newSafeQStub(t, "8841", []string{"Reports-View", "עלי זהב - 234768"})

	_, app, db := newService(t, cfg, client)

	resp := performPost(t, app, CloudPath, url.Values{
		"username": {"principal"},
		"cardid":   {"8841"},
	})

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != "/reports" {
		t.Fatalf("expected redirect to /reports, got %s", loc)
	}

	if !strings.Contains(resp.Header.Get("Set-Cookie"), "session=") {
		t.Fatal("expected session cookie")
	}

	var count int64
	db.Model(&models.AuditEvent{}).
		Where("action = ? AND success = ?", audit.ActionLoginCloudLocal, true).
		Count(&count)

	if count != 1 {
		t.Errorf("expected 1 success audit event, got %d", count)
	}
}

func TestPostCloud_CardMismatch_RendersError(t *testing.T) {
	cfg := newTestConfig()
	client := newSafeQStub(t, "8841", []string{"Reports-View", "עלי זהב - 234768"})

	_, app, _ := newService(t, cfg, client)

	resp := performPost(t, app, CloudPath, url.Values{
		"username": {"principal"},
		"cardid":   {"0000"},
	})

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK on render error page, got %d", resp.StatusCode)
	}

	bodyBytes, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(bodyBytes), auth.ErrInvalidCardID.Error()) {
		t.Fatalf("expected %q in body, got %q", auth.ErrInvalidCardID, string(bodyBytes))
	}
}

func TestPostCloud_MissingRequiredGroup_RendersError(t *testing.T) {
	cfg := newTestConfig()
	client := newSafeQStub(t, "8841", []string{"עלי זהב - 234768"})

	_, app, _ := newService(t, cfg, client)

	resp := performPost(t, app, CloudPath, url.Values{
		"username": {"principal"},
		"cardid":   {"8841"},
	})

	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(bodyBytes), auth.ErrMissingRequiredGroup.Error()) {
		t.Fatalf("expected %q in body, got %q", auth.ErrMissingRequiredGroup, string(bodyBytes))
	}
}

func TestPostCloud_Disabled(t *testing.T) {
	cfg := newTestConfig()
	cfg.Auth.CloudLocal.Enabled = false

	_, app, _ := newService(t, cfg, nil)

	resp := performPost(t, app, CloudPath, url.Values{
		"username": {"principal"},
		"cardid":   {"8841"},
	})

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 Forbidden, got %d", resp.StatusCode)
	}
}
