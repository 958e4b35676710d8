package browser_test

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	web "backoffice/internal/adapters/http"
	"backoffice/internal/adapters/http/perf"
	"backoffice/internal/adapters/storage"
	activityStore "backoffice/internal/adapters/storage/activity"
	ambassadorStore "backoffice/internal/adapters/storage/ambassador"
	blogStore "backoffice/internal/adapters/storage/blog"
	menuStore "backoffice/internal/adapters/storage/menu"
	newsletterStore "backoffice/internal/adapters/storage/newsletter"
	notificationStore "backoffice/internal/adapters/storage/notification"
	orderStore "backoffice/internal/adapters/storage/orders"
	outboxStore "backoffice/internal/adapters/storage/outbox"
	userStore "backoffice/internal/adapters/storage/users"
	"backoffice/internal/adapters/uploads"
	"backoffice/internal/application/orchestrators"
)

const (
	adminEmail    = "admin@test.com"
	adminPassword = "TestPass123!"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  *web.Stores
	AdminID int64
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	tmpDir := t.TempDir()
	dsn := filepath.Join(tmpDir, "test.db") + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to initialise test DB: %v", err)
	}

	stores := &web.Stores{
		UserStore:         userStore.NewSQLiteStore(db),
		MenuStore:         menuStore.NewSQLiteStore(db),
		BlogStore:         blogStore.NewSQLiteStore(db),
		AmbassadorStore:   ambassadorStore.NewSQLiteStore(db),
		NewsletterStore:   newsletterStore.NewSQLiteStore(db),
		ActivityStore:     activityStore.NewSQLiteStore(db),
		OrderStore:        orderStore.NewSQLiteStore(db),
		NotificationStore: notificationStore.NewSQLiteStore(db),
		OutboxStore:       outboxStore.NewSQLiteStore(db),
	}

	ctx := context.Background()
	if err := orchestrators.ExecuteSeedAdmin(ctx, orchestrators.SeedAdminDeps{UserStore: stores.UserStore, Now: time.Now}, adminEmail, adminPassword); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	admin, err := stores.UserStore.GetByEmail(ctx, adminEmail)
	if err != nil {
		t.Fatalf("failed to load admin: %v", err)
	}
	if err := orchestrators.ExecuteSeedCategories(ctx, orchestrators.SeedCategoriesDeps{MenuStore: stores.MenuStore}); err != nil {
		t.Fatalf("failed to seed categories: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	uploadDir := filepath.Join(tmpDir, "uploads")
	assetsDir := filepath.Join(tmpDir, "images")
	for _, dir := range []string{uploadDir, assetsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	mux := web.NewMux(stores, perf.NewCollector(perf.DefaultRingSize), web.Options{
		StaticDir:  filepath.Join(findProjectRoot(t), "static"),
		UploadDir:  uploadDir,
		CSRFKey:    bytes.Repeat([]byte("c"), 32),
		SessionKey: bytes.Repeat([]byte("s"), 32),
		TrustedOrigins: []string{
			fmt.Sprintf("127.0.0.1:%d", port),
			fmt.Sprintf("localhost:%d", port),
		},
		Images: uploads.NewImageStore(uploadDir, "/uploads/menu"),
		Assets: uploads.NewAssetDir(assetsDir),
	})
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	// Browsers are installed separately; without them there is nothing to drive.
	pw, err := playwright.Run()
	if err != nil {
		srv.Close()
		db.Close()
		t.Skipf("Playwright unavailable: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		srv.Close()
		db.Close()
		t.Skipf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
		AdminID: admin.ID,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page (tab). Confirmation dialogs are accepted.
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	page.OnDialog(func(d playwright.Dialog) {
		d.Accept()
	})
	t.Cleanup(func() { page.Close() })
	return page
}

// login navigates to the login page and signs in as the seeded admin.
func (a *testApp) login(t *testing.T, page playwright.Page) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=email]").Fill(adminEmail); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill(adminPassword); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click sign in: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/admin", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to dashboard: %v", err)
	}
}

// eventually polls cond until it holds or the timeout elapses.
func eventually(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(100 * time.Millisecond)
	}
	return cond()
}

// findProjectRoot walks up from the working directory to find the project root (contains go.mod).
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
