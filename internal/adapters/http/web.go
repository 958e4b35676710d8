package web

import (
	"net/http"
	"time"

	"backoffice/internal/adapters/email"
	"backoffice/internal/adapters/http/middleware"
	"backoffice/internal/adapters/http/perf"
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

// Stores holds all storage dependencies.
type Stores struct {
	UserStore         userStore.Store
	MenuStore         menuStore.Store
	BlogStore         blogStore.Store
	AmbassadorStore   ambassadorStore.Store
	NewsletterStore   newsletterStore.Store
	ActivityStore     activityStore.Store
	OrderStore        orderStore.Store
	NotificationStore notificationStore.Store
	OutboxStore       outboxStore.Store
}

// Options configures NewMux.
type Options struct {
	StaticDir      string
	UploadDir      string // served under /uploads/menu/
	CSRFKey        []byte
	SessionKey     []byte // signs the flash cookie
	Secure         bool   // HTTPS deployment: secure cookies, strict CSRF origin checks
	TrustedOrigins []string
	SlowRequest    time.Duration
	Currency       string
	Images         *uploads.ImageStore
	Assets         *uploads.AssetDir
	Processor      *orchestrators.OutboxProcessor
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global flash queue (set by NewMux)
var flashes *middleware.Flashes

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// File storage for menu photos and the images page.
var imageStore *uploads.ImageStore
var assetDir *uploads.AssetDir

// currency prefixes every rendered price.
var currency = "₦"

// outboxProcessor runs admin retry and abandon requests.
var outboxProcessor *orchestrators.OutboxProcessor

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, collector *perf.Collector, opts Options) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	flashes = middleware.NewFlashes(opts.SessionKey, opts.Secure)
	middleware.SecureCookies = opts.Secure
	imageStore = opts.Images
	assetDir = opts.Assets
	outboxProcessor = opts.Processor
	if opts.Currency != "" {
		currency = opts.Currency
	}

	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	if opts.UploadDir != "" {
		mux.Handle("GET /uploads/menu/", http.StripPrefix("/uploads/menu/", http.FileServer(http.Dir(opts.UploadDir))))
	}
	if opts.Assets != nil {
		mux.Handle("GET "+assetURL+"/", http.StripPrefix(assetURL+"/", http.FileServer(http.Dir(opts.Assets.Dir()))))
	}
	registerRoutes(mux)

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Chain wraps inside out: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(opts.CSRFKey, opts.Secure, opts.TrustedOrigins),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector, opts.SlowRequest),
	)
}

// registerRoutes maps every page and endpoint. Everything under /admin is
// wrapped by middleware.RequireAdmin.
func registerRoutes(mux *http.ServeMux) {
	admin := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireAdmin(h))
	}

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	})
	mux.HandleFunc("GET /login", handleLoginPage)
	mux.HandleFunc("POST /login", handleLogin)
	mux.HandleFunc("POST /logout", handleLogout)

	admin("GET /admin", handleDashboard)
	admin("GET /admin/activity-logs", handleActivityLogs)

	admin("GET /admin/ambassadors", handleAmbassadors)
	admin("GET /admin/ambassadors/view", handleAmbassadorView)
	admin("POST /admin/ambassadors/decide", handleAmbassadorDecide)

	admin("GET /admin/blog", handleBlogList)
	admin("GET /admin/blog/new", handleBlogNewForm)
	admin("POST /admin/blog/new", handleBlogCreate)
	admin("GET /admin/blog/edit", handleBlogEditForm)
	admin("POST /admin/blog/edit", handleBlogUpdate)
	admin("POST /admin/blog/delete", handleBlogDelete)

	admin("GET /admin/users", handleUsers)
	admin("POST /admin/users", handleUsersPost)
	admin("GET /admin/users/new", handleUserNewForm)
	admin("POST /admin/users/new", handleUserCreate)
	admin("GET /admin/customers/new", handleCustomerNewForm)
	admin("POST /admin/customers/new", handleCustomerCreate)
	admin("GET /admin/users/edit", handleUserEditForm)
	admin("POST /admin/users/edit", handleUserUpdate)

	admin("GET /admin/menu", handleMenuList)
	admin("GET /admin/menu/new", handleMenuNewForm)
	admin("POST /admin/menu/new", handleMenuCreate)
	admin("GET /admin/menu/edit", handleMenuEditForm)
	admin("POST /admin/menu/edit", handleMenuUpdate)
	admin("GET /admin/menu/delete", handleMenuDelete)
	admin("POST /admin/update-status", handleUpdateStatus)

	admin("GET /admin/images", handleImages)
	admin("POST /admin/images", handleImageUpload)

	admin("POST /admin/notifications/read", handleMarkNotificationRead)

	admin("GET /admin/newsletter", handleNewsletter)
	admin("POST /admin/newsletter", handleNewsletterAction)
	admin("GET /admin/newsletter/campaigns", handleCampaigns)
	admin("GET /admin/newsletter/campaigns/new", handleCampaignNewForm)
	admin("POST /admin/newsletter/campaigns/new", handleCampaignCreate)
	admin("POST /admin/newsletter/campaigns/send", handleCampaignSend)

	admin("GET /admin/orders", handleOrders)
	admin("POST /admin/send-email", handleSendEmail)

	admin("GET /admin/perf", handleAdminPerf)
	admin("GET /admin/outbox", handleAdminOutbox)
	admin("POST /admin/outbox/retry", handleAdminOutboxRetry)
	admin("POST /admin/outbox/abandon", handleAdminOutboxAbandon)
}
