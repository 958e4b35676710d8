package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"backoffice/internal/adapters/email"
	"backoffice/internal/adapters/http/middleware"
	activityStore "backoffice/internal/adapters/storage/activity"
	ambassadorStore "backoffice/internal/adapters/storage/ambassador"
	blogStore "backoffice/internal/adapters/storage/blog"
	menuStore "backoffice/internal/adapters/storage/menu"
	newsletterStore "backoffice/internal/adapters/storage/newsletter"
	notificationStore "backoffice/internal/adapters/storage/notification"
	orderStore "backoffice/internal/adapters/storage/orders"
	outboxStore "backoffice/internal/adapters/storage/outbox"
	"backoffice/internal/adapters/storage/storagetest"
	userStore "backoffice/internal/adapters/storage/users"
	"backoffice/internal/application/orchestrators"
	"backoffice/internal/domain/menu"
	"backoffice/internal/domain/newsletter"
	"backoffice/internal/domain/notification"
	"backoffice/internal/domain/order"
	"backoffice/internal/domain/outbox"
	"backoffice/internal/domain/user"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// adminSession is the signed-in admin used by handler tests.
var adminSession = middleware.Session{UserID: 1, Email: "ada@example.com", Name: "Ada Admin", Role: user.RoleAdmin}

// newTestStores points the package globals at a fresh in-memory database and
// seeds the admin behind adminSession.
func newTestStores(t *testing.T) *Stores {
	t.Helper()
	db := storagetest.OpenDB(t)
	s := &Stores{
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
	admin := user.User{Name: adminSession.Name, Email: adminSession.Email, Role: user.RoleAdmin, Status: user.StatusActive, CreatedAt: fixedNow}
	if err := admin.SetPassword("correct-horse"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	id, err := s.UserStore.Create(context.Background(), admin)
	if err != nil || id != adminSession.UserID {
		t.Fatalf("seed admin: id=%d err=%v", id, err)
	}

	stores = s
	sessions = middleware.NewSessionStore()
	flashes = nil
	imageStore = nil
	assetDir = nil
	outboxProcessor = nil
	emailSender = nil
	oldNow := timeNow
	timeNow = func() time.Time { return fixedNow }
	t.Cleanup(func() { timeNow = oldNow })
	return s
}

// asAdmin attaches the admin session to req.
func asAdmin(req *http.Request) *http.Request {
	return req.WithContext(middleware.ContextWithSession(req.Context(), adminSession))
}

// adminPost builds a signed-in form POST.
func adminPost(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return asAdmin(req)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode JSON response: %v (body %q)", err, rec.Body.String())
	}
	return body
}

func seedMenuItem(t *testing.T, s *Stores) (categoryID, itemID int64) {
	t.Helper()
	ctx := context.Background()
	categoryID, err := s.MenuStore.CreateCategory(ctx, menu.Category{Name: "Rice Dishes", Status: menu.StatusActive})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	itemID, err = s.MenuStore.Create(ctx, menu.Item{
		Name:        "Jollof Rice",
		Description: "Smoky party jollof",
		Price:       decimal.RequireFromString("2500"),
		CategoryID:  categoryID,
		IsAvailable: true,
		Status:      menu.StatusActive,
		CreatedAt:   fixedNow,
		UpdatedAt:   fixedNow,
	})
	if err != nil {
		t.Fatalf("Create menu item: %v", err)
	}
	return categoryID, itemID
}

func seedOrder(t *testing.T, s *Stores) int64 {
	t.Helper()
	price := decimal.RequireFromString("2500")
	id, err := s.OrderStore.Create(context.Background(), order.Order{
		OrderNumber:   "ORD-1001",
		CustomerName:  "Tunde Bakare",
		CustomerEmail: "tunde@example.com",
		PaymentMethod: "card",
		PaymentStatus: "paid",
		Status:        order.StatusDelivered,
		Subtotal:      price.Mul(decimal.NewFromInt(2)),
		DeliveryFee:   decimal.RequireFromString("500"),
		TotalAmount:   decimal.RequireFromString("5500"),
		CreatedAt:     fixedNow,
		Items: []order.Item{
			{Name: "Jollof Rice", Quantity: 2, UnitPrice: price, Total: price.Mul(decimal.NewFromInt(2))},
		},
	})
	if err != nil {
		t.Fatalf("Create order: %v", err)
	}
	return id
}

// recordingSender keeps every request so tests can inspect what went out.
type recordingSender struct {
	mu   sync.Mutex
	sent []email.SendRequest
}

func (r *recordingSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	if err := req.Validate(); err != nil {
		return email.SendResult{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, req)
	return email.SendResult{MessageID: "msg-" + strconv.Itoa(len(r.sent)), SentAt: fixedNow}, nil
}

func (r *recordingSender) SendBatch(ctx context.Context, reqs []email.SendRequest) ([]email.SendResult, error) {
	results := make([]email.SendResult, 0, len(reqs))
	for _, req := range reqs {
		res, err := r.Send(ctx, req)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *recordingSender) Sent() []email.SendRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]email.SendRequest(nil), r.sent...)
}

// TestHandleUpdateStatus verifies the JSON status endpoint across targets and failures.
func TestHandleUpdateStatus(t *testing.T) {
	s := newTestStores(t)
	categoryID, itemID := seedMenuItem(t, s)

	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
		wantMsg    string
	}{
		{"item status", url.Values{"type": {"menu_item"}, "id": {itoa(itemID)}, "status": {"inactive"}}, http.StatusOK, "Status updated successfully"},
		{"featured", url.Values{"type": {"menu_item"}, "id": {itoa(itemID)}, "is_featured": {"1"}}, http.StatusOK, "Status updated successfully"},
		{"category status", url.Values{"type": {"category"}, "id": {itoa(categoryID)}, "status": {"inactive"}}, http.StatusOK, "Status updated successfully"},
		{"unknown type", url.Values{"type": {"order"}, "id": {itoa(itemID)}, "status": {"active"}}, http.StatusInternalServerError, "Invalid type"},
		{"missing record", url.Values{"type": {"menu_item"}, "id": {"999"}, "status": {"active"}}, http.StatusNotFound, "Record not found"},
		{"bad status", url.Values{"type": {"menu_item"}, "id": {itoa(itemID)}, "status": {"archived"}}, http.StatusBadRequest, ""},
		{"featured category", url.Values{"type": {"category"}, "id": {itoa(categoryID)}, "is_featured": {"1"}}, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleUpdateStatus(rec, adminPost("/admin/update-status", tt.form))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			body := decodeResponse(t, rec)
			if body["success"] != (tt.wantStatus == http.StatusOK) {
				t.Errorf("success = %v", body["success"])
			}
			if tt.wantMsg != "" && body["message"] != tt.wantMsg {
				t.Errorf("message = %v, want %q", body["message"], tt.wantMsg)
			}
		})
	}

	item, err := s.MenuStore.GetByID(context.Background(), itemID)
	if err != nil {
		t.Fatal(err)
	}
	if item.Status != menu.StatusInactive || !item.IsFeatured {
		t.Errorf("item after updates = status %q featured %v", item.Status, item.IsFeatured)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// TestHandleMarkNotificationRead verifies ownership, validation and the returned unread count.
func TestHandleMarkNotificationRead(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()
	var ids []int64
	for _, title := range []string{"New order", "New application"} {
		id, err := s.NotificationStore.Create(ctx, notification.Notification{UserID: adminSession.UserID, Title: title, Message: title, Type: "info", CreatedAt: fixedNow})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}
	otherID, err := s.NotificationStore.Create(ctx, notification.Notification{UserID: 42, Title: "Not yours", Type: "info", CreatedAt: fixedNow})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("no session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/notifications/read", strings.NewReader("notification_id=1"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		handleMarkNotificationRead(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handleMarkNotificationRead(rec, adminPost("/admin/notifications/read", url.Values{"notification_id": {"abc"}}))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if body := decodeResponse(t, rec); body["message"] != "Invalid notification ID" {
			t.Errorf("message = %v", body["message"])
		}
	})

	t.Run("someone else's", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handleMarkNotificationRead(rec, adminPost("/admin/notifications/read", url.Values{"notification_id": {itoa(otherID)}}))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("own", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handleMarkNotificationRead(rec, adminPost("/admin/notifications/read", url.Values{"notification_id": {itoa(ids[0])}}))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
		}
		body := decodeResponse(t, rec)
		if body["success"] != true || body["new_count"] != float64(1) {
			t.Errorf("body = %v, want success with new_count 1", body)
		}
	})
}

// TestHandleCampaignSend verifies every outcome answers 200 and a queued send returns a tracking id.
func TestHandleCampaignSend(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()
	campaignID, err := s.NewsletterStore.CreateCampaign(ctx, newsletter.Campaign{
		Subject: "March specials", Content: "<p>Half-price suya</p>", Status: newsletter.CampaignDraft,
		CreatedAt: fixedNow, UpdatedAt: fixedNow,
	})
	if err != nil {
		t.Fatal(err)
	}

	send := func(form url.Values) map[string]any {
		t.Helper()
		rec := httptest.NewRecorder()
		handleCampaignSend(rec, adminPost("/admin/newsletter/campaigns/send", form))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		return decodeResponse(t, rec)
	}

	if body := send(url.Values{"campaign_id": {itoa(campaignID)}, "action": {"preview"}}); body["success"] != false || body["message"] != "Invalid action" {
		t.Errorf("wrong action body = %v", body)
	}
	if body := send(url.Values{"campaign_id": {itoa(campaignID)}, "action": {"send"}}); body["success"] != false || body["message"] != "There are no active subscribers" {
		t.Errorf("no subscribers body = %v", body)
	}

	if _, err := s.NewsletterStore.Subscribe(ctx, "reader@example.com", fixedNow); err != nil {
		t.Fatal(err)
	}
	body := send(url.Values{"campaign_id": {itoa(campaignID)}, "action": {"send"}})
	if body["success"] != true {
		t.Fatalf("send body = %v", body)
	}
	result, _ := body["result"].(map[string]any)
	if result == nil || result["tracking_id"] == "" {
		t.Errorf("result = %v, want tracking_id", body["result"])
	}

	c, err := s.NewsletterStore.GetCampaign(ctx, campaignID)
	if err != nil {
		t.Fatal(err)
	}
	if c.Status != newsletter.CampaignSending || c.TrackingID != result["tracking_id"] {
		t.Errorf("campaign = %q tracking %q", c.Status, c.TrackingID)
	}
	pending, err := s.OutboxStore.ListPending(ctx, 10)
	if err != nil || len(pending) != 1 || pending[0].ActionType != outbox.ActionNewsletterCampaign {
		t.Errorf("pending outbox = %v, %v", pending, err)
	}

	if body := send(url.Values{"campaign_id": {itoa(campaignID)}, "action": {"send"}}); body["success"] != false {
		t.Errorf("second send should be refused, got %v", body)
	}
}

// TestHandleSendEmail verifies invoice and receipt delivery and the failure statuses.
func TestHandleSendEmail(t *testing.T) {
	s := newTestStores(t)
	orderID := seedOrder(t, s)

	rec := httptest.NewRecorder()
	handleSendEmail(rec, adminPost("/admin/send-email", url.Values{"order_id": {itoa(orderID)}, "action": {"send_invoice"}}))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("without sender status = %d, want 503", rec.Code)
	}

	sender := &recordingSender{}
	SetEmailSender(sender, "Kitchen <orders@example.com>", "support@example.com")

	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
		wantMsg    string
	}{
		{"invoice", url.Values{"order_id": {itoa(orderID)}, "action": {"send_invoice"}}, http.StatusOK, "Invoice sent successfully"},
		{"receipt override", url.Values{"order_id": {itoa(orderID)}, "action": {"send_receipt"}, "customer_email": {"accounts@example.com"}}, http.StatusOK, "Payment Receipt sent successfully"},
		{"missing order", url.Values{"order_id": {"999"}, "action": {"send_invoice"}}, http.StatusNotFound, "Order not found"},
		{"bad action", url.Values{"order_id": {itoa(orderID)}, "action": {"send_menu"}}, http.StatusBadRequest, "Invalid action"},
		{"bad recipient", url.Values{"order_id": {itoa(orderID)}, "action": {"send_invoice"}, "customer_email": {"not-an-email"}}, http.StatusBadRequest, ""},
		{"no order id", url.Values{"action": {"send_invoice"}}, http.StatusBadRequest, "Order ID is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleSendEmail(rec, adminPost("/admin/send-email", tt.form))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			body := decodeResponse(t, rec)
			if tt.wantMsg != "" && body["message"] != tt.wantMsg {
				t.Errorf("message = %v, want %q", body["message"], tt.wantMsg)
			}
		})
	}

	sent := sender.Sent()
	if len(sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(sent))
	}
	if sent[0].To[0] != "tunde@example.com" || !strings.Contains(sent[0].Subject, "ORD-1001") {
		t.Errorf("invoice request = %+v", sent[0])
	}
	if sent[1].To[0] != "accounts@example.com" || sent[1].ReplyTo != "support@example.com" {
		t.Errorf("receipt request = %+v", sent[1])
	}
	if !strings.Contains(sent[0].HTML, "₦5500.00") {
		t.Errorf("invoice body missing total: %s", sent[0].HTML)
	}
}

// TestHandleAdminOutboxActions verifies retry and abandon map failures onto statuses.
func TestHandleAdminOutboxActions(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	handleAdminOutboxRetry(rec, adminPost("/admin/outbox/retry", url.Values{"id": {"x"}}))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("no processor status = %d, want 503", rec.Code)
	}

	outboxProcessor = orchestrators.NewOutboxProcessor(s.OutboxStore, map[string]orchestrators.ActionExecutor{})
	entry, err := outbox.NewEntry("entry-1", outbox.ActionNewsletterCampaign, `{"campaign_id":1}`, 1, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.OutboxStore.Save(ctx, entry); err != nil {
		t.Fatal(err)
	}

	rec = httptest.NewRecorder()
	handleAdminOutboxAbandon(rec, adminPost("/admin/outbox/abandon", url.Values{"id": {"missing"}}))
	if rec.Code != http.StatusNotFound {
		t.Errorf("abandon missing status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	handleAdminOutboxAbandon(rec, adminPost("/admin/outbox/abandon", url.Values{"id": {"entry-1"}}))
	if rec.Code != http.StatusOK {
		t.Fatalf("abandon status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handleAdminOutboxRetry(rec, adminPost("/admin/outbox/retry", url.Values{"id": {"entry-1"}}))
	if rec.Code != http.StatusConflict {
		t.Errorf("retry abandoned status = %d, want 409", rec.Code)
	}

	rec = httptest.NewRecorder()
	handleAdminOutbox(rec, asAdmin(httptest.NewRequest(http.MethodGet, "/admin/outbox", nil)))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "entry-1") {
		t.Errorf("outbox listing = %d %s", rec.Code, rec.Body.String())
	}
}
