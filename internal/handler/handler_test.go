package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/internal/dto"
	"github.com/prohmpiriya/handiq-workshops/pkg/middleware"
	"github.com/prohmpiriya/handiq-workshops/pkg/response"
)

type testServices struct {
	catalog  *MockCatalogService
	booking  *MockBookingService
	payment  *MockPaymentService
	review   *MockReviewService
	reminder *MockReminderService
	store    *mockStoreInfo
}

func newTestServices() *testServices {
	return &testServices{
		catalog:  &MockCatalogService{},
		booking:  &MockBookingService{},
		payment:  &MockPaymentService{},
		review:   &MockReviewService{},
		reminder: &MockReminderService{},
		store:    &mockStoreInfo{driver: "memory", collections: []string{"booking", "workshop"}},
	}
}

func setupTestRouter(s *testServices, cfg *RouterConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(&Handlers{
		Health:  &HealthHandler{store: s.store},
		Catalog: NewCatalogHandler(s.catalog),
		Booking: NewBookingHandler(s.booking),
		Payment: NewPaymentHandler(s.payment),
		Review:  NewReviewHandler(s.review),
		Admin:   NewAdminHandler(s.reminder),
	}, cfg)
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body %q: %v", w.Body.String(), err)
	}
	return body
}

func validBookingRequest() *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		WorkshopSlug:  "pottery",
		SessionID:     "65f1c0ffee0000000000abcd",
		CustomerName:  "Asha Rao",
		CustomerEmail: "asha@example.com",
		Seats:         intPtr(2),
	}
}

func intPtr(n int) *int { return &n }

func TestBookingHandler_CreateBooking(t *testing.T) {
	tests := []struct {
		name            string
		request         interface{}
		mockFunc        func(ctx context.Context, req *dto.CreateBookingRequest) (*dto.CreateBookingResponse, error)
		expectedStatus  int
		expectedCode    string
		expectedMessage string
	}{
		{
			name:    "successful booking",
			request: validBookingRequest(),
			mockFunc: func(ctx context.Context, req *dto.CreateBookingRequest) (*dto.CreateBookingResponse, error) {
				return &dto.CreateBookingResponse{BookingID: "b-1", Amount: 4998.0, Currency: "INR"}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing fields",
			request:        map[string]interface{}{"workshop_slug": "pottery"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name: "too many seats",
			request: func() *dto.CreateBookingRequest {
				r := validBookingRequest()
				r.Seats = intPtr(11)
				return r
			}(),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name: "zero seats",
			request: func() *dto.CreateBookingRequest {
				r := validBookingRequest()
				r.Seats = intPtr(0)
				return r
			}(),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name:    "malformed id",
			request: validBookingRequest(),
			mockFunc: func(ctx context.Context, req *dto.CreateBookingRequest) (*dto.CreateBookingResponse, error) {
				return nil, domain.ErrInvalidID
			},
			expectedStatus:  http.StatusNotFound,
			expectedCode:    "INVALID_ID",
			expectedMessage: "Invalid id",
		},
		{
			name:    "workshop not found",
			request: validBookingRequest(),
			mockFunc: func(ctx context.Context, req *dto.CreateBookingRequest) (*dto.CreateBookingResponse, error) {
				return nil, domain.ErrWorkshopNotFound
			},
			expectedStatus:  http.StatusNotFound,
			expectedCode:    "WORKSHOP_NOT_FOUND",
			expectedMessage: "Workshop not found",
		},
		{
			name:    "invalid session",
			request: validBookingRequest(),
			mockFunc: func(ctx context.Context, req *dto.CreateBookingRequest) (*dto.CreateBookingResponse, error) {
				return nil, domain.ErrInvalidSession
			},
			expectedStatus:  http.StatusBadRequest,
			expectedCode:    "INVALID_SESSION",
			expectedMessage: "Invalid session",
		},
		{
			name:    "capacity exceeded",
			request: validBookingRequest(),
			mockFunc: func(ctx context.Context, req *dto.CreateBookingRequest) (*dto.CreateBookingResponse, error) {
				return nil, domain.NewCapacityExceededError(1)
			},
			expectedStatus:  http.StatusBadRequest,
			expectedCode:    "CAPACITY_EXCEEDED",
			expectedMessage: "Only 1 seats left",
		},
		{
			name:    "store failure",
			request: validBookingRequest(),
			mockFunc: func(ctx context.Context, req *dto.CreateBookingRequest) (*dto.CreateBookingResponse, error) {
				return nil, errors.New("connection refused")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services := newTestServices()
			services.booking.CreateBookingFunc = tt.mockFunc
			router := setupTestRouter(services, nil)

			w := doRequest(router, http.MethodPost, "/api/bookings", tt.request)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.expectedCode != "" {
				body := decodeError(t, w)
				if body.Code != tt.expectedCode {
					t.Errorf("expected code %s, got %s", tt.expectedCode, body.Code)
				}
				if tt.expectedMessage != "" && body.Error != tt.expectedMessage {
					t.Errorf("expected message %q, got %q", tt.expectedMessage, body.Error)
				}
				return
			}

			var resp dto.CreateBookingResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.BookingID != "b-1" || resp.Currency != "INR" {
				t.Errorf("unexpected response %+v", resp)
			}
		})
	}
}

func TestBookingHandler_GetBooking(t *testing.T) {
	services := newTestServices()
	services.booking.GetBookingFunc = func(ctx context.Context, bookingID string) (*dto.BookingDetailResponse, error) {
		if bookingID != "b-1" {
			return nil, domain.ErrBookingNotFound
		}
		return &dto.BookingDetailResponse{
			Booking:  &domain.Booking{ID: "b-1", Seats: 2, Status: domain.BookingStatusPendingPayment},
			Session:  &domain.Session{ID: "s-1"},
			Workshop: &domain.Workshop{Slug: "pottery"},
		}, nil
	}
	router := setupTestRouter(services, nil)

	w := doRequest(router, http.MethodGet, "/api/bookings/b-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body["id"] != "b-1" {
		t.Errorf("expected flattened booking id, got %v", body["id"])
	}
	if body["status"] != "pending_payment" {
		t.Errorf("expected status pending_payment, got %v", body["status"])
	}
	if _, ok := body["session"].(map[string]interface{}); !ok {
		t.Errorf("expected embedded session, got %v", body["session"])
	}

	w = doRequest(router, http.MethodGet, "/api/bookings/other", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	if body := decodeError(t, w); body.Error != "Booking not found" {
		t.Errorf("unexpected error %q", body.Error)
	}
}

func TestPaymentHandler_Checkout(t *testing.T) {
	amount := 4998.0
	services := newTestServices()
	services.payment.CheckoutFunc = func(ctx context.Context, bookingID string) (*dto.CheckoutResponse, error) {
		switch bookingID {
		case "paid":
			return &dto.CheckoutResponse{Status: "already_paid"}, nil
		case "pending01":
			return &dto.CheckoutResponse{PaymentToken: "PAY_ding01", Amount: &amount, Currency: "INR"}, nil
		}
		return nil, domain.ErrBookingNotFound
	}
	router := setupTestRouter(services, nil)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedBody   string
	}{
		{"pending booking", "/api/payments/checkout?booking_id=pending01", http.StatusOK, `{"payment_token":"PAY_ding01","amount":4998,"currency":"INR"}`},
		{"already paid", "/api/payments/checkout?booking_id=paid", http.StatusOK, `{"status":"already_paid"}`},
		{"unknown booking", "/api/payments/checkout?booking_id=nope", http.StatusNotFound, ""},
		{"missing booking id", "/api/payments/checkout", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, tt.path, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedBody != "" && w.Body.String() != tt.expectedBody {
				t.Errorf("expected body %s, got %s", tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestPaymentHandler_ConfirmPayment(t *testing.T) {
	services := newTestServices()
	var got *dto.ConfirmPaymentRequest
	services.payment.ConfirmPaymentFunc = func(ctx context.Context, req *dto.ConfirmPaymentRequest) (*dto.ConfirmPaymentResponse, error) {
		if req.BookingID == "missing" {
			return nil, domain.ErrBookingNotFound
		}
		got = req
		return &dto.ConfirmPaymentResponse{Status: "confirmed"}, nil
	}
	router := setupTestRouter(services, nil)

	w := doRequest(router, http.MethodPost, "/api/payments/confirm", dto.ConfirmPaymentRequest{BookingID: "b-1", PaymentReference: "REF"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if w.Body.String() != `{"status":"confirmed"}` {
		t.Errorf("unexpected body %s", w.Body.String())
	}
	if got == nil || got.PaymentReference != "REF" {
		t.Errorf("payment reference not passed through: %+v", got)
	}

	w = doRequest(router, http.MethodPost, "/api/payments/confirm", dto.ConfirmPaymentRequest{BookingID: "missing", PaymentReference: "REF"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}

	w = doRequest(router, http.MethodPost, "/api/payments/confirm", map[string]string{"booking_id": "b-1"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 without payment_reference, got %d", w.Code)
	}
}

func TestCatalogHandler(t *testing.T) {
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	services := newTestServices()
	services.catalog.ListWorkshopsFunc = func(ctx context.Context) ([]*domain.Workshop, error) {
		return []*domain.Workshop{{ID: "w1", Slug: "pottery", Title: "Pottery Workshop"}}, nil
	}
	services.catalog.GetWorkshopFunc = func(ctx context.Context, slug string) (*dto.WorkshopDetailResponse, error) {
		if slug != "pottery" {
			return nil, domain.ErrWorkshopNotFound
		}
		return &dto.WorkshopDetailResponse{
			Workshop: &domain.Workshop{Slug: "pottery"},
			Sessions: []*domain.Session{{ID: "s1", WorkshopSlug: "pottery", StartTime: start}},
		}, nil
	}
	var sessionsFor string
	services.catalog.ListSessionsFunc = func(ctx context.Context, workshopSlug string) ([]*domain.Session, error) {
		sessionsFor = workshopSlug
		return []*domain.Session{}, nil
	}
	router := setupTestRouter(services, nil)

	t.Run("list workshops", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/workshops", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		var body struct {
			Items []domain.Workshop `json:"items"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if len(body.Items) != 1 || body.Items[0].Slug != "pottery" {
			t.Errorf("unexpected items %+v", body.Items)
		}
	})

	t.Run("workshop detail", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/workshops/pottery", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		var body dto.WorkshopDetailResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if len(body.Sessions) != 1 || !body.Sessions[0].StartTime.Equal(start) {
			t.Errorf("unexpected sessions %+v", body.Sessions)
		}
	})

	t.Run("unknown workshop", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/workshops/knitting", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", w.Code)
		}
		if body := decodeError(t, w); body.Error != "Workshop not found" {
			t.Errorf("unexpected error %q", body.Error)
		}
	})

	t.Run("sessions need a workshop", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/sessions", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}

		w = doRequest(router, http.MethodGet, "/api/sessions?workshop=resin-art", nil)
		if w.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", w.Code)
		}
		if w.Body.String() != `{"items":[]}` {
			t.Errorf("unexpected body %s", w.Body.String())
		}
		if sessionsFor != "resin-art" {
			t.Errorf("expected resin-art, got %s", sessionsFor)
		}
	})

	t.Run("no next session", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/sessions/next", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		if w.Body.String() != `{"item":null}` {
			t.Errorf("unexpected body %s", w.Body.String())
		}
	})
}

func TestReviewHandler(t *testing.T) {
	services := newTestServices()
	var created *dto.CreateReviewRequest
	services.review.CreateReviewFunc = func(ctx context.Context, req *dto.CreateReviewRequest) (*dto.CreateReviewResponse, error) {
		if req.Rating < 1 || req.Rating > 5 {
			return nil, domain.ErrInvalidRating
		}
		created = req
		return &dto.CreateReviewResponse{ID: "r-1"}, nil
	}
	var listedSlug string
	var listedLimit int
	services.review.ListReviewsFunc = func(ctx context.Context, workshopSlug string, limit int) ([]*domain.Review, error) {
		listedSlug, listedLimit = workshopSlug, limit
		return []*domain.Review{{ID: "r-1", Rating: 5}}, nil
	}
	router := setupTestRouter(services, nil)

	t.Run("json body", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/reviews", dto.CreateReviewRequest{WorkshopSlug: "pottery", Name: "Meera", Rating: 5})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
		}
		if w.Body.String() != `{"id":"r-1"}` {
			t.Errorf("unexpected body %s", w.Body.String())
		}
	})

	t.Run("query parameters", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/reviews?workshop_slug=resin-art&name=Kabir&rating=4&comment=shiny", nil)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
		}
		if created.WorkshopSlug != "resin-art" || created.Rating != 4 || created.Comment != "shiny" {
			t.Errorf("unexpected request %+v", created)
		}
	})

	t.Run("rating out of range", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/reviews", dto.CreateReviewRequest{WorkshopSlug: "pottery", Name: "Meera", Rating: 9})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
		if body := decodeError(t, w); body.Error != "Rating must be 1-5" {
			t.Errorf("unexpected error %q", body.Error)
		}
	})

	t.Run("list with defaults", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/reviews", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		if listedSlug != "" || listedLimit != 10 {
			t.Errorf("expected default filter, got %q %d", listedSlug, listedLimit)
		}
	})

	t.Run("list filtered", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/reviews?workshop_slug=pottery&limit=3", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		if listedSlug != "pottery" || listedLimit != 3 {
			t.Errorf("unexpected filter %q %d", listedSlug, listedLimit)
		}
	})

	t.Run("limit out of range", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/reviews?limit=500", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})
}

func TestAdminHandler_SendReminders(t *testing.T) {
	const secret = "test-secret"
	services := newTestServices()
	services.reminder.SendRemindersFunc = func(ctx context.Context) (int, error) {
		return 3, nil
	}

	t.Run("open without secret", func(t *testing.T) {
		router := setupTestRouter(services, nil)
		w := doRequest(router, http.MethodPost, "/admin/send-reminders", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		if w.Body.String() != `{"reminders_created":3}` {
			t.Errorf("unexpected body %s", w.Body.String())
		}
	})

	t.Run("requires token with secret", func(t *testing.T) {
		router := setupTestRouter(services, &RouterConfig{AdminSecret: secret, AdminIssuer: "handiq"})

		w := doRequest(router, http.MethodPost, "/admin/send-reminders", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}

		token, err := middleware.IssueAdminToken(secret, "handiq", "ops", time.Minute)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}
		req := httptest.NewRequest(http.MethodPost, "/admin/send-reminders", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("service failure", func(t *testing.T) {
		failing := newTestServices()
		failing.reminder.SendRemindersFunc = func(ctx context.Context) (int, error) {
			return 0, errors.New("store down")
		}
		router := setupTestRouter(failing, nil)
		w := doRequest(router, http.MethodPost, "/admin/send-reminders", nil)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", w.Code)
		}
	})
}

func TestHealthHandler(t *testing.T) {
	services := newTestServices()
	router := setupTestRouter(services, nil)

	w := doRequest(router, http.MethodGet, "/", nil)
	if w.Body.String() != `{"brand":"HANDIQ","status":"ok"}` {
		t.Errorf("unexpected root body %s", w.Body.String())
	}

	w = doRequest(router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected health 200, got %d", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/ready", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected ready 200, got %d", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/test", nil)
	var status StoreStatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if status.Store != "memory" || status.Status != "connected" || len(status.Collections) != 2 {
		t.Errorf("unexpected store status %+v", status)
	}

	services.store.pingErr = errors.New("no route to host")
	w = doRequest(router, http.MethodGet, "/ready", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected ready 503, got %d", w.Code)
	}
	w = doRequest(router, http.MethodGet, "/test", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected store status 503, got %d", w.Code)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := setupTestRouter(newTestServices(), nil)

	w := doRequest(router, http.MethodGet, "/api/classes", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
	body := decodeError(t, w)
	if body.Code != "NOT_FOUND" || body.Error != "Not found" {
		t.Errorf("unexpected error body %+v", body)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id on unknown routes")
	}
}

func TestBookingHandler_OmittedSeatsReachService(t *testing.T) {
	services := newTestServices()
	var got *dto.CreateBookingRequest
	services.booking.CreateBookingFunc = func(ctx context.Context, req *dto.CreateBookingRequest) (*dto.CreateBookingResponse, error) {
		got = req
		return &dto.CreateBookingResponse{BookingID: "b-1", Amount: 2499.0, Currency: "INR"}, nil
	}
	router := setupTestRouter(services, nil)

	w := doRequest(router, http.MethodPost, "/api/bookings", map[string]interface{}{
		"workshop_slug":  "pottery",
		"session_id":     "65f1c0ffee0000000000abcd",
		"customer_name":  "Asha Rao",
		"customer_email": "asha@example.com",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if got == nil || got.Seats != nil || got.SeatsOrDefault() != 1 {
		t.Errorf("expected absent seats to default to one, got %+v", got)
	}
}
