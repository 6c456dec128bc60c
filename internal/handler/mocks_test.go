package handler

import (
	"context"

	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/internal/dto"
)

// MockBookingService is a mock implementation of BookingService for testing
type MockBookingService struct {
	CreateBookingFunc func(ctx context.Context, req *dto.CreateBookingRequest) (*dto.CreateBookingResponse, error)
	GetBookingFunc    func(ctx context.Context, bookingID string) (*dto.BookingDetailResponse, error)
}

func (m *MockBookingService) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.CreateBookingResponse, error) {
	if m.CreateBookingFunc != nil {
		return m.CreateBookingFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockBookingService) GetBooking(ctx context.Context, bookingID string) (*dto.BookingDetailResponse, error) {
	if m.GetBookingFunc != nil {
		return m.GetBookingFunc(ctx, bookingID)
	}
	return nil, nil
}

// MockPaymentService is a mock implementation of PaymentService for testing
type MockPaymentService struct {
	CheckoutFunc       func(ctx context.Context, bookingID string) (*dto.CheckoutResponse, error)
	ConfirmPaymentFunc func(ctx context.Context, req *dto.ConfirmPaymentRequest) (*dto.ConfirmPaymentResponse, error)
}

func (m *MockPaymentService) Checkout(ctx context.Context, bookingID string) (*dto.CheckoutResponse, error) {
	if m.CheckoutFunc != nil {
		return m.CheckoutFunc(ctx, bookingID)
	}
	return nil, nil
}

func (m *MockPaymentService) ConfirmPayment(ctx context.Context, req *dto.ConfirmPaymentRequest) (*dto.ConfirmPaymentResponse, error) {
	if m.ConfirmPaymentFunc != nil {
		return m.ConfirmPaymentFunc(ctx, req)
	}
	return nil, nil
}

// MockCatalogService is a mock implementation of CatalogService for testing
type MockCatalogService struct {
	ListWorkshopsFunc func(ctx context.Context) ([]*domain.Workshop, error)
	GetWorkshopFunc   func(ctx context.Context, slug string) (*dto.WorkshopDetailResponse, error)
	ListSessionsFunc  func(ctx context.Context, workshopSlug string) ([]*domain.Session, error)
	NextSessionFunc   func(ctx context.Context) (*dto.NextSessionResponse, error)
}

func (m *MockCatalogService) ListWorkshops(ctx context.Context) ([]*domain.Workshop, error) {
	if m.ListWorkshopsFunc != nil {
		return m.ListWorkshopsFunc(ctx)
	}
	return []*domain.Workshop{}, nil
}

func (m *MockCatalogService) GetWorkshop(ctx context.Context, slug string) (*dto.WorkshopDetailResponse, error) {
	if m.GetWorkshopFunc != nil {
		return m.GetWorkshopFunc(ctx, slug)
	}
	return nil, domain.ErrWorkshopNotFound
}

func (m *MockCatalogService) ListSessions(ctx context.Context, workshopSlug string) ([]*domain.Session, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx, workshopSlug)
	}
	return []*domain.Session{}, nil
}

func (m *MockCatalogService) NextSession(ctx context.Context) (*dto.NextSessionResponse, error) {
	if m.NextSessionFunc != nil {
		return m.NextSessionFunc(ctx)
	}
	return nil, nil
}

// MockReviewService is a mock implementation of ReviewService for testing
type MockReviewService struct {
	CreateReviewFunc func(ctx context.Context, req *dto.CreateReviewRequest) (*dto.CreateReviewResponse, error)
	ListReviewsFunc  func(ctx context.Context, workshopSlug string, limit int) ([]*domain.Review, error)
}

func (m *MockReviewService) CreateReview(ctx context.Context, req *dto.CreateReviewRequest) (*dto.CreateReviewResponse, error) {
	if m.CreateReviewFunc != nil {
		return m.CreateReviewFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockReviewService) ListReviews(ctx context.Context, workshopSlug string, limit int) ([]*domain.Review, error) {
	if m.ListReviewsFunc != nil {
		return m.ListReviewsFunc(ctx, workshopSlug, limit)
	}
	return []*domain.Review{}, nil
}

// MockReminderService is a mock implementation of ReminderService for testing
type MockReminderService struct {
	SendRemindersFunc func(ctx context.Context) (int, error)
}

func (m *MockReminderService) SendReminders(ctx context.Context) (int, error) {
	if m.SendRemindersFunc != nil {
		return m.SendRemindersFunc(ctx)
	}
	return 0, nil
}

// mockStoreInfo reports a fixed store state
type mockStoreInfo struct {
	driver      string
	pingErr     error
	collections []string
}

func (m *mockStoreInfo) Driver() string { return m.driver }
func (m *mockStoreInfo) Ping(ctx context.Context) error { return m.pingErr }
func (m *mockStoreInfo) Collections(ctx context.Context) ([]string, error) {
	if m.pingErr != nil {
		return nil, m.pingErr
	}
	return m.collections, nil
}
