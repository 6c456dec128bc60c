package di

import (
	"github.com/prohmpiriya/handiq-workshops/internal/handler"
	"github.com/prohmpiriya/handiq-workshops/internal/repository"
	"github.com/prohmpiriya/handiq-workshops/internal/service"
	"github.com/prohmpiriya/handiq-workshops/pkg/config"
	"github.com/prohmpiriya/handiq-workshops/pkg/redis"
)

// Container holds all dependencies for the workshop service
type Container struct {
	// Infrastructure
	Store *repository.Store
	Redis *redis.Client

	// Publishers
	EventPublisher service.EventPublisher

	// Shared pieces
	Availability service.AvailabilityCalculator
	Notifier     service.NotificationLogger
	Guard        service.CapacityGuard

	// Services
	CatalogService  service.CatalogService
	BookingService  service.BookingService
	PaymentService  service.PaymentService
	ReminderService service.ReminderService
	ReviewService   service.ReviewService

	// Handlers
	Handlers *handler.Handlers
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Store *repository.Store
	// Redis is optional; without it locked mode uses an in-process guard
	Redis          *redis.Client
	EventPublisher service.EventPublisher
	Booking        config.BookingConfig
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		Store:          cfg.Store,
		Redis:          cfg.Redis,
		EventPublisher: cfg.EventPublisher,
	}
	if c.EventPublisher == nil {
		c.EventPublisher = service.NewNoOpEventPublisher()
	}

	// a nil *redis.Client must not become a non-nil Locker
	var locker service.Locker
	if c.Redis != nil {
		locker = c.Redis
	}

	c.Availability = service.NewAvailabilityCalculator(c.Store.Sessions, c.Store.Bookings)
	c.Notifier = service.NewNotificationLogger(c.Store.Emails, nil)
	c.Guard = service.NewCapacityGuard(cfg.Booking.CapacityMode, locker, cfg.Booking.LockTTL)

	// Initialize services
	c.CatalogService = service.NewCatalogService(c.Store, c.Availability, &service.CatalogServiceConfig{
		UpcomingLimit: cfg.Booking.UpcomingLimit,
	})
	c.BookingService = service.NewBookingService(
		c.Store,
		c.Availability,
		c.Notifier,
		c.EventPublisher,
		&service.BookingServiceConfig{Guard: c.Guard},
	)
	c.PaymentService = service.NewPaymentService(
		c.Store,
		c.Notifier,
		c.EventPublisher,
		&service.PaymentServiceConfig{AdminEmail: cfg.Booking.AdminEmail},
	)
	c.ReminderService = service.NewReminderService(
		c.Store,
		c.Notifier,
		c.EventPublisher,
		&service.ReminderServiceConfig{Window: cfg.Booking.ReminderWindow},
	)
	c.ReviewService = service.NewReviewService(c.Store.Reviews)

	// Initialize handlers
	c.Handlers = &handler.Handlers{
		Health:  handler.NewHealthHandler(c.Store.Info, c.Redis),
		Catalog: handler.NewCatalogHandler(c.CatalogService),
		Booking: handler.NewBookingHandler(c.BookingService),
		Payment: handler.NewPaymentHandler(c.PaymentService),
		Review:  handler.NewReviewHandler(c.ReviewService),
		Admin:   handler.NewAdminHandler(c.ReminderService),
	}

	return c
}
