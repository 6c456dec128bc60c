package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/internal/dto"
)

func createPendingBooking(t *testing.T, c *testCatalog, seats int) string {
	t.Helper()
	resp, err := newTestBookingService(c.store, nil).CreateBooking(context.Background(), c.request(seats))
	require.NoError(t, err)
	return resp.BookingID
}

func TestPaymentService_ConfirmPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown booking", func(t *testing.T) {
		c := newTestCatalog(t, 10)
		svc := NewPaymentService(c.store, nil, nil, nil)

		_, err := svc.ConfirmPayment(ctx, &dto.ConfirmPaymentRequest{
			BookingID:        c.store.IDs.NewID(),
			PaymentReference: "PAY_123456",
		})
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})

	t.Run("malformed booking id", func(t *testing.T) {
		c := newTestCatalog(t, 10)
		svc := NewPaymentService(c.store, nil, nil, nil)

		_, err := svc.ConfirmPayment(ctx, &dto.ConfirmPaymentRequest{
			BookingID:        "bogus",
			PaymentReference: "PAY_123456",
		})
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})

	t.Run("confirms and logs two emails", func(t *testing.T) {
		c := newTestCatalog(t, 10)
		bookingID := createPendingBooking(t, c, 2)
		publisher := NewMockEventPublisher()
		svc := NewPaymentService(c.store, nil, publisher, &PaymentServiceConfig{AdminEmail: "studio@handiq.example"})

		before, err := c.store.Emails.ListByBooking(ctx, bookingID)
		require.NoError(t, err)

		resp, err := svc.ConfirmPayment(ctx, &dto.ConfirmPaymentRequest{
			BookingID:        bookingID,
			PaymentReference: "REF-42",
		})
		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)

		booking, err := c.store.Bookings.GetByID(ctx, bookingID)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
		assert.Equal(t, "REF-42", booking.PaymentReference)

		after, err := c.store.Emails.ListByBooking(ctx, bookingID)
		require.NoError(t, err)
		added := after[len(before):]
		require.Len(t, added, 2)

		byType := map[domain.EmailType]*domain.EmailLog{}
		for _, e := range added {
			byType[e.Type] = e
		}
		require.Contains(t, byType, domain.EmailTypeBookingConfirmed)
		require.Contains(t, byType, domain.EmailTypeAdminNewBooking)
		assert.Equal(t, "REF-42", byType[domain.EmailTypeBookingConfirmed].PaymentReference)
		assert.Equal(t, "asha@example.com", byType[domain.EmailTypeBookingConfirmed].To)
		assert.Equal(t, "studio@handiq.example", byType[domain.EmailTypeAdminNewBooking].To)
		assert.Equal(t, domain.SubjectAdminNewBooking, byType[domain.EmailTypeAdminNewBooking].Subject)

		assert.Len(t, publisher.GetConfirmedEvents(), 1)
	})

	t.Run("second confirmation overwrites reference", func(t *testing.T) {
		c := newTestCatalog(t, 10)
		bookingID := createPendingBooking(t, c, 1)
		svc := NewPaymentService(c.store, nil, nil, nil)

		_, err := svc.ConfirmPayment(ctx, &dto.ConfirmPaymentRequest{BookingID: bookingID, PaymentReference: "first"})
		require.NoError(t, err)
		_, err = svc.ConfirmPayment(ctx, &dto.ConfirmPaymentRequest{BookingID: bookingID, PaymentReference: "second"})
		require.NoError(t, err)

		booking, err := c.store.Bookings.GetByID(ctx, bookingID)
		require.NoError(t, err)
		assert.Equal(t, "second", booking.PaymentReference)

		entries, err := c.store.Emails.ListByBooking(ctx, bookingID)
		require.NoError(t, err)
		assert.Len(t, entries, 5)
	})

	t.Run("admin email defaults", func(t *testing.T) {
		c := newTestCatalog(t, 10)
		bookingID := createPendingBooking(t, c, 1)
		svc := NewPaymentService(c.store, nil, nil, nil)

		_, err := svc.ConfirmPayment(ctx, &dto.ConfirmPaymentRequest{BookingID: bookingID, PaymentReference: "r"})
		require.NoError(t, err)

		entries, err := c.store.Emails.ListByBooking(ctx, bookingID)
		require.NoError(t, err)
		var admin *domain.EmailLog
		for _, e := range entries {
			if e.Type == domain.EmailTypeAdminNewBooking {
				admin = e
			}
		}
		require.NotNil(t, admin)
		assert.Equal(t, domain.DefaultAdminEmail, admin.To)
	})
}

func TestPaymentService_Checkout(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t, 10)
	bookingID := createPendingBooking(t, c, 3)
	svc := NewPaymentService(c.store, nil, nil, nil)

	t.Run("pending booking gets a token", func(t *testing.T) {
		resp, err := svc.Checkout(ctx, bookingID)
		require.NoError(t, err)
		assert.Equal(t, "PAY_"+bookingID[len(bookingID)-6:], resp.PaymentToken)
		require.NotNil(t, resp.Amount)
		assert.Equal(t, 3*2499.0, *resp.Amount)
		assert.Equal(t, "INR", resp.Currency)
		assert.Empty(t, resp.Status)
	})

	t.Run("confirmed booking is already paid", func(t *testing.T) {
		_, err := svc.ConfirmPayment(ctx, &dto.ConfirmPaymentRequest{BookingID: bookingID, PaymentReference: "r"})
		require.NoError(t, err)

		resp, err := svc.Checkout(ctx, bookingID)
		require.NoError(t, err)
		assert.Equal(t, CheckoutStatusAlreadyPaid, resp.Status)
		assert.Empty(t, resp.PaymentToken)
		assert.Nil(t, resp.Amount)
	})

	t.Run("unknown and malformed ids", func(t *testing.T) {
		_, err := svc.Checkout(ctx, c.store.IDs.NewID())
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)

		_, err = svc.Checkout(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})
}

func TestPaymentToken(t *testing.T) {
	assert.Equal(t, "PAY_abcdef", paymentToken("0123abcdef"))
	assert.Equal(t, "PAY_abc", paymentToken("abc"))
}
