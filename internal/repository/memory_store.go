package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/prohmpiriya/handiq-workshops/internal/domain"
	"github.com/prohmpiriya/handiq-workshops/pkg/config"
)

// memoryState holds every record of an in-memory store behind one lock
type memoryState struct {
	mu        sync.RWMutex
	ids       IDScheme
	workshops []*domain.Workshop
	sessions  map[string]*domain.Session
	bookings  map[string]*domain.Booking
	emails    []*domain.EmailLog
	reviews   []*domain.Review
}

// NewMemoryStore creates a Store kept in process memory. It issues ObjectID-style ids
// so that clients see the same id format as the Mongo store.
func NewMemoryStore() *Store {
	state := &memoryState{
		ids:      ObjectIDScheme{},
		sessions: make(map[string]*domain.Session),
		bookings: make(map[string]*domain.Booking),
	}
	return &Store{
		IDs:       state.ids,
		Workshops: &MemoryWorkshopRepository{state: state},
		Sessions:  &MemorySessionRepository{state: state},
		Bookings:  &MemoryBookingRepository{state: state},
		Emails:    &MemoryEmailLogRepository{state: state},
		Reviews:   &MemoryReviewRepository{state: state},
		Info:      &memoryInfo{},
	}
}

// MemoryWorkshopRepository implements WorkshopRepository in memory
type MemoryWorkshopRepository struct {
	state *memoryState
}

func (r *MemoryWorkshopRepository) Create(ctx context.Context, workshop *domain.Workshop) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	for _, w := range r.state.workshops {
		if w.Slug == workshop.Slug {
			return domain.ErrDuplicateSlug
		}
	}
	workshop.ID = r.state.ids.NewID()
	if workshop.CreatedAt.IsZero() {
		workshop.CreatedAt = time.Now().UTC()
	}
	cp := *workshop
	r.state.workshops = append(r.state.workshops, &cp)
	return nil
}

func (r *MemoryWorkshopRepository) List(ctx context.Context) ([]*domain.Workshop, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	out := make([]*domain.Workshop, 0, len(r.state.workshops))
	for _, w := range r.state.workshops {
		cp := *w
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemoryWorkshopRepository) GetBySlug(ctx context.Context, slug string) (*domain.Workshop, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	for _, w := range r.state.workshops {
		if w.Slug == slug {
			cp := *w
			return &cp, nil
		}
	}
	return nil, domain.ErrWorkshopNotFound
}

func (r *MemoryWorkshopRepository) Count(ctx context.Context) (int64, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()
	return int64(len(r.state.workshops)), nil
}

// MemorySessionRepository implements SessionRepository in memory
type MemorySessionRepository struct {
	state *memoryState
}

func (r *MemorySessionRepository) Create(ctx context.Context, session *domain.Session) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	session.ID = r.state.ids.NewID()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	cp := *session
	r.state.sessions[cp.ID] = &cp
	return nil
}

func (r *MemorySessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	s, ok := r.state.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *MemorySessionRepository) ListUpcoming(ctx context.Context, workshopSlug string, from time.Time, limit int) ([]*domain.Session, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	var out []*domain.Session
	for _, s := range r.state.sessions {
		if workshopSlug != "" && s.WorkshopSlug != workshopSlug {
			continue
		}
		if s.StartTime.Before(from) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sortSessions(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemorySessionRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]*domain.Session, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	var out []*domain.Session
	for _, s := range r.state.sessions {
		if s.StartsBetween(from, to) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sortSessions(out)
	return out, nil
}

func sortSessions(sessions []*domain.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].StartTime.Equal(sessions[j].StartTime) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].StartTime.Before(sessions[j].StartTime)
	})
}

// MemoryBookingRepository implements BookingRepository in memory
type MemoryBookingRepository struct {
	state *memoryState
}

func (r *MemoryBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	booking.ID = r.state.ids.NewID()
	cp := *booking
	r.state.bookings[cp.ID] = &cp
	return nil
}

func (r *MemoryBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	b, ok := r.state.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *MemoryBookingRepository) SumActiveSeats(ctx context.Context, sessionID string) (int, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	total := 0
	for _, b := range r.state.bookings {
		if b.SessionID == sessionID && b.HoldsSeats() {
			total += b.Seats
		}
	}
	return total, nil
}

func (r *MemoryBookingRepository) Confirm(ctx context.Context, id, paymentReference string) (*domain.Booking, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	b, ok := r.state.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	b.Confirm(paymentReference, time.Now().UTC())
	cp := *b
	return &cp, nil
}

func (r *MemoryBookingRepository) ListConfirmedBySession(ctx context.Context, sessionID string) ([]*domain.Booking, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	var out []*domain.Booking
	for _, b := range r.state.bookings {
		if b.SessionID == sessionID && b.IsConfirmed() {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// MemoryEmailLogRepository implements EmailLogRepository in memory
type MemoryEmailLogRepository struct {
	state *memoryState
}

func (r *MemoryEmailLogRepository) Create(ctx context.Context, entry *domain.EmailLog) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	entry.ID = r.state.ids.NewID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	cp := *entry
	r.state.emails = append(r.state.emails, &cp)
	return nil
}

func (r *MemoryEmailLogRepository) ListByBooking(ctx context.Context, bookingID string) ([]*domain.EmailLog, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	var out []*domain.EmailLog
	for _, e := range r.state.emails {
		if e.BookingID == bookingID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// MemoryReviewRepository implements ReviewRepository in memory
type MemoryReviewRepository struct {
	state *memoryState
}

func (r *MemoryReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	review.ID = r.state.ids.NewID()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	cp := *review
	r.state.reviews = append(r.state.reviews, &cp)
	return nil
}

func (r *MemoryReviewRepository) List(ctx context.Context, workshopSlug string, limit int) ([]*domain.Review, error) {
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	var out []*domain.Review
	// newest first: walk the append-only slice backwards
	for i := len(r.state.reviews) - 1; i >= 0; i-- {
		rv := r.state.reviews[i]
		if workshopSlug != "" && rv.WorkshopSlug != workshopSlug {
			continue
		}
		cp := *rv
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type memoryInfo struct{}

func (memoryInfo) Driver() string { return config.StoreDriverMemory }

func (memoryInfo) Ping(ctx context.Context) error { return nil }

func (memoryInfo) Collections(ctx context.Context) ([]string, error) {
	return []string{CollectionWorkshops, CollectionSessions, CollectionBookings, CollectionEmails, CollectionReviews}, nil
}

var (
	_ WorkshopRepository = (*MemoryWorkshopRepository)(nil)
	_ SessionRepository  = (*MemorySessionRepository)(nil)
	_ BookingRepository  = (*MemoryBookingRepository)(nil)
	_ EmailLogRepository = (*MemoryEmailLogRepository)(nil)
	_ ReviewRepository   = (*MemoryReviewRepository)(nil)
)
