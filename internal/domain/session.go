package domain

import "time"

// Session is a scheduled, time-bounded instance of a workshop with finite capacity
type Session struct {
	ID           string    `json:"id"`
	WorkshopSlug string    `json:"workshop_slug"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Capacity     int       `json:"capacity"`
	CreatedAt    time.Time `json:"created_at"`
}

// DefaultSessionCapacity is the seat count of a seeded session
const DefaultSessionCapacity = 10

// NewSession creates a session for a workshop starting at start
func NewSession(w *Workshop, start time.Time, capacity int) *Session {
	start = start.UTC()
	return &Session{
		WorkshopSlug: w.Slug,
		StartTime:    start,
		EndTime:      start.Add(w.Duration()),
		Capacity:     capacity,
		CreatedAt:    time.Now().UTC(),
	}
}

// BelongsTo reports whether the session is scheduled for the given workshop
func (s *Session) BelongsTo(workshopSlug string) bool {
	return s.WorkshopSlug == workshopSlug
}

// StartsBetween reports whether the session starts within [from, to]
func (s *Session) StartsBetween(from, to time.Time) bool {
	return !s.StartTime.Before(from) && !s.StartTime.After(to)
}

// Validate validates the session
func (s *Session) Validate() error {
	if s.WorkshopSlug == "" {
		return ErrInvalidSession
	}
	if s.Capacity < 1 {
		return ErrInvalidCapacity
	}
	if !s.EndTime.After(s.StartTime) {
		return ErrInvalidSession
	}
	return nil
}
