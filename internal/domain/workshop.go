package domain

import "time"

// Workshop represents a workshop in the studio catalog
type Workshop struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Slug              string    `json:"slug"`
	Description       string    `json:"description"`
	Price             float64   `json:"price"`
	DurationMinutes   int       `json:"duration_minutes"`
	Location          string    `json:"location"`
	Instructor        string    `json:"instructor"`
	Includes          []string  `json:"includes"`
	Images            []string  `json:"images"`
	WhatYouLearn      []string  `json:"what_you_learn"`
	MaterialsProvided []string  `json:"materials_provided"`
	AccentColor       string    `json:"accent_color,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// MinWorkshopDurationMinutes is the shortest workshop the studio runs
const MinWorkshopDurationMinutes = 30

// Duration returns the workshop length, falling back to two hours when unset
func (w *Workshop) Duration() time.Duration {
	if w.DurationMinutes <= 0 {
		return 120 * time.Minute
	}
	return time.Duration(w.DurationMinutes) * time.Minute
}

// Validate validates the workshop
func (w *Workshop) Validate() error {
	if w.Slug == "" {
		return ErrInvalidWorkshop
	}
	if w.Title == "" {
		return ErrInvalidWorkshop
	}
	if w.Price < 0 {
		return ErrInvalidPrice
	}
	if w.DurationMinutes < MinWorkshopDurationMinutes {
		return ErrInvalidDuration
	}
	return nil
}
