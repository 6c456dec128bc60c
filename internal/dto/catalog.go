package dto

import (
	"github.com/prohmpiriya/handiq-workshops/internal/domain"
)

// WorkshopDetailResponse is a workshop with its upcoming sessions
type WorkshopDetailResponse struct {
	Workshop *domain.Workshop  `json:"workshop"`
	Sessions []*domain.Session `json:"sessions"`
}

// NextSessionResponse is the next upcoming session with its workshop title and free seats
type NextSessionResponse struct {
	*domain.Session
	WorkshopTitle  string `json:"workshop_title"`
	AvailableSeats int    `json:"available_seats"`
}

// SessionsQuery selects the sessions of one workshop
type SessionsQuery struct {
	Workshop string `form:"workshop" binding:"required"`
}
