package dto

// CreateReviewRequest accepts a review as JSON body or query parameters
type CreateReviewRequest struct {
	WorkshopSlug string `json:"workshop_slug" form:"workshop_slug" binding:"required"`
	Name         string `json:"name" form:"name" binding:"required"`
	Rating       int    `json:"rating" form:"rating"`
	Comment      string `json:"comment" form:"comment"`
}

// CreateReviewResponse returns the id of the stored review
type CreateReviewResponse struct {
	ID string `json:"id"`
}

// ListReviewsQuery filters and limits the review list
type ListReviewsQuery struct {
	WorkshopSlug string `form:"workshop_slug"`
	Limit        int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// LimitOrDefault returns the requested limit, ten when omitted
func (q *ListReviewsQuery) LimitOrDefault() int {
	if q.Limit <= 0 {
		return 10
	}
	return q.Limit
}
