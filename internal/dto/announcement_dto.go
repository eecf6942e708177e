package dto

import "time"

// AnnouncementCreateRequest is the post-announcement form.
type AnnouncementCreateRequest struct {
	Title   string `json:"title" validate:"required,min=3,max=200"`
	Content string `json:"content" validate:"required,max=5000"`
}

// AnnouncementResponse is an announcement ready for display.
type AnnouncementResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AnnouncementListResponse wraps the announcement feed.
type AnnouncementListResponse struct {
	Items []AnnouncementResponse `json:"items"`
}
