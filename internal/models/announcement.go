package models

// Announcement is an admin-managed storefront banner. Active announcements
// are surfaced on the storefront together with the active promo list.
type Announcement struct {
	BaseModel
	Message  string `json:"message"`
	URL      string `json:"url"`
	IsActive bool   `json:"is_active"`
}
