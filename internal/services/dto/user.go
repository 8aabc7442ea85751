package dto

import "time"

// UserSummary is the minimal public view of a user used in history entries,
// graph nodes and search results.
type UserSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

type ProfileResponse struct {
	ID          string            `json:"id"`
	Username    string            `json:"username"`
	Email       string            `json:"email"`
	AvatarURL   string            `json:"avatar_url"`
	Bio         string            `json:"bio"`
	Location    string            `json:"location"`
	SocialLinks map[string]string `json:"social_links"`
	CreatedAt   time.Time         `json:"created_at"`
}

type UpdateProfileRequest struct {
	Username    *string           `json:"username" validate:"omitempty,min=2,max=30"`
	AvatarURL   *string           `json:"avatar_url" validate:"omitempty,url"`
	Bio         *string           `json:"bio" validate:"omitempty,max=500"`
	Location    *string           `json:"location" validate:"omitempty,max=100"`
	SocialLinks map[string]string `json:"social_links"`
}
