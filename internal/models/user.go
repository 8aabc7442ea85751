package models

import "gorm.io/datatypes"

type User struct {
	BaseModel
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	AvatarURL    string         `json:"avatar_url"`
	Bio          string         `json:"bio"`
	Location     string         `json:"location"`
	SocialLinks  datatypes.JSON `gorm:"type:jsonb" json:"social_links"` // {"twitter": "...", "github": "..."}
}
