package models

import "time"

type User struct {
	BaseModel
	UpdatedAt time.Time `gorm:"autoUpdateTime"                      json:"updatedAt"`
	Username  string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	// Bcrypt hash. Never serialized back to the client.
	Password string `gorm:"type:varchar(255);not null" json:"-"`

	Requests []Request `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"-"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
}
