package model

import "time"

// Contact 访客留下的联系请求.
type Contact struct {
	ID         string    `gorm:"primaryKey;size:26" json:"id"`
	Name       string    `gorm:"size:255"           json:"name"`
	Email      string    `gorm:"size:255;index"     json:"email,omitempty"`
	Phone      string    `gorm:"size:64"            json:"phone,omitempty"`
	Message    string    `gorm:"type:text"          json:"message,omitempty"`
	PropertyID string    `gorm:"size:26;index"      json:"propertyId,omitempty"`
	CreatedAt  time.Time `gorm:"index"              json:"createdAt"`
}
