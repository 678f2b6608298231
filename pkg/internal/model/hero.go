package model

import "time"

// HeroConfig 页面横幅配置，以固定 ID 存储.
type HeroConfig struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Title       string    `gorm:"size:512"           json:"title"`
	Description string    `gorm:"type:text"          json:"description"`
	ImageURL    string    `gorm:"size:1024"          json:"imageUrl"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}
