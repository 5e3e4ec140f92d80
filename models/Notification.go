package models

import "gorm.io/gorm"

// Notification rows are deduplicated by exact message text and purged after
// six months by the sweep in services.
type Notification struct {
	gorm.Model
	Message string `json:"message" gorm:"type:text;not null;uniqueIndex"`
}
