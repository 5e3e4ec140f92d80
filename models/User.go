package models

import "gorm.io/gorm"

// User is a back-office account. Every endpoint is admin-only, so rows here
// are the company staff, created by seeding or by another admin.
type User struct {
	gorm.Model
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
	Role     string `json:"role" gorm:"type:varchar(20);default:admin;index"` // admin, super_admin
}
