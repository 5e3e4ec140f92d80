package models

import "gorm.io/gorm"

type City struct {
	gorm.Model
	Name string `json:"name" gorm:"size:100;uniqueIndex;not null"`

	Districts []District `json:"districts,omitempty" gorm:"foreignKey:CityID"`
}

type District struct {
	gorm.Model
	Name   string `json:"name" gorm:"size:100;not null"`
	CityID uint   `json:"city" gorm:"not null;index"`
	City   City   `json:"-" gorm:"foreignKey:CityID;constraint:OnDelete:CASCADE"`
}
