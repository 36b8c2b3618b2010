package models

import (
	"time"
)

type City struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Areas     []Area    `gorm:"foreignKey:CityID" json:"areas,omitempty"`
}

type Area struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"not null;size:100;uniqueIndex:idx_areas_city_name" json:"name"`
	CityID    uint      `gorm:"not null;index;uniqueIndex:idx_areas_city_name" json:"city_id"`
	City      *City     `gorm:"foreignKey:CityID" json:"city,omitempty"`
	Streets   []Street  `gorm:"foreignKey:AreaID" json:"streets,omitempty"`
}

// Street is the maintenance unit: one street in one area of one city.
// PublicContract marks streets cleared under the municipal contract;
// everything else is billed to a private customer.
type Street struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Name           string    `gorm:"not null;size:200;uniqueIndex:idx_streets_area_name" json:"name"`
	AreaID         uint      `gorm:"not null;index;uniqueIndex:idx_streets_area_name" json:"area_id"`
	Area           *Area     `gorm:"foreignKey:AreaID" json:"area,omitempty"`
	PublicContract bool      `gorm:"default:false" json:"public_contract"`
	RoundsPerDay   int       `gorm:"default:1" json:"rounds_per_day"`
	Priority       int       `gorm:"default:0" json:"priority"`
	CustomerID     *uint     `gorm:"index" json:"customer_id"`
	Customer       *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}
