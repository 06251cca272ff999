package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const DefaultCityImgURL = "/img/default-city-img.png"

// CityPrice caches the catalog price resolved for a city listing.
type CityPrice struct {
	Amount                float64 `gorm:"type:decimal(10,2);default:0" json:"amount"`
	Currency              string  `gorm:"type:varchar(8)" json:"currency"`
	ExternalPriceID       string  `gorm:"type:varchar(191)" json:"external_price_id"`
	ExternalPriceNickname string  `gorm:"type:varchar(191)" json:"external_price_nickname"`
}

type City struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(150);not null;index" json:"name" validate:"required,min=1,max=150"`
	StateCode     string    `gorm:"type:varchar(2);index" json:"state_code" validate:"omitempty,len=2"`
	StateName     string    `gorm:"type:varchar(100)" json:"state_name" validate:"max=100"`
	ImgURL        string    `gorm:"type:varchar(255);default:'/img/default-city-img.png'" json:"img_url" validate:"max=255"`
	IsFeatured    bool      `gorm:"default:false;index" json:"is_featured"`
	SearchesCount int       `gorm:"default:0" json:"searches_count"`
	Price         CityPrice `gorm:"embedded;embeddedPrefix:price_" json:"price"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *City) Validate() error {
	v := validator.New()
	return v.Struct(c)
}
