package models

import "time"

// Business is a directory listing. Listings are imported upstream; this
// service only ever sets ClaimedBy, and never clears it.
type Business struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BusinessName string    `gorm:"type:varchar(255);not null" json:"business_name"`
	Address      string    `gorm:"type:varchar(255)" json:"address"`
	City         string    `gorm:"type:varchar(150);index:idx_businesses_city_state,priority:1" json:"city"`
	StateCode    string    `gorm:"type:varchar(2);index:idx_businesses_city_state,priority:2" json:"state_code"`
	SIC8         string    `gorm:"column:sic8;type:varchar(255);index" json:"sic8"`
	ClaimedBy    *uint     `gorm:"index;default:null" json:"claimed_by"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *Business) IsClaimed() bool {
	return b.ClaimedBy != nil
}
