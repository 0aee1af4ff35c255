package entities

import (
	"gorm.io/gorm"
)

// EmailLog keeps one row per outgoing notification attempt so that
// best-effort delivery failures stay visible to operators.
type EmailLog struct {
	gorm.Model
	Recipient string `json:"recipient" gorm:"type:varchar(255);not null;index"`
	Subject   string `json:"subject" gorm:"type:varchar(255)"`
	Delivered bool   `json:"delivered" gorm:"default:false"`
	Error     string `json:"error" gorm:"type:text"`
}
