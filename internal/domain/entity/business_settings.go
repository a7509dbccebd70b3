package entity

import (
	"time"
)

// BusinessSettingsID is the primary key of the single settings row
const BusinessSettingsID = 1

// BusinessSettings holds the issuer details printed on every receipt
type BusinessSettings struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Address   string    `gorm:"size:255" json:"address"`
	City      string    `gorm:"size:100" json:"city"`
	Country   string    `gorm:"size:100" json:"country"`
	Phone     string    `gorm:"size:50" json:"phone"`
	Email     string    `gorm:"size:255" json:"email"`
	LogoURL   string    `gorm:"size:500" json:"logo_url"`
	TaxID     string    `gorm:"size:50" json:"tax_id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultBusinessSettings returns the settings used until an admin saves their own
func DefaultBusinessSettings() *BusinessSettings {
	return &BusinessSettings{
		ID:      BusinessSettingsID,
		Name:    "ReceiptFlow Inc.",
		Address: "123 Business Street, Suite 100",
		City:    "San Francisco, CA 94102",
		Country: "United States",
		Phone:   "+1 (555) 123-4567",
		Email:   "billing@receiptflow.com",
		LogoURL: "https://via.placeholder.com/200x60?text=ReceiptFlow",
		TaxID:   "US-123456789",
	}
}

// TableName returns the table name for the BusinessSettings model
func (BusinessSettings) TableName() string {
	return "business_settings"
}
