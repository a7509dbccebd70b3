package request

// UpdateSettingsRequest replaces the business settings
type UpdateSettingsRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	LogoURL string `json:"logo_url"`
	TaxID   string `json:"tax_id"`
}

// TestEmailRequest names the address that receives a test email
type TestEmailRequest struct {
	Email string `json:"email"`
}
