package domain

// Lead is a sales enquiry. Email, Phone, Company and Message are stored
// encrypted; repositories never see the plaintext.
type Lead struct {
	Model
	FullName    string  `gorm:"size:255;not null;index" json:"full_name"`
	Email       string  `gorm:"type:text;not null" json:"email"`
	Phone       string  `gorm:"type:text;not null" json:"phone"`
	JobTitle    string  `gorm:"size:255" json:"job_title,omitempty"`
	Company     *string `gorm:"type:text" json:"company,omitempty"`
	CompanySize string  `gorm:"size:64" json:"company_size,omitempty"`
	Message     *string `gorm:"type:text" json:"message,omitempty"`
	Budget      string  `gorm:"size:64" json:"budget,omitempty"`
	Source      string  `gorm:"size:128" json:"source,omitempty"`
	IsOpened    bool    `gorm:"not null;default:false" json:"is_opened"`
	UpdatedBy   *string `gorm:"size:64" json:"updated_by,omitempty"`
}
