package domain

type Office struct {
	Model
	Audit
	City    string `gorm:"size:128;not null;uniqueIndex:idx_office_city_country" json:"city"`
	Country string `gorm:"size:128;not null;uniqueIndex:idx_office_city_country" json:"country"`
	Address string `gorm:"type:text" json:"address,omitempty"`
	Phone   string `gorm:"size:64" json:"phone,omitempty"`
	Email   string `gorm:"size:255" json:"email,omitempty"`
}

type JobOpening struct {
	Model
	Audit
	Title       string  `gorm:"size:255;uniqueIndex;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	LocationID  string  `gorm:"type:varchar(36);index;not null" json:"location_id"`
	Location    *Office `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Experience  string  `gorm:"size:64" json:"experience"`
	IsPublished bool    `gorm:"not null;default:false;index" json:"is_published"`
	// ApplicationCount is only populated by list queries.
	ApplicationCount *int64 `gorm:"->;-:migration" json:"application_count,omitempty"`
}

type ApplicationStatus string

const (
	ApplicationInReview ApplicationStatus = "in_review"
	ApplicationHired    ApplicationStatus = "hired"
	ApplicationRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationInReview, ApplicationHired, ApplicationRejected:
		return true
	}
	return false
}

type Application struct {
	Model
	Audit
	FullName                  string            `gorm:"size:255;not null;index" json:"full_name"`
	JobOpeningID              string            `gorm:"type:varchar(36);index;not null" json:"job_opening_id"`
	JobOpening                *JobOpening       `gorm:"foreignKey:JobOpeningID" json:"job_opening,omitempty"`
	Email                     string            `gorm:"size:255;not null" json:"email"`
	Phone                     string            `gorm:"size:64;not null" json:"phone"`
	CoverLetter               string            `gorm:"type:text" json:"cover_letter,omitempty"`
	LinkedIn                  string            `gorm:"size:512" json:"linked_in,omitempty"`
	Resume                    string            `gorm:"size:1024;not null" json:"resume"`
	ResumeKey                 string            `gorm:"size:512;not null" json:"-"`
	WhereDidYouHear           string            `gorm:"size:255" json:"where_did_you_hear,omitempty"`
	HasSubscribedToNewsletter bool              `gorm:"not null;default:false" json:"has_subscribed_to_newsletter"`
	Status                    ApplicationStatus `gorm:"size:16;not null;default:in_review" json:"status"`
	IsOpened                  bool              `gorm:"not null;default:false" json:"is_opened"`
}
