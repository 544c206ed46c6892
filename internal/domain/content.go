package domain

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	Model
	Audit
	Name        string         `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Slug        string         `gorm:"size:160;uniqueIndex;not null" json:"slug"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Media is an uploaded image stored in blob storage.
type Media struct {
	Model
	Name      string `gorm:"size:255" json:"name"`
	URL       string `gorm:"size:1024;not null" json:"url"`
	Key       string `gorm:"size:512;uniqueIndex;not null" json:"key"`
	Type      string `gorm:"size:128" json:"type"`
	Size      int64  `json:"size"`
	CreatedBy string `gorm:"size:64" json:"created_by,omitempty"`
}

type Blog struct {
	Model
	Audit
	Slug            string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Title           string         `gorm:"size:255;not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	Content         string         `gorm:"type:text" json:"content,omitempty"`
	Tags            StringList     `gorm:"type:text" json:"tags"`
	FeaturedImageID *string        `gorm:"type:varchar(36);index" json:"featured_image_id,omitempty"`
	FeaturedImage   *Media         `gorm:"foreignKey:FeaturedImageID;constraint:OnDelete:SET NULL" json:"featured_image,omitempty"`
	AuthorID        string         `gorm:"type:varchar(36);index;not null" json:"author_id"`
	Author          *User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Categories      []BlogCategory `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"categories"`
	IsPublished     bool           `gorm:"not null;default:false;index" json:"is_published"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// BlogCategory is the join row between a blog post and a category.
type BlogCategory struct {
	BlogID     string    `gorm:"type:varchar(36);primaryKey" json:"-"`
	CategoryID string    `gorm:"type:varchar(36);primaryKey" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	AssignedBy string    `gorm:"size:64" json:"assigned_by,omitempty"`
	AssignedAt time.Time `gorm:"autoCreateTime" json:"assigned_at"`
}
