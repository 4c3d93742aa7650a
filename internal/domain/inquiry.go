package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InquiryStatus is the lifecycle state of an inquiry
type InquiryStatus string

const (
	StatusNew      InquiryStatus = "new"
	StatusRead     InquiryStatus = "read"
	StatusArchived InquiryStatus = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s InquiryStatus) Valid() bool {
	switch s {
	case StatusNew, StatusRead, StatusArchived:
		return true
	}
	return false
}

// Inquiry represents a contact form submission
type Inquiry struct {
	ID        string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string        `gorm:"not null" json:"name"`
	Email     string        `gorm:"not null;index" json:"email"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	Status    InquiryStatus `gorm:"type:varchar(16);default:'new';index" json:"status"`
	CreatedAt time.Time     `gorm:"index" json:"-"`
}

// TableName specifies the table name for Inquiry
func (Inquiry) TableName() string {
	return "inquiries"
}

// BeforeCreate hook
func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = NewInquiryID()
	}
	if i.Status == "" {
		i.Status = StatusNew
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
	return nil
}

// Date is the calendar day the inquiry was received.
func (i *Inquiry) Date() string {
	return i.CreatedAt.Format(time.DateOnly)
}

// NewInquiryID returns a fresh opaque inquiry identifier.
func NewInquiryID() string {
	return uuid.NewString()
}
