package domain

import "time"

// NotificationConfigID is the primary key of the only config row.
const NotificationConfigID uint = 1

// NotificationConfig controls whether and where admin alert emails go.
// Domain is stored and returned only; delivery is always by email.
type NotificationConfig struct {
	ID        uint      `gorm:"primaryKey;autoIncrement:false" json:"-"`
	Email     string    `json:"email"`
	Domain    string    `json:"domain"`
	IsActive  bool      `json:"isActive"`
	UpdatedAt time.Time `json:"-"`
}

// TableName specifies the table name for NotificationConfig
func (NotificationConfig) TableName() string {
	return "notification_configs"
}

// AlertsEnabled reports whether an admin alert should be sent for new inquiries.
func (c *NotificationConfig) AlertsEnabled() bool {
	return c != nil && c.IsActive && c.Email != ""
}
