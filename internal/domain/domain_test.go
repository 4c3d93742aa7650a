package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInquiryStatusValid(t *testing.T) {
	for _, s := range []InquiryStatus{StatusNew, StatusRead, StatusArchived} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, InquiryStatus("escalated").Valid())
	assert.False(t, InquiryStatus("").Valid())
}

func TestBeforeCreateFillsDefaults(t *testing.T) {
	inq := &Inquiry{Name: "A"}
	assert.NoError(t, inq.BeforeCreate(nil))
	assert.Len(t, inq.ID, 36)
	assert.Equal(t, StatusNew, inq.Status)
	assert.False(t, inq.CreatedAt.IsZero())

	fixed := &Inquiry{ID: "keep", Status: StatusRead, CreatedAt: time.Date(2023, 10, 24, 8, 0, 0, 0, time.UTC)}
	assert.NoError(t, fixed.BeforeCreate(nil))
	assert.Equal(t, "keep", fixed.ID)
	assert.Equal(t, StatusRead, fixed.Status)
	assert.Equal(t, "2023-10-24", fixed.Date())
}

func TestAlertsEnabled(t *testing.T) {
	var missing *NotificationConfig
	assert.False(t, missing.AlertsEnabled())
	assert.False(t, (&NotificationConfig{Email: "a@b.com"}).AlertsEnabled())
	assert.False(t, (&NotificationConfig{IsActive: true}).AlertsEnabled())
	assert.True(t, (&NotificationConfig{Email: "a@b.com", IsActive: true}).AlertsEnabled())
}

func TestUsers(t *testing.T) {
	admin := AdminUser("ops@nexus.com")
	assert.True(t, admin.IsAdmin())
	assert.Equal(t, "2", admin.ID)

	viewer := ViewerUser("v@nexus.com")
	assert.False(t, viewer.IsAdmin())
	assert.Equal(t, "1", viewer.ID)

	var nobody *User
	assert.False(t, nobody.IsAdmin())
}
