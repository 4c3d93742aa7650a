package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nexus/internal/domain"
	"nexus/internal/metrics"
)

// GormStore is the durable store on PostgreSQL or SQLite.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an opened and migrated database.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateInquiry(ctx context.Context, inquiry *domain.Inquiry) (err error) {
	defer observe("create_inquiry", time.Now(), &err)
	return s.db.WithContext(ctx).Create(inquiry).Error
}

func (s *GormStore) ListInquiries(ctx context.Context) (inquiries []domain.Inquiry, err error) {
	defer observe("list_inquiries", time.Now(), &err)
	err = s.db.WithContext(ctx).Order("created_at DESC").Find(&inquiries).Error
	return inquiries, err
}

func (s *GormStore) DeleteInquiry(ctx context.Context, id string) (err error) {
	defer observe("delete_inquiry", time.Now(), &err)
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Inquiry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) SetStatus(ctx context.Context, id string, status domain.InquiryStatus) (err error) {
	defer observe("set_status", time.Now(), &err)
	res := s.db.WithContext(ctx).Model(&domain.Inquiry{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetConfig(ctx context.Context, defaults domain.NotificationConfig) (_ *domain.NotificationConfig, err error) {
	defer observe("get_config", time.Now(), &err)

	var cfg domain.NotificationConfig
	err = s.db.WithContext(ctx).First(&cfg, domain.NotificationConfigID).Error
	if err == nil {
		return &cfg, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cfg = defaults
	cfg.ID = domain.NotificationConfigID
	// A concurrent first read may have inserted the row already
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *GormStore) SaveConfig(ctx context.Context, cfg *domain.NotificationConfig) (err error) {
	defer observe("save_config", time.Now(), &err)
	row := *cfg
	row.ID = domain.NotificationConfigID
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "domain", "is_active", "updated_at"}),
	}).Create(&row).Error
}

func (s *GormStore) Ping(ctx context.Context) error {
	return pingContext(ctx, s.db)
}

func observe(operation string, start time.Time, err *error) {
	var opErr error
	if err != nil && *err != nil && !errors.Is(*err, ErrNotFound) {
		opErr = *err
	}
	metrics.RecordDBQuery(operation, time.Since(start), opErr)
}
