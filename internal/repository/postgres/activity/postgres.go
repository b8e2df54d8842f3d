package activity

import (
	"context"

	"gorm.io/gorm"

	activitydomain "cashbook-go/internal/domain/activity"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateEntry(ctx context.Context, entry *activitydomain.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]activitydomain.Entry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&activitydomain.Entry{}).
		Where("account_id = ?", accountID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []activitydomain.Entry
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
