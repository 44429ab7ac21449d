package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kanekosora-114/Tune-into-English/model"
)

// LookupRepository 歌词查询记录数据访问接口
type LookupRepository interface {
	Record(ctx context.Context, entry *model.LyricsLookup) error
	Recent(ctx context.Context, limit int) ([]*model.LyricsLookup, error)
	Misses(ctx context.Context, since time.Time, limit int) ([]*model.LyricsLookup, error)
	HitRate(ctx context.Context, since time.Time) (float64, int64, error)
}

// gormLookupRepository GORM 实现
type gormLookupRepository struct {
	db *gorm.DB
}

// NewGormLookupRepository 创建 GORM 查询记录仓库
func NewGormLookupRepository(db *gorm.DB) LookupRepository {
	return &gormLookupRepository{db: db}
}

const maxListLimit = 500

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxListLimit {
		return 50
	}
	return limit
}

// Record inserts one lookup. CreatedAt is filled in when zero.
func (r *gormLookupRepository) Record(ctx context.Context, entry *model.LyricsLookup) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// Recent returns the newest lookups first.
func (r *gormLookupRepository) Recent(ctx context.Context, limit int) ([]*model.LyricsLookup, error) {
	var entries []*model.LyricsLookup
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(clampLimit(limit)).
		Find(&entries).Error
	return entries, err
}

// Misses returns lookups since the given time that found nothing.
func (r *gormLookupRepository) Misses(ctx context.Context, since time.Time, limit int) ([]*model.LyricsLookup, error) {
	var entries []*model.LyricsLookup
	err := r.db.WithContext(ctx).
		Where("found = ? AND created_at >= ?", false, since).
		Order("created_at DESC, id DESC").
		Limit(clampLimit(limit)).
		Find(&entries).Error
	return entries, err
}

// HitRate returns the share of lookups since the given time that found
// lyrics, together with the number of lookups considered.
func (r *gormLookupRepository) HitRate(ctx context.Context, since time.Time) (float64, int64, error) {
	var total, found int64
	base := r.db.WithContext(ctx).Model(&model.LyricsLookup{}).Where("created_at >= ?", since)
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if total == 0 {
		return 0, 0, nil
	}
	if err := base.Session(&gorm.Session{}).Where("found = ?", true).Count(&found).Error; err != nil {
		return 0, 0, err
	}
	return float64(found) / float64(total), total, nil
}
