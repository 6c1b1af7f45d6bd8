package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"latribu-backend/internal/models"
)

// SearchHistoryRepository история поисков в Postgres.
// С nil базой запись пропускается, а популярные направления пусты.
type SearchHistoryRepository struct {
	db *gorm.DB
}

func NewSearchHistoryRepository(db *gorm.DB) *SearchHistoryRepository {
	return &SearchHistoryRepository{db: db}
}

// Enabled подключена ли база
func (r *SearchHistoryRepository) Enabled() bool {
	return r != nil && r.db != nil
}

// Record сохраняет поиск
func (r *SearchHistoryRepository) Record(ctx context.Context, rec *models.SearchRecord) error {
	if !r.Enabled() {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("ошибка при сохранении поиска: %w", err)
	}
	return nil
}

// Popular самые частые направления
func (r *SearchHistoryRepository) Popular(ctx context.Context, limit int) ([]models.PopularRoute, error) {
	out := []models.PopularRoute{}
	if !r.Enabled() {
		return out, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	err := r.db.WithContext(ctx).
		Model(&models.SearchRecord{}).
		Select("origin_text, destination_text, COUNT(*) AS total").
		Group("origin_text, destination_text").
		Order("total DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении популярных направлений: %w", err)
	}
	return out, nil
}
