package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// CatalogGormRepository serves the read-mostly salon catalog: services and
// closed days.
type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

func (r *CatalogGormRepository) ListActiveServices(
	ctx context.Context,
) ([]models.Service, error) {

	var out []models.Service
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CatalogGormRepository) IsClosedDay(
	ctx context.Context,
	dateKey string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ClosedDay{}).
		Where("date = ?", dateKey).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CatalogGormRepository) ListClosedDays(
	ctx context.Context,
	from string,
	to string,
) ([]models.ClosedDay, error) {

	q := r.db.WithContext(ctx)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}

	var out []models.ClosedDay
	if err := q.Order("date ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceClosedDays swaps the whole closed-day calendar in one transaction.
func (r *CatalogGormRepository) ReplaceClosedDays(
	ctx context.Context,
	days []models.ClosedDay,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.ClosedDay{}).Error; err != nil {
			return err
		}
		if len(days) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&days).Error
	})
}
