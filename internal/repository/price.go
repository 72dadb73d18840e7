package repository

import (
	"time"

	"github.com/farmmitra/farmmitra-api/internal/logger"
	"github.com/farmmitra/farmmitra-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PriceRepository is a repository for the mandi price cache.
type PriceRepository struct {
	DB *gorm.DB
}

// NewPriceRepository creates a new PriceRepository.
func NewPriceRepository(db *gorm.DB) *PriceRepository {
	return &PriceRepository{DB: db}
}

// UpsertPrices replaces the cached quotes for each commodity/state pair in
// the batch with the fresh ones.
func (r *PriceRepository) UpsertPrices(prices []models.MandiPrice) error {
	if len(prices) == 0 {
		return nil
	}

	return r.DB.Transaction(func(tx *gorm.DB) error {
		// All quotes in one batch share a commodity/state pair in practice,
		// but handle mixed batches anyway.
		seen := make(map[[2]string]bool)
		for _, p := range prices {
			key := [2]string{p.Commodity, p.State}
			if seen[key] {
				continue
			}
			seen[key] = true
			if err := tx.Where("commodity = ? AND state = ?", p.Commodity, p.State).
				Delete(&models.MandiPrice{}).Error; err != nil {
				return err
			}
		}

		for i := range prices {
			if err := tx.Create(&prices[i]).Error; err != nil {
				logger.Get().Error("failed to cache mandi price",
					zap.String("commodity", prices[i].Commodity),
					zap.Error(err))
				return err
			}
		}
		return nil
	})
}

// GetLatestPrices returns cached quotes no older than maxAge. An empty slice
// means the cache is cold or stale for this commodity/state.
func (r *PriceRepository) GetLatestPrices(commodity, state string, maxAge time.Duration) ([]models.MandiPrice, error) {
	var prices []models.MandiPrice
	cutoff := time.Now().Add(-maxAge)

	query := r.DB.Where("commodity = ? AND fetched_at >= ?", commodity, cutoff)
	if state != "" {
		query = query.Where("state = ?", state)
	}
	err := query.Order("modal_price DESC").Find(&prices).Error
	if err != nil {
		return nil, err
	}
	return prices, nil
}

// GetAnyPrices returns cached quotes regardless of age, newest fetch first.
// Used as the last-resort fallback when the upstream API is down.
func (r *PriceRepository) GetAnyPrices(commodity, state string, limit int) ([]models.MandiPrice, error) {
	var prices []models.MandiPrice

	query := r.DB.Where("commodity = ?", commodity)
	if state != "" {
		query = query.Where("state = ?", state)
	}
	err := query.Order("fetched_at DESC").
		Limit(limit).
		Find(&prices).Error
	if err != nil {
		return nil, err
	}
	return prices, nil
}
