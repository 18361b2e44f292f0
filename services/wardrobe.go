package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"wearlyapi/models"
	"wearlyapi/stylist"
)

// GormWardrobeStore serves a single user's closet and wear history to the
// suggestion engine. Temporary items (photo uploaded, analysis pending) are
// not part of the wardrobe yet.
type GormWardrobeStore struct {
	DB      *gorm.DB
	OwnerID uint
}

func (s *GormWardrobeStore) ListAllItems(ctx context.Context) ([]models.ClothingItem, error) {
	var items []models.ClothingItem
	result := s.DB.WithContext(ctx).Where(
		"owner_id = ? and status = ?", s.OwnerID, "in_closet",
	).Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

func (s *GormWardrobeStore) ListWornLogsSince(ctx context.Context, since time.Time) ([]stylist.WearLog, error) {
	var logs []models.OutfitLog
	result := s.DB.WithContext(ctx).Where(
		"owner_id = ? and worn_date >= ?", s.OwnerID, since,
	).Order("worn_date desc").Find(&logs)
	if result.Error != nil {
		return nil, result.Error
	}

	wearLogs := make([]stylist.WearLog, 0, len(logs))
	for _, log := range logs {
		wearLogs = append(wearLogs, stylist.WearLog{
			WornDate: log.WornDate,
			ItemIDs:  log.ItemIDs(),
		})
	}
	return wearLogs, nil
}
