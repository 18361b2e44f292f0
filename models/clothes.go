package models

import (
	"time"

	"github.com/lib/pq"
)

type ClothingItem struct {
	JsonModel
	Name        string           `json:"name"`
	Description *string          `gorm:"type:text" json:"description"`
	Category    ClothingCategory `sql:"type:ENUM('top', 'bottom', 'shoes', 'outerwear', 'accessory')" json:"category"`
	Color       string           `json:"color"`
	// 1 lightest .. 5 warmest
	WarmthRating int            `gorm:"default:3" json:"warmth_rating"`
	Formality    FormalityLevel `sql:"type:ENUM('casual', 'business_casual', 'formal')" json:"formality"`
	// free-text hints: season (summer/winter/...), waterproof, etc
	Tags     pq.StringArray `gorm:"type:text[]" json:"tags"`
	Owner    UserAccount    `json:"-"`
	OwnerID  uint           `json:"-"`
	Status   string         `json:"status"` // temporary, in_closet
	ImageURL *string        `json:"image_url"`

	// AI auto-tagging from the uploaded photo
	AnalysisStatus       string  `json:"analysis_status"` // idle, pending, completed, failed
	AnalysisRetryTimes   int     `json:"analysis_retry_times"`
	AnalysisErrorMessage *string `json:"analysis_error_message"`
}

// OutfitLog records an outfit the user actually wore on a given day.
// Top/bottom/shoes are expected, outerwear and accessory stay nullable.
type OutfitLog struct {
	JsonModel
	TopID       *uint         `json:"top_id"`
	Top         *ClothingItem `json:"top"`
	BottomID    *uint         `json:"bottom_id"`
	Bottom      *ClothingItem `json:"bottom"`
	ShoesID     *uint         `json:"shoes_id"`
	Shoes       *ClothingItem `json:"shoes"`
	OuterwearID *uint         `json:"outerwear_id"`
	Outerwear   *ClothingItem `json:"outerwear"`
	AccessoryID *uint         `json:"accessory_id"`
	Accessory   *ClothingItem `json:"accessory"`
	OwnerID     uint          `json:"-"`
	Owner       UserAccount   `json:"-"`
	WornDate    time.Time     `json:"worn_date"`
}

// ItemIDs collects the non-null item references of the log.
func (o OutfitLog) ItemIDs() []uint {
	var ids []uint
	for _, id := range []*uint{o.TopID, o.BottomID, o.ShoesID, o.OuterwearID, o.AccessoryID} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}
