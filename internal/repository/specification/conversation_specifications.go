package specification

import "gorm.io/gorm"

type ByTravelerID struct {
	TravelerID string
}

func (s ByTravelerID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("traveler_id = ?", s.TravelerID)
}
