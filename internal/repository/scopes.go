package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// paginate applies page/limit when limit is positive. Pages start at 1.
func paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}

// ownedCarIDs is a subquery selecting the ids of cars managed by ownerID.
func ownedCarIDs(db *gorm.DB, ownerID uuid.UUID) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).Model(&CarModel{}).Select("id").Where("owner_id = ?", ownerID)
}
