package scope

import "gorm.io/gorm"

// NewestFirst orders snapshots by ts, then by the time-ordered id for rows sharing a ts.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("ts DESC").Order("id DESC")
}

func OrderByNameAsc(db *gorm.DB) *gorm.DB {
	return db.Order("name ASC")
}
