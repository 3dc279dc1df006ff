package specification

import "gorm.io/gorm"

// Limit caps the number of rows; non-positive means no cap
type Limit struct {
	N int
}

func (s Limit) Apply(db *gorm.DB) *gorm.DB {
	if s.N <= 0 {
		return db
	}
	return db.Limit(s.N)
}
