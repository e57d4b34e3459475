package database

import (
	"github.com/aoidb/aoi/domain/repository"
	"gorm.io/gorm"
)

// ApplyOptions applies filters, ordering and the row window of options to a
// GORM session.
func ApplyOptions(db *gorm.DB, options ...repository.Option) *gorm.DB {
	q := repository.Build(options...)
	db = applyFilters(db, q)
	for _, s := range q.Sorts() {
		db = db.Order(s.String())
	}
	if q.Limit() > 0 {
		db = db.Limit(q.Limit())
	}
	if q.Offset() > 0 {
		db = db.Offset(q.Offset())
	}
	return db
}

// ApplyConditions applies only the filters, for COUNT queries.
func ApplyConditions(db *gorm.DB, options ...repository.Option) *gorm.DB {
	return applyFilters(db, repository.Build(options...))
}

func applyFilters(db *gorm.DB, q repository.Query) *gorm.DB {
	for _, f := range q.Filters() {
		db = db.Where(f.Clause, f.Args...)
	}
	return db
}
