// Package persistence provides gorm-backed stores for events, entities,
// links, and relations.
package persistence

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/aoidb/aoi/internal/database"
)

// models lists every table AutoMigrate manages, parents before children.
var models = []any{
	&SourceModel{},
	&EventModel{},
	&EventFusionModel{},
	&EntityModel{},
	&EventEntityModel{},
	&RelationModel{},
}

// foreignKey is a constraint added after migration. GORM mis-derives
// foreign keys on tables with composite primary keys (go-gorm/gorm#7693).
type foreignKey struct {
	table, column, refTable, onDelete string
}

func (f foreignKey) name() string { return "fk_" + f.table + "_" + f.column }

var foreignKeys = []foreignKey{
	{"events", "source_id", "sources", "SET NULL"},
	{"event_fusions", "event_id", "events", "CASCADE"},
	{"event_entities", "event_id", "events", "CASCADE"},
	{"event_entities", "entity_id", "entities", "CASCADE"},
	{"relations", "src_entity_id", "entities", "CASCADE"},
	{"relations", "dst_entity_id", "entities", "CASCADE"},
}

// AutoMigrate creates or updates every table, then installs foreign keys
// where the dialect allows altering existing tables.
func AutoMigrate(db database.Database) error {
	if err := db.GORM().AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if !db.IsPostgres() {
		// SQLite cannot add constraints to existing tables; the stores keep
		// the same invariants themselves.
		return nil
	}
	return db.GORM().Transaction(func(tx *gorm.DB) error {
		for _, fk := range foreignKeys {
			stmts := []string{
				fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s`, fk.table, fk.name()),
				fmt.Sprintf(`ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(id) ON DELETE %s`,
					fk.table, fk.name(), fk.column, fk.refTable, fk.onDelete),
			}
			for _, stmt := range stmts {
				if err := tx.Exec(stmt).Error; err != nil {
					return fmt.Errorf("foreign key %s: %w", fk.name(), err)
				}
			}
		}
		return nil
	})
}

// ValidateSchema reports every model column missing from the database, so a
// stale schema fails at startup instead of on the first query.
func ValidateSchema(db database.Database) error {
	gdb := db.GORM()
	var errs []error
	for _, model := range models {
		missing, err := missingColumns(gdb, model)
		if err != nil {
			return err
		}
		for _, col := range missing {
			errs = append(errs, fmt.Errorf("missing column %s", col))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}

func missingColumns(gdb *gorm.DB, model any) ([]string, error) {
	stmt := &gorm.Statement{DB: gdb}
	if err := stmt.Parse(model); err != nil {
		return nil, fmt.Errorf("parse model schema: %w", err)
	}
	columns, err := gdb.Migrator().ColumnTypes(model)
	if err != nil {
		return nil, fmt.Errorf("column types for %s: %w", stmt.Table, err)
	}
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[c.Name()] = struct{}{}
	}

	var missing []string
	for _, field := range stmt.Schema.Fields {
		if field.DBName == "" {
			continue
		}
		if _, ok := present[field.DBName]; !ok {
			missing = append(missing, stmt.Table+"."+field.DBName)
		}
	}
	return missing, nil
}
