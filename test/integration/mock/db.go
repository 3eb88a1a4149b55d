// Package mock provides in-memory stand-ins for the API's external services
// used by the BDD suite.
package mock

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbOnce sync.Once
var sharedDb *Db

// Db wraps a shared in-memory sqlite database. tables maps table names to
// their gorm models so assertion steps can query any table generically.
type Db struct {
	DbConn *gorm.DB
	tables map[string]any
}

// NewDb opens the shared in-memory database on first call and migrates the
// registered models. Subsequent calls return the same instance, so every
// scenario runs against one database that ClearDB wipes between scenarios.
func NewDb(tables map[string]any) *Db {
	dbOnce.Do(func() {
		sharedDb = openDb(tables)
	})
	return sharedDb
}

func openDb(tables map[string]any) *Db {
	conn, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(fmt.Sprintf("failed to open sqlite: %v", err))
	}
	// A pooled second connection would see its own empty in-memory database.
	conn.SetMaxOpenConns(1)

	dbConn, err := gorm.Open(sqlite.Dialector{Conn: conn}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect gorm: %v", err))
	}

	models := make([]any, 0, len(tables))
	for _, model := range tables {
		models = append(models, model)
	}
	if err := dbConn.AutoMigrate(models...); err != nil {
		panic(fmt.Sprintf("failed to migrate test schema: %v", err))
	}

	return &Db{
		DbConn: dbConn,
		tables: tables,
	}
}

// ClearDB deletes every row from every registered table. The schema stays in
// place; only data is wiped.
func (d *Db) ClearDB() error {
	for table, model := range d.tables {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().
			Delete(model).Error
		if err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// GetModel returns the gorm model registered for the given table name.
func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.tables[table]
	return model, ok
}
