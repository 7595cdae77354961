package database

import (
	"fmt"
	"strings"
	"sync/atomic"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"zhilfond/server/internal/apperrors"
)

// Database wraps the gorm connection. It is constructed once in main and
// injected into every consumer; there is no package-level client.
type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

var testDBCounter atomic.Int64

// NewTestDB opens an isolated in-memory database for tests, with the
// schema already migrated. Each call gets its own named database so the
// connection pool and parallel tests never share state.
func NewTestDB() (*Database, error) {
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_foreign_keys=on", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	d := &Database{db: db}
	if err := d.MigrateSchema(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Database) GetDB() *gorm.DB {
	return d.db
}

// translateError maps sqlite constraint violations to the integrity
// failure class; everything else passes through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "constraint failed") {
		return fmt.Errorf("%v: %w", err, apperrors.ErrIntegrity)
	}
	return err
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
