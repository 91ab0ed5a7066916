package mock

import (
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/myeconomy/backend/internal/infra/db"
	"github.com/myeconomy/backend/internal/integration/persistence/model"
)

var once sync.Once
var database *Db

// Db is an in-memory SQLite database with the application schema.
type Db struct {
	DbConn *gorm.DB
	models map[string]any
}

// NewDb opens the shared in-memory database once per test binary.
func NewDb(name string) *Db {
	once.Do(func() {
		database = open(name)
	})
	return database
}

func open(name string) *Db {
	conn, err := db.NewSQLiteConnection(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		panic("failed to open test database. err: " + err.Error())
	}

	models := map[string]any{}
	for _, m := range model.All() {
		stmt := &gorm.Statement{DB: conn.DB()}
		if err := stmt.Parse(m); err != nil {
			panic(fmt.Sprintf("failed to parse model %T. err: %s", m, err.Error()))
		}
		models[stmt.Schema.Table] = m
	}

	return &Db{DbConn: conn.DB(), models: models}
}

// ClearDB deletes every row, children first.
func (d *Db) ClearDB() error {
	for _, table := range []string{"email_queue", "limits", "expenses", "password_reset_tokens", "refresh_tokens", "users"} {
		m, ok := d.models[table]
		if !ok {
			return fmt.Errorf("unknown table %s", table)
		}
		if err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Count returns the number of rows in table, soft-deleted rows included.
func (d *Db) Count(table string) (int64, error) {
	m, ok := d.models[table]
	if !ok {
		return 0, fmt.Errorf("unknown table %s", table)
	}
	var count int64
	err := d.DbConn.Unscoped().Model(m).Count(&count).Error
	return count, err
}

// GetModel returns the persistence model mapped to table.
func (d *Db) GetModel(table string) (any, bool) {
	m, ok := d.models[table]
	return m, ok
}
