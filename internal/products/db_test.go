package products

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqlite has no set_config; this driver registers a stand-in so
// transactions bound to an admin can run against an in-memory database.
const rlsSQLiteDriver = "sqlite3_products_rls"

var registerRLSDriver sync.Once

const productsTable = `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  description TEXT,
  brand TEXT,
  category TEXT NOT NULL,
  price TEXT NOT NULL,
  compare_at_price TEXT,
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  images TEXT NOT NULL DEFAULT '{}',
  is_active BOOLEAN NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`

// statementLog captures every SQL statement gorm executes, in order.
type statementLog struct {
	mu    sync.Mutex
	stmts []string
}

func (l *statementLog) LogMode(gormlogger.LogLevel) gormlogger.Interface { return l }
func (l *statementLog) Info(context.Context, string, ...any)             {}
func (l *statementLog) Warn(context.Context, string, ...any)             {}
func (l *statementLog) Error(context.Context, string, ...any)            {}

func (l *statementLog) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	stmt, _ := fc()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stmts = append(l.stmts, stmt)
}

func (l *statementLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stmts = nil
}

// index returns the position of the first statement starting with prefix.
func (l *statementLog) index(prefix string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, stmt := range l.stmts {
		if strings.HasPrefix(strings.TrimSpace(stmt), prefix) {
			return i
		}
	}
	return -1
}

func openTestDB(t *testing.T) (*gorm.DB, *statementLog) {
	t.Helper()

	registerRLSDriver.Do(func() {
		sql.Register(rlsSQLiteDriver, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("set_config", func(name, value string, local bool) string {
					return value
				}, true)
			},
		})
	})

	log := &statementLog{}
	conn, err := gorm.Open(sqlite.New(sqlite.Config{
		DriverName: rlsSQLiteDriver,
		DSN:        "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}), &gorm.Config{Logger: log, SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(productsTable).Error)
	log.reset()
	return conn, log
}
