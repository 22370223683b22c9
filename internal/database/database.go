// Package database centralises sqlx connection helpers for the MySQL
// credential store.  The driver is go-sql-driver/mysql, which also works
// with MariaDB when configured for the MySQL wire protocol.
//
// Public entry points:
//
//	Open(cfg)           – pool sized from config (fixed, default 10).
//	OpenDSN(dsn, size)  – fine-grained control, used by tests and tools.
//
// Both helpers Ping the database before returning so callers can fail
// fast during bootstrap.  The returned *sqlx.DB is the single shared
// pool for the process; cmd/web owns its lifecycle and Close()s it on
// shutdown.
package database

import (
	"fmt"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Open builds the DSN from the typed config fields and dials the pool.
func Open(host string, port int, user, password, name string, poolSize int) (*sqlx.DB, error) {
	mc := gomysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", host, port)
	mc.User = user
	mc.Passwd = password
	mc.DBName = name
	mc.ParseTime = true

	return OpenDSN(mc.FormatDSN(), poolSize)
}

// OpenDSN opens a pool with maxOpen == maxIdle == size so a fixed set of
// connections is reused across requests.  Each request borrows one
// connection per query and releases it immediately after.
func OpenDSN(dsn string, size int) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(size)
	db.SetMaxIdleConns(size)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
