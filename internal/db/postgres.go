package db

import (
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// InitPostgres opens the secondary sqlx connection used for the health
// check and read-only aggregate queries. Retries cover the window where
// the database container is still coming up.
func InitPostgres(dsn string) (*sqlx.DB, error) {
	var (
		sdb *sqlx.DB
		err error
	)
	for i := 0; i < 10; i++ {
		sdb, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			return sdb, nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return nil, err
}
