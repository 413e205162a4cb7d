package planetscale

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	appDb "github.com/hushmail/hushmail-be/db"
	"github.com/hushmail/hushmail-be/config"
	"github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/mysql"
)

type PlanetScaleDB struct {
	*PostDB
	*ResponseDB
	sess  db.Session
	sqlDB *sql.DB
}

func GetDatabase(cfg *config.MySQLConfig) (appDb.Database, error) {
	sqlDB, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxConns)
	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetConnMaxIdleTime(0)

	sess, err := mysql.New(sqlDB)
	if err != nil {
		return nil, fmt.Errorf("mysql session: %w", err)
	}

	return &PlanetScaleDB{
		PostDB:     getPostDB(sess),
		ResponseDB: getResponseDB(sess),
		sess:       sess,
		sqlDB:      sqlDB,
	}, nil
}

func (psdb *PlanetScaleDB) Ping(ctx context.Context) error {
	return psdb.sqlDB.PingContext(ctx)
}

func (psdb *PlanetScaleDB) Close() error {
	return psdb.sess.Close()
}
