// Package database opens the storage backends. MongoDB is the primary
// store; SQL (PostgreSQL, or SQLite for local work and tests) is selected
// by DATABASE_URL.
package database

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"modernc.org/sqlite"
)

const connectTimeout = 10 * time.Second

// UnicodeLower is registered on every SQLite connection. The built-in LOWER
// folds ASCII only.
const UnicodeLower = "unicode_lower"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(UnicodeLower, 1, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		switch v := args[0].(type) {
		case string:
			return strings.ToLower(v), nil
		case []byte:
			return strings.ToLower(string(v)), nil
		default:
			return v, nil
		}
	})
}

// LowerFunc names the SQL function that lowercases text on db's dialect.
func LowerFunc(db *gorm.DB) string {
	if db.Dialector.Name() == "sqlite" {
		return UnicodeLower
	}
	return "LOWER"
}

func Connect(dsn string, log logrus.FieldLogger) (*gorm.DB, error) {
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Info("connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.WithField("dsn", dsn).Info("using SQLite for local development")

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

// ConnectMongo connects and pings before returning the database handle.
func ConnectMongo(ctx context.Context, uri, dbName string, log logrus.FieldLogger) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	log.WithField("database", dbName).Info("connected to MongoDB")
	return client, client.Database(dbName), nil
}
