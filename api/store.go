package main

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bredex/accounts/auth"
	"github.com/bredex/accounts/config"
)

// openRepository builds the configured account store and a func that releases it.
func openRepository(ctx context.Context, cfg config.Config) (auth.Repository, func(), error) {
	switch cfg.Store {
	case config.StoreMongo:
		return openMongo(ctx, cfg)
	case config.StoreSQLite:
		db, err := auth.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return auth.NewSQLiteAccountRepository(db), func() { _ = db.Close() }, nil
	case config.StorePostgres:
		db, err := auth.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return auth.NewPostgresAccountRepository(db), func() { _ = db.Close() }, nil
	default:
		return auth.NewAccountRepository(), func() {}, nil
	}
}

func openMongo(ctx context.Context, cfg config.Config) (auth.Repository, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("error connecting to mongo: %w", err)
	}
	disconnect := func() { _ = client.Disconnect(context.Background()) }

	if err = client.Ping(ctx, nil); err != nil {
		disconnect()
		return nil, nil, fmt.Errorf("error pinging mongo: %w", err)
	}

	repo, err := auth.NewMongoAccountRepository(ctx, client.Database(cfg.MongoDatabase).Collection("accounts"))
	if err != nil {
		disconnect()
		return nil, nil, err
	}
	return repo, disconnect, nil
}
