package main

import (
	"context"
	"log"
	"os"
	"strings"

	"movie-social/cmd"
	"movie-social/internal/data/repository"
	"movie-social/internal/wire"
	"movie-social/pkg/database"
	"movie-social/pkg/storage"
	"movie-social/pkg/token"
	"movie-social/pkg/utils"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
)

func main() {
	var (
		app = kingpin.New("movie-social", "Movie review social network API.")

		configPath = app.Flag(
			"config", "path to the env file").Default(".env").String()

		ensureSchema = app.Flag(
			"ensure-schema", "create tables or indexes before serving").Default("true").Bool()
	)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// Load config
	config, err := utils.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("db_driver", config.Database.Driver),
		zap.String("storage_driver", config.Storage.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	ctx := context.Background()

	repos, closeDB := openRepository(ctx, config, *ensureSchema, logger)
	defer closeDB()

	media, err := storage.New(ctx, config.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to init media storage", zap.Error(err))
	}

	tokens := token.NewService(config.JWT.Secret, config.JWT.Issuer, config.TokenTTL())

	// Wire all dependencies
	application := wire.Wiring(repos, media, tokens, config, logger)

	if err := cmd.APIServer(application.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}

// openRepository connects the configured backend and returns its repositories with a closer.
func openRepository(ctx context.Context, config *utils.Config, ensureSchema bool, logger *zap.Logger) (*repository.Repository, func()) {
	switch strings.ToLower(config.Database.Driver) {
	case "mongo", "mongodb":
		db, err := database.InitMongo(ctx, config.Mongo)
		if err != nil {
			logger.Fatal("Failed to connect to mongo", zap.Error(err))
		}
		logger.Info("Mongo connected", zap.String("database", config.Mongo.Database))

		if ensureSchema {
			if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
				logger.Fatal("Failed to create mongo indexes", zap.Error(err))
			}
		}

		return repository.NewMongoRepository(db, config.Mongo.Transactions, logger), func() {
			if err := db.Close(context.Background()); err != nil {
				logger.Warn("Failed to close mongo", zap.Error(err))
			}
		}

	default:
		db, err := database.InitDB(ctx, config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		logger.Info("Database connected successfully")

		if ensureSchema {
			if err := repository.EnsureSchema(ctx, db); err != nil {
				logger.Fatal("Failed to apply schema", zap.Error(err))
			}
		}

		return repository.NewRepository(db, logger), db.Close
	}
}
