package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/JetWong0810/football-betting-system/config"
	"github.com/JetWong0810/football-betting-system/models"
	"github.com/JetWong0810/football-betting-system/pkg/oddscache"
	"github.com/JetWong0810/football-betting-system/scraper"
)

func main() {
	configPath := flag.String("config", os.Getenv("FOOTBALL_CONFIG"), "path to config file")
	once := flag.Bool("once", false, "run a single sync and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)

	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("connect mysql")
	}
	err = db.AutoMigrate(
		&models.Match{},
		&models.OddsWinDrawLose{},
		&models.OddsCorrectScore{},
		&models.OddsTotalGoals{},
		&models.OddsHalfFullTime{},
		&models.SyncStatus{},
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}

	cache := oddscache.New(oddscache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.TTL,
	}, logger)
	defer cache.Close()

	client := scraper.NewClient(cfg.Scraper.URL, cfg.Scraper.UserAgent, cfg.Scraper.Timeout, logger)
	service := scraper.NewService(db, client, cache, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		stats, err := service.RunOnce(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("sync failed")
		}
		logger.Info().Int("matches", stats.Matches).Int("odds", stats.Odds).Msg("sync done")
		return
	}

	logger.Info().Dur("interval", cfg.Scraper.Interval).Msg("scraper running")
	if err := service.Run(ctx, cfg.Scraper.Interval); err != nil && ctx.Err() == nil {
		logger.Fatal().Err(err).Msg("scraper stopped")
	}
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	base := zerolog.New(os.Stderr)
	if cfg.Format == "console" {
		base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return base.Level(level).With().Timestamp().Logger()
}
