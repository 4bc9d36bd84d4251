package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/JetWong0810/football-betting-system/config"
	"github.com/JetWong0810/football-betting-system/pkg/betparse"
	"github.com/JetWong0810/football-betting-system/pkg/ocr"
	"github.com/JetWong0810/football-betting-system/pkg/oddscache"
)

var (
	logger     zerolog.Logger
	playsCache *oddscache.Cache
	recognizer *ocr.Recognizer
	parser     *betparse.Parser
)

func main() {
	configPath := flag.String("config", os.Getenv("FOOTBALL_CONFIG"), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger = newLogger(cfg.Logging)
	jwtSecret = []byte(cfg.JWT.Secret)
	tokenExpiry = time.Duration(cfg.JWT.ExpiryDays) * 24 * time.Hour
	decimal.MarshalJSONWithoutQuotes = true

	if err := initDB(cfg); err != nil {
		logger.Fatal().Err(err).Msg("database init failed")
	}

	// `./app migrate` runs AutoMigrate plus seeding and exits. Useful for CI
	// and manual database setup.
	if flag.Arg(0) == "migrate" {
		logger.Info().Msg("migration and seeding completed")
		return
	}

	playsCache = oddscache.New(oddscache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.TTL,
	}, logger)
	defer playsCache.Close()

	recognizer = ocr.NewRecognizer(cfg.OCR.Languages, logger)
	parser = betparse.NewParser(logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestMetrics())

	setupRoutes(r)

	srv := newHTTPServer(cfg.Server, r)
	logger.Info().Str("addr", srv.Addr).Msg("api server listening")
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func newHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

func setupRoutes(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/health", healthHandler)
	api.POST("/sync", syncHandler)
	api.GET("/matches", listMatchesHandler)
	api.GET("/matches/:match_id", getMatchHandler)
	api.GET("/matches/:match_id/plays", getMatchPlaysHandler)
	api.POST("/auth/register", registerHandler)
	api.POST("/auth/login", loginHandler)

	authed := api.Group("", requireAuth())
	authed.GET("/user/profile", getProfileHandler)
	authed.PUT("/user/profile", updateProfileHandler)
	authed.GET("/user/config", getConfigHandler)
	authed.PUT("/user/config", updateConfigHandler)
	authed.POST("/bets", createBetHandler)
	authed.GET("/bets", listBetsHandler)
	authed.GET("/bets/:bet_id", getBetHandler)
	authed.PUT("/bets/:bet_id", updateBetHandler)
	authed.DELETE("/bets/:bet_id", deleteBetHandler)
	authed.POST("/ocr/parse", parseSlipHandler)
}

// requestMetrics counts finished requests by route template so path
// parameters do not blow up label cardinality.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
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
