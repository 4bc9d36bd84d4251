// slipwatch watches an inbox directory for betting slip screenshots, runs
// OCR plus bet parsing on each new file, and stores the parse as a draft
// bet record. Processed files are moved into an archive subdirectory.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/JetWong0810/football-betting-system/config"
	"github.com/JetWong0810/football-betting-system/models"
	"github.com/JetWong0810/football-betting-system/pkg/betparse"
	"github.com/JetWong0810/football-betting-system/pkg/ocr"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
}

type watcher struct {
	db         *gorm.DB
	recognizer *ocr.Recognizer
	parser     *betparse.Parser
	dir        string
	archiveDir string
	userID     uint
	logger     zerolog.Logger
}

func main() {
	configPath := flag.String("config", os.Getenv("FOOTBALL_CONFIG"), "path to config file")
	username := flag.String("user", "admin", "username that owns the draft bets")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging).With().Str("component", "slipwatch").Logger()

	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("connect mysql")
	}

	var user models.User
	if err := db.Where("username = ?", *username).First(&user).Error; err != nil {
		logger.Fatal().Str("username", *username).Msg("owner user not found")
	}

	if err := os.MkdirAll(cfg.Inbox.Dir, 0o755); err != nil {
		logger.Fatal().Err(err).Msg("create inbox dir")
	}
	archiveDir := filepath.Join(cfg.Inbox.Dir, "processed")
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		logger.Fatal().Err(err).Msg("create archive dir")
	}

	w := &watcher{
		db:         db,
		recognizer: ocr.NewRecognizer(cfg.OCR.Languages, logger),
		parser:     betparse.NewParser(logger),
		dir:        cfg.Inbox.Dir,
		archiveDir: archiveDir,
		userID:     user.ID,
		logger:     logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := w.run(ctx, cfg.Inbox.Workers); err != nil && ctx.Err() == nil {
		logger.Fatal().Err(err).Msg("watcher stopped")
	}
}

// run scans files already sitting in the inbox, then watches for new ones.
// Create events are debounced so half-written screenshots settle before OCR.
func (w *watcher) run(ctx context.Context, workers int) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Add(w.dir); err != nil {
		return err
	}
	w.logger.Info().Str("dir", w.dir).Int("workers", workers).Msg("watching inbox")

	if workers < 1 {
		workers = 1
	}
	fileCh := make(chan string, 256)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range fileCh {
				w.processFile(path)
			}
		}()
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		close(fileCh)
		wg.Wait()
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() && isImageFile(entry.Name()) {
			fileCh <- filepath.Join(w.dir, entry.Name())
		}
	}

	pending := map[string]time.Time{}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(fileCh)
			wg.Wait()
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				close(fileCh)
				wg.Wait()
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 && isImageFile(ev.Name) {
				pending[ev.Name] = time.Now()
			}
		case <-ticker.C:
			now := time.Now()
			for path, t := range pending {
				if now.Sub(t) > 300*time.Millisecond {
					delete(pending, path)
					fileCh <- path
				}
			}
		case err, ok := <-fw.Errors:
			if !ok {
				close(fileCh)
				wg.Wait()
				return nil
			}
			w.logger.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *watcher) processFile(path string) {
	name := filepath.Base(path)
	result := w.recognizer.RecognizeFile(path)
	envelope := w.parser.ParseImageResult(betparse.OCRResult{
		Success:    result.Success,
		Text:       result.Text,
		Details:    toParserLines(result.Details),
		Confidence: result.Confidence,
		Error:      result.Error,
	})
	if !envelope.Success {
		w.logger.Warn().Str("file", name).Str("error", envelope.Error).Msg("slip parse failed")
		w.archive(path)
		return
	}

	data, err := json.Marshal(map[string]interface{}{
		"source":         "slipwatch",
		"file":           name,
		"parse":          envelope.Data,
		"raw_text":       envelope.RawText,
		"ocr_confidence": envelope.OCRConfidence,
	})
	if err != nil {
		w.logger.Error().Err(err).Str("file", name).Msg("marshal bet data")
		return
	}

	bet := models.BetRecord{
		UserID:  w.userID,
		BetData: string(data),
		BetTime: time.Now().UTC().Format(time.RFC3339),
		Status:  models.BetStatusSaved,
		Stake:   envelope.Data.Stake,
	}
	if len(envelope.Data.Legs) == 1 {
		bet.Odds = envelope.Data.Legs[0].Odds
	}
	if err := w.db.Create(&bet).Error; err != nil {
		w.logger.Error().Err(err).Str("file", name).Msg("save draft bet")
		return
	}
	w.logger.Info().
		Str("file", name).
		Uint("bet_id", bet.ID).
		Int("legs", len(envelope.Data.Legs)).
		Float64("confidence", envelope.Data.Confidence).
		Msg("draft bet created")
	w.archive(path)
}

// archive moves a handled file out of the inbox under a collision-free name.
func (w *watcher) archive(path string) {
	target := filepath.Join(w.archiveDir, uuid.NewString()+strings.ToLower(filepath.Ext(path)))
	if err := os.Rename(path, target); err != nil {
		w.logger.Warn().Err(err).Str("file", path).Msg("archive failed")
	}
}

func toParserLines(lines []ocr.Line) []betparse.OCRLine {
	out := make([]betparse.OCRLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, betparse.OCRLine{Text: l.Text, Confidence: l.Confidence, Box: l.Box})
	}
	return out
}

func isImageFile(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
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
