// Command bitkv is the entry point for the bitkv single-file key/value
// store: it wires up structured logging, configuration, the Bitcask
// engine, and the interactive CLI.
package main

import (
	"fmt"
	"os"

	"github.com/rohanchhabra/bitkv/internal/cli"
	"github.com/rohanchhabra/bitkv/internal/config"
	"github.com/rohanchhabra/bitkv/internal/engine/bitcask"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	dbPath := pflag.String("db", "", "path to the database log file (overrides config)")
	configPath := pflag.String("config", "internal/config/config.yml", "path to the YAML config file")
	threshold := pflag.Float64("threshold", -1, "garbage ratio threshold for compaction at open (<0 uses the config value)")
	pflag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg, err := config.LoadConfig(*configPath, log)
	if err != nil {
		log.Fatalw("main: failed to load configuration", "error", err)
	}

	path := cfg.DB_PATH
	if *dbPath != "" {
		path = *dbPath
	}

	ratio := cfg.GARBAGE_RATIO_THRESHOLD
	if *threshold >= 0 {
		ratio = *threshold
	}

	log.Infow("main: opening bitcask engine", "path", path, "garbage_ratio_threshold", ratio)
	db, err := bitcask.NewCompact(path, ratio, os.FileMode(cfg.FILE_PERM), os.FileMode(cfg.DIR_PERM), log)
	if err != nil {
		log.Fatalw("main: failed to open bitcask engine", "path", path, "error", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Errorw("main: error closing bitcask engine", "error", err)
		}
	}()

	log.Info("main: bitkv started successfully")

	handler := cli.NewHandler(db, log)
	if err := handler.Run(); err != nil {
		log.Fatalw("main: cli handler error", "error", err)
	}
}
