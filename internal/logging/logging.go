package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"library-management/internal/config"
)

const timeFormat = "2006-01-02 15:04:05"

// Apply sets the global log level and output writers (console + optional
// rotating file). A verbosity above zero overrides the configured level.
func Apply(cfg config.LogConfig, verbosity int) {
	applyLevel(cfg.Level, verbosity)
	log.Logger = zerolog.New(writer(os.Stdout, cfg)).With().Timestamp().Logger()
}

func applyLevel(level string, verbosity int) {
	switch {
	case verbosity == 1:
		level = "debug"
	case verbosity >= 2:
		level = "trace"
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func writer(out io.Writer, cfg config.LogConfig) io.Writer {
	consoleOutput := zerolog.ConsoleWriter{Out: out, TimeFormat: timeFormat}
	if cfg.File == "" {
		return consoleOutput
	}

	if err := ensureLogDir(cfg.File); err != nil {
		log.Error().Err(err).Str("path", cfg.File).Msg("Failed to prepare log directory; logging to console only")
		return consoleOutput
	}

	fileConsole := zerolog.ConsoleWriter{
		Out: &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		},
		TimeFormat: timeFormat,
		NoColor:    true,
	}
	return zerolog.MultiLevelWriter(consoleOutput, fileConsole)
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
