package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/FolkiDevv/partysys/config"
)

type Logger struct {
	*logrus.Logger
}

func New(cfg config.LoggerConfig) *Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if cfg.File == "" {
		cfg.File = "logs/bot.log"
	}
	if !filepath.IsAbs(cfg.File) {
		dir, err := os.Getwd()
		if err != nil {
			log.Fatal("Failed to get working directory:", err)
		}
		cfg.File = filepath.Join(dir, cfg.File)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		log.Fatal("Failed to create log directory:", err)
	}

	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		log.Fatalf("Failed to open log file %s: %v", cfg.File, err)
	}

	l.SetOutput(io.MultiWriter(os.Stdout, file))
	l.Infof("Logger initialized. Log file: %s", cfg.File)

	return &Logger{Logger: l}
}
