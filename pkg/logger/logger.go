package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New создает JSON-логгер, пишущий в stdout
func New(logLevel string) *logrus.Logger {
	return NewWithOutput(logLevel, os.Stdout)
}

// NewWithOutput создает JSON-логгер с заданным выводом.
// Клиенту карты stdout нужен для ответов на команды, поэтому он пишет логи в stderr.
func NewWithOutput(logLevel string, out io.Writer) *logrus.Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{})

	log.SetOutput(out)

	// Уровень логирования
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel // Уровень по умолчанию, если передан некорректный
	}
	log.SetLevel(level)
	return log
}
