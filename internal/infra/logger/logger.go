package logger

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Setup configura o logger global do logrus.
// format "json" liga o JSONFormatter (produção); qualquer outro valor usa texto.
func Setup(level, format string) {
	log.SetOutput(os.Stdout)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
