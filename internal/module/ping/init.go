package ping

import (
	"log/slog"

	"homeforge/internal/global/logger"
)

var log *slog.Logger

// Version is reported by /ping.
const Version = "1.0.0"

type ModulePing struct{}

func (p *ModulePing) GetName() string {
	return "Ping"
}

func (p *ModulePing) Init() {
	log = logger.New("Ping")
}
