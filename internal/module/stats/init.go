package stats

import (
	"log/slog"

	"homeforge/internal/global/logger"
)

var log *slog.Logger

type ModuleStats struct{}

func (*ModuleStats) GetName() string {
	return "Stats"
}

func (*ModuleStats) Init() {
	log = logger.New("Stats")
}
