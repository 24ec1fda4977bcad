package space

import (
	"log/slog"

	"homeforge/internal/global/logger"
)

var log *slog.Logger

type ModuleSpace struct{}

func (m *ModuleSpace) GetName() string {
	return "Space"
}

func (m *ModuleSpace) Init() {
	log = logger.New("Space")
}
