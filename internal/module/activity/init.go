package activity

import (
	"log/slog"

	"homeforge/internal/global/logger"
)

var log *slog.Logger

type ModuleActivity struct{}

func (p *ModuleActivity) GetName() string {
	return "Activity"
}

func (p *ModuleActivity) Init() {
	log = logger.New("Activity")
}
