package board

import (
	"log/slog"

	"homeforge/internal/global/logger"
)

var log *slog.Logger

type ModuleBoard struct{}

func (b *ModuleBoard) GetName() string {
	return "Board"
}

func (b *ModuleBoard) Init() {
	log = logger.New("Board")
}
