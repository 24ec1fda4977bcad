package module

import (
	"homeforge/internal/module/activity"
	"homeforge/internal/module/board"
	"homeforge/internal/module/ping"
	"homeforge/internal/module/project"
	"homeforge/internal/module/space"
	"homeforge/internal/module/stats"
	"homeforge/internal/module/user"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	// Register your module here
	registerModule([]Module{
		&user.ModuleUser{},
		&ping.ModulePing{},
		&space.ModuleSpace{},
		&activity.ModuleActivity{},
		&project.ModuleProject{},
		&board.ModuleBoard{},
		&stats.ModuleStats{},
	})
}
