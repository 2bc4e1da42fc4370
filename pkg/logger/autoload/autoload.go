// Package autoload initializes the global logger from LOG_* environment
// variables. Import it for side effects.
package autoload

import (
	configx "github.com/tanpawarit/agentic-workflow/pkg/config"
	logx "github.com/tanpawarit/agentic-workflow/pkg/logger"
)

func init() {
	Load()
}

// Load re-reads LOG_* settings, including the current env file, and
// reinitializes the logger. Call it after changing the env file.
func Load() {
	conf, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*conf)
}
