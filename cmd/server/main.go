package main

import (
	"github.com/strata-analytics/causeway/backend/internal/server"
	"github.com/strata-analytics/causeway/backend/internal/util"
	"github.com/strata-analytics/causeway/backend/pkg/logger"
	"github.com/strata-analytics/causeway/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
