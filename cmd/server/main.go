package main

import (
	"github.com/netweave/intrograph/backend/internal/server"
	"github.com/netweave/intrograph/backend/internal/util"
	"github.com/netweave/intrograph/backend/pkg/logger"
	"github.com/netweave/intrograph/backend/pkg/logger/console"

	_ "github.com/lib/pq"
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
