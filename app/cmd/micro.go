package cmd

import (
	"github.com/backoffice/pkg/config"
	"github.com/backoffice/pkg/database"
	"github.com/backoffice/pkg/server"
	"github.com/backoffice/pkg/utils"
)

func StartApp() {
	config := config.InitConfig()
	utils.LoadEnv()
	database.InitDB(config.Database)
	server.LaunchHttpServer(config.App, config.Mail, config.Allows)
}
