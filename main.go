package main

import (
	"github.com/plumekit/plume/config"
	"github.com/plumekit/plume/models"
	"github.com/plumekit/plume/routes"
	"github.com/plumekit/plume/utils"
)

func main() {
	cfg := config.Load()
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer utils.Logger.Sync()

	config.InitDatabase(
		&models.User{},
		&models.Credential{},
		&models.Article{},
		&models.Comment{},
		&models.Like{},
		&models.Favorite{},
		&models.Follow{},
	)

	router := routes.SetupRouter(config.DB())

	addr := ":" + cfg.AppPort
	utils.Sugar.Infof("listening on %s", addr)
	if err := utils.GraceServer(addr, router); err != nil {
		utils.Sugar.Fatalf("server exited: %v", err)
	}
}
