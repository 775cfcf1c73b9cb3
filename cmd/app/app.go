package main

import (
	"os"

	"github.com/DRSN-tech/marketplace-sync/internal/app"
	config "github.com/DRSN-tech/marketplace-sync/internal/cfg"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
)

// @title						Marketplace Sync API
// @version					1.0
// @description				Синхронизация остатков магазинов, заказы и корзина.
// @BasePath					/api/v1
// @securityDefinitions.apikey	ShopToken
// @in							query
// @name						token
func main() {
	log := logger.NewSlogLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		log.Errorf(err, "application stopped with error")
		os.Exit(1)
	}
}
