package main

import (
	"github.com/OliveiraNt/maned-lookout/cmd"
	"github.com/OliveiraNt/maned-lookout/internal/application"
	"github.com/OliveiraNt/maned-lookout/internal/config"
	"github.com/OliveiraNt/maned-lookout/internal/dispatch"
	"github.com/OliveiraNt/maned-lookout/internal/infrastructure/kafka"
	"github.com/OliveiraNt/maned-lookout/internal/infrastructure/repository"
	"github.com/OliveiraNt/maned-lookout/internal/utils"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	utils.InitLogger()

	env := config.Environ()
	clusters, err := config.Load(env)
	if err != nil {
		utils.Logger.Fatal("invalid cluster configuration", "err", err)
	}
	settings, err := config.LoadSettings(env)
	if err != nil {
		utils.Logger.Fatal("invalid runtime settings", "err", err)
	}
	utils.Logger.Info("configuration loaded", "clusters", clusters.Names(), "default", clusters.Default())

	factory := kafka.NewFactory(settings.ConnectTimeout)
	repo := repository.NewClusterRepository(clusters, factory)
	executor := dispatch.New(settings.Workers, settings.QueueSize)
	utils.Logger.Info("dispatch executor started", "workers", settings.Workers, "queue", settings.QueueSize, "timeout", settings.OperationTimeout)

	clusterService := application.NewClusterService(repo, executor, settings.OperationTimeout)
	utils.Logger.Info("application layer initialized")

	cmd.StartWeb(clusterService, settings, func() {
		executor.Close()
		repo.Close()
	})
}
