package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/definescope/definerails-sensitivedata/cmd/app/commands"
	"github.com/definescope/definerails-sensitivedata/internal/app"
	"github.com/definescope/definerails-sensitivedata/internal/config"
	sensitivedataRepository "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/repository"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations (creates indexes on MongoDB)",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				if cfg.DBDriver != app.DriverMongoDB {
					return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
				}

				db, err := container.MongoDatabase()
				if err != nil {
					return err
				}

				return commands.RunEnsureIndexes(
					ctx,
					sensitivedataRepository.NewMongoDBRecordRepository(db),
					container.Logger(),
				)
			},
		},
	}
}
