package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/definescope/definerails-sensitivedata/cmd/app/commands"
	"github.com/definescope/definerails-sensitivedata/internal/app"
	"github.com/definescope/definerails-sensitivedata/internal/config"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-master-secret",
			Usage: "Generate the environment half of the master secret",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "app-env",
					Aliases: []string{"e"},
					Value:   "production",
					Usage:   "APP_ENV the secret is generated for",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Value: "",
					Usage: "KMS key URI used to wrap the secret (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateMasterSecret(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("app-env"),
					cmd.String("kms-key-uri"),
				)
			},
		},
		{
			Name:  "generate-salt",
			Usage: "Generate random record salts",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "count",
					Aliases: []string{"n"},
					Value:   1,
					Usage:   "Number of salts to generate",
				},
				&cli.IntFlag{
					Name:  "size",
					Value: 0,
					Usage: "Salt size in bytes (defaults to RECORD_SALT_SIZE_BYTES)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()

				size := int(cmd.Int("size"))
				if size == 0 {
					size = cfg.RecordSaltSizeBytes
				}

				return commands.RunGenerateSalt(
					commands.DefaultIO().Writer,
					size,
					int(cmd.Int("count")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "derive-key-fingerprint",
			Usage: "Print the SHA-256 fingerprint of the key derived for a record salt",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "salt",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Record salt (the encryption_key column)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				secret, err := container.MasterSecret()
				if err != nil {
					return err
				}

				deriver, err := container.KeyDeriver()
				if err != nil {
					return err
				}

				return commands.RunDeriveKeyFingerprint(
					secret,
					deriver,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("salt"),
					cmd.String("format"),
				)
			},
		},
	}
}
