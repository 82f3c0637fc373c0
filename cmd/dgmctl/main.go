package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/dgm-dashboard/backend-go/pkg/logger"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Usage:    "Path to the DGM workbook (.xlsx or .csv)",
			Required: true,
			EnvVars:  []string{"SOURCE_FILE"},
		},
		&cli.StringFlag{
			Name:    "sheet",
			Usage:   "Worksheet name; defaults to CY_vs_LY_Growth, then the first sheet",
			EnvVars: []string{"SOURCE_SHEET"},
		},
		&cli.StringFlag{
			Name:    "mapping",
			Usage:   "JSON column mapping file",
			EnvVars: []string{"MAPPING_FILE"},
		},
		&cli.StringFlag{
			Name:     "dgm",
			Usage:    "DGM whose stores are reported",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:  "stores",
			Usage: "Restrict to these stores (repeat or comma separate)",
		},
		&cli.StringSliceFlag{
			Name:  "categories",
			Usage: "Restrict to these categories (repeat or comma separate)",
		},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "dgmctl",
		Usage: "Inspect DGM financial workbooks and manage dashboard users",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Configure(os.Stderr, "console")
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "summary",
				Usage:  "Print the dashboard for one DGM as JSON",
				Flags:  sourceFlags(),
				Action: runSummary,
			},
			{
				Name:  "export",
				Usage: "Write the filtered rows for one DGM as CSV",
				Flags: append(sourceFlags(), &cli.StringFlag{
					Name:  "out",
					Usage: "Output path; defaults to stdout",
				}),
				Action: runExport,
			},
			{
				Name:  "hash-password",
				Usage: "Print the bcrypt hash for a password, for AUTH_USERS",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: runHashPassword,
			},
			usersCommand(),
			storageCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
