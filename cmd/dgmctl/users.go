package main

import (
	"database/sql"
	"fmt"
	"text/tabwriter"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/auth"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/repository"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/repository/postgres"
)

func usersCommand() *cli.Command {
	nameFlag := &cli.StringFlag{Name: "name", Usage: "DGM name as it appears in the workbook", Required: true}

	return &cli.Command{
		Name:  "users",
		Usage: "Manage DGM logins stored in Postgres",
		Flags: []cli.Flag{newDBURLFlag()},
		Subcommands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Create or upgrade the credentials table",
				Action: func(c *cli.Context) error {
					db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()
					return postgres.RunMigrations(db)
				},
			},
			{
				Name:  "add",
				Usage: "Create a login or reset its password",
				Flags: []cli.Flag{nameFlag, &cli.StringFlag{Name: "password", Required: true}},
				Action: withRepo(func(c *cli.Context, repo repository.CredentialRepository) error {
					hash, err := auth.HashPassword(c.String("password"))
					if err != nil {
						return err
					}
					if err := repo.Upsert(c.Context, c.String("name"), hash); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "saved %s\n", c.String("name"))
					return nil
				}),
			},
			{
				Name:  "disable",
				Usage: "Block a login without deleting it",
				Flags: []cli.Flag{nameFlag},
				Action: withRepo(func(c *cli.Context, repo repository.CredentialRepository) error {
					return repo.SetActive(c.Context, c.String("name"), false)
				}),
			},
			{
				Name:  "enable",
				Usage: "Re-activate a disabled login",
				Flags: []cli.Flag{nameFlag},
				Action: withRepo(func(c *cli.Context, repo repository.CredentialRepository) error {
					return repo.SetActive(c.Context, c.String("name"), true)
				}),
			},
			{
				Name:  "list",
				Usage: "List logins",
				Action: withRepo(func(c *cli.Context, repo repository.CredentialRepository) error {
					creds, err := repo.List(c.Context)
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "NAME\tACTIVE\tUPDATED")
					for _, cred := range creds {
						fmt.Fprintf(tw, "%s\t%t\t%s\n", cred.Name, cred.Active, cred.UpdatedAt.Format("2006-01-02 15:04"))
					}
					return tw.Flush()
				}),
			},
		},
	}
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func withRepo(fn func(c *cli.Context, repo repository.CredentialRepository) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		db, err := openDB(c)
		if err != nil {
			return err
		}
		defer db.Close()

		repo := postgres.NewCredentialRepository(postgres.Wrap(sqlx.NewDb(db, "pgx"), 1))
		return fn(c, repo)
	}
}
