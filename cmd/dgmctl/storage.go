package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/config"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/storage"
)

func storageCommand() *cli.Command {
	return &cli.Command{
		Name:  "storage",
		Usage: "Browse the bucket configured by STORAGE_* variables",
		Subcommands: []*cli.Command{
			{
				Name:  "ls",
				Usage: "List workbooks and archived exports",
				Flags: []cli.Flag{&cli.StringFlag{Name: "prefix"}},
				Action: withStorage(func(c *cli.Context, store storage.ObjectStorage) error {
					objects, err := store.ListObjects(c.Context, c.String("prefix"))
					if err != nil {
						return err
					}
					sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
					for _, obj := range objects {
						fmt.Fprintf(c.App.Writer, "%10d  %s\n", obj.Size, obj.Key)
					}
					return nil
				}),
			},
			{
				Name:  "pull",
				Usage: "Download one object into a local directory",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "key", Required: true},
					&cli.StringFlag{Name: "dir", Value: "./data/tmp"},
				},
				Action: withStorage(func(c *cli.Context, store storage.ObjectStorage) error {
					dest := filepath.Join(c.String("dir"), filepath.Base(c.String("key")))
					if err := store.DownloadObject(c.Context, c.String("key"), dest); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "downloaded %s -> %s\n", c.String("key"), dest)
					return nil
				}),
			},
		},
	}
}

func withStorage(fn func(c *cli.Context, store storage.ObjectStorage) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		store, err := storage.New(storage.ConfigFrom(config.Load().Storage))
		if err != nil {
			return err
		}
		return fn(c, store)
	}
}
