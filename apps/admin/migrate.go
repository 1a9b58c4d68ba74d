package main

import (
	"github.com/trezcool/goose"

	appfs "github.com/trezcool/kalamu/fs"
	"github.com/trezcool/kalamu/storage/database"
)

var gooseRunFunc = goose.RunFS // mockable

func (cli *commandLine) migrate(args []string) error {
	if err := database.SetDialect(cli.conf); err != nil {
		return err
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db, appfs.FS, database.MigrationsDir, arguments...)
}
