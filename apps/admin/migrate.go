package main

import (
	"path/filepath"

	"github.com/pressly/goose"
)

var gooseRunFunc = goose.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	command := "up"
	arguments := make([]string, 0)
	if len(args) > 0 {
		command = args[0]
		arguments = append(arguments, args[1:]...)
	}
	if err := goose.SetDialect(cli.conf.Database.Engine); err != nil {
		return err
	}
	dir := filepath.Join(cli.conf.WorkDir, "storage", "database", "migrations")
	return gooseRunFunc(command, cli.db.DB, dir, arguments...)
}
