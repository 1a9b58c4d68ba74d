package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/kalamu/core"
	"github.com/trezcool/kalamu/core/content"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db         *sql.DB
	conf       *core.Config
	contentSvc *content.Service
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...) against the database")
	fmt.Fprintln(cli.out, "  normalize [-dry-run]   - re-save every stored rich text body in its canonical form")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	normalizeCmd := flag.NewFlagSet("normalize", flag.ContinueOnError)
	normalizeCmd.SetOutput(cli.out)
	normalizeDryRun := normalizeCmd.Bool("dry-run", false, "Only print the changes, do not save them.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "normalize":
		if err := normalizeCmd.Parse(args[2:]); err != nil {
			if err == flag.ErrHelp {
				return errHelp
			}
			return err
		}
		return cli.normalize(context.Background(), *normalizeDryRun)
	default:
		cli.printUsage()
		return errHelp
	}
}
