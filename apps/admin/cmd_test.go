package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kalamu/core/content"
	sqlxrepos "github.com/trezcool/kalamu/storage/database/sqlx"
	"github.com/trezcool/kalamu/testutil"
)

var contentRepo content.Repository

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	conf := testutil.Config()

	// set up DB & repos
	db := testutil.PrepareDB(t, conf)
	contentRepo = sqlxrepos.NewContentRepository(db)
	validate, _ := testutil.NewValidator()

	// start CLI
	out := new(bytes.Buffer)
	return &commandLine{
		db:         db.DB,
		conf:       conf,
		contentSvc: content.NewService(contentRepo, nil, conf, validate, testutil.NewLogger(conf)),
		out:        out,
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			} else if tt.wantErr != nil || tt.wantErrStr != "" {
				t.Errorf("cli.run() error = nil, want an error")
			}
		})
	}
}

func Test_commandLine_run(t *testing.T) {
	cli, _ := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "normalize: help", args: []string{"normalize", "-h"}, wantErr: errHelp},
		{name: "normalize: unknown flag", args: []string{"normalize", "-lol"}, wantErrStr: "flag provided but not defined: -lol"},
	})
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	origRunFunc := gooseRunFunc
	defer func() { gooseRunFunc = origRunFunc }()

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		if dir != "migrations" {
			return fmt.Errorf("unexpected migrations dir %q", dir)
		}
		if _, err := fs.Stat(fsys, dir+"/00001_create_content.sql"); err != nil {
			return err
		}

		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCLITests(t, cli, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "1"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "0"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "attachments", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	})
}

func Test_commandLine_normalize(t *testing.T) {
	cli, out := setup(t)
	ctx := context.Background()

	legacy := testutil.CreateContent(t, contentRepo, content.KindNotice, "Legacy", "Hello <strong>parents</strong>", true)
	clean := testutil.CreateContent(t, contentRepo, content.KindNotice, "Clean", "<p>Already canonical</p>", true)

	// dry run prints the diff only
	require.NoError(t, cli.run([]string{"admin", "normalize", "-dry-run"}))
	assert.Contains(t, out.String(), "# Legacy")
	assert.Contains(t, out.String(), "-Hello <strong>parents</strong>")
	assert.Contains(t, out.String(), "+<p>Hello <b>parents</b>")
	assert.NotContains(t, out.String(), "# Clean")
	assert.Contains(t, out.String(), "1 content(s) to normalize")

	got, err := contentRepo.GetContentByID(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, legacy.Body, got.Body)

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "normalize"}))
	assert.Contains(t, out.String(), "1 content(s) normalized")

	got, err = contentRepo.GetContentByID(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello <b>parents</b></p>", got.Body)

	got, err = contentRepo.GetContentByID(ctx, clean.ID)
	require.NoError(t, err)
	assert.Equal(t, clean.Body, got.Body)

	// nothing left to do
	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "normalize"}))
	assert.Equal(t, "0 content(s) normalized\n", out.String())
}
