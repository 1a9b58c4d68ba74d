package main

import (
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/kalamu/core"
	"github.com/trezcool/kalamu/core/content"
	emailsvc "github.com/trezcool/kalamu/services/email"
	logsvc "github.com/trezcool/kalamu/services/logger"
	"github.com/trezcool/kalamu/storage/database"
	sqlxrepos "github.com/trezcool/kalamu/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer db.Close()

	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	contentSvc := content.NewService(
		sqlxrepos.NewContentRepository(database.NewSQLX(db, conf)),
		emailsvc.NewConsoleService(conf, logger),
		conf,
		validate,
		logger,
	)

	// start CLI
	cli := commandLine{
		db:         db,
		conf:       conf,
		contentSvc: contentSvc,
		out:        os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		db.Close()
		os.Exit(1)
	}
}
