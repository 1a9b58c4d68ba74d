// Package testutil holds the helpers shared by package tests: a migrated throwaway database and
// record factories.
package testutil

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/kalamu/core"
	"github.com/trezcool/kalamu/core/content"
	logsvc "github.com/trezcool/kalamu/services/logger"
	"github.com/trezcool/kalamu/storage/database"
)

// Config returns the configuration tests run with: an in-memory sqlite database unique to the
// caller and no outgoing integrations.
func Config() *core.Config {
	return &core.Config{
		Env:             "TEST",
		Build:           "test",
		Debug:           false,
		TestMode:        true,
		AppName:         "Kalamu",
		FrontendBaseURL: "http://localhost:3000",
		DefaultFrom:     "noreply@localhost",
		NotifyEmails:    []string{"board@test.cd"},
		Server: core.ServerConfig{
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: core.DatabaseConfig{
			Engine: "sqlite",
			Name:   "file:" + uuid.New().String() + "?mode=memory&cache=shared&_time_format=sqlite",
		},
		Editor: core.EditorConfig{
			Placeholder:      "Start typing…",
			MaxContentLength: 1000,
		},
	}
}

// PrepareDB opens a migrated in-memory database, closed when the test ends.
func PrepareDB(t *testing.T, conf ...*core.Config) *sqlx.DB {
	t.Helper()

	c := Config()
	if len(conf) > 0 {
		c = conf[0]
	}
	db, err := database.Open(c)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db, c); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return database.NewSQLX(db, c)
}

// NewLogger returns a silent logger that reports nothing to rollbar.
func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "TEST : ", log.LstdFlags), conf)
	logger.Enable(false)
	return logger
}

// NewValidator returns a validator set up the way the binaries set it up.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate, translator
}

func CreateContent(
	t *testing.T,
	repo content.Repository,
	kind content.Kind,
	title, body string,
	isActive bool,
	createdAt ...time.Time,
) content.Content {
	t.Helper()

	tstamp := time.Now().UTC().Truncate(time.Microsecond)
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC().Truncate(time.Microsecond)
	}
	c := content.Content{
		ID:        uuid.New().String(),
		Kind:      kind,
		Title:     title,
		Body:      body,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	c, err := repo.CreateContent(context.Background(), c)
	if err != nil {
		t.Fatalf("CreateContent() failed: %v", err)
	}
	return c
}
