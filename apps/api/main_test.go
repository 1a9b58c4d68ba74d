package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kalamu/core/content"
	"github.com/trezcool/kalamu/testutil"
)

func Test_setUpContentRepository(t *testing.T) {
	tests := []struct {
		name   string
		engine string
	}{
		{name: "in memory", engine: "inmem"},
		{name: "sqlite", engine: "sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := testutil.Config()
			conf.Database.Engine = tt.engine

			repo, closeDB, err := setUpContentRepository(conf)
			require.NoError(t, err)
			defer func() { assert.NoError(t, closeDB()) }()

			c := testutil.CreateContent(t, repo, content.KindNotice, "Open day", "<p>Saturday</p>", true)
			got, err := repo.GetContentByID(context.Background(), c.ID)
			require.NoError(t, err)
			assert.Equal(t, "Open day", got.Title)
		})
	}
}
