package core_test

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kalamu/testutil"
)

type announcement struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"richtext,richtextmax=10"`
	Link  string `json:"link" validate:"absurl"`
}

func TestInitValidators(t *testing.T) {
	validate, translator := testutil.NewValidator()

	tests := []struct {
		name     string
		data     announcement
		wantErrs map[string]string
	}{
		{
			name: "valid",
			data: announcement{Title: "t", Body: "<p><b>Hello</b></p>", Link: "https://example.com"},
		},
		{
			name: "empty link passes",
			data: announcement{Title: "t", Body: "hello"},
		},
		{
			name:     "missing title",
			data:     announcement{Body: "hello"},
			wantErrs: map[string]string{"title": "this field is required"},
		},
		{
			name:     "markup only body",
			data:     announcement{Title: "t", Body: "<p><br></p>"},
			wantErrs: map[string]string{"body": "this field is required"},
		},
		{
			name:     "body too long",
			data:     announcement{Title: "t", Body: "<p><i>eleven runes</i></p>"},
			wantErrs: map[string]string{"body": "this text is too long"},
		},
		{
			name:     "bad link",
			data:     announcement{Title: "t", Body: "hello", Link: "javascript:alert(1)"},
			wantErrs: map[string]string{"link": "please enter a valid URL (e.g. https://example.com)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.data)
			if tt.wantErrs == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok)
			got := make(map[string]string, len(vErrs))
			for _, e := range vErrs {
				got[e.Field()] = e.Translate(translator)
			}
			assert.Equal(t, tt.wantErrs, got)
		})
	}
}
