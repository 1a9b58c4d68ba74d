package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kalamu/core"
	"github.com/trezcool/kalamu/core/editor"
	"github.com/trezcool/kalamu/core/richtext"
)

// keystroke and clipboard actions accepted next to the toolbar commands
const (
	actionInsertText = "insertText"
	actionEnter      = "enter"
	actionBackspace  = "backspace"
	actionPaste      = "paste"
	actionInsertLink = "insertLink"
)

type (
	RichTextCommandRequest struct {
		Content     string          `json:"content"`
		Selection   *richtext.Range `json:"selection"`
		Command     string          `json:"command" validate:"required"`
		Text        string          `json:"text"`
		URL         string          `json:"url"`
		DisplayText string          `json:"display_text"`
		HTML        string          `json:"html"`
	}

	RichTextState struct {
		Content     string          `json:"content"`
		Selection   *richtext.Range `json:"selection"`
		Empty       bool            `json:"empty"`
		Placeholder string          `json:"placeholder"`
		Link        string          `json:"link,omitempty"`
	}

	NormalizeRequest struct {
		Content string `json:"content"`
	}

	NormalizeResponse struct {
		Content string `json:"content"`
		Text    string `json:"text"`
		HTML    string `json:"html"`
	}
)

type richTextApi struct {
	conf     *core.Config
	validate *validator.Validate
}

func registerRichTextAPI(g *echo.Group, conf *core.Config, validate *validator.Validate) {
	api := richTextApi{conf: conf, validate: validate}

	rg := g.Group("/richtext")
	rg.POST("/commands", api.command)
	rg.POST("/normalize", api.normalize)
}

// command replays one editor action on the posted content. The editor is rebuilt from the request
// every time, so typing marks toggled at a collapsed caret only last for the request's text.
func (api *richTextApi) command(ctx echo.Context) error {
	var data RichTextCommandRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RichTextCommandRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	ed := editor.New(data.Content, editor.Options{Placeholder: api.conf.Editor.Placeholder})
	if data.Selection != nil {
		ed.Select(*data.Selection)
	}

	switch data.Command {
	case actionInsertText:
		ed.Type(data.Text)
	case actionEnter:
		ed.Enter()
	case actionBackspace:
		ed.Backspace()
	case actionPaste:
		ed.Paste(editor.Clipboard{Text: data.Text, HTML: data.HTML})
	case actionInsertLink:
		ed.OpenLink()
		ed.SetLinkDraft(data.URL, data.DisplayText)
		if err := ed.SubmitLink(); err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "url", Error: err.Error()})
		}
	default:
		if err := ed.Exec(editor.Command(data.Command)); err != nil {
			if errors.Cause(err) == editor.ErrUnknownCommand {
				return core.NewValidationError(err, core.FieldError{Field: "command", Error: editor.ErrUnknownCommand.Error()})
			}
			return errors.Wrap(err, "executing editor command")
		}
		ed.Type(data.Text)
	}

	if max := api.conf.Editor.MaxContentLength; max > 0 && richtext.Len(ed.Document()) > max {
		return core.NewValidationError(nil, core.FieldError{Field: "content", Error: "this text is too long"})
	}
	return ctx.JSON(http.StatusOK, editorState(ed))
}

func (api *richTextApi) normalize(ctx echo.Context) error {
	var data NormalizeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NormalizeRequest")
	}

	doc := richtext.Parse(data.Content)
	canonical := richtext.Render(doc)
	return ctx.JSON(http.StatusOK, NormalizeResponse{
		Content: canonical,
		Text:    richtext.PlainText(doc),
		HTML:    richtext.Sanitize(canonical),
	})
}

func editorState(ed *editor.Editor) RichTextState {
	state := RichTextState{
		Content:     ed.Value(),
		Empty:       ed.IsEmpty(),
		Placeholder: ed.Placeholder(),
	}
	if r, ok := ed.Selection(); ok {
		state.Selection = &r
	}
	if href, ok := ed.ActiveLink(); ok {
		state.Link = href
	}
	return state
}
