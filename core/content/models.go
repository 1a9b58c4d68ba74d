package content

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/kalamu/core"
	"github.com/trezcool/kalamu/core/richtext"
)

// Kind is the website section a content record belongs to.
type Kind string

const (
	KindNotice          Kind = "notice"
	KindEvent           Kind = "event"
	KindAnnualReport    Kind = "annual_report"
	KindAuthor          Kind = "author"
	KindCommitteeMember Kind = "committee_member"
	KindAreaHistory     Kind = "area_history"
	KindPrivacyPolicy   Kind = "privacy_policy"
)

var Kinds = []Kind{
	KindNotice,
	KindEvent,
	KindAnnualReport,
	KindAuthor,
	KindCommitteeMember,
	KindAreaHistory,
	KindPrivacyPolicy,
}

func (k Kind) IsValid() bool {
	for _, kind := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// BodyRequired reports whether records of this kind must carry rich text. Authors and committee
// members get by with a name and an optional bio.
func (k Kind) BodyRequired() bool {
	return k != KindAuthor && k != KindCommitteeMember
}

type Content struct {
	ID          string     `json:"id"`
	Kind        Kind       `json:"kind"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Body        string     `json:"body"` // canonical editor HTML
	Link        string     `json:"link"`
	EventDate   *time.Time `json:"event_date"`   // UTC
	IsActive    bool       `json:"is_active"`
	PublishedAt *time.Time `json:"published_at"` // UTC; first activation of a notice
	CreatedAt   time.Time  `json:"created_at"`   // UTC
	UpdatedAt   time.Time  `json:"updated_at"`   // UTC
}

// Document returns the parsed body.
func (c Content) Document() richtext.Document {
	return richtext.Parse(c.Body)
}

// NewContent contains information needed to create a new Content.
type NewContent struct {
	Kind      string     `json:"kind" validate:"required"`
	Title     string     `json:"title" validate:"required,max=255"`
	Summary   string     `json:"summary" validate:"omitempty,max=500"`
	Body      string     `json:"body"`
	Link      string     `json:"link" validate:"omitempty,max=2048,absurl"`
	EventDate *time.Time `json:"event_date"`
	IsActive  *bool      `json:"is_active"`
}

func (nc *NewContent) Validate(validate *validator.Validate, conf *core.Config) error {
	nc.Kind = core.CleanString(nc.Kind, true /* lower */)
	nc.Title = core.CleanString(nc.Title)
	nc.Summary = core.CleanString(nc.Summary)
	nc.Link = core.CleanString(nc.Link)

	if err := validate.Struct(nc); err != nil {
		return err
	}
	return validateFields(validate, Kind(nc.Kind), nc.Body, nc.EventDate, conf)
}

// UpdateContent defines what information may be provided to modify an existing Content.
// Empty fields keep their current values.
type UpdateContent struct {
	Title     string     `json:"title" validate:"omitempty,max=255"`
	Summary   *string    `json:"summary" validate:"omitempty,max=500"`
	Body      *string    `json:"body"`
	Link      *string    `json:"link" validate:"omitempty,max=2048,absurl"`
	EventDate *time.Time `json:"event_date"`
	IsActive  *bool      `json:"is_active"`
}

func (uc *UpdateContent) Validate(orig Content, validate *validator.Validate, conf *core.Config) error {
	if title := core.CleanString(uc.Title); title != "" {
		uc.Title = title
	} else {
		uc.Title = orig.Title
	}
	if uc.Summary != nil {
		s := core.CleanString(*uc.Summary)
		uc.Summary = &s
	}
	if uc.Link != nil {
		l := core.CleanString(*uc.Link)
		uc.Link = &l
	}

	if err := validate.Struct(uc); err != nil {
		return err
	}

	body := orig.Body
	if uc.Body != nil {
		body = *uc.Body
	}
	eventDate := orig.EventDate
	if uc.EventDate != nil {
		eventDate = uc.EventDate
	}
	return validateFields(validate, orig.Kind, body, eventDate, conf)
}

// validateFields checks the rules that depend on the kind or on config, which struct tags cannot express.
func validateFields(validate *validator.Validate, kind Kind, body string, eventDate *time.Time, conf *core.Config) error {
	var flds []core.FieldError
	if !kind.IsValid() {
		flds = append(flds, core.FieldError{Field: "kind", Error: ErrInvalidKind.Error()})
	}

	switch {
	case kind.BodyRequired() && validate.Var(body, core.RichTextTag) != nil:
		flds = append(flds, core.FieldError{Field: "body", Error: "this field is required"})
	case conf.Editor.MaxContentLength > 0 &&
		validate.Var(body, fmt.Sprintf("%s=%d", core.RichTextMaxTag, conf.Editor.MaxContentLength)) != nil:
		flds = append(flds, core.FieldError{Field: "body", Error: ErrBodyTooLong.Error()})
	}

	if kind == KindEvent && eventDate == nil {
		flds = append(flds, core.FieldError{Field: "event_date", Error: "this field is required"})
	}

	if len(flds) > 0 {
		return core.NewValidationError(ErrInvalidContent, flds...)
	}
	return nil
}

type QueryFilter struct {
	Kind      string `query:"kind"`
	Search    string `query:"search"`
	IsActive  *bool  `query:"is_active"`
	Orderings []core.DBOrdering
}

// Display is the sanitized, read-only rendition of a Content.
type Display struct {
	Content
	HTML    string `json:"html"`
	Text    string `json:"text"`
	Excerpt string `json:"excerpt"`
}

// BodyChange describes the canonicalization of a stored body.
type BodyChange struct {
	ID     string
	Title  string
	Before string
	After  string
}
