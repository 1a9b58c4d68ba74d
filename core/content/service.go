package content

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/kalamu/core"
	"github.com/trezcool/kalamu/core/richtext"
)

var (
	// errors
	ErrNotFound       = errors.New("content not found")
	ErrInvalidContent = errors.New("invalid content")
	ErrInvalidKind    = errors.New("unknown content kind")
	ErrBodyTooLong    = errors.New("this text is too long")
	ErrInvalidOrder   = errors.New("invalid ordering field")

	// json field -> column
	orderingFields = map[string]string{
		"kind":         "kind",
		"title":        "title",
		"event_date":   "event_date",
		"is_active":    "is_active",
		"published_at": "published_at",
		"created_at":   "created_at",
		"updated_at":   "updated_at",
	}
)

const (
	excerptLen           = 200
	noticePublishedEmail = "notice_published"
)

type (
	Repository interface {
		CreateContent(ctx context.Context, c Content) (Content, error)
		GetContentByID(ctx context.Context, id string) (Content, error)
		// FilterContents applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Content.Title or Content.Summary.
		FilterContents(ctx context.Context, filter QueryFilter) ([]Content, error)
		UpdateContent(ctx context.Context, c Content) (Content, error)
	}

	Service struct {
		repo     Repository
		mailSvc  core.EmailService
		conf     *core.Config
		validate *validator.Validate
		logger   core.Logger
		now      func() time.Time
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config, validate *validator.Validate, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		mailSvc:  mailSvc,
		conf:     conf,
		validate: validate,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (svc *Service) Create(ctx context.Context, nc NewContent) (Content, error) {
	if err := nc.Validate(svc.validate, svc.conf); err != nil {
		return Content{}, err
	}

	now := svc.now()
	c := Content{
		ID:        uuid.New().String(),
		Kind:      Kind(nc.Kind),
		Title:     nc.Title,
		Summary:   nc.Summary,
		Body:      richtext.Normalize(nc.Body),
		Link:      nc.Link,
		EventDate: utcPtr(nc.EventDate),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if nc.IsActive != nil {
		c.IsActive = *nc.IsActive
	}
	if c.Summary == "" {
		c.Summary = richtext.Excerpt(c.Document(), excerptLen)
	}
	publish := svc.publish(&c)

	c, err := svc.repo.CreateContent(ctx, c)
	if err != nil {
		return Content{}, errors.Wrap(err, "creating content")
	}
	if publish {
		svc.notify(c)
	}
	return c, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Content, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Content{}, ErrNotFound
	}
	return svc.repo.GetContentByID(ctx, id)
}

// Query returns the contents matching filter, ordered by filter.Orderings (oldest first by default).
func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Content, error) {
	filter.Kind = core.CleanString(filter.Kind, true /* lower */)
	filter.Search = core.CleanString(filter.Search)
	if filter.Kind != "" && !Kind(filter.Kind).IsValid() {
		return nil, core.NewFieldValidationError("kind", ErrInvalidKind)
	}

	orderings := make([]core.DBOrdering, 0, len(filter.Orderings))
	for _, ord := range filter.Orderings {
		col, ok := orderingFields[ord.Field]
		if !ok {
			return nil, core.NewFieldValidationError("ordering", ErrInvalidOrder)
		}
		orderings = append(orderings, core.DBOrdering{Field: col, Ascending: ord.Ascending})
	}
	if len(orderings) == 0 {
		orderings = []core.DBOrdering{{Field: "created_at", Ascending: true}}
	}
	filter.Orderings = orderings
	return svc.repo.FilterContents(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateContent) (Content, error) {
	c, err := svc.GetByID(ctx, id)
	if err != nil {
		return Content{}, err
	}
	if err = uc.Validate(c, svc.validate, svc.conf); err != nil {
		return Content{}, err
	}

	c.Title = uc.Title
	if uc.Summary != nil {
		c.Summary = *uc.Summary
	}
	if uc.Body != nil {
		c.Body = richtext.Normalize(*uc.Body)
	}
	if uc.Link != nil {
		c.Link = *uc.Link
	}
	if uc.EventDate != nil {
		c.EventDate = utcPtr(uc.EventDate)
	}
	if uc.IsActive != nil {
		c.IsActive = *uc.IsActive
	}
	if c.Summary == "" {
		c.Summary = richtext.Excerpt(c.Document(), excerptLen)
	}
	return svc.save(ctx, c)
}

// ToggleStatus flips the active flag of a content; records are never deleted.
func (svc *Service) ToggleStatus(ctx context.Context, id string) (Content, error) {
	c, err := svc.GetByID(ctx, id)
	if err != nil {
		return Content{}, err
	}
	c.IsActive = !c.IsActive
	return svc.save(ctx, c)
}

// Render returns the sanitized display rendition of a content.
func (svc *Service) Render(ctx context.Context, id string) (Display, error) {
	c, err := svc.GetByID(ctx, id)
	if err != nil {
		return Display{}, err
	}
	doc := c.Document()
	return Display{
		Content: c,
		HTML:    richtext.Sanitize(richtext.Render(doc)),
		Text:    richtext.PlainText(doc),
		Excerpt: richtext.Excerpt(doc, excerptLen),
	}, nil
}

// NormalizeAll re-canonicalizes every stored body and returns the ones that changed.
// With dryRun, nothing is written.
func (svc *Service) NormalizeAll(ctx context.Context, dryRun bool) ([]BodyChange, error) {
	contents, err := svc.repo.FilterContents(ctx, QueryFilter{Orderings: []core.DBOrdering{{Field: "created_at", Ascending: true}}})
	if err != nil {
		return nil, errors.Wrap(err, "querying contents")
	}

	changes := make([]BodyChange, 0)
	for _, c := range contents {
		canonical := richtext.Normalize(c.Body)
		if canonical == c.Body {
			continue
		}
		changes = append(changes, BodyChange{ID: c.ID, Title: c.Title, Before: c.Body, After: canonical})
		if dryRun {
			continue
		}
		c.Body = canonical
		c.UpdatedAt = svc.now()
		if _, err = svc.repo.UpdateContent(ctx, c); err != nil {
			return changes, errors.Wrapf(err, "updating content %s", c.ID)
		}
	}
	return changes, nil
}

func (svc *Service) save(ctx context.Context, c Content) (Content, error) {
	c.UpdatedAt = svc.now()
	publish := svc.publish(&c)

	c, err := svc.repo.UpdateContent(ctx, c)
	if err != nil {
		return Content{}, errors.Wrap(err, "updating content")
	}
	if publish {
		svc.notify(c)
	}
	return c, nil
}

// publish stamps the first activation of a notice and reports whether it just happened.
func (svc *Service) publish(c *Content) bool {
	if c.Kind != KindNotice || !c.IsActive || c.PublishedAt != nil {
		return false
	}
	now := svc.now()
	c.PublishedAt = &now
	return true
}

type noticeEmailData struct {
	Title string
	Text  string
	Body  template.HTML
	Link  string
}

func (svc *Service) notify(c Content) {
	recipients := svc.conf.NotifyAddresses()
	if len(recipients) == 0 || svc.mailSvc == nil {
		return
	}
	doc := c.Document()
	body := richtext.SanitizeToHTML(richtext.Render(doc))
	msg := &core.EmailMessage{
		To:           recipients,
		Subject:      "New notice: " + c.Title,
		TemplateName: noticePublishedEmail,
		TemplateData: noticeEmailData{
			Title: c.Title,
			Text:  strings.TrimSpace(richtext.PlainText(doc)),
			Body:  body,
			Link:  c.Link,
		},
	}

	// printable copy for the notice board
	if body != "" {
		printable := "<html><body><h1>" + template.HTMLEscapeString(c.Title) + "</h1>" + string(body) + "</body></html>"
		if err := msg.Attach(strings.NewReader(printable), "notice.html", "text/html; charset=utf-8"); err != nil {
			svc.logger.Error(fmt.Sprintf("attaching notice %s: %v", c.ID, err), errors.Wrap(err, "attaching notice"))
		}
	}
	svc.mailSvc.SendMessages(msg)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
