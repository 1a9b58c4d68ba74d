package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/kalamu/core"
	"github.com/trezcool/kalamu/core/content"
)

const contentColumns = "id, kind, title, summary, body, link, event_date, is_active, published_at, created_at, updated_at"

var defaultOrderings = []core.DBOrdering{{Field: "created_at", Ascending: true}}

type contentRow struct {
	ID          string    `db:"id"`
	Kind        string    `db:"kind"`
	Title       string    `db:"title"`
	Summary     string    `db:"summary"`
	Body        string    `db:"body"`
	Link        string    `db:"link"`
	EventDate   null.Time `db:"event_date"`
	IsActive    bool      `db:"is_active"`
	PublishedAt null.Time `db:"published_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func newContentRow(c content.Content) contentRow {
	return contentRow{
		ID:          c.ID,
		Kind:        string(c.Kind),
		Title:       c.Title,
		Summary:     c.Summary,
		Body:        c.Body,
		Link:        c.Link,
		EventDate:   null.TimeFromPtr(c.EventDate),
		IsActive:    c.IsActive,
		PublishedAt: null.TimeFromPtr(c.PublishedAt),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (row contentRow) toContent() content.Content {
	return content.Content{
		ID:          row.ID,
		Kind:        content.Kind(row.Kind),
		Title:       row.Title,
		Summary:     row.Summary,
		Body:        row.Body,
		Link:        row.Link,
		EventDate:   utcPtr(row.EventDate.Ptr()),
		IsActive:    row.IsActive,
		PublishedAt: utcPtr(row.PublishedAt.Ptr()),
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

type contentRepository struct {
	db *sqlx.DB
}

var _ content.Repository = (*contentRepository)(nil)

func NewContentRepository(db *sqlx.DB) content.Repository {
	return &contentRepository{db: db}
}

func (repo contentRepository) CreateContent(ctx context.Context, c content.Content) (content.Content, error) {
	q := `INSERT INTO content (` + contentColumns + `)
		VALUES (:id, :kind, :title, :summary, :body, :link, :event_date, :is_active, :published_at, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, newContentRow(c)); err != nil {
		return content.Content{}, errors.Wrap(err, "inserting content")
	}
	return repo.GetContentByID(ctx, c.ID)
}

func (repo contentRepository) GetContentByID(ctx context.Context, id string) (content.Content, error) {
	var row contentRow
	q := repo.db.Rebind(`SELECT ` + contentColumns + ` FROM content WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return content.Content{}, content.ErrNotFound
		}
		return content.Content{}, errors.Wrap(err, "selecting content")
	}
	return row.toContent(), nil
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (repo contentRepository) FilterContents(ctx context.Context, filter content.QueryFilter) ([]content.Content, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.IsActive != nil {
		where = append(where, "is_active = ?")
		args = append(args, *filter.IsActive)
	}
	if filter.Search != "" {
		where = append(where, `(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(summary) LIKE ? ESCAPE '\')`)
		pattern := "%" + likeEscaper.Replace(strings.ToLower(filter.Search)) + "%"
		args = append(args, pattern, pattern)
	}

	q := new(strings.Builder)
	q.WriteString("SELECT " + contentColumns + " FROM content")
	if len(where) > 0 {
		q.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	orderings := filter.Orderings
	if len(orderings) == 0 {
		orderings = defaultOrderings
	}
	orderBy := make([]string, 0, len(orderings)+1)
	for _, ord := range orderings {
		orderBy = append(orderBy, ord.String())
	}
	orderBy = append(orderBy, "id ASC")
	q.WriteString(" ORDER BY " + strings.Join(orderBy, ", "))

	rows := make([]contentRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q.String()), args...); err != nil {
		return nil, errors.Wrap(err, "selecting contents")
	}

	contents := make([]content.Content, 0, len(rows))
	for _, row := range rows {
		contents = append(contents, row.toContent())
	}
	return contents, nil
}

func (repo contentRepository) UpdateContent(ctx context.Context, c content.Content) (content.Content, error) {
	q := `UPDATE content SET
		title = :title, summary = :summary, body = :body, link = :link, event_date = :event_date,
		is_active = :is_active, published_at = :published_at, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, newContentRow(c))
	if err != nil {
		return content.Content{}, errors.Wrap(err, "updating content")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return content.Content{}, content.ErrNotFound
	}
	return repo.GetContentByID(ctx, c.ID)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
