package inmemdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/trezcool/kalamu/core"
	"github.com/trezcool/kalamu/core/content"
)

type contentRepository struct {
	db *contentTable
}

var _ content.Repository = (*contentRepository)(nil)

func NewContentRepository(db *DB) content.Repository {
	return &contentRepository{db: db.content}
}

func (repo *contentRepository) query() []content.Content {
	contents := make([]content.Content, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		contents = append(contents, *c)
	}
	return contents
}

func (repo *contentRepository) CreateContent(_ context.Context, c content.Content) (content.Content, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *contentRepository) GetContentByID(_ context.Context, id string) (content.Content, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return content.Content{}, content.ErrNotFound
}

func (repo *contentRepository) FilterContents(_ context.Context, filter content.QueryFilter) ([]content.Content, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	search := strings.ToLower(filter.Search)
	contents := make([]content.Content, 0)
	for _, c := range repo.query() {
		if filter.Kind != "" && string(c.Kind) != filter.Kind {
			continue
		}
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Title), search) &&
			!strings.Contains(strings.ToLower(c.Summary), search) {
			continue
		}
		contents = append(contents, c)
	}

	orderings := filter.Orderings
	if len(orderings) == 0 {
		orderings = []core.DBOrdering{{Field: "created_at", Ascending: true}}
	}
	sort.SliceStable(contents, func(i, j int) bool {
		return less(contents[i], contents[j], orderings)
	})
	return contents, nil
}

func (repo *contentRepository) UpdateContent(_ context.Context, c content.Content) (content.Content, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[c.ID]; !ok {
		return content.Content{}, content.ErrNotFound
	}
	repo.db.table[c.ID] = &c
	return c, nil
}

// less compares a and b by each ordering in turn, the ID breaking ties.
func less(a, b content.Content, orderings []core.DBOrdering) bool {
	for _, ord := range orderings {
		cmp := compareField(a, b, ord.Field)
		if cmp == 0 {
			continue
		}
		if ord.Ascending {
			return cmp < 0
		}
		return cmp > 0
	}
	return a.ID < b.ID
}

func compareField(a, b content.Content, field string) int {
	switch field {
	case "kind":
		return strings.Compare(string(a.Kind), string(b.Kind))
	case "title":
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case "is_active":
		return compareBool(a.IsActive, b.IsActive)
	case "event_date":
		return compareTimePtr(a.EventDate, b.EventDate)
	case "published_at":
		return compareTimePtr(a.PublishedAt, b.PublishedAt)
	case "created_at":
		return compareTime(a.CreatedAt, b.CreatedAt)
	case "updated_at":
		return compareTime(a.UpdatedAt, b.UpdatedAt)
	}
	return 0
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

// nil sorts first
func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return compareTime(*a, *b)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
