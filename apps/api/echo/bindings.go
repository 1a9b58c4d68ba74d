package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/kalamu/core"
	"github.com/trezcool/kalamu/core/content"
)

const (
	orderingParam = "ordering"
	isActiveParam = "is_active"
)

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// bindContentFilter reads ?kind=&search=&is_active=&ordering= into a content.QueryFilter.
func bindContentFilter(ctx echo.Context) (content.QueryFilter, error) {
	filter := content.QueryFilter{
		Kind:   ctx.QueryParam("kind"),
		Search: ctx.QueryParam("search"),
	}

	if v := ctx.QueryParam(isActiveParam); v != "" {
		isActive, err := strconv.ParseBool(v)
		if err != nil {
			return filter, core.NewValidationError(err, core.FieldError{Field: isActiveParam, Error: "must be a boolean"})
		}
		filter.IsActive = &isActive
	}

	var ord Ordering
	ord.Bind(ctx)
	filter.Orderings = ord.Orderings
	return filter, nil
}
