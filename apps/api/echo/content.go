package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kalamu/core/content"
)

type contentApi struct {
	svc *content.Service
}

func registerContentAPI(g *echo.Group, svc *content.Service) {
	api := contentApi{svc: svc}

	cg := g.Group("/contents")
	cg.GET("", api.query)
	cg.POST("", api.create)

	// detail endpoints
	dg := cg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.PATCH("/status", api.toggleStatus)
	dg.GET("/render", api.render)
}

// Handlers

func (api *contentApi) create(ctx echo.Context) error {
	var data content.NewContent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewContent")
	}

	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating content")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *contentApi) query(ctx echo.Context) error {
	filter, err := bindContentFilter(ctx)
	if err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	contents, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying contents")
	}
	return ctx.JSON(http.StatusOK, contents)
}

func (api *contentApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting content")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *contentApi) update(ctx echo.Context) error {
	var data content.UpdateContent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateContent")
	}

	c, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating content")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *contentApi) toggleStatus(ctx echo.Context) error {
	c, err := api.svc.ToggleStatus(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "toggling content status")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *contentApi) render(ctx echo.Context) error {
	d, err := api.svc.Render(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "rendering content")
	}
	return ctx.JSON(http.StatusOK, d)
}
