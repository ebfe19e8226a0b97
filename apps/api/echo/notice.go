package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/notice"
)

type noticeApi struct {
	svc        *notice.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerNoticeAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := noticeApi{
		svc:        deps.NoticeSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	ng := g.Group("/notices", jwt)
	ng.POST("", api.create, staffMiddleware())
	ng.GET("", api.query)
	ng.PUT("/:id/deactivate", api.deactivate, staffMiddleware())
	ng.DELETE("/:id", api.destroy, staffMiddleware())
}

func (api *noticeApi) create(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	var data notice.NewNotice
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNotice")
	}
	if err = data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	n, err := api.svc.Create(ctx.Request().Context(), p, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, n)
}

// query lists notices; targeting is evaluated against the student's current
// profile on every call, never precomputed.
func (api *noticeApi) query(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	var filter notice.QueryFilter
	if err = ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	notices, err := api.svc.Query(ctx.Request().Context(), p, filter)
	if err != nil {
		return err
	}
	if notices == nil {
		notices = []notice.Notice{}
	}
	return ctx.JSON(http.StatusOK, notices)
}

func (api *noticeApi) deactivate(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	n, err := api.svc.Deactivate(ctx.Request().Context(), p, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, n)
}

func (api *noticeApi) destroy(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), p, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
