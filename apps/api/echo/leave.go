package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/leave"
)

type leaveApi struct {
	svc        *leave.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerLeaveAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := leaveApi{
		svc:        deps.LeaveSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	lg := g.Group("/leave", jwt)
	lg.POST("", api.apply, roleMiddleware(core.RoleStudent))
	lg.GET("", api.query)
	lg.GET("/:id", api.retrieve)
	lg.PUT("/:id/review", api.review, staffMiddleware())
	lg.PUT("/:id/cancel", api.cancel, roleMiddleware(core.RoleStudent))
}

func (api *leaveApi) apply(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	var data leave.NewApplication
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewApplication")
	}
	if err = data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	app, err := api.svc.Apply(ctx.Request().Context(), p, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, app)
}

func (api *leaveApi) query(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	var filter leave.QueryFilter
	if err = ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	apps, err := api.svc.Filter(ctx.Request().Context(), p, filter)
	if err != nil {
		return err
	}
	if apps == nil {
		apps = []leave.Application{}
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *leaveApi) retrieve(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	app, err := api.svc.Get(ctx.Request().Context(), p, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, app)
}

// review decides a pending application; approved and rejected are terminal.
func (api *leaveApi) review(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	var data leave.Review
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Review")
	}
	if err = data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	app, err := api.svc.Decide(ctx.Request().Context(), p, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *leaveApi) cancel(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	app, err := api.svc.Cancel(ctx.Request().Context(), p, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, app)
}
