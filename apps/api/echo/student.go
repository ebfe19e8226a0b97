package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/scope"
	"github.com/trezcool/chuo/core/student"
)

type studentApi struct {
	svc        *student.Service
	resolver   *scope.Resolver
	validate   *validator.Validate
	translator ut.Translator
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := studentApi{
		svc:        deps.StudentSvc,
		resolver:   deps.Resolver,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	sg := g.Group("/students", jwt)
	sg.GET("", api.query)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
}

// query lists the roster within the caller's scope: students see themselves,
// faculty their assigned students, admin everyone.
func (api *studentApi) query(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	var filter student.QueryFilter
	if err = ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	rctx := ctx.Request().Context()
	if filter.Scope, err = api.resolver.Resolve(rctx, p, ""); err != nil {
		return err
	}

	profs, err := api.svc.Filter(rctx, filter)
	if err != nil {
		return errors.Wrap(err, "filtering student profiles")
	}
	if profs == nil {
		profs = []student.Profile{}
	}
	return ctx.JSON(http.StatusOK, profs)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	sf, err := api.resolver.Resolve(rctx, p, "")
	if err != nil {
		return err
	}

	prof, err := api.svc.Get(rctx, sf, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prof)
}

// update modifies academic fields; the owning student or an admin only.
// Faculty may read their roster but never edit a profile.
func (api *studentApi) update(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	if p.IsFaculty() {
		return errHttpForbidden
	}

	var data student.UpdateProfile
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err = data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	sf, err := api.resolver.Resolve(rctx, p, "")
	if err != nil {
		return err
	}

	prof, err := api.svc.Update(rctx, sf, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prof)
}
