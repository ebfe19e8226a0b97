package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/faculty"
)

type facultyApi struct {
	svc        *faculty.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerFacultyAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := facultyApi{
		svc:        deps.FacultySvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	// the assignment registry is admin-only; faculty see the effect of their
	// roster through the scoped record endpoints
	fg := g.Group("/faculty", jwt, adminMiddleware())
	fg.GET("", api.query)
	fg.GET("/:id", api.retrieve)
	fg.PUT("/:id", api.update)
	fg.GET("/:id/students", api.assignedStudents)
	fg.POST("/:id/students/:studentID", api.assign)
	fg.DELETE("/:id/students/:studentID", api.unassign)
}

func (api *facultyApi) query(ctx echo.Context) error {
	profs, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying faculty profiles")
	}
	if profs == nil {
		profs = []faculty.Profile{}
	}
	return ctx.JSON(http.StatusOK, profs)
}

func (api *facultyApi) retrieve(ctx echo.Context) error {
	prof, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prof)
}

func (api *facultyApi) update(ctx echo.Context) error {
	var data faculty.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	prof, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prof)
}

func (api *facultyApi) assignedStudents(ctx echo.Context) error {
	ids, err := api.svc.AssignedStudentIDs(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing assigned students")
	}
	if ids == nil {
		ids = []string{}
	}
	return ctx.JSON(http.StatusOK, ids)
}

func (api *facultyApi) assign(ctx echo.Context) error {
	rctx := ctx.Request().Context()

	// fail loud on a bogus id rather than registering a dangling pair
	if _, err := api.svc.GetByID(rctx, ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.Assign(rctx, ctx.Param("id"), ctx.Param("studentID")); err != nil {
		return errors.Wrap(err, "assigning student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *facultyApi) unassign(ctx echo.Context) error {
	if err := api.svc.Unassign(ctx.Request().Context(), ctx.Param("id"), ctx.Param("studentID")); err != nil {
		return errors.Wrap(err, "unassigning student")
	}
	return ctx.NoContent(http.StatusNoContent)
}
