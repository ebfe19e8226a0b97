package echoapi

import (
	"net/http"
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/marks"
)

type marksApi struct {
	svc        *marks.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerMarksAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := marksApi{
		svc:        deps.MarksSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	mg := g.Group("/marks", jwt)
	mg.POST("", api.upsert, staffMiddleware())
	mg.GET("", api.query)
	mg.GET("/gpa", api.gpa)
	mg.POST("/:id/publish", api.publish, staffMiddleware())
	mg.DELETE("/:id", api.destroy, staffMiddleware())
}

// upsert submits marks; a resubmission of the same exam tuple updates the
// existing row, and the student's cumulative GPA is recomputed before the
// response is sent.
func (api *marksApi) upsert(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	var data marks.NewRecord
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err = data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	rec, err := api.svc.Upsert(ctx.Request().Context(), p, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *marksApi) query(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	var filter marks.QueryFilter
	if err = ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	recs, err := api.svc.Filter(ctx.Request().Context(), p, filter)
	if err != nil {
		return err
	}
	if recs == nil {
		recs = []marks.Record{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *marksApi) gpa(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	var semester int
	if v := ctx.QueryParam("semester"); v != "" {
		if semester, err = strconv.Atoi(v); err != nil {
			return core.NewValidationError(nil,
				core.FieldError{Field: "semester", Error: "must be an integer"})
		}
	}

	report, err := api.svc.GPA(
		ctx.Request().Context(), p,
		ctx.QueryParam("student_id"), semester, ctx.QueryParam("academic_year"),
	)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, report)
}

func (api *marksApi) publish(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	rec, err := api.svc.Publish(ctx.Request().Context(), p, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *marksApi) destroy(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), p, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
