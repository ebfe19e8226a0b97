package echoapi

import (
	"net/http"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/attendance"
)

type attendanceApi struct {
	svc        *attendance.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := attendanceApi{
		svc:        deps.AttendanceSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	ag := g.Group("/attendance", jwt)
	ag.POST("", api.create, staffMiddleware())
	ag.GET("", api.query)
	ag.GET("/summary", api.summary)
	ag.PUT("/:id", api.update, staffMiddleware())
	ag.DELETE("/:id", api.destroy, staffMiddleware())
}

func (api *attendanceApi) create(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	var data attendance.NewRecord
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err = data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	rec, err := api.svc.Create(ctx.Request().Context(), p, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	filter, err := bindAttendanceFilter(ctx)
	if err != nil {
		return err
	}

	recs, err := api.svc.Filter(ctx.Request().Context(), p, filter)
	if err != nil {
		return err
	}
	if recs == nil {
		recs = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

// summary recomputes the attendance percentage from the matching rows on
// every call; a correction is reflected on the next read.
func (api *attendanceApi) summary(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	filter, err := bindAttendanceFilter(ctx)
	if err != nil {
		return err
	}

	sum, err := api.svc.Summarize(ctx.Request().Context(), p, filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *attendanceApi) update(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	var data struct {
		Status attendance.Status `json:"status"`
	}
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding status")
	}

	rec, err := api.svc.Update(ctx.Request().Context(), p, ctx.Param("id"), data.Status)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), p, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func bindAttendanceFilter(ctx echo.Context) (attendance.QueryFilter, error) {
	var filter attendance.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return attendance.QueryFilter{}, errors.Wrap(err, "binding to QueryFilter")
	}
	if v := ctx.QueryParam("date_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return attendance.QueryFilter{}, core.NewValidationError(nil,
				core.FieldError{Field: "date_from", Error: "must be a date in YYYY-MM-DD format"})
		}
		filter.DateFrom = t
	}
	if v := ctx.QueryParam("date_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return attendance.QueryFilter{}, core.NewValidationError(nil,
				core.FieldError{Field: "date_to", Error: "must be a date in YYYY-MM-DD format"})
		}
		filter.DateTo = t
	}
	return filter, nil
}
