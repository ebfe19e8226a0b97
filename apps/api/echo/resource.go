package echoapi

import (
	"encoding/json"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/resource"
)

type resourceApi struct {
	svc        *resource.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerResourceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := resourceApi{
		svc:        deps.ResourceSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	rg := g.Group("/resources", jwt)
	rg.POST("", api.create, staffMiddleware())
	rg.GET("", api.query)
	rg.GET("/:id/download", api.download)
	rg.DELETE("/:id", api.destroy, staffMiddleware())
}

// create accepts a multipart form: a "meta" field holding the JSON metadata
// and a "file" field holding the content. File name and content type default
// to what the upload carries.
func (api *resourceApi) create(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	var data resource.NewResource
	if meta := ctx.FormValue("meta"); meta != "" {
		if err = json.Unmarshal([]byte(meta), &data); err != nil {
			return core.NewValidationError(nil,
				core.FieldError{Field: "meta", Error: "invalid JSON"})
		}
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil,
			core.FieldError{Field: "file", Error: "this field is required"})
	}
	if data.FileName == "" {
		data.FileName = fh.Filename
	}
	if data.ContentType == "" {
		data.ContentType = fh.Header.Get(echo.HeaderContentType)
	}
	if err = data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = f.Close() }()

	r, err := api.svc.Create(ctx.Request().Context(), p, data, f)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *resourceApi) query(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	var filter resource.QueryFilter
	if err = ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	resources, err := api.svc.Query(ctx.Request().Context(), p, filter)
	if err != nil {
		return err
	}
	if resources == nil {
		resources = []resource.Resource{}
	}
	return ctx.JSON(http.StatusOK, resources)
}

// download gates on visibility, then streams the stored file.
func (api *resourceApi) download(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}

	r, rc, err := api.svc.Download(ctx.Request().Context(), p, ctx.Param("id"))
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+r.FileName+`"`)
	return ctx.Stream(http.StatusOK, r.ContentType, rc)
}

func (api *resourceApi) destroy(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), p, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
