package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CatalogHTTP struct {
	Svc     *service.CatalogService
	Metrics *metrics.Metrics
}

func (h *CatalogHTTP) written(entity, op string) {
	if h.Metrics != nil {
		h.Metrics.CatalogWrites.WithLabelValues(entity, op).Inc()
	}
}

func (h *CatalogHTTP) AddProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add_product")

	in := service.ProductInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       c.FormValue("price"),
		Category:    c.FormValue("category"),
	}

	if fh, err := c.FormFile("image"); err == nil {
		f, err := fh.Open()
		if err != nil {
			l.Warn("add_product_error", "status", 400, "reason", "cannot open upload", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid image")
		}
		defer f.Close()
		in.Image = &service.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Size:        fh.Size,
			Body:        f,
		}
	}

	prod, err := h.Svc.AddProduct(ctx, in)
	if err != nil {
		var missing *service.MissingFieldsError
		switch {
		case errors.As(err, &missing):
			l.Warn("add_product_error", "status", 400, "reason", "missing fields", "fields", missing.Fields)
			return echo.NewHTTPError(http.StatusBadRequest, missing.Error())
		case errors.Is(err, service.ErrValidation):
			l.Warn("add_product_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add product")
	}

	h.written("product", "create")
	l.Info("add_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product added successfully"})
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list_products")

	items, err := h.Svc.ListProducts(ctx)
	if err != nil {
		l.Error("list_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search_products")

	items, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
		case errors.Is(err, search.ErrDisabled):
			l.Warn("search_error", "status", 503, "reason", "search is disabled")
			return echo.NewHTTPError(http.StatusServiceUnavailable, "search is disabled")
		}
		l.Error("search_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list_categories")

	items, err := h.Svc.ListCategories(ctx)
	if err != nil {
		l.Error("list_categories_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list categories")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) AddCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add_category")

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_category_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Svc.AddCategory(ctx, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "Missing category name")
		case errors.Is(err, service.ErrConflict):
			l.Warn("add_category_error", "status", 400, "reason", "category already exists", "name", req.Name)
			return echo.NewHTTPError(http.StatusBadRequest, "Category already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add category")
	}

	h.written("category", "create")
	l.Info("add_category_success", "category_id", cat.ID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Category added successfully"})
}

// DeleteCategory answers 404 for ids that are not unsigned integers, the
// way an int-typed route would.
func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete_category")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		l.Warn("delete_category_error", "status", 404, "reason", "id is not an integer", "id", c.Param("id"))
		return echo.ErrNotFound
	}

	if err := h.Svc.DeleteCategory(ctx, uint(id)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete category")
	}

	h.written("category", "delete")
	l.Info("delete_category_success", "category_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Category deleted"})
}
