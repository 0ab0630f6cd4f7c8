package handler

// Read-only catalog endpoints.  These routes are public and sit behind the
// response cache, so they must not depend on the caller identity.

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/motohunt/motohunt-api/internal/apperror"
	"github.com/motohunt/motohunt-api/internal/model"
	"github.com/motohunt/motohunt-api/internal/repository"
)

// CatalogReader is the subset of the catalog repository the handlers use.
type CatalogReader interface {
	ListBrands(ctx context.Context) ([]model.Brand, error)
	ListBikes(ctx context.Context, f model.BikeFilter) ([]model.Bike, error)
	ListTrending(ctx context.Context) ([]model.Bike, error)
	GetBike(ctx context.Context, id int64) (model.Bike, error)
}

// DealerLister lists showrooms.
type DealerLister interface {
	ListAll(ctx context.Context) ([]model.Dealer, error)
}

// CatalogHandler serves brands, bikes and dealers.
type CatalogHandler struct {
	catalog CatalogReader
	dealers DealerLister
}

func NewCatalogHandler(catalog CatalogReader, dealers DealerLister) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, dealers: dealers}
}

// Brands lists all brands by name.
func (h *CatalogHandler) Brands(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	brands, err := h.catalog.ListBrands(ctx)
	if err != nil {
		return apperror.NewInternal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"brands": brands, "count": len(brands)})
}

// Dealers lists all dealers by city.
func (h *CatalogHandler) Dealers(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	dealers, err := h.dealers.ListAll(ctx)
	if err != nil {
		return apperror.NewInternal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"dealers": dealers, "count": len(dealers)})
}

// Bikes lists bikes matching the query filters.
func (h *CatalogHandler) Bikes(c echo.Context) error {
	f, err := parseBikeFilter(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	bikes, err := h.catalog.ListBikes(ctx, f)
	if err != nil {
		return apperror.NewInternal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bikes": bikes, "count": len(bikes)})
}

// Trending lists bikes flagged as trending.
func (h *CatalogHandler) Trending(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	bikes, err := h.catalog.ListTrending(ctx)
	if err != nil {
		return apperror.NewInternal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bikes": bikes, "count": len(bikes)})
}

// Bike returns a single bike.
func (h *CatalogHandler) Bike(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	bike, err := h.getBike(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"bike": bike})
}

// Compare returns two bikes side by side.  Both id1 and id2 are required.
func (h *CatalogHandler) Compare(c echo.Context) error {
	id1, err := queryID(c, "id1")
	if err != nil {
		return err
	}
	id2, err := queryID(c, "id2")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	bike1, err := h.getBike(ctx, id1)
	if err != nil {
		return err
	}
	bike2, err := h.getBike(ctx, id2)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"bike1": bike1, "bike2": bike2})
}

func (h *CatalogHandler) getBike(ctx context.Context, id int64) (model.Bike, error) {
	bike, err := h.catalog.GetBike(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Bike{}, apperror.NewNotFound("Bike not found")
	}
	if err != nil {
		return model.Bike{}, apperror.NewInternal(err)
	}
	return bike, nil
}

func queryID(c echo.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, apperror.NewValidation("Both id1 and id2 are required")
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, apperror.NewValidation("Invalid " + name)
	}
	return n, nil
}

func parseBikeFilter(c echo.Context) (model.BikeFilter, error) {
	f := model.BikeFilter{
		Brand: strings.TrimSpace(c.QueryParam("brand")),
		Type:  strings.TrimSpace(c.QueryParam("type")),
	}
	var err error
	if f.MinPrice, err = optInt64(c, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = optInt64(c, "maxPrice"); err != nil {
		return f, err
	}
	if f.MinCC, err = optInt(c, "minCC"); err != nil {
		return f, err
	}
	if f.MaxCC, err = optInt(c, "maxCC"); err != nil {
		return f, err
	}
	return f, nil
}

// optInt64 returns nil for an absent or empty parameter.
func optInt64(c echo.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperror.NewValidation(name + " must be a number")
	}
	return &n, nil
}

func optInt(c echo.Context, name string) (*int, error) {
	n, err := optInt64(c, name)
	if n == nil || err != nil {
		return nil, err
	}
	v := int(*n)
	return &v, nil
}
