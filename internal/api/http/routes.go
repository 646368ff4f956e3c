package httpapi

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/nievasdev/brazilgas/internal/export"
	"github.com/nievasdev/brazilgas/internal/fuel"
	"github.com/nievasdev/brazilgas/internal/logger"
	"github.com/nievasdev/brazilgas/internal/store"
)

const (
	defaultRecordsLimit = 100
	maxRecordsLimit     = 1000
)

type handler struct {
	service  *fuel.Service
	validate *validator.Validate
	log      *logger.Entry
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *fuel.Service, log *logger.Log) {
	h := &handler{
		service:  service,
		validate: newValidator(service.Catalog()),
		log:      log.WithComponent("api"),
	}

	v1 := app.Group("/api/v1")

	v1.Get("/catalog", h.catalog)
	v1.Get("/dataset", h.dataset)
	v1.Post("/dataset/refresh", h.refresh)
	v1.Get("/records", h.records)
	v1.Get("/states", h.states)
	v1.Get("/monthly", h.monthly)
	v1.Get("/stats", h.stats)
	v1.Get("/dashboard", h.dashboard)
	v1.Get("/geo/states", h.geoStates)
	v1.Get("/export/states", h.exportStates)
	v1.Get("/export/monthly", h.exportMonthly)
}

// newValidator registers the "product" and "region" tags against the catalog.
// The "all" sentinel passes both.
func newValidator(cat *fuel.Catalog) *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("product", func(fl validator.FieldLevel) bool {
		p := fuel.Product(fl.Field().String())
		return p == fuel.All || cat.IsProduct(p)
	})
	_ = v.RegisterValidation("region", func(fl validator.FieldLevel) bool {
		r := fuel.Region(fl.Field().String())
		return r == fuel.All || cat.IsRegion(r)
	})
	return v
}

// viewQuery holds the filter query parameters shared by the views.
type viewQuery struct {
	Product string `validate:"omitempty,product"`
	Region  string `validate:"omitempty,region"`
	Format  string `validate:"omitempty,oneof=csv parquet"`
}

func (h *handler) parseView(c *fiber.Ctx) (viewQuery, error) {
	q := viewQuery{
		Product: c.Query("product"),
		Region:  c.Query("region"),
		Format:  c.Query("format"),
	}
	if err := h.validate.Struct(q); err != nil {
		return q, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return q, nil
}

func (q viewQuery) filter() fuel.Filter {
	return fuel.Filter{Product: fuel.Product(q.Product), Region: fuel.Region(q.Region)}
}

// recordsQuery adds pagination to the view filter.
type recordsQuery struct {
	viewQuery
	Limit  int `validate:"min=1,max=1000"`
	Offset int `validate:"min=0"`
}

// serviceError maps domain errors onto HTTP statuses.
func (h *handler) serviceError(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusServiceUnavailable, "dataset not loaded yet")
	}
	h.log.WithError(err).Error(msg)
	return fiber.NewError(fiber.StatusInternalServerError, msg)
}

func (h *handler) catalog(c *fiber.Ctx) error {
	cat := h.service.Catalog()

	type productInfo struct {
		Name  fuel.Product `json:"name"`
		Color string       `json:"color"`
	}
	type stateInfo struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}

	products := make([]productInfo, 0, len(cat.Products()))
	for _, p := range cat.Products() {
		products = append(products, productInfo{Name: p, Color: cat.Color(p)})
	}
	states := make([]stateInfo, 0, len(cat.States()))
	for name, code := range cat.States() {
		states = append(states, stateInfo{Name: name, Code: code})
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Code < states[j].Code })

	return c.JSON(fiber.Map{
		"products": products,
		"regions":  cat.Regions(),
		"states":   states,
	})
}

func (h *handler) dataset(c *fiber.Ctx) error {
	ds, err := h.service.Dataset()
	if err != nil {
		return h.serviceError(err, "failed to read dataset")
	}

	resp := fiber.Map{
		"dataset": ds,
		"history": h.service.History(),
	}
	if from, to, ok := fuel.DateRange(ds.Records); ok {
		resp["dateRange"] = fiber.Map{"from": from, "to": to}
	}
	return c.JSON(resp)
}

func (h *handler) refresh(c *fiber.Ctx) error {
	summary, err := h.service.Refresh(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("dataset reload failed: %v", err))
	}
	return c.JSON(summary)
}

// queryInt reads an integer query parameter, falling back to def only when
// the parameter is absent.
func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s must be an integer, got %q", key, raw))
	}
	return n, nil
}

func (h *handler) records(c *fiber.Ctx) error {
	view, err := h.parseView(c)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", defaultRecordsLimit)
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return err
	}
	q := recordsQuery{viewQuery: view, Limit: limit, Offset: offset}
	if err := h.validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	records, err := h.service.Records(q.filter())
	if err != nil {
		return h.serviceError(err, "failed to filter records")
	}

	total := len(records)
	start := min(q.Offset, total)
	end := min(start+q.Limit, total)

	return c.JSON(fiber.Map{
		"filter":  q.filter(),
		"total":   total,
		"limit":   q.Limit,
		"offset":  q.Offset,
		"records": records[start:end],
	})
}

func (h *handler) states(c *fiber.Ctx) error {
	q, err := h.parseView(c)
	if err != nil {
		return err
	}
	states, err := h.service.StateView(q.filter())
	if err != nil {
		return h.serviceError(err, "failed to aggregate states")
	}
	return c.JSON(fiber.Map{"filter": q.filter(), "states": states})
}

func (h *handler) monthly(c *fiber.Ctx) error {
	q, err := h.parseView(c)
	if err != nil {
		return err
	}
	points, err := h.service.MonthlyView(fuel.Region(q.Region))
	if err != nil {
		return h.serviceError(err, "failed to aggregate months")
	}
	return c.JSON(fiber.Map{"region": q.filter().Region, "monthly": points})
}

func (h *handler) stats(c *fiber.Ctx) error {
	q, err := h.parseView(c)
	if err != nil {
		return err
	}
	stats, err := h.service.Summary(q.filter())
	if err != nil {
		return h.serviceError(err, "failed to compute stats")
	}
	return c.JSON(fiber.Map{"filter": q.filter(), "stats": stats})
}

func (h *handler) dashboard(c *fiber.Ctx) error {
	q, err := h.parseView(c)
	if err != nil {
		return err
	}
	dash, err := h.service.Dashboard(c.UserContext(), q.filter())
	if err != nil {
		return h.serviceError(err, "failed to build dashboard")
	}
	return c.JSON(dash)
}

func (h *handler) geoStates(c *fiber.Ctx) error {
	boundaries, err := h.service.Boundaries(c.UserContext())
	if err != nil {
		h.log.WithError(err).Warn("boundary fetch failed")
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch state boundaries")
	}

	unmapped := 0
	for _, b := range boundaries {
		if !b.Mapped {
			unmapped++
		}
	}
	return c.JSON(fiber.Map{"features": boundaries, "unmapped": unmapped})
}

func (h *handler) exportStates(c *fiber.Ctx) error {
	q, err := h.parseView(c)
	if err != nil {
		return err
	}
	format, _ := export.ParseFormat(q.Format)

	states, err := h.service.StateView(q.filter())
	if err != nil {
		return h.serviceError(err, "failed to aggregate states")
	}
	data, err := export.EncodeStates(states, format)
	if err != nil {
		return h.serviceError(err, "failed to encode states")
	}
	return sendExport(c, "states", format, data)
}

func (h *handler) exportMonthly(c *fiber.Ctx) error {
	q, err := h.parseView(c)
	if err != nil {
		return err
	}
	format, _ := export.ParseFormat(q.Format)

	points, err := h.service.MonthlyView(fuel.Region(q.Region))
	if err != nil {
		return h.serviceError(err, "failed to aggregate months")
	}
	data, err := export.EncodeMonthly(points, h.service.Catalog().Products(), format)
	if err != nil {
		return h.serviceError(err, "failed to encode monthly series")
	}
	return sendExport(c, "monthly", format, data)
}

func sendExport(c *fiber.Ctx, view string, f export.Format, data []byte) error {
	c.Attachment(fmt.Sprintf("%s.%s", view, f.Extension()))
	c.Set(fiber.HeaderContentType, f.ContentType())
	return c.Send(data)
}
