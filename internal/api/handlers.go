package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"slaanalyzer/internal/engine"
	"slaanalyzer/internal/models"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	registry     *Registry
	previewLimit int
	opts         []engine.Option
}

// NewHandler serves uploads kept in registry. opts are passed to every metric
// computation (clock, time zone).
func NewHandler(registry *Registry, previewLimit int, opts ...engine.Option) *Handler {
	return &Handler{registry: registry, previewLimit: previewLimit, opts: opts}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/reports", h.ListReportKinds)
	api.POST("/reports/:kind/uploads", h.UploadReport)
	api.GET("/reports/:kind/uploads/:id", h.GetDashboard)
	api.DELETE("/reports/:kind/uploads/:id", h.DeleteUpload)
}

// --- HANDLERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *Handler) ListReportKinds(c echo.Context) error {
	out := make([]models.ReportKind, 0, len(engine.Kinds()))
	for _, k := range engine.Kinds() {
		out = append(out, models.ReportKind{
			Kind:              string(k),
			Title:             k.Title(),
			RequiredColumns:   k.RequiredColumns(),
			FilterableColumns: k.FilterableColumns(),
		})
	}
	return c.JSON(http.StatusOK, out)
}

// UploadReport loads the multipart "file", validates it for the report kind
// and registers it. The response carries the unfiltered dashboard unless
// filters are given in the query.
func (h *Handler) UploadReport(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart field \"file\" is required")
	}
	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file").SetInternal(err)
	}
	defer src.Close()

	ds, err := engine.Load(src, fh.Filename)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}

	v, err := engine.Validate(ds, kind)
	if err != nil {
		return validationError(c, err)
	}

	u := h.registry.Add(fh.Filename, v)
	log.Printf("[API] %s upload %s registered (%s, %d rows)", kind.Title(), u.ID, fh.Filename, v.Len())

	return c.JSON(http.StatusOK, models.Upload{
		ID:         u.ID,
		Filename:   u.Filename,
		UploadedAt: u.UploadedAt.Format(time.RFC3339),
		Dashboard:  h.dashboard(c, u),
	})
}

// GetDashboard re-runs filters and metrics over a registered upload. Query
// parameters named after filterable columns select values; "all" or absent
// means no filter.
func (h *Handler) GetDashboard(c echo.Context) error {
	u, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.dashboard(c, u))
}

func (h *Handler) DeleteUpload(c echo.Context) error {
	u, err := h.lookup(c)
	if err != nil {
		return err
	}
	h.registry.Remove(u.ID)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) lookup(c echo.Context) (*Upload, error) {
	kind, err := kindParam(c)
	if err != nil {
		return nil, err
	}
	u, ok := h.registry.Get(c.Param("id"))
	if !ok || u.Data.Kind != kind {
		return nil, echo.NewHTTPError(http.StatusNotFound, "upload not found")
	}
	return u, nil
}

func (h *Handler) dashboard(c echo.Context, u *Upload) *models.Dashboard {
	sel := make(engine.FilterSelection)
	for _, col := range u.Data.Kind.FilterableColumns() {
		sel[col] = c.QueryParam(col)
	}
	limit, offset := getPaginationParams(c, h.previewLimit)
	return buildDashboard(engine.Summarize(u.Data, sel, h.opts...), limit, offset)
}

func kindParam(c echo.Context) (engine.ReportKind, error) {
	kind, err := engine.ParseReportKind(c.Param("kind"))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return kind, nil
}

func validationError(c echo.Context, err error) error {
	var missing *engine.MissingColumnsError
	if errors.As(err, &missing) {
		return c.JSON(http.StatusUnprocessableEntity, models.Error{
			Message:        err.Error(),
			MissingColumns: missing.Missing,
		})
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
}

func buildDashboard(a *engine.Analysis, limit, offset int) *models.Dashboard {
	d := &models.Dashboard{
		Kind:         string(a.Kind),
		Title:        a.Kind.Title(),
		TotalRows:    a.Source.Len(),
		FilteredRows: a.Filtered.Len(),
		Metrics:      make([]models.Metric, 0, 2),
		Filters:      make([]models.Filter, 0, len(a.Options)),
		Columns:      a.Filtered.Columns,
		Rows:         make([]map[string]any, 0),
		Limit:        limit,
		Offset:       offset,
	}

	for _, def := range a.Kind.Metrics() {
		d.Metrics = append(d.Metrics, models.Metric{Key: def.Key, Label: def.Label, Value: a.Metrics[def.Key]})
	}
	for _, opt := range a.Options {
		d.Filters = append(d.Filters, models.Filter{
			Column:   opt.Column,
			Selected: a.Selection.Value(opt.Column),
			Options:  append([]string{engine.All}, opt.Values...),
		})
	}

	total := a.Filtered.Len()
	if offset >= total {
		return d
	}
	end := total
	if limit < total-offset {
		end = offset + limit
	}
	for _, row := range a.Filtered.Rows[offset:end] {
		d.Rows = append(d.Rows, renderRow(row))
	}
	return d
}

// renderRow formats dates as text and leaves other cells for JSON encoding.
func renderRow(row engine.Row) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		if t, ok := v.(time.Time); ok {
			out[k] = engine.FormatValue(t)
			continue
		}
		out[k] = v
	}
	return out
}
