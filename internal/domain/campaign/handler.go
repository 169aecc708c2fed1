package campaign

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medreach/medreach/internal/domain/patient"
	"github.com/medreach/medreach/pkg/pagination"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/patients/search", h.SearchPatients)
	g.GET("/patients/filtered", h.FilteredPatients)
	g.POST("/patients/sendNotifications", h.SendNotifications)
	g.POST("/campaigns/send", h.SendCampaign)
	g.GET("/notifications", h.ListAttempts)
	g.GET("/notifications/stats", h.AttemptStats)
}

// searchResponse is one row of a search result, with the derived age.
type searchResponse struct {
	*patient.Patient
	Age *int `json:"age,omitempty"`
}

// filteredResponse is one row of the filtered-patients view: the selected
// patient plus the label of the rule that selected them.
type filteredResponse struct {
	ID       uuid.UUID      `json:"id"`
	Name     string         `json:"name"`
	Age      *int           `json:"age,omitempty"`
	Gender   patient.Gender `json:"gender"`
	Criteria string         `json:"criteria"`
}

func parseAgeBound(c echo.Context, name string) (*int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return &v, nil
}

// SearchPatients handles GET /patients/search?name=&gender=&minAge=&maxAge=.
func (h *Handler) SearchPatients(c echo.Context) error {
	minAge, err := parseAgeBound(c, "minAge")
	if err != nil {
		return err
	}
	maxAge, err := parseAgeBound(c, "maxAge")
	if err != nil {
		return err
	}
	q := SearchQuery{
		Name:   c.QueryParam("name"),
		Gender: patient.Gender(c.QueryParam("gender")),
		MinAge: minAge,
		MaxAge: maxAge,
	}

	matched, err := h.svc.Search(c.Request().Context(), q)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	now := time.Now()
	out := make([]searchResponse, 0, len(matched))
	for _, p := range matched {
		row := searchResponse{Patient: p}
		if age, ageErr := p.AgeAt(now); ageErr == nil {
			row.Age = &age
		}
		out = append(out, row)
	}
	return c.JSON(http.StatusOK, out)
}

// FilteredPatients handles GET /patients/filtered using the configured default
// campaign rules.
func (h *Handler) FilteredPatients(c echo.Context) error {
	selected, err := h.svc.Filter(c.Request().Context(), nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	now := time.Now()
	out := make([]filteredResponse, 0, len(selected))
	for _, sel := range selected {
		row := filteredResponse{
			ID:       sel.Patient.ID,
			Name:     sel.Patient.Name,
			Gender:   sel.Patient.Gender,
			Criteria: sel.MatchedLabel,
		}
		if age, ageErr := sel.Patient.AgeAt(now); ageErr == nil {
			row.Age = &age
		}
		out = append(out, row)
	}
	return c.JSON(http.StatusOK, out)
}

// SendNotifications handles POST /patients/sendNotifications: it runs the
// default campaign rules and returns the attempt rows. An optional
// ?concurrency= parameter caps in-flight sends for this run.
func (h *Handler) SendNotifications(c echo.Context) error {
	var run RunOptions
	if raw := c.QueryParam("concurrency"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "concurrency must be a positive integer")
		}
		run.Concurrency = n
	}

	report, err := h.svc.SendCampaignWith(c.Request().Context(), nil, run)
	if err != nil {
		if report == nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		h.logger.Error().Err(err).Msg("attempt log not recorded")
	}
	return c.JSON(http.StatusOK, report.Attempts)
}

// SendCampaign handles POST /campaigns/send with an explicit criteria rule in
// the body, returning the full run report.
func (h *Handler) SendCampaign(c echo.Context) error {
	var criteria Criteria
	if err := c.Bind(&criteria); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if criteria.Label == "" || criteria.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "label and message are required")
	}

	report, err := h.svc.SendCampaign(c.Request().Context(), []Criteria{criteria})
	if err != nil {
		if report == nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("attempt log not recorded")
	}
	return c.JSON(http.StatusOK, report)
}

// ListAttempts handles GET /notifications.
func (h *Handler) ListAttempts(c echo.Context) error {
	pg := pagination.FromContext(c)
	attempts, total, err := h.svc.AttemptLog(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(attempts, total, pg.Limit, pg.Offset))
}

// AttemptStats handles GET /notifications/stats.
func (h *Handler) AttemptStats(c echo.Context) error {
	stats, err := h.svc.AttemptStats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}
