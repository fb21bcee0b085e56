package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/muniyaraj/venue-booking/internal/catalog"
	"github.com/muniyaraj/venue-booking/internal/repository"
)

// AdminHandler covers the append-only inventory administration: adding
// showtime windows for the screen and hourly slots for the turf.  Existing
// rows are never modified or removed, so reservations can keep referencing
// them safely.
type AdminHandler struct {
	Showtimes *repository.ShowtimeRepo
	Slots     *repository.SlotRepo
}

// NewAdminHandler constructs an AdminHandler with the provided repositories.
func NewAdminHandler(showtimes *repository.ShowtimeRepo, slots *repository.SlotRepo) *AdminHandler {
	if showtimes == nil || slots == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Showtimes: showtimes, Slots: slots}
}

type appendWindowReq struct {
	Label string `json:"label"` // e.g. "07:00 PM - 08:00 PM"
}

// AddShowtime handles POST /v1/admin/showtimes.  The label is parsed into
// minutes of day at insert time so the showtime filter never re-parses it.
func (h *AdminHandler) AddShowtime(c echo.Context) error {
	var req appendWindowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	label := strings.TrimSpace(req.Label)
	start, end, err := catalog.ParseWindowLabel(label)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	id, err := h.Showtimes.Append(c.Request().Context(), label, start, end)
	if err != nil {
		c.Logger().Errorf("append showtime: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add showtime"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"showtime_id": id})
}

// AddSlot handles POST /v1/admin/slots for the turf.
func (h *AdminHandler) AddSlot(c echo.Context) error {
	var req appendWindowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	label := strings.TrimSpace(req.Label)
	start, end, err := catalog.ParseWindowLabel(label)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if end <= start {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot must have a positive duration"})
	}
	id, err := h.Slots.Append(c.Request().Context(), label, start, end)
	if err != nil {
		c.Logger().Errorf("append slot: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add slot"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"slot_id": id})
}
