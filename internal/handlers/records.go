package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aumigobot/aumigobot/internal/adoptions"
	"github.com/aumigobot/aumigobot/internal/pets"
	"github.com/aumigobot/aumigobot/internal/users"
)

// RecordsHandler is the JWT-protected admin surface over the catalog and
// the adoption/user records the conversation produces.
type RecordsHandler struct {
	pets      *pets.Service
	users     *users.Service
	adoptions *adoptions.Service
	logger    *slog.Logger
}

func NewRecordsHandler(log *slog.Logger, petService *pets.Service, userService *users.Service, adoptionService *adoptions.Service) *RecordsHandler {
	return &RecordsHandler{
		pets:      petService,
		users:     userService,
		adoptions: adoptionService,
		logger:    log.With(slog.String("handler", "records")),
	}
}

func (h *RecordsHandler) Register(e *echo.Echo) {
	e.GET("/pets", h.ListPets)
	e.POST("/pets", h.CreatePet)
	e.PUT("/pets/:id/availability", h.SetPetAvailability)
	e.GET("/users", h.ListUsers)
	e.GET("/adoptions", h.ListAdoptions)
}

func (h *RecordsHandler) ListPets(c echo.Context) error {
	list, err := h.pets.ListAvailable(c.Request().Context())
	if err != nil {
		h.logger.Error("list pets failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list pets")
	}
	if list == nil {
		list = []pets.Pet{}
	}
	return c.JSON(http.StatusOK, list)
}

type createPetRequest struct {
	Name    string `json:"name"`
	Species string `json:"species"`
	Breed   string `json:"breed"`
	Age     string `json:"age"`
}

func (h *RecordsHandler) CreatePet(c echo.Context) error {
	var req createPetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pet payload")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Breed) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and breed are required")
	}
	pet, err := h.pets.Insert(c.Request().Context(), req.Name, req.Species, req.Breed, req.Age)
	if err != nil {
		h.logger.Error("create pet failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create pet")
	}
	return c.JSON(http.StatusCreated, pet)
}

type setAvailabilityRequest struct {
	Available bool `json:"available"`
}

func (h *RecordsHandler) SetPetAvailability(c echo.Context) error {
	var req setAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	err := h.pets.SetAvailable(c.Request().Context(), c.Param("id"), req.Available)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "pet not found")
		}
		h.logger.Error("set availability failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update pet")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RecordsHandler) ListUsers(c echo.Context) error {
	list, err := h.users.List(c.Request().Context())
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list users")
	}
	if list == nil {
		list = []users.User{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *RecordsHandler) ListAdoptions(c echo.Context) error {
	list, err := h.adoptions.List(c.Request().Context())
	if err != nil {
		h.logger.Error("list adoptions failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list adoptions")
	}
	if list == nil {
		list = []adoptions.Request{}
	}
	return c.JSON(http.StatusOK, list)
}
