package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/service"
	"github.com/noah-isme/lms-go-api/internal/utils"
)

// CatalogHandler serves the public course catalog.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler builds a catalog handler instance.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("component", "catalog_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. Static segments
// are registered before the :id wildcard.
func (h *CatalogHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/meta/categories", h.categories)
	router.Get("/meta/difficulties", h.difficulties)
	router.Get("/:id", h.detail)
}

func (h *CatalogHandler) list(c *fiber.Ctx) error {
	var filter dto.CatalogFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "INVALID_COURSE_FILTERS", "invalid catalog filters")
	}

	response, err := h.service.List(c.UserContext(), viewerFromContext(c), filter)
	if err != nil {
		return handleError(c, h.logger, err, "COURSE_LIST_FAILED")
	}

	return utils.SendSuccess(c, response)
}

func (h *CatalogHandler) detail(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	response, err := h.service.Detail(c.UserContext(), viewerFromContext(c), id)
	if err != nil {
		return handleError(c, h.logger, err, "COURSE_DETAIL_FAILED")
	}

	return utils.SendSuccess(c, response)
}

func (h *CatalogHandler) categories(c *fiber.Ctx) error {
	response, err := h.service.Taxonomies(c.UserContext())
	if err != nil {
		return handleError(c, h.logger, err, "TAXONOMY_LIST_FAILED")
	}

	return utils.SendSuccess(c, response.Categories)
}

func (h *CatalogHandler) difficulties(c *fiber.Ctx) error {
	response, err := h.service.Taxonomies(c.UserContext())
	if err != nil {
		return handleError(c, h.logger, err, "TAXONOMY_LIST_FAILED")
	}

	return utils.SendSuccess(c, response.Difficulties)
}
