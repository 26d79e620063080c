package handler

import (
	"github.com/dkl25/admin-api/internal/service"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TitleSectionHandler struct {
	titleService *service.TitleSectionService
	log          *zap.Logger
}

func NewTitleSectionHandler(titleService *service.TitleSectionService, log *zap.Logger) *TitleSectionHandler {
	return &TitleSectionHandler{
		titleService: titleService,
		log:          log,
	}
}

func (h *TitleSectionHandler) Get(c *fiber.Ctx) error {
	section, err := h.titleService.Get(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(section, ""))
}

func (h *TitleSectionHandler) Update(c *fiber.Ctx) error {
	var req models.TitleSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	section, err := h.titleService.Update(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(section, "Title section updated"))
}

func (h *TitleSectionHandler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "No file uploaded")
	}

	section, err := h.titleService.UploadImage(c.UserContext(), file)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(section, "Image uploaded"))
}
