package handler

import (
	"github.com/dkl25/admin-api/internal/service"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type PhotoHandler struct {
	photoService *service.PhotoService
	log          *zap.Logger
}

func NewPhotoHandler(photoService *service.PhotoService, log *zap.Logger) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
		log:          log,
	}
}

func (h *PhotoHandler) ListPublic(c *fiber.Ctx) error {
	photos, err := h.photoService.ListPublic(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(photos, "Photos retrieved successfully"))
}

// ListAdmin returns all photos including hidden ones and their album links.
func (h *PhotoHandler) ListAdmin(c *fiber.Ctx) error {
	photos, err := h.photoService.ListAdmin(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(photos, "Photos retrieved successfully"))
}

func (h *PhotoHandler) Get(c *fiber.Ctx) error {
	photo, err := h.photoService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(photo, ""))
}

// Upload expects a multipart form with a "file" part and the metadata fields.
func (h *PhotoHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "No file uploaded")
	}

	var req models.PhotoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid form data")
	}

	photo, err := h.photoService.Upload(c.UserContext(), file, req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(photo, "Photo uploaded successfully"))
}

func (h *PhotoHandler) Update(c *fiber.Ctx) error {
	var req models.PhotoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	photo, err := h.photoService.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(photo, "Photo updated successfully"))
}

func (h *PhotoHandler) Delete(c *fiber.Ctx) error {
	if err := h.photoService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Photo deleted successfully"))
}

func (h *PhotoHandler) Reorder(c *fiber.Ctx) error {
	var req models.ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.photoService.Reorder(c.UserContext(), req.Items); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Order saved"))
}

func (h *PhotoHandler) BulkDelete(c *fiber.Ctx) error {
	var req models.BulkIDsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	res, err := h.photoService.BulkDelete(c.UserContext(), req.IDs)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(res, "Photos deleted"))
}

func (h *PhotoHandler) BulkVisibility(c *fiber.Ctx) error {
	var req models.BulkVisibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	res, err := h.photoService.BulkSetVisibility(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(res, "Visibility updated"))
}

func (h *PhotoHandler) BulkAddToAlbum(c *fiber.Ctx) error {
	var req models.BulkAlbumRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	res, err := h.photoService.BulkAddToAlbum(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(res, "Photos added to album"))
}
