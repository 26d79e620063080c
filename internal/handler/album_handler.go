package handler

import (
	"github.com/dkl25/admin-api/internal/service"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AlbumHandler struct {
	albumService *service.AlbumService
	log          *zap.Logger
}

func NewAlbumHandler(albumService *service.AlbumService, log *zap.Logger) *AlbumHandler {
	return &AlbumHandler{
		albumService: albumService,
		log:          log,
	}
}

func (h *AlbumHandler) ListPublic(c *fiber.Ctx) error {
	return h.list(c, true)
}

func (h *AlbumHandler) List(c *fiber.Ctx) error {
	return h.list(c, false)
}

func (h *AlbumHandler) list(c *fiber.Ctx, onlyVisible bool) error {
	albums, err := h.albumService.List(c.UserContext(), onlyVisible)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(albums, "Albums retrieved successfully"))
}

func (h *AlbumHandler) Get(c *fiber.Ctx) error {
	album, err := h.albumService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(album, ""))
}

func (h *AlbumHandler) Create(c *fiber.Ctx) error {
	var req models.AlbumRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	album, err := h.albumService.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(album, "Album created successfully"))
}

func (h *AlbumHandler) Update(c *fiber.Ctx) error {
	var req models.AlbumRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	album, err := h.albumService.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(album, "Album updated successfully"))
}

func (h *AlbumHandler) Delete(c *fiber.Ctx) error {
	if err := h.albumService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Album deleted successfully"))
}

func (h *AlbumHandler) PublicPhotos(c *fiber.Ctx) error {
	return h.photos(c, true)
}

func (h *AlbumHandler) Photos(c *fiber.Ctx) error {
	return h.photos(c, false)
}

func (h *AlbumHandler) photos(c *fiber.Ctx, onlyVisible bool) error {
	photos, err := h.albumService.Photos(c.UserContext(), c.Params("id"), onlyVisible)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(photos, ""))
}

func (h *AlbumHandler) AddPhotos(c *fiber.Ctx) error {
	var req models.AlbumPhotosRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	added, err := h.albumService.AddPhotos(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(models.BulkResult{Affected: added}, "Photos added to album"))
}

func (h *AlbumHandler) RemovePhoto(c *fiber.Ctx) error {
	if err := h.albumService.RemovePhoto(c.UserContext(), c.Params("id"), c.Params("photoId")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Photo removed from album"))
}

func (h *AlbumHandler) Reorder(c *fiber.Ctx) error {
	var req models.ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.albumService.Reorder(c.UserContext(), req.Items); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Order saved"))
}

func (h *AlbumHandler) ReorderPhotos(c *fiber.Ctx) error {
	var req models.ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.albumService.ReorderPhotos(c.UserContext(), c.Params("id"), req.Items); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Order saved"))
}
