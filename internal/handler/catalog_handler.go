package handler

import (
	"context"

	"github.com/dkl25/admin-api/internal/service"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CatalogService is what CatalogHandler needs from a content service.
type CatalogService[T any, R any] interface {
	Name() string
	List(ctx context.Context, onlyVisible bool) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, req R) (*T, error)
	Update(ctx context.Context, id string, req R) (*T, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, items []models.OrderItem) error
}

// CatalogHandler serves the CRUD and reorder endpoints of sponsors,
// partners and videos.
type CatalogHandler[T any, R any] struct {
	svc   CatalogService[T, R]
	media *service.MediaService
	log   *zap.Logger
}

// NewCatalogHandler builds the handler. media is only needed for logo uploads.
func NewCatalogHandler[T any, R any](svc CatalogService[T, R], media *service.MediaService, log *zap.Logger) *CatalogHandler[T, R] {
	return &CatalogHandler[T, R]{
		svc:   svc,
		media: media,
		log:   log,
	}
}

func (h *CatalogHandler[T, R]) ListPublic(c *fiber.Ctx) error {
	items, err := h.svc.List(c.UserContext(), true)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(items, ""))
}

func (h *CatalogHandler[T, R]) List(c *fiber.Ctx) error {
	items, err := h.svc.List(c.UserContext(), false)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(items, ""))
}

func (h *CatalogHandler[T, R]) Get(c *fiber.Ctx) error {
	item, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(item, ""))
}

func (h *CatalogHandler[T, R]) Create(c *fiber.Ctx) error {
	var req R
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	item, err := h.svc.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(item, "Created successfully"))
}

func (h *CatalogHandler[T, R]) Update(c *fiber.Ctx) error {
	var req R
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	item, err := h.svc.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(item, "Updated successfully"))
}

func (h *CatalogHandler[T, R]) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Deleted successfully"))
}

func (h *CatalogHandler[T, R]) Reorder(c *fiber.Ctx) error {
	var req models.ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.svc.Reorder(c.UserContext(), req.Items); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Order saved"))
}

// UploadLogo stores an image and returns its URL; the caller saves it on
// the row with a regular update.
func (h *CatalogHandler[T, R]) UploadLogo(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "No file uploaded")
	}

	img, err := h.media.Upload(c.UserContext(), file, h.svc.Name())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(img, "Logo uploaded"))
}
