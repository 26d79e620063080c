package handler

import (
	"strconv"
	"time"

	"github.com/dkl25/admin-api/internal/middleware"
	"github.com/dkl25/admin-api/internal/service"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type NotulenHandler struct {
	notulenService *service.NotulenService
	log            *zap.Logger
}

func NewNotulenHandler(notulenService *service.NotulenService, log *zap.Logger) *NotulenHandler {
	return &NotulenHandler{
		notulenService: notulenService,
		log:            log,
	}
}

// Search handles both GET /notulen and GET /notulen/search.
// Query: status, q, from, to (YYYY-MM-DD), limit, offset.
func (h *NotulenHandler) Search(c *fiber.Ctx) error {
	filter := models.NotulenFilter{
		Status: models.NotulenStatus(c.Query("status")),
		Query:  c.Query("q"),
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}

	var err error
	if filter.From, err = queryDate(c, "from", false); err != nil {
		return badRequest(c, "Invalid from date")
	}
	if filter.To, err = queryDate(c, "to", true); err != nil {
		return badRequest(c, "Invalid to date")
	}

	res, err := h.notulenService.Search(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(res, ""))
}

func (h *NotulenHandler) Get(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	detail, err := h.notulenService.Get(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(detail, ""))
}

func (h *NotulenHandler) Create(c *fiber.Ctx) error {
	var req models.NotulenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, _ := middleware.CurrentUser(c)
	n, err := h.notulenService.Create(c.UserContext(), user, req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(n, "Notulen created"))
}

func (h *NotulenHandler) Update(c *fiber.Ctx) error {
	var req models.UpdateNotulenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, _ := middleware.CurrentUser(c)
	n, err := h.notulenService.Update(c.UserContext(), user, c.Params("id"), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(n, "Notulen updated"))
}

func (h *NotulenHandler) Delete(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	if err := h.notulenService.Delete(c.UserContext(), user, c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Notulen deleted"))
}

func (h *NotulenHandler) Finalize(c *fiber.Ctx) error {
	req, err := statusChange(c)
	if err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, _ := middleware.CurrentUser(c)
	n, err := h.notulenService.Finalize(c.UserContext(), user, c.Params("id"), req.WijzigingReden)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(n, "Notulen finalized"))
}

func (h *NotulenHandler) Archive(c *fiber.Ctx) error {
	req, err := statusChange(c)
	if err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, _ := middleware.CurrentUser(c)
	n, err := h.notulenService.Archive(c.UserContext(), user, c.Params("id"), req.WijzigingReden)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(n, "Notulen archived"))
}

func (h *NotulenHandler) Rollback(c *fiber.Ctx) error {
	var req models.RollbackRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, _ := middleware.CurrentUser(c)
	n, err := h.notulenService.Rollback(c.UserContext(), user, c.Params("id"), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(n, "Notulen rolled back"))
}

func (h *NotulenHandler) Versions(c *fiber.Ctx) error {
	versions, err := h.notulenService.ListVersions(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(versions, ""))
}

func (h *NotulenHandler) Version(c *fiber.Ctx) error {
	versie, err := strconv.Atoi(c.Params("versie"))
	if err != nil {
		return badRequest(c, "Invalid version")
	}

	v, err := h.notulenService.GetVersion(c.UserContext(), c.Params("id"), versie)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(v, ""))
}

// Compare handles GET /notulen/:id/versions/compare?from=&to=.
func (h *NotulenHandler) Compare(c *fiber.Ctx) error {
	from, err := strconv.Atoi(c.Query("from"))
	if err != nil {
		return badRequest(c, "Invalid from version")
	}
	to, err := strconv.Atoi(c.Query("to"))
	if err != nil {
		return badRequest(c, "Invalid to version")
	}

	cmp, err := h.notulenService.Compare(c.UserContext(), c.Params("id"), from, to)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(models.SuccessResponse(cmp, ""))
}

func statusChange(c *fiber.Ctx) (models.StatusChangeRequest, error) {
	var req models.StatusChangeRequest
	if len(c.Body()) == 0 {
		return req, nil
	}
	err := c.BodyParser(&req)
	return req, err
}

// queryDate parses a YYYY-MM-DD query value. With endOfDay the returned time
// is the last instant of that day so the range is inclusive.
func queryDate(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
