package handler

import (
	"github.com/dkl25/admin-api/internal/middleware"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Album        *AlbumHandler
	Photo        *PhotoHandler
	Sponsor      *CatalogHandler[models.Sponsor, models.SponsorRequest]
	Partner      *CatalogHandler[models.Partner, models.PartnerRequest]
	Video        *CatalogHandler[models.Video, models.VideoRequest]
	TitleSection *TitleSectionHandler
	Notulen      *NotulenHandler
	Live         *LiveHandler
}

// RegisterRoutes mounts every endpoint on api, normally the /api group.
func RegisterRoutes(api fiber.Router, h Handlers, jwtSecret string) {
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(models.SuccessResponse(fiber.Map{"status": "ok"}, ""))
	})

	// Public routes
	public := api.Group("/public")
	public.Get("/albums", h.Album.ListPublic)
	public.Get("/albums/:id/photos", h.Album.PublicPhotos)
	public.Get("/photos", h.Photo.ListPublic)
	public.Get("/sponsors", h.Sponsor.ListPublic)
	public.Get("/partners", h.Partner.ListPublic)
	public.Get("/videos", h.Video.ListPublic)
	public.Get("/title-section", h.TitleSection.Get)

	// The socket authenticates with ?token= since browsers cannot set headers.
	api.Get("/ws/notulen", h.Live.RequireUpgrade, middleware.QueryTokenAuth(jwtSecret), h.Live.Notulen())

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(jwtSecret))
	write := middleware.RequireWriter()

	albums := protected.Group("/albums")
	albums.Get("/", h.Album.List)
	albums.Post("/", write, h.Album.Create)
	albums.Post("/reorder", write, h.Album.Reorder)
	albums.Get("/:id", h.Album.Get)
	albums.Put("/:id", write, h.Album.Update)
	albums.Delete("/:id", write, h.Album.Delete)
	albums.Get("/:id/photos", h.Album.Photos)
	albums.Post("/:id/photos", write, h.Album.AddPhotos)
	albums.Put("/:id/photos/reorder", write, h.Album.ReorderPhotos)
	albums.Delete("/:id/photos/:photoId", write, h.Album.RemovePhoto)

	photos := protected.Group("/photos")
	photos.Get("/admin", h.Photo.ListAdmin)
	photos.Post("/", write, h.Photo.Upload)
	photos.Post("/reorder", write, h.Photo.Reorder)
	photos.Post("/bulk/delete", write, h.Photo.BulkDelete)
	photos.Post("/bulk/visibility", write, h.Photo.BulkVisibility)
	photos.Post("/bulk/albums", write, h.Photo.BulkAddToAlbum)
	photos.Get("/:id", h.Photo.Get)
	photos.Put("/:id", write, h.Photo.Update)
	photos.Delete("/:id", write, h.Photo.Delete)

	sponsors := protected.Group("/sponsors")
	registerCatalog(sponsors, h.Sponsor, write)
	sponsors.Post("/logo", write, h.Sponsor.UploadLogo)

	partners := protected.Group("/partners")
	registerCatalog(partners, h.Partner, write)
	partners.Post("/logo", write, h.Partner.UploadLogo)

	registerCatalog(protected.Group("/videos"), h.Video, write)

	title := protected.Group("/title-section")
	title.Get("/", h.TitleSection.Get)
	title.Put("/", write, h.TitleSection.Update)
	title.Post("/image", write, h.TitleSection.UploadImage)

	// Permission checks for notulen live in the service, which also serves
	// the socket commands.
	notulen := protected.Group("/notulen")
	notulen.Get("/", h.Notulen.Search)
	notulen.Post("/", h.Notulen.Create)
	notulen.Get("/search", h.Notulen.Search)
	notulen.Get("/:id", h.Notulen.Get)
	notulen.Put("/:id", h.Notulen.Update)
	notulen.Delete("/:id", h.Notulen.Delete)
	notulen.Post("/:id/finalize", h.Notulen.Finalize)
	notulen.Post("/:id/archive", h.Notulen.Archive)
	notulen.Post("/:id/rollback", h.Notulen.Rollback)
	notulen.Get("/:id/versions", h.Notulen.Versions)
	notulen.Get("/:id/versions/compare", h.Notulen.Compare)
	notulen.Get("/:id/versions/:versie", h.Notulen.Version)
}

func registerCatalog[T any, R any](r fiber.Router, h *CatalogHandler[T, R], write fiber.Handler) {
	r.Get("/", h.List)
	r.Post("/", write, h.Create)
	r.Post("/reorder", write, h.Reorder)
	r.Get("/:id", h.Get)
	r.Put("/:id", write, h.Update)
	r.Delete("/:id", write, h.Delete)
}
