package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dkl25/admin-api/internal/repository"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/dkl25/admin-api/pkg/notulendiff"
	"github.com/dkl25/admin-api/pkg/utils"
	"go.uber.org/zap"
)

// lastWriteRetries bounds how often an update without expected_versie is
// retried after losing a race with another writer.
const lastWriteRetries = 3

const redenCreated = "aangemaakt"

// Publisher pushes live notulen events to connected clients.
type Publisher interface {
	Publish(msg models.LiveMessage)
}

// Notifier is told about finalized minutes, e.g. to mail them around.
type Notifier interface {
	NotulenFinalized(ctx context.Context, n *models.Notulen) error
}

type NotulenService struct {
	repo      *repository.NotulenRepository
	validator *utils.Validator
	publisher Publisher
	notifier  Notifier
	log       *zap.Logger
}

// NewNotulenService wires the service. publisher and notifier may be nil.
func NewNotulenService(
	repo *repository.NotulenRepository,
	validator *utils.Validator,
	publisher Publisher,
	notifier Notifier,
	log *zap.Logger,
) *NotulenService {
	return &NotulenService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		notifier:  notifier,
		log:       log,
	}
}

// CanEdit reports whether user may change the content of n.
func CanEdit(user models.User, n *models.Notulen) bool {
	return user.CanWrite() && n.Status == models.NotulenDraft
}

func Permissions(user models.User, n *models.Notulen) models.NotulenPermissions {
	return models.NotulenPermissions{
		CanEdit:     CanEdit(user, n),
		CanFinalize: user.CanWrite() && n.Status.CanTransitionTo(models.NotulenFinalized),
		CanArchive:  user.CanWrite() && n.Status.CanTransitionTo(models.NotulenArchived),
	}
}

func (s *NotulenService) Create(ctx context.Context, user models.User, req models.NotulenRequest) (*models.Notulen, error) {
	if !user.CanWrite() {
		return nil, utils.ErrForbidden
	}
	content, err := s.content(req)
	if err != nil {
		return nil, err
	}

	n := &models.Notulen{
		NotulenContent: content,
		Status:         models.NotulenDraft,
		Versie:         1,
		CreatedBy:      user.ID,
		UpdatedBy:      user.ID,
	}
	reden := redenCreated
	if err := s.repo.Create(ctx, n, &reden); err != nil {
		return nil, fmt.Errorf("failed to create notulen: %w", err)
	}

	s.log.Info("notulen created", zap.String("notulen_id", n.ID), zap.String("user_id", user.ID))
	s.publish(models.LiveNotulenUpdated, n.ID, n)
	return n, nil
}

func (s *NotulenService) Get(ctx context.Context, user models.User, id string) (*models.NotulenDetail, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.NotulenDetail{Notulen: n, Permissions: Permissions(user, n)}, nil
}

func (s *NotulenService) Search(ctx context.Context, filter models.NotulenFilter) (*models.ListResponse[models.Notulen], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", utils.ErrInvalidInput, filter.Status)
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Limit = repository.SearchLimit(filter.Limit)

	items, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.ListResponse[models.Notulen]{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// Update replaces the content of a draft and bumps its version. With
// ExpectedVersie set the update only succeeds against that version;
// without it the latest version is overwritten.
func (s *NotulenService) Update(ctx context.Context, user models.User, id string, req models.UpdateNotulenRequest) (*models.Notulen, error) {
	if !user.CanWrite() {
		return nil, utils.ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	content, err := s.content(req.NotulenRequest)
	if err != nil {
		return nil, err
	}

	n, err := s.saveDraft(ctx, user, id, content, req.ExpectedVersie, req.WijzigingReden)
	if err != nil {
		return nil, err
	}

	s.log.Info("notulen updated", zap.String("notulen_id", id), zap.Int("versie", n.Versie), zap.String("user_id", user.ID))
	s.publish(models.LiveNotulenUpdated, n.ID, n)
	return n, nil
}

// Rollback copies the content of an older version into a new version.
// History is never rewritten.
func (s *NotulenService) Rollback(ctx context.Context, user models.User, id string, req models.RollbackRequest) (*models.Notulen, error) {
	if !user.CanWrite() {
		return nil, utils.ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	version, err := s.repo.GetVersion(ctx, id, req.Versie)
	if err != nil {
		return nil, err
	}

	reden := req.WijzigingReden
	if reden == nil || strings.TrimSpace(*reden) == "" {
		r := "teruggezet naar versie " + strconv.Itoa(req.Versie)
		reden = &r
	}

	n, err := s.saveDraft(ctx, user, id, version.Snapshot.NotulenContent, nil, reden)
	if err != nil {
		return nil, err
	}

	s.log.Info("notulen rolled back",
		zap.String("notulen_id", id),
		zap.Int("from_versie", req.Versie),
		zap.Int("versie", n.Versie),
	)
	s.publish(models.LiveNotulenUpdated, n.ID, n)
	return n, nil
}

func (s *NotulenService) Finalize(ctx context.Context, user models.User, id string, reden *string) (*models.Notulen, error) {
	n, err := s.transition(ctx, user, id, models.NotulenFinalized, reden)
	if err != nil {
		return nil, err
	}

	s.publish(models.LiveNotulenFinalized, n.ID, n)
	if s.notifier != nil {
		if err := s.notifier.NotulenFinalized(ctx, n); err != nil {
			s.log.Warn("finalize notification failed", zap.String("notulen_id", n.ID), zap.Error(err))
		}
	}
	return n, nil
}

func (s *NotulenService) Archive(ctx context.Context, user models.User, id string, reden *string) (*models.Notulen, error) {
	n, err := s.transition(ctx, user, id, models.NotulenArchived, reden)
	if err != nil {
		return nil, err
	}
	s.publish(models.LiveNotulenArchived, n.ID, n)
	return n, nil
}

func (s *NotulenService) Delete(ctx context.Context, user models.User, id string) error {
	if !user.CanWrite() {
		return utils.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("notulen deleted", zap.String("notulen_id", id), zap.String("user_id", user.ID))
	s.publish(models.LiveNotulenDeleted, id, nil)
	return nil
}

func (s *NotulenService) ListVersions(ctx context.Context, id string) ([]models.NotulenVersion, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListVersions(ctx, id)
}

func (s *NotulenService) GetVersion(ctx context.Context, id string, versie int) (*models.NotulenVersion, error) {
	return s.repo.GetVersion(ctx, id, versie)
}

func (s *NotulenService) Compare(ctx context.Context, id string, fromVersie, toVersie int) (*notulendiff.VersionComparison, error) {
	if fromVersie < 1 || toVersie < 1 {
		return nil, fmt.Errorf("%w: versions start at 1", utils.ErrInvalidInput)
	}
	from, err := s.repo.GetVersion(ctx, id, fromVersie)
	if err != nil {
		return nil, err
	}
	to, err := s.repo.GetVersion(ctx, id, toVersie)
	if err != nil {
		return nil, err
	}
	cmp := notulendiff.CompareVersions(*from, *to)
	return &cmp, nil
}

func (s *NotulenService) saveDraft(
	ctx context.Context,
	user models.User,
	id string,
	content models.NotulenContent,
	expected *int,
	reden *string,
) (*models.Notulen, error) {
	for attempt := 0; ; attempt++ {
		n, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if n.Status != models.NotulenDraft {
			return nil, utils.ErrNotEditable
		}

		version := n.Versie
		if expected != nil {
			version = *expected
		}

		n.NotulenContent = content
		n.UpdatedBy = user.ID
		err = s.repo.UpdateDraft(ctx, n, version, reden)
		if err == nil {
			return n, nil
		}
		if expected != nil || !repository.IsConflict(err) || attempt+1 >= lastWriteRetries {
			return nil, err
		}
		s.log.Debug("retrying draft update after concurrent write", zap.String("notulen_id", id))
	}
}

func (s *NotulenService) transition(ctx context.Context, user models.User, id string, to models.NotulenStatus, reden *string) (*models.Notulen, error) {
	if !user.CanWrite() {
		return nil, utils.ErrForbidden
	}

	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := n.Status
	if !from.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s to %s", utils.ErrInvalidTransition, from, to)
	}

	n.Status = to
	n.UpdatedBy = user.ID
	if to == models.NotulenFinalized {
		now := time.Now()
		by := user.ID
		n.FinalizedAt = &now
		n.FinalizedBy = &by
	}

	if err := s.repo.Transition(ctx, n, from, reden); err != nil {
		return nil, err
	}

	s.log.Info("notulen status changed",
		zap.String("notulen_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("user_id", user.ID),
	)
	return n, nil
}

// content validates req and converts it to stored content.
func (s *NotulenService) content(req models.NotulenRequest) (models.NotulenContent, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.NotulenContent{}, err
	}
	datum, err := parseDate(req.VergaderingDatum)
	if err != nil {
		return models.NotulenContent{}, err
	}

	return models.NotulenContent{
		Titel:            strings.TrimSpace(req.Titel),
		VergaderingDatum: datum,
		Locatie:          req.Locatie,
		Voorzitter:       req.Voorzitter,
		Notulist:         req.Notulist,
		AgendaItems:      orEmpty(req.AgendaItems),
		Besluiten:        orEmpty(req.Besluiten),
		Actiepunten:      orEmpty(req.Actiepunten),
		Aanwezigen:       orEmpty(req.Aanwezigen),
		Afwezigen:        orEmpty(req.Afwezigen),
		Notities:         req.Notities,
	}, nil
}

func (s *NotulenService) publish(t models.LiveMessageType, id string, data interface{}) {
	if s.publisher == nil {
		return
	}
	msg, err := models.NewLiveMessage(t, id, data)
	if err != nil {
		s.log.Error("failed to build live message", zap.String("type", string(t)), zap.Error(err))
		return
	}
	s.publisher.Publish(msg)
}

func parseDate(v string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: vergadering_datum %q is not a date", utils.ErrInvalidInput, v)
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
