package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/brewlog/brewlog/internal/metrics"
	"github.com/brewlog/brewlog/internal/model"
	"github.com/brewlog/brewlog/internal/repository"
)

// Bean service errors.
var (
	ErrBeanNotFound   = errors.New("bean not found")
	ErrBeanNameExists = errors.New("bean name already exists for this user")
)

const maxOriginLength = 50

// BeanService handles coffee bean business logic.
type BeanService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// NewBeanService creates a new BeanService.
func NewBeanService(repo *repository.Repository, recorder metrics.Recorder) *BeanService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &BeanService{repo: repo, metrics: recorder}
}

// CreateBeanInput defines input for registering a bean.
type CreateBeanInput struct {
	Name   string
	Origin string
}

// CreateBean registers a bean owned by the caller. Ownership always comes
// from the session, never from client input.
func (s *BeanService) CreateBean(ctx context.Context, caller *model.User, input CreateBeanInput) (*model.Bean, error) {
	name := strings.TrimSpace(input.Name)
	origin := strings.TrimSpace(input.Origin)
	if err := validateBeanFields(name, origin); err != nil {
		return nil, err
	}

	// Pre-check the per-owner name. The unique constraint remains the
	// authority under concurrent creates.
	if taken, err := s.repo.BeanNameExists(ctx, caller.ID, name); err != nil {
		return nil, fmt.Errorf("failed to check bean name: %w", err)
	} else if taken {
		return nil, ErrBeanNameExists
	}

	now := time.Now().UTC()
	bean := &model.Bean{
		ID:        ulid.Make().String(),
		OwnerID:   caller.ID,
		Name:      name,
		Origin:    origin,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateBean(ctx, bean); err != nil {
		if errors.Is(err, repository.ErrBeanNameExists) {
			return nil, ErrBeanNameExists
		}
		return nil, fmt.Errorf("failed to create bean: %w", err)
	}

	s.metrics.IncBeanCreated()

	return bean, nil
}

// GetBean retrieves one of the caller's beans. A foreign bean reads as
// absent so existence never leaks across owners.
func (s *BeanService) GetBean(ctx context.Context, caller *model.User, id string) (*model.Bean, error) {
	bean, err := s.repo.GetBeanByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBeanNotFound) {
			return nil, ErrBeanNotFound
		}
		return nil, err
	}
	if !ownsResource(caller, bean.OwnerID) {
		return nil, ErrBeanNotFound
	}
	return bean, nil
}

// ListBeans returns the caller's beans ordered by name.
func (s *BeanService) ListBeans(ctx context.Context, caller *model.User) ([]*model.Bean, error) {
	return s.repo.ListBeansByOwner(ctx, caller.ID)
}

// ListBeansForUser returns the beans of an explicitly named user. Asking
// for a foreign collection is forbidden rather than empty.
func (s *BeanService) ListBeansForUser(ctx context.Context, caller *model.User, userID string) ([]*model.Bean, error) {
	if !mayListUser(caller, userID) {
		return nil, ErrForbidden
	}
	return s.repo.ListBeansByOwner(ctx, userID)
}

// UpdateBeanInput defines input for updating a bean.
type UpdateBeanInput struct {
	Name   *string
	Origin *string
}

// UpdateBean updates a bean's name and origin. Ownership is immutable.
func (s *BeanService) UpdateBean(ctx context.Context, caller *model.User, id string, input UpdateBeanInput) (*model.Bean, error) {
	bean, err := s.GetBean(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		bean.Name = strings.TrimSpace(*input.Name)
	}
	if input.Origin != nil {
		bean.Origin = strings.TrimSpace(*input.Origin)
	}
	if err := validateBeanFields(bean.Name, bean.Origin); err != nil {
		return nil, err
	}
	bean.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateBean(ctx, bean); err != nil {
		if errors.Is(err, repository.ErrBeanNameExists) {
			return nil, ErrBeanNameExists
		}
		return nil, err
	}

	return bean, nil
}

// DeleteBean removes a bean and all of its recipes in one transaction.
func (s *BeanService) DeleteBean(ctx context.Context, caller *model.User, id string) error {
	if _, err := s.GetBean(ctx, caller, id); err != nil {
		return err
	}
	return s.repo.DeleteBeanCascade(ctx, id)
}

// validateBeanFields checks name and origin constraints.
func validateBeanFields(name, origin string) error {
	if name == "" {
		return invalidInput("Bean name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return invalidInput(fmt.Sprintf("Bean name must be at most %d characters", maxNameLength))
	}
	if origin == "" {
		return invalidInput("Bean origin is required")
	}
	if utf8.RuneCountInString(origin) > maxOriginLength {
		return invalidInput(fmt.Sprintf("Bean origin must be at most %d characters", maxOriginLength))
	}
	return nil
}
