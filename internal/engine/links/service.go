package links

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ValidationError wraps a rejected link so callers can tell bad input from
// storage failures.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

type Service struct {
	repo *Repository
	now  func() time.Time
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateLink saves a link for owner, the serialized user identity.
func (s *Service) CreateLink(ctx context.Context, owner string, req *Link) (*Link, error) {
	if err := ValidateLink(req); err != nil {
		return nil, &ValidationError{Err: err}
	}

	link := &Link{
		ID:        uuid.NewString(),
		URL:       req.URL,
		Title:     req.Title,
		Note:      req.Note,
		User:      owner,
		CreatedAt: s.now().Unix(),
	}

	if err := s.repo.Create(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *Service) ListLinks(ctx context.Context, owner string) ([]Link, error) {
	return s.repo.ListByUser(ctx, owner)
}

func (s *Service) ClearLinks(ctx context.Context, owner string) (int64, error) {
	return s.repo.DeleteByUser(ctx, owner)
}
