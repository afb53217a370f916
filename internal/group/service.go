package group

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrGroupNotFound   = errors.New("group not found")
	ErrInvalidJoinCode = errors.New("invalid group code")
	ErrNotOwner        = errors.New("only the group creator can do this")
	ErrMissingName     = errors.New("group name is required")
)

// Store is the persistence port the group service depends on.
type Store interface {
	Create(ctx context.Context, name, joinCode string, creatorID int64) (*Group, error)
	GetByID(ctx context.Context, id int64) (*Group, error)
	GetByJoinCode(ctx context.Context, code string) (*Group, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Group, error)
	GetMembers(ctx context.Context, groupID int64) ([]*Member, error)
	AddMember(ctx context.Context, groupID, userID int64) error
	RemoveMember(ctx context.Context, groupID, userID int64) error
	Delete(ctx context.Context, id int64) error
}

// Service handles group business logic
type Service struct {
	store Store
}

// NewService creates a new group service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// newJoinCode returns a short shareable code. The first UUID block gives
// eight hex characters, plenty for invite links.
func newJoinCode() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}

// Create creates a group and enrolls the creator as its first member.
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*Group, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrMissingName
	}
	return s.store.Create(ctx, name, newJoinCode(), creatorID)
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Group, error) {
	group, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// GetWithMembers retrieves a group together with its member list.
func (s *Service) GetWithMembers(ctx context.Context, id int64) (*Group, []*Member, error) {
	group, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.store.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return group, members, nil
}

// ListByUserID retrieves all groups the user belongs to
func (s *Service) ListByUserID(ctx context.Context, userID int64) ([]*Group, error) {
	return s.store.ListByUserID(ctx, userID)
}

// Join adds the user to the group matching the join code.
func (s *Service) Join(ctx context.Context, userID int64, code string) (*Group, error) {
	group, err := s.store.GetByJoinCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrInvalidJoinCode
	}

	if err := s.store.AddMember(ctx, group.ID, userID); err != nil {
		return nil, err
	}

	return group, nil
}

// AddMember adds a user to an existing group.
func (s *Service) AddMember(ctx context.Context, groupID, userID int64) error {
	group, err := s.store.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrGroupNotFound
	}
	return s.store.AddMember(ctx, groupID, userID)
}

// RemoveMember removes a user from a group.
func (s *Service) RemoveMember(ctx context.Context, groupID, userID int64) error {
	return s.store.RemoveMember(ctx, groupID, userID)
}

// Delete removes a group. Only the creator may delete it.
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	group, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrGroupNotFound
	}
	if group.CreatedBy != userID {
		return ErrNotOwner
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrGroupNotFound
		}
		return err
	}
	return nil
}
