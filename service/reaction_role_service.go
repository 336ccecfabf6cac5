package service

import (
	"context"
	"fmt"

	"npnbot/models"
)

// reactionRoleService implements the ReactionRoleService interface
type reactionRoleService struct {
	uowFactory UnitOfWorkFactory
}

// NewReactionRoleService creates a new reaction role service
func NewReactionRoleService(uowFactory UnitOfWorkFactory) ReactionRoleService {
	return &reactionRoleService{uowFactory: uowFactory}
}

// Bind stores an (emoji, message) to role binding
func (s *reactionRoleService) Bind(ctx context.Context, binding *models.ReactionRole) error {
	if binding.Emoji == "" {
		return fmt.Errorf("emoji cannot be empty")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ReactionRoleRepository().Upsert(ctx, binding); err != nil {
		return fmt.Errorf("failed to store reaction role: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit reaction role: %w", err)
	}

	return nil
}

// Unbind removes a binding, reporting whether one existed
func (s *reactionRoleService) Unbind(ctx context.Context, messageID int64, emoji string) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existed, err := uow.ReactionRoleRepository().Delete(ctx, messageID, emoji)
	if err != nil {
		return false, fmt.Errorf("failed to delete reaction role: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit reaction role removal: %w", err)
	}

	return existed, nil
}

// Lookup returns the binding for (message, emoji), nil if none
func (s *reactionRoleService) Lookup(ctx context.Context, messageID int64, emoji string) (*models.ReactionRole, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	binding, err := uow.ReactionRoleRepository().Get(ctx, messageID, emoji)
	if err != nil {
		return nil, fmt.Errorf("failed to get reaction role: %w", err)
	}
	return binding, nil
}
