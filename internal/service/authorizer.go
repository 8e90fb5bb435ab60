package service

import (
	"context"

	"asset-exchange/internal/core/domain"
	"asset-exchange/pkg/apperror"
)

// ContextAuthorizer grants an account's authority when the action context
// carries any permission level of that account.
type ContextAuthorizer struct{}

// NewContextAuthorizer returns the authorizer used by every ledger action.
func NewContextAuthorizer() ContextAuthorizer {
	return ContextAuthorizer{}
}

// Require implements ports.AuthorizationProvider.
func (ContextAuthorizer) Require(ctx context.Context, account domain.Name) error {
	for _, level := range domain.AuthorizationFromContext(ctx) {
		if level.Actor == account {
			return nil
		}
	}
	return apperror.ErrMissingAuthority(account.String())
}
