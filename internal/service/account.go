package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/nutriva/brand-site-server/internal/errors"
	"github.com/nutriva/brand-site-server/internal/model"
	"github.com/nutriva/brand-site-server/internal/repository"
	"github.com/nutriva/brand-site-server/internal/util"
)

type CreateAccountInput struct {
	Email    string
	Name     *string
	Password string
	Role     model.Role
}

type UpdateAccountInput struct {
	Name     *string
	Role     *model.Role
	IsActive *bool
}

// AccountService manages administrator accounts on behalf of an admin.
type AccountService struct {
	accountRepo repository.AccountRepository
	sessions    *SessionService
	hasher      util.PasswordHasher
}

func NewAccountService(
	accountRepo repository.AccountRepository,
	sessions *SessionService,
	hasher util.PasswordHasher,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		sessions:    sessions,
		hasher:      hasher,
	}
}

func (s *AccountService) List(ctx context.Context, limit, offset int) ([]model.Account, int, error) {
	accounts, err := s.accountRepo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Storage(err)
	}
	total, err := s.accountRepo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Storage(err)
	}
	return accounts, total, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*model.Account, error) {
	if !util.IsValidUUID(id) {
		return nil, apperrors.NotFound("Account")
	}
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if account == nil {
		return nil, apperrors.NotFound("Account")
	}
	return account, nil
}

func (s *AccountService) Create(ctx context.Context, in CreateAccountInput) (*model.Account, error) {
	email := util.NormalizeEmail(in.Email)
	if !util.IsValidEmail(email) {
		return nil, apperrors.ValidationError("A valid email is required")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = model.RoleEditor
	}
	if !role.IsValid() {
		return nil, invalidRole()
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to hash password", err)
	}

	account, err := s.accountRepo.Create(ctx, model.CreateAccountParams{
		Email:        email,
		Name:         normalizeName(in.Name),
		PasswordHash: hash,
		Role:         role,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperrors.AlreadyExists("Account")
	}
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	log.Info().Str("accountId", account.ID).Str("role", string(account.Role)).Msg("account created")
	return account, nil
}

// Update applies a partial update. actorID is the admin performing it, who
// may not deactivate or demote themselves.
func (s *AccountService) Update(ctx context.Context, actorID, id string, in UpdateAccountInput) (*model.Account, error) {
	if !util.IsValidUUID(id) {
		return nil, apperrors.NotFound("Account")
	}
	if in.Role != nil && !in.Role.IsValid() {
		return nil, invalidRole()
	}
	if actorID == id {
		if in.IsActive != nil && !*in.IsActive {
			return nil, apperrors.Conflict("You cannot deactivate your own account")
		}
		if in.Role != nil && *in.Role != model.RoleAdmin {
			return nil, apperrors.Conflict("You cannot change your own role")
		}
	}

	account, err := s.accountRepo.Update(ctx, id, model.UpdateAccountParams{
		Name:     normalizeName(in.Name),
		Role:     in.Role,
		IsActive: in.IsActive,
	})
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if account == nil {
		return nil, apperrors.NotFound("Account")
	}

	if !account.IsActive {
		s.revokeAll(ctx, account.ID)
	}

	return account, nil
}

// ResetPassword sets a new password and signs the account out everywhere.
func (s *AccountService) ResetPassword(ctx context.Context, id, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to hash password", err)
	}
	if err := s.accountRepo.UpdatePassword(ctx, id, hash); err != nil {
		return apperrors.Storage(err)
	}

	s.revokeAll(ctx, id)
	return nil
}

// EnsureAdmin creates an active admin with the given credentials unless an
// account with that email already exists. It reports whether one was created.
func (s *AccountService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	existing, err := s.accountRepo.FindByEmail(ctx, util.NormalizeEmail(email))
	if err != nil {
		return false, apperrors.Storage(err)
	}
	if existing != nil {
		return false, nil
	}

	_, err = s.Create(ctx, CreateAccountInput{
		Email:    email,
		Password: password,
		Role:     model.RoleAdmin,
	})
	if apperrors.HasCode(err, apperrors.ErrCodeAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *AccountService) revokeAll(ctx context.Context, accountID string) {
	if _, err := s.sessions.RevokeAll(ctx, accountID); err != nil {
		log.Warn().Err(err).Str("accountId", accountID).Msg("failed to revoke sessions")
	}
}

func validatePassword(password string) error {
	if !util.IsValidPassword(password) {
		return apperrors.ValidationError(fmt.Sprintf(
			"Password must be between %d and %d characters", util.MinPasswordLength, util.MaxPasswordLength))
	}
	return nil
}

func invalidRole() *apperrors.AppError {
	return apperrors.ValidationError("Role must be one of: " + strings.Join(model.Roles(), ", "))
}

func normalizeName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	return &trimmed
}
