package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-admin-service/internal/validator"
)

const defaultUserPageSize = 50

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== ACCOUNTS =====

// Register creates a regular account
func (s *userService) Register(ctx context.Context, email, password string) (*models.User, error) {
	req := &validator.RegisterRequest{Email: models.NormalizeEmail(email), Password: password}
	if errs := s.validator.Business().ValidateRegister(req); len(errs) > 0 {
		return nil, fromValidator(errs)
	}

	taken, err := s.repo.User().ExistsByEmail(ctx, nil, req.Email, nil)
	if err != nil {
		return nil, storageError("check email", err)
	}
	if taken {
		return nil, emailTaken(req.Email)
	}

	user := &models.User{Email: req.Email}
	if err := user.SetPassword(password); err != nil {
		return nil, storageError("hash password", err)
	}
	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, emailTaken(req.Email)
		}
		return nil, storageError("create user", err)
	}

	s.logger.Info("User registered", "user_id", user.ID)
	return user, nil
}

// Authenticate checks an email and password pair
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.User().GetByEmail(ctx, nil, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewPermissionError(0, 0, "account", "sign in to", "invalid credentials")
		}
		return nil, storageError("get user", err)
	}
	if !user.CheckPassword(password) {
		return nil, NewPermissionError(user.ID, user.ID, "account", "sign in to", "invalid credentials")
	}
	return user, nil
}

func (s *userService) GetAccount(ctx context.Context, actor Identity) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, actor.UserID)
	if err != nil {
		return nil, lookupError("user", actor.UserID, err)
	}
	return user, nil
}

// UpdateEmail changes the caller's email after a uniqueness check
func (s *userService) UpdateEmail(ctx context.Context, actor Identity, newEmail string) (*models.User, error) {
	req := &validator.UpdateAccountRequest{Email: models.NormalizeEmail(newEmail)}
	if errs := s.validator.Business().ValidateAccountUpdate(req); len(errs) > 0 {
		return nil, fromValidator(errs)
	}

	userID := actor.UserID
	taken, err := s.repo.User().ExistsByEmail(ctx, nil, req.Email, &userID)
	if err != nil {
		return nil, storageError("check email", err)
	}
	if taken {
		return nil, emailTaken(req.Email)
	}

	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		return nil, lookupError("user", userID, err)
	}
	user.Email = req.Email
	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, emailTaken(req.Email)
		}
		return nil, lookupError("user", userID, err)
	}

	s.logger.Info("User email updated", "user_id", userID)
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, actor Identity, filters repositories.UserFilters) ([]*models.User, int64, error) {
	if err := requireAdmin(actor, "user", 0, "list"); err != nil {
		return nil, 0, err
	}
	if filters.Limit <= 0 {
		filters.Limit = defaultUserPageSize
	}

	users, total, err := s.repo.User().List(ctx, nil, filters)
	if err != nil {
		return nil, 0, storageError("list users", err)
	}
	return users, total, nil
}

// ResolveExternal maps an identity from an external provider to a local
// account, creating it on first sight and syncing the admin flag.
func (s *userService) ResolveExternal(ctx context.Context, email string, isAdmin bool) (*models.User, error) {
	user, err := s.repo.User().GetByEmail(ctx, nil, email)
	if err == nil {
		if user.IsAdmin != isAdmin {
			user.IsAdmin = isAdmin
			if err := s.repo.User().Update(ctx, nil, user); err != nil {
				return nil, storageError("sync user role", err)
			}
		}
		return user, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, storageError("get user", err)
	}

	user = &models.User{Email: email, IsAdmin: isAdmin}
	// external accounts never sign in with a local password
	if err := user.SetPassword(uuid.NewString()); err != nil {
		return nil, storageError("hash password", err)
	}
	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return s.repo.User().GetByEmail(ctx, nil, email)
		}
		return nil, storageError("provision user", err)
	}

	s.logger.Info("Provisioned external user", "user_id", user.ID, "is_admin", isAdmin)
	return user, nil
}

// SeedDefaults creates the given accounts when missing
func (s *userService) SeedDefaults(ctx context.Context, users []SeedUser) error {
	for _, seed := range users {
		exists, err := s.repo.User().ExistsByEmail(ctx, nil, seed.Email, nil)
		if err != nil {
			return storageError("check seed user", err)
		}
		if exists {
			continue
		}

		user := &models.User{Email: seed.Email, IsAdmin: seed.IsAdmin}
		if err := user.SetPassword(seed.Password); err != nil {
			return storageError("hash password", err)
		}
		if err := s.repo.User().Create(ctx, nil, user); err != nil {
			return storageError("create seed user", err)
		}
		s.logger.Info("Seeded user", "email", user.Email, "is_admin", user.IsAdmin)
	}
	return nil
}

func emailTaken(email string) ValidationErrors {
	return ValidationErrors{*NewValidationError("email", "is already registered", email)}
}
