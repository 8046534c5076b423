package services

import (
	"context"
	"errors"

	"expensetracker/internal/credentials"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/repository"
	"expensetracker/internal/uuid"
	"expensetracker/internal/validator"
)

// userService handles user-related business logic.
type userService struct {
	users repository.UserStore
	roles repository.RoleStore
	creds Credentials
}

// NewUserService creates a new UserServicer.
func NewUserService(users repository.UserStore, roles repository.RoleStore, creds Credentials) UserServicer {
	return &userService{users: users, roles: roles, creds: creds}
}

// Register creates a user holding the given roles. Every role value must
// already exist.
func (s *userService) Register(ctx context.Context, email, username, password string, roleNames []string) (*models.User, error) {
	if err := validator.User(email, username, password); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, storeError(err)
	}
	if exists {
		return nil, apperrors.UsernameAlreadyExists(username)
	}

	// repeated role names collapse into one link each
	roles := make([]models.Role, 0, len(roleNames))
	seen := make(map[string]bool, len(roleNames))
	for _, name := range roleNames {
		if seen[name] {
			continue
		}
		seen[name] = true

		role, err := s.roles.FindByValue(ctx, name)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.EntityNotFound(models.EntityRole, "value", name)
			}
			return nil, storeError(err)
		}
		roles = append(roles, *role)
	}

	hash, err := s.creds.HashPassword(password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hash,
		Roles:    roles,
	}
	if err := s.users.Save(ctx, user); err != nil {
		// lost a race against another registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.UsernameAlreadyExists(username)
		}
		return nil, storeError(err)
	}

	return user, nil
}

// Login verifies the credentials and issues a token carrying the user's roles.
func (s *userService) Login(ctx context.Context, username, password string) (*credentials.Token, error) {
	if err := validator.Login(username, password); err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrAuthentication
		}
		return nil, storeError(err)
	}

	if !s.creds.VerifyPassword(password, user.Password) {
		return nil, apperrors.ErrAuthentication
	}

	token, err := s.creds.IssueToken(user.Username, user.RoleValues())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return token, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if !uuid.IsValid(id) {
		return nil, apperrors.EntityNotFound(models.EntityUser, "id", id)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.EntityNotFound(models.EntityUser, "id", id)
		}
		return nil, storeError(err)
	}
	return user, nil
}

// GetUserIDByUsername retrieves the id of the user with the given username.
func (s *userService) GetUserIDByUsername(ctx context.Context, username string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperrors.EntityNotFound(models.EntityUser, "username", username)
		}
		return "", storeError(err)
	}
	return user.ID, nil
}

// UpdateUser overwrites the username, email and password of a user. Roles are
// left as they are.
func (s *userService) UpdateUser(ctx context.Context, id, email, username, password string) (*models.User, error) {
	if err := validator.User(email, username, password); err != nil {
		return nil, err
	}

	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if username != user.Username {
		exists, err := s.users.ExistsByUsername(ctx, username)
		if err != nil {
			return nil, storeError(err)
		}
		if exists {
			return nil, apperrors.UsernameAlreadyExists(username)
		}
	}

	hash, err := s.creds.HashPassword(password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user.Username = username
	user.Email = email
	user.Password = hash

	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.UsernameAlreadyExists(username)
		}
		return nil, storeError(err)
	}
	return user, nil
}

// DeleteUser removes a user and returns the deleted record.
func (s *userService) DeleteUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.users.Delete(ctx, user); err != nil {
		return nil, storeError(err)
	}
	return user, nil
}

// GrantAdmin adds the ADMIN role to a user. Granting it again is a no-op.
func (s *userService) GrantAdmin(ctx context.Context, id string) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	admin, err := s.roles.FindByValue(ctx, models.RoleAdmin)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.EntityNotFound(models.EntityRole, "value", models.RoleAdmin)
		}
		return nil, storeError(err)
	}

	// A repeat grant returns the user unchanged instead of appending a
	// second ADMIN link.
	if user.HasRole(models.RoleAdmin) {
		return user, nil
	}

	user.Roles = append(user.Roles, *admin)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, storeError(err)
	}
	return user, nil
}

// storeError wraps an unexpected persistence failure.
func storeError(err error) error {
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
