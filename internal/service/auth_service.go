package service

import (
	"context"
	"log/slog"
	"strings"

	"blog/internal/credentials"
	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/repository"
)

// Messages shown on the register and login pages.
const (
	AlreadyRegisteredMessage = "You already have an account, kindly login."
	UnknownEmailMessage      = "Sorry, there's no account with that email."
	WrongPasswordMessage     = "Your details is incorrect."
)

// AuthService registers accounts and checks sign-in credentials.
type AuthService struct {
	userRepo repository.UserRepository
}

// RegisterInput is a validated sign-up request.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// LoginInput is a validated sign-in request.
type LoginInput struct {
	Email    string
	Password string
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Register creates an account. An email that is already registered yields a
// DuplicateError carrying AlreadyRegisteredMessage and nothing is written.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if email == "" || in.Password == "" || name == "" {
		return nil, models.NewValidationError("Email, password and name are required.")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateError(AlreadyRegisteredMessage)
	}

	hash, err := credentials.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    email,
		Password: hash,
		Name:     TitleCase(name),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if models.HasCode(err, models.CodeDuplicate) {
			return nil, models.NewDuplicateError(AlreadyRegisteredMessage)
		}
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "account registered",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.Bool("is_admin", user.IsAdmin),
	)
	return user, nil
}

// Login returns the account matching the credentials. Unknown emails and wrong
// passwords are distinct UnauthorizedErrors. Legacy password hashes are
// upgraded after a successful check.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError(UnknownEmailMessage)
	}
	if !credentials.Verify(in.Password, user.Password) {
		return nil, models.NewUnauthorizedError(WrongPasswordMessage)
	}

	if credentials.NeedsRehash(user.Password) {
		s.upgradeHash(ctx, user, in.Password)
	}
	return user, nil
}

// CurrentUser loads the account behind a session. A deleted account yields nil, nil.
func (s *AuthService) CurrentUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) upgradeHash(ctx context.Context, user *models.User, password string) {
	hash, err := credentials.Hash(password)
	if err == nil {
		err = s.userRepo.UpdatePassword(ctx, user.ID, hash)
	}
	if err != nil {
		middleware.Logger.WarnContext(ctx, "password hash upgrade failed",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.String("error", err.Error()),
		)
		return
	}
	user.Password = hash
}
