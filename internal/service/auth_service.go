package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"eblotter/api/internal/config"
	"eblotter/api/internal/ids"
	"eblotter/api/internal/models"
	"eblotter/api/internal/repository"
	"eblotter/api/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.[a-zA-Z]{2,}$`)

// Principal is the safe view of an authenticated account, whichever table
// it lives in.
type Principal struct {
	ID        string
	Number    string
	Email     string
	FirstName string
	LastName  string
	Role      models.Role
	Status    models.AccountStatus
}

type AuthResult struct {
	AccessToken string
	Principal   Principal
}

type AuthService struct {
	users       UserStore
	officers    OfficerStore
	userNumbers *ids.Generator
	throttle    *LoginThrottle
	cfg         *config.AppConfig
	log         zerolog.Logger
}

func NewAuthService(
	users UserStore,
	officers OfficerStore,
	throttle *LoginThrottle,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		officers:    officers,
		userNumbers: ids.NewGenerator(ids.PrefixUser, users),
		throttle:    throttle,
		cfg:         cfg,
		log:         log,
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// Register creates a citizen account. Self-registration always yields the
// user role; elevated roles are assigned administratively.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.Password == "" {
		return AuthResult{}, fmt.Errorf("%w: email and password required", ErrValidation)
	}
	if !emailPattern.MatchString(input.Email) {
		return AuthResult{}, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if len(input.Password) < 6 {
		return AuthResult{}, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Email:        input.Email,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         models.RoleUser,
		Status:       models.AccountActive,
	}

	if err := s.createWithNumber(ctx, &user); err != nil {
		return AuthResult{}, err
	}

	return s.issueFor(principalFromUser(user))
}

// createWithNumber generates the USR reference and inserts the record.
// A unique-constraint race on the number is retried once with a fresh
// candidate; the constraint itself is the real uniqueness guarantee.
func (s *AuthService) createWithNumber(ctx context.Context, user *models.User) error {
	for attempt := 0; attempt < 2; attempt++ {
		number, err := s.userNumbers.Generate(ctx)
		if err != nil {
			return err
		}
		user.Number = number

		err = s.users.Create(ctx, *user)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return err
		}
		// Email duplicates also surface here; only the number race retries.
		if _, lookupErr := s.users.FindByEmail(ctx, user.Email); lookupErr == nil {
			return ErrEmailTaken
		}
	}
	return repository.ErrDuplicate
}

type LoginInput struct {
	Email    string
	Password string
}

// Login authenticates either a citizen or an officer by email.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.Password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, input.Email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle unavailable")
		} else if !allowed {
			return AuthResult{}, ErrTooManyAttempts
		}
	}

	principal, passwordHash, err := s.findPrincipal(ctx, input.Email)
	if err != nil {
		return AuthResult{}, err
	}

	if principal.Status == models.AccountSuspended {
		return AuthResult{}, security.ErrAccountSuspended
	}

	ok, err := security.VerifyPassword(input.Password, passwordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.issueFor(principal)
}

func (s *AuthService) findPrincipal(ctx context.Context, email string) (Principal, []byte, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return principalFromUser(user), user.PasswordHash, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return Principal{}, nil, err
	}

	officer, err := s.officers.FindByEmail(ctx, email)
	if err == nil {
		return principalFromOfficer(officer), officer.PasswordHash, nil
	}
	if !errors.Is(err, repository.ErrOfficerNotFound) {
		return Principal{}, nil, err
	}
	return Principal{}, nil, ErrInvalidCredentials
}

func (s *AuthService) issueFor(principal Principal) (AuthResult, error) {
	token, err := security.GenerateAccessToken(
		s.cfg.Security.JWTSecret,
		principal.ID,
		string(principal.Role),
		ids.New(),
		s.cfg.Security.JWTAccessTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{AccessToken: token, Principal: principal}, nil
}

// ResolveActor reloads the principal behind verified claims so account
// status reflects the current record, not the one at token issue time.
func (s *AuthService) ResolveActor(ctx context.Context, claims *security.AccessClaims) (security.Actor, error) {
	role := models.Role(claims.Role)
	switch role {
	case models.RoleOfficer:
		officer, err := s.officers.GetByID(ctx, claims.UserID)
		if err != nil {
			return security.Actor{}, err
		}
		return security.Actor{ID: officer.ID, Role: models.RoleOfficer, Status: officer.Status}, nil
	case models.RoleUser, models.RoleAdmin:
		user, err := s.users.GetByID(ctx, claims.UserID)
		if err != nil {
			return security.Actor{}, err
		}
		return security.Actor{ID: user.ID, Role: user.Role, Status: user.Status}, nil
	default:
		return security.Actor{}, ErrInvalidCredentials
	}
}

func principalFromUser(user models.User) Principal {
	return Principal{
		ID:        user.ID,
		Number:    user.Number,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		Status:    user.Status,
	}
}

func principalFromOfficer(officer models.Officer) Principal {
	return Principal{
		ID:        officer.ID,
		Number:    officer.Number,
		Email:     officer.Email,
		FirstName: officer.FirstName,
		LastName:  officer.LastName,
		Role:      models.RoleOfficer,
		Status:    officer.Status,
	}
}
