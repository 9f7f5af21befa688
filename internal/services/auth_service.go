package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"modernblog/internal/models"
	"modernblog/internal/repositories"
	"modernblog/internal/session"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthProvider is the authentication surface used by the HTTP layer.
type AuthProvider interface {
	SignUp(ctx context.Context, req RegisterRequest) (*models.Profile, error)
	SignIn(ctx context.Context, email, password string) (string, models.Identity, error)
	SignOut(ctx context.Context, token string) error
	Session(ctx context.Context, token string) (session.Context, error)
}

// RegisterRequest carries the sign-up form.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=100,username"`
	FullName        string `json:"full_name" validate:"omitempty,max=255"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	blacklist   repositories.TokenBlacklist
	events      EventPublisher
	hub         *session.Hub
	validate    *validator.Validate
	jwtSecret   []byte
	tokenDurat  time.Duration // Duration for which JWT is valid
}

var _ AuthProvider = (*AuthService)(nil)

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, profileRepo repositories.ProfileRepository,
	blacklist repositories.TokenBlacklist, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		blacklist:   blacklist,
		hub:         session.NewHub(),
		validate:    newValidator(),
		jwtSecret:   []byte(jwtSecret),
		tokenDurat:  24 * time.Hour,
	}
}

// SetTokenDuration changes how long issued tokens stay valid.
func (s *AuthService) SetTokenDuration(d time.Duration) {
	if d > 0 {
		s.tokenDurat = d
	}
}

// SetEventPublisher attaches a broker for domain events.
func (s *AuthService) SetEventPublisher(p EventPublisher) {
	s.events = p
}

// Subscribe registers fn for sign-in and sign-out events.
func (s *AuthService) Subscribe(fn func(session.Event)) (unsubscribe func()) {
	return s.hub.Subscribe(fn)
}

// SignUp creates the identity record and its profile.
func (s *AuthService) SignUp(ctx context.Context, req RegisterRequest) (*models.Profile, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	if _, err := s.profileRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, &AuthError{Op: "sign up", Err: ErrUsernameTaken}
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, &AuthError{Op: "sign up", Err: err}
	}
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, &AuthError{Op: "sign up", Err: ErrEmailTaken}
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, &AuthError{Op: "sign up", Err: err}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &AuthError{Op: "sign up", Err: fmt.Errorf("failed to hash password: %w", err)}
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, &AuthError{Op: "sign up", Err: ErrEmailTaken}
		}
		return nil, &AuthError{Op: "sign up", Err: err}
	}

	profile := &models.Profile{
		ID:       user.ID,
		Username: req.Username,
		FullName: req.FullName,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		log.Printf("Error creating profile for %s, removing identity record: %v", user.ID, err)
		if derr := s.userRepo.Delete(ctx, user.ID); derr != nil {
			log.Printf("Error removing identity record %s: %v", user.ID, derr)
		}
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, &AuthError{Op: "sign up", Err: ErrUsernameTaken}
		}
		return nil, &AuthError{Op: "sign up", Err: err}
	}

	publishEvent(s.events, EventUserRegistered, map[string]interface{}{
		"userID":   user.ID,
		"username": profile.Username,
	})
	return profile, nil
}

// SignIn authenticates a user and returns a JWT token if successful.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, models.Identity, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			log.Printf("Error looking up user for sign in: %v", err)
		}
		return "", models.Identity{}, &AuthError{Op: "sign in", Err: ErrInvalidCredentials}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", models.Identity{}, &AuthError{Op: "sign in", Err: ErrInvalidCredentials}
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"jti":     uuid.New().String(),
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenDurat).Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", models.Identity{}, &AuthError{Op: "sign in", Err: fmt.Errorf("failed to generate token: %w", err)}
	}

	identity := models.Identity{ID: user.ID, Email: user.Email}
	s.hub.Publish(session.Event{Kind: session.SignedIn, Session: session.WithIdentity(identity)})
	return tokenString, identity, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid
// and not signed out.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, ok := claims["user_id"].(string); !ok {
		return nil, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}

	if jti, _ := claims["jti"].(string); jti != "" {
		revoked, err := s.blacklist.IsRevoked(ctx, jti)
		if err != nil {
			return nil, &AuthError{Op: "check token", Err: err}
		}
		if revoked {
			return nil, fmt.Errorf("%w: signed out", ErrInvalidToken)
		}
	}
	return claims, nil
}

// Session resolves a bearer token to a session. An empty token is anonymous.
func (s *AuthService) Session(ctx context.Context, token string) (session.Context, error) {
	if token == "" {
		return session.Anonymous(), nil
	}
	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		return session.Anonymous(), err
	}
	email, _ := claims["email"].(string)
	return session.WithIdentity(models.Identity{
		ID:    claims["user_id"].(string),
		Email: email,
	}), nil
}

// SignOut revokes the token until it would have expired.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		return &AuthError{Op: "sign out", Err: err}
	}

	jti, _ := claims["jti"].(string)
	exp, _ := claims["exp"].(float64)
	if jti != "" {
		if err := s.blacklist.Revoke(ctx, jti, time.Unix(int64(exp), 0)); err != nil {
			return &AuthError{Op: "sign out", Err: err}
		}
	}

	email, _ := claims["email"].(string)
	ended := session.WithIdentity(models.Identity{ID: claims["user_id"].(string), Email: email})
	s.hub.Publish(session.Event{Kind: session.SignedOut, Session: ended})
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
