package userapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"devhub/internal/core/apperr"
	userEntity "devhub/internal/core/user"
	userPort "devhub/internal/ports/user"
	"devhub/internal/ports/uow"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
)

const (
	tokenIssuer = "devhub"
	tokenTTL    = 24 * time.Hour
)

// UserService registers users, issues access tokens and resolves the actor behind a request.
type UserService struct {
	UserRepository userPort.UserRepository
	Logger         *zap.Logger
	jwtKey         []byte
	validate       *validator.Validate
	inflight       singleflight.Group
	now            func() time.Time
}

func NewUserService(repo userPort.UserRepository, jwtKey []byte, logger *zap.Logger) *UserService {
	return &UserService{
		UserRepository: repo,
		Logger:         logger,
		jwtKey:         jwtKey,
		validate:       validator.New(),
		now:            time.Now,
	}
}

type accessClaims struct {
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	jwt.StandardClaims
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterUser creates a password account. The email is the unique login name.
func (s *UserService) RegisterUser(ctx context.Context, in userPort.RegisterInput) (*userPort.UserDTO, error) {
	in.Email = normalizeEmail(in.Email)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.FromValidation(err)
	}

	if _, err := s.UserRepository.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperr.New(apperr.BadRequest, "email already registered")
	} else if !errors.Is(err, uow.ErrNotFound) {
		return nil, uow.AppError(err, "user")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "hash password", err)
	}

	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		PasswordHash: string(hashed),
	})
	if errors.Is(err, uow.ErrDuplicate) {
		return nil, apperr.New(apperr.BadRequest, "email already registered")
	}
	if err != nil {
		return nil, uow.AppError(err, "user")
	}
	return toDTO(u), nil
}

// LoginUser checks the password and issues an HS256 access token.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*userPort.LoginResponse, error) {
	u, err := s.UserRepository.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, uow.ErrNotFound) {
		return nil, apperr.New(apperr.Unauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, uow.AppError(err, "user")
	}

	// accounts materialized from an external identity have no password
	if u.PasswordHash == "" {
		return nil, apperr.New(apperr.Unauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.New(apperr.Unauthorized, "invalid credentials")
	}

	now := s.now()
	expiresAt := now.Add(tokenTTL).Unix()
	token, err := s.generateJWT(u, now, expiresAt)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "could not generate token", err)
	}
	return &userPort.LoginResponse{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *UserService) generateJWT(u *userEntity.User, now time.Time, expiresAt int64) (string, error) {
	claims := &accessClaims{
		Email:  u.Email,
		Name:   u.DisplayName,
		Avatar: u.AvatarURL,
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: expiresAt,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
}

// ParseToken verifies an access token and returns the identity claim it carries.
func (s *UserService) ParseToken(raw string) (userEntity.IdentityClaim, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return userEntity.IdentityClaim{}, apperr.Wrap(apperr.Unauthorized, "invalid token", err)
	}
	return userEntity.IdentityClaim{
		ActorID:   claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		AvatarURL: claims.Avatar,
	}, nil
}

// ResolveActor maps an identity claim to a local actor.
// A known actor id wins; otherwise the email is fetched or materialized; otherwise the caller is anonymous.
func (s *UserService) ResolveActor(ctx context.Context, claim userEntity.IdentityClaim) (userEntity.Actor, error) {
	if id, err := uuid.FromString(claim.ActorID); err == nil && id != uuid.Nil {
		u, err := s.UserRepository.FindByID(ctx, id)
		if err == nil {
			return userEntity.Actor{ID: u.ID}, nil
		}
		if !errors.Is(err, uow.ErrNotFound) {
			return userEntity.Anonymous, uow.AppError(err, "user")
		}
	}

	email := normalizeEmail(claim.Email)
	if email == "" {
		return userEntity.Anonymous, nil
	}

	// waiters share one result; it outlives the first caller's request
	v, err, _ := s.inflight.Do(email, func() (interface{}, error) {
		return s.fetchOrCreate(context.WithoutCancel(ctx), email, claim)
	})
	if err != nil {
		return userEntity.Anonymous, err
	}
	return userEntity.Actor{ID: v.(*userEntity.User).ID}, nil
}

// fetchOrCreate relies on the unique email index across processes: losing the insert race means re-reading.
func (s *UserService) fetchOrCreate(ctx context.Context, email string, claim userEntity.IdentityClaim) (*userEntity.User, error) {
	u, err := s.UserRepository.FindByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, uow.ErrNotFound) {
		return nil, uow.AppError(err, "user")
	}

	name := strings.TrimSpace(claim.Name)
	if name == "" {
		name = userEntity.DefaultDisplayName
	}
	u, err = s.UserRepository.Create(ctx, &userEntity.User{
		Email:       email,
		DisplayName: name,
		AvatarURL:   claim.AvatarURL,
	})
	if errors.Is(err, uow.ErrDuplicate) {
		s.Logger.Debug("actor materialized concurrently, re-fetching", zap.String("email", email))
		u, err = s.UserRepository.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, uow.AppError(err, "user")
	}

	s.Logger.Info("materialized user from identity claim", zap.String("userID", u.ID.String()))
	return u, nil
}

func toDTO(u *userEntity.User) *userPort.UserDTO {
	return &userPort.UserDTO{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}
