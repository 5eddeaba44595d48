package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/assuredtransfer/aft-request-api/internal/config"
	"github.com/assuredtransfer/aft-request-api/internal/dao"
	"github.com/assuredtransfer/aft-request-api/internal/models"
	"github.com/assuredtransfer/aft-request-api/internal/serviceerror"
	"github.com/assuredtransfer/aft-request-api/internal/workflow"
)

// AuthService issues and validates bearer tokens and resolves the acting
// user's role set.
type AuthService struct {
	userDAO *dao.UserDAO
	cfg     *config.AuthConfig
	logger  *logrus.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(userDAO *dao.UserDAO, cfg *config.AuthConfig, logger *logrus.Logger) *AuthService {
	return &AuthService{
		userDAO: userDAO,
		cfg:     cfg,
		logger:  logger,
	}
}

// Login verifies credentials and issues a signed JWT. Unknown emails and
// wrong passwords produce the same error so the endpoint does not leak
// which accounts exist.
func (s *AuthService) Login(ctx context.Context, payload models.LoginRequest) (*models.LoginResponse, *serviceerror.ServiceError) {
	user, err := s.userDAO.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, serviceerror.CustomServiceError(serviceerror.UnauthorizedError, "invalid credentials")
		}
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	if !user.Active {
		return nil, serviceerror.CustomServiceError(serviceerror.UnauthorizedError, "invalid credentials")
	}

	if bcryptErr := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); bcryptErr != nil {
		s.logger.WithFields(logrus.Fields{
			"email": payload.Email,
		}).Warn("Failed login attempt")
		return nil, serviceerror.CustomServiceError(serviceerror.UnauthorizedError, "invalid credentials")
	}

	additional, err := s.userDAO.GetAdditionalRoles(ctx, user.UserID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	roles := rolesToStrings(user.EffectiveRoles(additional))

	expiresAt := time.Now().Add(s.cfg.TokenTTL)
	claims := jwt.MapClaims{
		"sub":   user.UserID,
		"name":  user.FullName,
		"email": user.Email,
		"iss":   s.cfg.Issuer,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, err.Error())
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.UserID,
	}).Info("User logged in")

	return &models.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt.UnixMilli(),
		UserID:    user.UserID,
		FullName:  user.FullName,
		Roles:     roles,
	}, nil
}

// ResolveToken validates a bearer token and loads the user it names, with
// the full effective role set. Used by the authentication middleware.
func (s *AuthService) ResolveToken(ctx context.Context, tokenString string) (*models.User, []workflow.Role, *serviceerror.ServiceError) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithIssuer(s.cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, nil, serviceerror.CustomServiceError(serviceerror.UnauthorizedError, "invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, nil, serviceerror.CustomServiceError(serviceerror.UnauthorizedError, "invalid token claims")
	}
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, nil, serviceerror.CustomServiceError(serviceerror.UnauthorizedError, "token has no subject")
	}

	user, err := s.userDAO.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, nil, serviceerror.CustomServiceError(serviceerror.UnauthorizedError, "token subject no longer exists")
		}
		return nil, nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	if !user.Active {
		return nil, nil, serviceerror.CustomServiceError(serviceerror.UnauthorizedError, "user account is deactivated")
	}

	additional, err := s.userDAO.GetAdditionalRoles(ctx, user.UserID)
	if err != nil {
		return nil, nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	return user, user.EffectiveRoles(additional), nil
}

// Me returns the profile of the authenticated actor
func (s *AuthService) Me(ctx context.Context, actor workflow.Actor) (*models.UserResponse, *serviceerror.ServiceError) {
	if actor.UserID == "" {
		return nil, serviceerror.CustomServiceError(serviceerror.UnauthorizedError, "no authenticated actor")
	}
	user, err := s.userDAO.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, serviceerror.CustomServiceError(serviceerror.NotFoundError, "user not found")
		}
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	return &models.UserResponse{
		UserID:      user.UserID,
		Email:       user.Email,
		FullName:    user.FullName,
		PrimaryRole: user.PrimaryRole,
		Roles:       rolesToStrings(actor.Roles),
		Active:      user.Active,
	}, nil
}

// ListUsersByRole returns the active holders of a role. Only the DTA needs
// this (to hand off to an SME or media custodian), plus admins.
func (s *AuthService) ListUsersByRole(ctx context.Context, actor workflow.Actor, role string) ([]models.UserResponse, *serviceerror.ServiceError) {
	if actor.UserID == "" {
		return nil, serviceerror.CustomServiceError(serviceerror.UnauthorizedError, "no authenticated actor")
	}
	if !actor.IsAdmin() && !actor.HasRole(workflow.RoleDTA) {
		return nil, serviceerror.CustomServiceError(serviceerror.ForbiddenError,
			"listing users by role requires the dta or admin role")
	}
	if _, err := workflow.ParseRole(role); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	users, err := s.userDAO.ListByRole(ctx, role)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		u := &users[i]
		responses = append(responses, models.UserResponse{
			UserID:      u.UserID,
			Email:       u.Email,
			FullName:    u.FullName,
			PrimaryRole: u.PrimaryRole,
			Active:      u.Active,
		})
	}
	return responses, nil
}

func rolesToStrings(roles []workflow.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}
