package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/mentor-connect-api/internal/models"
	appErrors "github.com/noah-isme/mentor-connect-api/pkg/errors"
)

type authMentorRepository interface {
	FindByMentorID(ctx context.Context, mentorID string) (*models.Mentor, error)
}

type authStudentRepository interface {
	FindByStudentID(ctx context.Context, studentID string) (*models.Student, error)
}

// AuthConfig defines configuration for authentication flows. The admin is a
// bootstrap identity held in configuration, not in the database.
type AuthConfig struct {
	Secret        string
	Expiry        time.Duration
	Issuer        string
	AdminUsername string
	AdminPassword string
}

// AuthService resolves credentials for the three role tags and issues and
// verifies access tokens.
type AuthService struct {
	mentors   authMentorRepository
	students  authStudentRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(mentors authMentorRepository, students authStudentRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.Expiry <= 0 {
		config.Expiry = time.Hour
	}
	return &AuthService{mentors: mentors, students: students, validator: validate, logger: logger, config: config}
}

// Login authenticates one of admin, mentor or student and returns a token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	switch req.Role {
	case models.RoleAdmin:
		return s.loginAdmin(req)
	case models.RoleMentor:
		return s.loginMentor(ctx, req)
	case models.RoleStudent:
		return s.loginStudent(ctx, req)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid role")
	}
}

func (s *AuthService) loginAdmin(req models.LoginRequest) (*models.LoginResponse, error) {
	if s.config.AdminPassword == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "admin login disabled")
	}
	userMatch := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.config.AdminUsername)) == 1
	passMatch := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.config.AdminPassword)) == 1
	if !userMatch || !passMatch {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid admin credentials")
	}

	info := models.UserInfo{ID: "admin", Role: models.RoleAdmin, FullName: s.config.AdminUsername}
	return s.issue(info)
}

func (s *AuthService) loginMentor(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.MentorID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mentor_id is required")
	}

	mentor, err := s.mentors.FindByMentorID(ctx, req.MentorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "mentor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch mentor")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(mentor.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")
	}

	info := models.UserInfo{ID: mentor.ID, Role: models.RoleMentor, ExternalID: mentor.MentorID, FullName: mentor.FullName}
	return s.issue(info)
}

func (s *AuthService) loginStudent(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.StudentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student_id is required")
	}

	student, err := s.students.FindByStudentID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")
	}

	info := models.UserInfo{ID: student.ID, Role: models.RoleStudent, ExternalID: student.StudentID, FullName: student.FullName}
	return s.issue(info)
}

func (s *AuthService) issue(info models.UserInfo) (*models.LoginResponse, error) {
	token, err := s.generateAccessToken(info)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.LoginResponse{
		Token:     token,
		Role:      info.Role,
		ExpiresIn: int64(s.config.Expiry.Seconds()),
		User:      info,
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) generateAccessToken(info models.UserInfo) (string, error) {
	issuedAt := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID:     info.ID,
		Role:       info.Role,
		ExternalID: info.ExternalID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   info.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}
