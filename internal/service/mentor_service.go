package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/mentor-connect-api/internal/models"
	appErrors "github.com/noah-isme/mentor-connect-api/pkg/errors"
)

const (
	mentorListCachePattern = "mentors:*"
	mentorListCacheTTL     = 5 * time.Minute
)

type mentorRepository interface {
	List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, int, error)
	FindByMentorID(ctx context.Context, mentorID string) (*models.Mentor, error)
	ExistsByMentorID(ctx context.Context, mentorID string) (bool, error)
	Create(ctx context.Context, mentor *models.Mentor) error
}

type mentorStudentRepository interface {
	ListByMentorID(ctx context.Context, mentorID string) ([]models.Student, error)
}

type mentorRoster interface {
	FindMentor(mentorID string) (models.MasterMentor, bool)
}

// mentorListPayload is the cached shape for directory pages.
type mentorListPayload struct {
	Mentors    []models.Mentor   `json:"mentors"`
	Pagination models.Pagination `json:"pagination"`
}

// MentorService provisions mentor accounts from the master dataset and serves
// the mentor directory.
type MentorService struct {
	mentors   mentorRepository
	students  mentorStudentRepository
	roster    mentorRoster
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMentorService constructs a MentorService.
func NewMentorService(mentors mentorRepository, students mentorStudentRepository, roster mentorRoster, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *MentorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MentorService{mentors: mentors, students: students, roster: roster, cache: cache, validator: validate, logger: logger}
}

// Create provisions a mentor account. The identifier must appear in the master
// dataset and must not already be provisioned; all profile fields are copied
// from the dataset entry.
func (s *MentorService) Create(ctx context.Context, req models.CreateMentorRequest) (*models.Mentor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mentor payload")
	}

	entry, ok := s.roster.FindMentor(req.MentorID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found in master dataset")
	}

	exists, err := s.mentors.ExistsByMentorID(ctx, req.MentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check mentor")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "mentor already provisioned")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	mentor := &models.Mentor{
		MentorID:     entry.ID,
		PasswordHash: string(hash),
		FullName:     entry.Name,
		Email:        entry.Email,
		Department:   entry.Department,
		Year:         entry.Year,
		Skills:       pq.StringArray(entry.Skills),
	}
	if err := s.mentors.Create(ctx, mentor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create mentor")
	}

	if err := s.cache.Invalidate(ctx, mentorListCachePattern); err != nil {
		s.logger.Warn("mentor cache invalidation failed", zap.Error(err))
	}

	s.logger.Info("mentor provisioned", zap.String("mentor_id", mentor.MentorID))
	return mentor, nil
}

// List returns a directory page, served from cache when possible.
func (s *MentorService) List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	cacheKey := fmt.Sprintf("mentors:list:search=%s:page=%d:size=%d", filter.Search, filter.Page, filter.PageSize)
	var cached mentorListPayload
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached.Mentors, &cached.Pagination, nil
	}

	mentors, total, err := s.mentors.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list mentors")
	}

	pagination := models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	if err := s.cache.Set(ctx, cacheKey, mentorListPayload{Mentors: mentors, Pagination: pagination}, mentorListCacheTTL); err != nil {
		s.logger.Warn("mentor cache write failed", zap.Error(err))
	}
	return mentors, &pagination, nil
}

// Get fetches one mentor by external identifier.
func (s *MentorService) Get(ctx context.Context, mentorID string) (*models.Mentor, error) {
	mentor, err := s.mentors.FindByMentorID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch mentor")
	}
	return mentor, nil
}

// Students returns the roster of students provisioned under a mentor.
func (s *MentorService) Students(ctx context.Context, mentorID string) ([]models.Student, error) {
	if _, err := s.Get(ctx, mentorID); err != nil {
		return nil, err
	}
	students, err := s.students.ListByMentorID(ctx, mentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}
