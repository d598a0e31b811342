package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/apperr"
	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
)

// OnboardingService handles signup and profile maintenance.
type OnboardingService interface {
	Signup(ctx context.Context, payload dto.SignupRequest) (dto.SignupResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, payload dto.ProfileUpdateRequest) (dto.ProfileResponse, error)
}

type onboardingService struct {
	profiles  repository.ProfileRepository
	validator *validator.Validate
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewOnboardingService constructs an OnboardingService instance.
func NewOnboardingService(profileRepo repository.ProfileRepository, validate *validator.Validate, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) OnboardingService {
	return &onboardingService{
		profiles:  profileRepo,
		validator: validate,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("component", "onboarding_service").Logger(),
		now:       time.Now,
	}
}

func (s *onboardingService) Signup(ctx context.Context, payload dto.SignupRequest) (dto.SignupResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SignupResponse{}, err
	}

	if !payload.TermsAgreed {
		return dto.SignupResponse{}, apperr.ErrTermsNotAccepted
	}

	if _, err := s.profiles.GetByEmail(ctx, payload.Email); err == nil {
		return dto.SignupResponse{}, apperr.ErrProfileExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SignupResponse{}, err
	}

	profile := models.Profile{
		Email: payload.Email,
		Role:  payload.Role,
		Name:  payload.Name,
		Phone: payload.Phone,
	}
	if err := s.profiles.Create(ctx, &profile); err != nil {
		return dto.SignupResponse{}, err
	}

	token, err := s.issueToken(profile)
	if err != nil {
		return dto.SignupResponse{}, err
	}

	s.logger.Info().
		Str("user_id", profile.ID.String()).
		Str("role", profile.Role).
		Msg("profile created")

	return dto.SignupResponse{
		UserID:     profile.ID,
		Token:      token,
		RedirectTo: redirectForRole(profile.Role),
	}, nil
}

func (s *onboardingService) issueToken(profile models.Profile) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   profile.ID.String(),
		"email": profile.Email,
		"role":  profile.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", apperr.Wrap(err, 500, "TOKEN_ISSUE_FAILED", "failed to issue session token")
	}

	return signed, nil
}

func redirectForRole(role string) string {
	switch role {
	case models.RoleInstructor:
		return "/instructor/dashboard"
	case models.RoleOperator:
		return "/operator/dashboard"
	default:
		return "/courses"
	}
}

func (s *onboardingService) GetProfile(ctx context.Context, userID uuid.UUID) (dto.ProfileResponse, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProfileResponse{}, apperr.ErrProfileNotFound
		}
		return dto.ProfileResponse{}, err
	}

	return dto.NewProfileResponse(profile), nil
}

func (s *onboardingService) UpdateProfile(ctx context.Context, userID uuid.UUID, payload dto.ProfileUpdateRequest) (dto.ProfileResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProfileResponse{}, err
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProfileResponse{}, apperr.ErrProfileNotFound
		}
		return dto.ProfileResponse{}, err
	}

	if payload.Name != nil {
		profile.Name = *payload.Name
	}
	if payload.Phone != nil {
		profile.Phone = *payload.Phone
	}
	if payload.AvatarURL != nil {
		profile.AvatarURL = *payload.AvatarURL
	}
	if payload.Bio != nil {
		profile.Bio = *payload.Bio
	}
	if payload.WebsiteURL != nil {
		profile.WebsiteURL = *payload.WebsiteURL
	}
	if payload.Expertise != nil {
		data, err := json.Marshal(*payload.Expertise)
		if err != nil {
			return dto.ProfileResponse{}, apperr.Wrap(err, 400, "VALIDATION_ERROR", "invalid expertise list")
		}
		profile.Expertise = datatypes.JSON(data)
	}
	if payload.YearsOfExperience != nil {
		profile.YearsOfExperience = *payload.YearsOfExperience
	}

	if err := s.profiles.Update(ctx, &profile); err != nil {
		return dto.ProfileResponse{}, err
	}

	return dto.NewProfileResponse(profile), nil
}
