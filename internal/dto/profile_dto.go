package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// SignupRequest describes the onboarding payload. Role is assigned once and
// is immutable afterwards; operators are provisioned out of band.
type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Role        string `json:"role" validate:"required,oneof=learner instructor"`
	Name        string `json:"name" validate:"required,min=1"`
	Phone       string `json:"phone" validate:"omitempty,min=7,max=32"`
	TermsAgreed bool   `json:"terms_agreed"`
}

// SignupResponse reports the created profile and its session token.
type SignupResponse struct {
	UserID     uuid.UUID `json:"user_id"`
	Token      string    `json:"token"`
	RedirectTo string    `json:"redirect_to"`
}

// ProfileUpdateRequest describes a partial profile update. The role field is
// deliberately absent.
type ProfileUpdateRequest struct {
	Name              *string   `json:"name" validate:"omitempty,min=1"`
	Phone             *string   `json:"phone" validate:"omitempty,min=7,max=32"`
	AvatarURL         *string   `json:"avatar_url" validate:"omitempty,url"`
	Bio               *string   `json:"bio"`
	WebsiteURL        *string   `json:"website_url" validate:"omitempty,url"`
	Expertise         *[]string `json:"expertise"`
	YearsOfExperience *int      `json:"years_of_experience" validate:"omitempty,gte=0"`
}

// ProfileResponse is the serialized profile returned to API clients.
type ProfileResponse struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	Name              string    `json:"name"`
	Phone             string    `json:"phone"`
	AvatarURL         string    `json:"avatar_url"`
	Bio               string    `json:"bio"`
	WebsiteURL        string    `json:"website_url"`
	Expertise         []string  `json:"expertise"`
	YearsOfExperience int       `json:"years_of_experience"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewProfileResponse converts a model into a DTO.
func NewProfileResponse(model models.Profile) ProfileResponse {
	expertise := []string{}
	if len(model.Expertise) > 0 {
		_ = json.Unmarshal(model.Expertise, &expertise)
	}

	return ProfileResponse{
		ID:                model.ID,
		Email:             model.Email,
		Role:              model.Role,
		Name:              model.Name,
		Phone:             model.Phone,
		AvatarURL:         model.AvatarURL,
		Bio:               model.Bio,
		WebsiteURL:        model.WebsiteURL,
		Expertise:         expertise,
		YearsOfExperience: model.YearsOfExperience,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}
