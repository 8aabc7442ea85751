package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"gorm.io/datatypes"

	"stickywith_backend/internal/models"
	"stickywith_backend/internal/repositories"
	"stickywith_backend/internal/services/dto"
	"stickywith_backend/pkg/apperrors"
)

type ProfileService interface {
	GetProfile(userID string) (*dto.ProfileResponse, error)
	UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	Search(query string, limit int) ([]dto.UserSummary, error)
}

type profileServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewProfileService(userRepo repositories.UserRepository) ProfileService {
	return &profileServiceImpl{userRepo: userRepo}
}

func (s *profileServiceImpl) GetProfile(userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrTargetNotFound
		}
		return nil, apperrors.PersistenceFailure(err)
	}
	return buildProfileResponse(user), nil
}

func (s *profileServiceImpl) UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrTargetNotFound
		}
		return nil, apperrors.PersistenceFailure(err)
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Location != nil {
		user.Location = *req.Location
	}
	if req.SocialLinks != nil {
		raw, err := json.Marshal(req.SocialLinks)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		user.SocialLinks = datatypes.JSON(raw)
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, apperrors.PersistenceFailure(err)
	}
	return buildProfileResponse(user), nil
}

func (s *profileServiceImpl) Search(query string, limit int) ([]dto.UserSummary, error) {
	if query == "" {
		return []dto.UserSummary{}, nil
	}
	users, err := s.userRepo.SearchByUsername(query, limit)
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}
	results := make([]dto.UserSummary, 0, len(users))
	for i := range users {
		results = append(results, buildUserSummary(&users[i]))
	}
	return results, nil
}

func buildProfileResponse(user *models.User) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		AvatarURL: avatarOrFallback(user),
		Bio:       user.Bio,
		Location:  user.Location,
		CreatedAt: user.CreatedAt,
	}
	if len(user.SocialLinks) > 0 {
		links := map[string]string{}
		if err := json.Unmarshal(user.SocialLinks, &links); err == nil {
			resp.SocialLinks = links
		}
	}
	return resp
}

func buildUserSummary(user *models.User) dto.UserSummary {
	return dto.UserSummary{
		ID:        user.ID,
		Username:  user.Username,
		AvatarURL: avatarOrFallback(user),
	}
}

// avatarOrFallback returns the stored avatar or a generated initials image so
// clients never render an empty URL.
func avatarOrFallback(user *models.User) string {
	if user == nil {
		return ""
	}
	if user.AvatarURL != "" {
		return user.AvatarURL
	}
	return fmt.Sprintf("https://api.dicebear.com/7.x/initials/svg?seed=%s", url.QueryEscape(user.Username))
}
