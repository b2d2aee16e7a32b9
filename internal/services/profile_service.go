package services

import (
	"context"
	"strings"

	"ripple-chat/internal/domain"
	"ripple-chat/internal/repository"
	ripple_errors "ripple-chat/pkg/errors"
	"ripple-chat/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const searchLimit = 10

// Presence reports whether a profile currently has a live connection.
type Presence interface {
	IsOnline(ctx context.Context, profileID uuid.UUID) (bool, error)
}

type ProfileService struct {
	profiles repository.ProfileRepository
	presence Presence
	log      *logger.Logger
}

func NewProfileService(profiles repository.ProfileRepository, presence Presence, log *logger.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, presence: presence, log: log}
}

// ProfileView is a profile as shown to other users, with a live presence flag.
type ProfileView struct {
	domain.Profile
	Online bool `json:"online"`
}

func (s *ProfileService) GetByID(ctx context.Context, id uuid.UUID) (ProfileView, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return ProfileView{}, err
	}
	return s.withPresence(ctx, profile), nil
}

// Search finds profiles whose username or full name matches the query. The
// caller is always excluded from the results.
func (s *ProfileService) Search(ctx context.Context, query string, callerID uuid.UUID) ([]ProfileView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ripple_errors.ErrInvalidInput
	}

	profiles, err := s.profiles.Search(ctx, query, callerID, searchLimit)
	if err != nil {
		return nil, err
	}

	views := make([]ProfileView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, s.withPresence(ctx, p))
	}
	return views, nil
}

// ProfileUpdate carries the mutable profile fields. Nil pointers are left
// untouched.
type ProfileUpdate struct {
	FullName  *string
	AvatarURL *string
}

func (s *ProfileService) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (domain.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return domain.Profile{}, err
	}

	if update.FullName != nil {
		profile.FullName = toNullString(strings.TrimSpace(*update.FullName))
	}
	if update.AvatarURL != nil {
		profile.AvatarURL = toNullString(strings.TrimSpace(*update.AvatarURL))
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

func (s *ProfileService) withPresence(ctx context.Context, profile domain.Profile) ProfileView {
	view := ProfileView{Profile: profile}
	if s.presence == nil {
		return view
	}
	online, err := s.presence.IsOnline(ctx, profile.ID)
	if err != nil {
		s.log.WarnCtx(ctx, "presence lookup failed",
			zap.String("profile_id", profile.ID.String()),
			zap.Error(err))
		return view
	}
	view.Online = online
	return view
}
