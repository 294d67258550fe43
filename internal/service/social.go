package service

import (
	"context"
	"errors"
	"net/mail"
	"net/url"
	"strings"

	"skatebook/internal/config"
	"skatebook/internal/constants"
	"skatebook/internal/domain"
	"skatebook/internal/graph"
	"skatebook/internal/metrics"
	"skatebook/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type SocialService struct {
	profiles  *repository.ProfileRepository
	statuses  *repository.StatusRepository
	friends   *repository.FriendRepository
	metrics   *metrics.Metrics
	feedLimit int
	logger    zerolog.Logger
}

type Suggestion = graph.Suggestion

func NewSocialService(
	cfg *config.Config,
	profiles *repository.ProfileRepository,
	statuses *repository.StatusRepository,
	friends *repository.FriendRepository,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *SocialService {
	return &SocialService{
		profiles:  profiles,
		statuses:  statuses,
		friends:   friends,
		metrics:   m,
		feedLimit: cfg.FeedLimit,
		logger:    logger,
	}
}

func validateProfile(p *domain.Profile, creating bool) error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.City = strings.TrimSpace(p.City)
	p.Email = strings.TrimSpace(p.Email)
	p.ImageURL = strings.TrimSpace(p.ImageURL)

	problems := domain.NewValidationError()
	if creating {
		if p.FirstName == "" {
			problems.Add("first name is required")
		}
		if p.LastName == "" {
			problems.Add("last name is required")
		}
		if len(p.FirstName) > constants.NameMaxLen || len(p.LastName) > constants.NameMaxLen {
			problems.Add("name is too long")
		}
	}
	if p.City == "" {
		problems.Add("city is required")
	}
	if !validEmail(p.Email) {
		problems.Add("a valid email is required")
	}
	if p.ImageURL != "" && !validURL(p.ImageURL) {
		problems.Add("image url is invalid")
	}
	return problems.OrNil()
}

// validEmail accepts a bare address only, not the "Name <addr>" form.
func validEmail(raw string) bool {
	addr, err := mail.ParseAddress(raw)
	return err == nil && addr.Address == raw
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func (s *SocialService) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := validateProfile(profile, true); err != nil {
		return err
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		s.logger.Error().Err(err).Str("email", profile.Email).Msg("failed to create profile")
		return err
	}

	s.logger.Info().Str("profile_id", profile.ID).Msg("profile created")
	return nil
}

func (s *SocialService) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.profiles.Get(ctx, id)
}

// UpdateProfile changes city, email and image.
func (s *SocialService) UpdateProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := validateProfile(profile, false); err != nil {
		return nil, err
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info().Str("profile_id", profile.ID).Msg("profile updated")
	return s.profiles.Get(ctx, profile.ID)
}

func (s *SocialService) DeleteProfile(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.profiles.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("profile_id", id).Msg("profile deleted")
	return nil
}

func (s *SocialService) ListProfiles(ctx context.Context, limit int) ([]domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.profiles.List(ctx, clampLimit(limit, constants.MaxListLimit))
}

func validateMessage(message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", domain.NewValidationError("message is required")
	}
	if len(message) > constants.StatusMaxLen {
		return "", domain.NewValidationError("message is too long")
	}
	return message, nil
}

// PostStatus stores the message with one image per non-empty URL.
func (s *SocialService) PostStatus(ctx context.Context, profileID, message string, images []domain.Image) (*domain.StatusMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	message, err := validateMessage(message)
	if err != nil {
		return nil, err
	}

	problems := domain.NewValidationError()
	attached := make([]domain.Image, 0, len(images))
	for _, img := range images {
		img.URL = strings.TrimSpace(img.URL)
		if img.URL == "" {
			continue
		}
		if !validURL(img.URL) {
			problems.Add("image url " + img.URL + " is invalid")
			continue
		}
		attached = append(attached, domain.Image{URL: img.URL, Caption: strings.TrimSpace(img.Caption)})
	}
	if err := problems.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.profiles.Get(ctx, profileID); err != nil {
		return nil, err
	}

	status := &domain.StatusMessage{
		ProfileID: profileID,
		Message:   message,
		Images:    attached,
	}
	if err := s.statuses.Create(ctx, status); err != nil {
		s.logger.Error().Err(err).Str("profile_id", profileID).Msg("failed to post status")
		return nil, err
	}

	s.logger.Info().
		Str("profile_id", profileID).
		Str("status_id", status.ID).
		Int("images", len(attached)).
		Msg("status posted")
	return status, nil
}

func (s *SocialService) UpdateStatus(ctx context.Context, id, message string) (*domain.StatusMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	message, err := validateMessage(message)
	if err != nil {
		return nil, err
	}
	if err := s.statuses.Update(ctx, id, message); err != nil {
		return nil, err
	}
	return s.statuses.Get(ctx, id)
}

func (s *SocialService) DeleteStatus(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.statuses.Delete(ctx, id)
}

// ListStatuses returns a profile's own statuses, newest first.
func (s *SocialService) ListStatuses(ctx context.Context, profileID string, limit int) ([]domain.StatusMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := s.profiles.Get(ctx, profileID); err != nil {
		return nil, err
	}
	statuses, err := s.statuses.ByProfiles(ctx, []string{profileID}, clampLimit(limit, s.feedLimit))
	if err != nil {
		return nil, err
	}
	if err := s.statuses.AttachImages(ctx, statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// AddFriend connects self and other. An existing edge in either direction
// fails with domain.ErrAlreadyFriends.
func (s *SocialService) AddFriend(ctx context.Context, self, other string) (*domain.Friend, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if self == "" || other == "" {
		return nil, domain.NewValidationError("both profiles are required")
	}
	if self == other {
		return nil, domain.NewValidationError("a profile cannot befriend itself")
	}

	friend, err := s.friends.Add(ctx, self, other)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyFriends) {
			s.metrics.FriendConflict()
			s.logger.Debug().Str("profile_id", self).Str("other_id", other).Msg("profiles already friends")
			return nil, err
		}
		s.logger.Error().Err(err).Str("profile_id", self).Str("other_id", other).Msg("failed to add friend")
		return nil, err
	}
	s.metrics.FriendshipAdded()

	s.logger.Info().Str("profile_id", self).Str("other_id", other).Msg("friend added")
	return friend, nil
}

func (s *SocialService) friendIDs(ctx context.Context, profileID string) ([]string, error) {
	edges, err := s.friends.Edges(ctx, []string{profileID})
	if err != nil {
		return nil, err
	}
	return graph.Neighbours([]string{profileID}, edges)[profileID], nil
}

// GetFriends returns every profile sharing an edge with profileID, whichever
// side of the edge it was stored on.
func (s *SocialService) GetFriends(ctx context.Context, profileID string) ([]domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := s.profiles.Get(ctx, profileID); err != nil {
		return nil, err
	}
	ids, err := s.friendIDs(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return s.profiles.GetByIDs(ctx, ids)
}

// GetFriendSuggestions ranks friends of friends by mutual friend count, then
// by last name, first name and id. Self and direct friends never appear.
func (s *SocialService) GetFriendSuggestions(ctx context.Context, profileID string) ([]Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := s.profiles.Get(ctx, profileID); err != nil {
		return nil, err
	}
	direct, err := s.friendIDs(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if len(direct) == 0 {
		return []Suggestion{}, nil
	}

	edges, err := s.friends.Edges(ctx, direct)
	if err != nil {
		return nil, err
	}
	candidates := graph.Suggest(profileID, direct, graph.Neighbours(direct, edges))
	if len(candidates) == 0 {
		return []Suggestion{}, nil
	}

	ids := make([]string, len(candidates))
	mutual := make(map[string]int, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ProfileID
		mutual[c.ProfileID] = c.Mutual
	}
	profiles, err := s.profiles.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, len(profiles))
	for i, p := range profiles {
		suggestions[i] = Suggestion{Profile: p, Mutual: mutual[p.ID]}
	}
	graph.RankSuggestions(suggestions)
	return suggestions, nil
}

// GetNewsFeed merges the profile's own statuses with its friends' statuses,
// newest first, with attached images.
func (s *SocialService) GetNewsFeed(ctx context.Context, profileID string, limit int) ([]domain.StatusMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := s.profiles.Get(ctx, profileID); err != nil {
		return nil, err
	}
	limit = clampLimit(limit, s.feedLimit)

	var own, friends []domain.StatusMessage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		own, err = s.statuses.ByProfiles(gctx, []string{profileID}, limit)
		return err
	})
	g.Go(func() error {
		ids, err := s.friendIDs(gctx, profileID)
		if err != nil {
			return err
		}
		friends, err = s.statuses.ByProfiles(gctx, ids, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("profile_id", profileID).Msg("failed to load news feed")
		return nil, err
	}

	feed := graph.MergeFeed(limit, own, friends)
	if err := s.statuses.AttachImages(ctx, feed); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("profile_id", profileID).Int("statuses", len(feed)).Msg("news feed built")
	return feed, nil
}
