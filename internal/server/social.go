package server

import (
	"context"

	"skatebook/internal/domain"
	"skatebook/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

type SocialServer struct {
	social *service.SocialService
	logger zerolog.Logger
}

func NewSocialServer(social *service.SocialService, logger zerolog.Logger) *SocialServer {
	return &SocialServer{
		social: social,
		logger: logger,
	}
}

func (s *SocialServer) CreateProfile(ctx context.Context, req *connect.Request[CreateProfileRequest]) (*connect.Response[ProfileResponse], error) {
	msg := req.Msg
	profile := &domain.Profile{
		FirstName: msg.FirstName,
		LastName:  msg.LastName,
		City:      msg.City,
		Email:     msg.Email,
		ImageURL:  msg.ImageURL,
	}
	if err := s.social.CreateProfile(ctx, profile); err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ProfileResponse{Profile: toProfile(*profile)}), nil
}

func (s *SocialServer) GetProfile(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[ProfileResponse], error) {
	profile, err := s.social.GetProfile(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ProfileResponse{Profile: toProfile(*profile)}), nil
}

func (s *SocialServer) UpdateProfile(ctx context.Context, req *connect.Request[UpdateProfileRequest]) (*connect.Response[ProfileResponse], error) {
	msg := req.Msg
	updated, err := s.social.UpdateProfile(ctx, &domain.Profile{
		ID:       msg.ID,
		City:     msg.City,
		Email:    msg.Email,
		ImageURL: msg.ImageURL,
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ProfileResponse{Profile: toProfile(*updated)}), nil
}

func (s *SocialServer) DeleteProfile(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[Empty], error) {
	if err := s.social.DeleteProfile(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&Empty{}), nil
}

func (s *SocialServer) ListProfiles(ctx context.Context, req *connect.Request[ListRequest]) (*connect.Response[ListProfilesResponse], error) {
	profiles, err := s.social.ListProfiles(ctx, req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ListProfilesResponse{Profiles: toProfiles(profiles)}), nil
}

func (s *SocialServer) PostStatus(ctx context.Context, req *connect.Request[PostStatusRequest]) (*connect.Response[StatusResponse], error) {
	msg := req.Msg
	images := make([]domain.Image, len(msg.Images))
	for i, img := range msg.Images {
		images[i] = domain.Image{URL: img.URL, Caption: img.Caption}
	}

	status, err := s.social.PostStatus(ctx, msg.ProfileID, msg.Message, images)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&StatusResponse{Status: toStatus(*status)}), nil
}

func (s *SocialServer) UpdateStatus(ctx context.Context, req *connect.Request[UpdateStatusRequest]) (*connect.Response[StatusResponse], error) {
	status, err := s.social.UpdateStatus(ctx, req.Msg.ID, req.Msg.Message)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&StatusResponse{Status: toStatus(*status)}), nil
}

func (s *SocialServer) DeleteStatus(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[Empty], error) {
	if err := s.social.DeleteStatus(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&Empty{}), nil
}

func (s *SocialServer) ListStatuses(ctx context.Context, req *connect.Request[ProfileFeedRequest]) (*connect.Response[ListStatusesResponse], error) {
	statuses, err := s.social.ListStatuses(ctx, req.Msg.ProfileID, req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ListStatusesResponse{Statuses: toStatuses(statuses)}), nil
}

func (s *SocialServer) AddFriend(ctx context.Context, req *connect.Request[AddFriendRequest]) (*connect.Response[AddFriendResponse], error) {
	friend, err := s.social.AddFriend(ctx, req.Msg.ProfileID, req.Msg.FriendID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&AddFriendResponse{Friend: Friend{
		ID:         friend.ID,
		Profile1ID: friend.Profile1ID,
		Profile2ID: friend.Profile2ID,
		CreatedAt:  friend.CreatedAt,
	}}), nil
}

func (s *SocialServer) GetFriends(ctx context.Context, req *connect.Request[ProfileRequest]) (*connect.Response[ListProfilesResponse], error) {
	friends, err := s.social.GetFriends(ctx, req.Msg.ProfileID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ListProfilesResponse{Profiles: toProfiles(friends)}), nil
}

func (s *SocialServer) GetFriendSuggestions(ctx context.Context, req *connect.Request[ProfileRequest]) (*connect.Response[GetFriendSuggestionsResponse], error) {
	suggestions, err := s.social.GetFriendSuggestions(ctx, req.Msg.ProfileID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	resp := &GetFriendSuggestionsResponse{Suggestions: make([]Suggestion, len(suggestions))}
	for i, sg := range suggestions {
		resp.Suggestions[i] = Suggestion{Profile: toProfile(sg.Profile), Mutual: sg.Mutual}
	}
	return connect.NewResponse(resp), nil
}

func (s *SocialServer) GetNewsFeed(ctx context.Context, req *connect.Request[ProfileFeedRequest]) (*connect.Response[ListStatusesResponse], error) {
	feed, err := s.social.GetNewsFeed(ctx, req.Msg.ProfileID, req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ListStatusesResponse{Statuses: toStatuses(feed)}), nil
}
