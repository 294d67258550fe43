package server

import (
	"context"

	"skatebook/internal/domain"
	"skatebook/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

type VoterServer struct {
	voters *service.VoterService
	logger zerolog.Logger
}

func NewVoterServer(voters *service.VoterService, logger zerolog.Logger) *VoterServer {
	return &VoterServer{
		voters: voters,
		logger: logger,
	}
}

func (s *VoterServer) CreateVoter(ctx context.Context, req *connect.Request[Voter]) (*connect.Response[VoterResponse], error) {
	voter, err := fromVoter(*req.Msg)
	if err != nil {
		return nil, err
	}
	if err := s.voters.Create(ctx, &voter); err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&VoterResponse{Voter: toVoter(voter)}), nil
}

func (s *VoterServer) GetVoter(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[VoterResponse], error) {
	voter, err := s.voters.Get(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&VoterResponse{Voter: toVoter(*voter)}), nil
}

func (s *VoterServer) ListVoters(ctx context.Context, req *connect.Request[ListVotersRequest]) (*connect.Response[ListVotersResponse], error) {
	msg := req.Msg
	filter := domain.VoterFilter{
		Party:        msg.Party,
		MinBirthYear: msg.MinBirthYear,
		MaxBirthYear: msg.MaxBirthYear,
		VoterScore:   msg.VoterScore,
		Limit:        msg.Limit,
	}
	for _, e := range msg.Elections {
		filter.Elections = append(filter.Elections, domain.Election(e))
	}

	voters, err := s.voters.List(ctx, filter)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	resp := &ListVotersResponse{Voters: make([]Voter, len(voters))}
	for i, v := range voters {
		resp.Voters[i] = toVoter(v)
	}
	return connect.NewResponse(resp), nil
}
