package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"

	"skatebook/internal/metrics"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const (
	SkatingServicePath = "/skatebook.v1.SkatingService/"
	SocialServicePath  = "/skatebook.v1.SocialService/"
	VoterServicePath   = "/skatebook.v1.VoterService/"
)

const (
	CreateSkaterProcedure             = SkatingServicePath + "CreateSkater"
	GetSkaterProcedure                = SkatingServicePath + "GetSkater"
	UpdateSkaterProcedure             = SkatingServicePath + "UpdateSkater"
	DeleteSkaterProcedure             = SkatingServicePath + "DeleteSkater"
	ListSkatersProcedure              = SkatingServicePath + "ListSkaters"
	CreateElementProcedure            = SkatingServicePath + "CreateElement"
	ListElementsProcedure             = SkatingServicePath + "ListElements"
	GetElementUsageProcedure          = SkatingServicePath + "GetElementUsage"
	SetElementProbabilityProcedure    = SkatingServicePath + "SetElementProbability"
	UpdateElementProbabilityProcedure = SkatingServicePath + "UpdateElementProbability"
	CreateProgramProcedure            = SkatingServicePath + "CreateProgram"
	GetProgramProcedure               = SkatingServicePath + "GetProgram"
	ListProgramsProcedure             = SkatingServicePath + "ListPrograms"
	SetPresetProgramProcedure         = SkatingServicePath + "SetPresetProgram"
	CreateCompetitionProcedure        = SkatingServicePath + "CreateCompetition"
	GetCompetitionProcedure           = SkatingServicePath + "GetCompetition"
	ListCompetitionsProcedure         = SkatingServicePath + "ListCompetitions"
	DeleteCompetitionProcedure        = SkatingServicePath + "DeleteCompetition"
	SimulateProgramProcedure          = SkatingServicePath + "SimulateProgram"
	RunCompetitionProcedure           = SkatingServicePath + "RunCompetition"
	GetLeaderboardProcedure           = SkatingServicePath + "GetLeaderboard"

	CreateProfileProcedure        = SocialServicePath + "CreateProfile"
	GetProfileProcedure           = SocialServicePath + "GetProfile"
	UpdateProfileProcedure        = SocialServicePath + "UpdateProfile"
	DeleteProfileProcedure        = SocialServicePath + "DeleteProfile"
	ListProfilesProcedure         = SocialServicePath + "ListProfiles"
	PostStatusProcedure           = SocialServicePath + "PostStatus"
	UpdateStatusProcedure         = SocialServicePath + "UpdateStatus"
	DeleteStatusProcedure         = SocialServicePath + "DeleteStatus"
	ListStatusesProcedure         = SocialServicePath + "ListStatuses"
	AddFriendProcedure            = SocialServicePath + "AddFriend"
	GetFriendsProcedure           = SocialServicePath + "GetFriends"
	GetFriendSuggestionsProcedure = SocialServicePath + "GetFriendSuggestions"
	GetNewsFeedProcedure          = SocialServicePath + "GetNewsFeed"

	CreateVoterProcedure = VoterServicePath + "CreateVoter"
	GetVoterProcedure    = VoterServicePath + "GetVoter"
	ListVotersProcedure  = VoterServicePath + "ListVoters"
)

// ClientOptions returns the options a connect client needs to talk to this
// server's JSON procedures.
func ClientOptions() []connect.ClientOption {
	return []connect.ClientOption{connect.WithCodec(jsonCodec{})}
}

func unary[Req, Res any](
	mux *http.ServeMux,
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts []connect.HandlerOption,
) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

// NewHandler mounts every procedure plus /health and /metrics on one mux.
func NewHandler(
	skating *SkatingServer,
	social *SocialServer,
	voter *VoterServer,
	m *metrics.Metrics,
	sqlDB *sql.DB,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()
	opts := []connect.HandlerOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithInterceptors(metricsInterceptor(m)),
	}

	unary(mux, CreateSkaterProcedure, skating.CreateSkater, opts)
	unary(mux, GetSkaterProcedure, skating.GetSkater, opts)
	unary(mux, UpdateSkaterProcedure, skating.UpdateSkater, opts)
	unary(mux, DeleteSkaterProcedure, skating.DeleteSkater, opts)
	unary(mux, ListSkatersProcedure, skating.ListSkaters, opts)
	unary(mux, CreateElementProcedure, skating.CreateElement, opts)
	unary(mux, ListElementsProcedure, skating.ListElements, opts)
	unary(mux, GetElementUsageProcedure, skating.GetElementUsage, opts)
	unary(mux, SetElementProbabilityProcedure, skating.SetElementProbability, opts)
	unary(mux, UpdateElementProbabilityProcedure, skating.UpdateElementProbability, opts)
	unary(mux, CreateProgramProcedure, skating.CreateProgram, opts)
	unary(mux, GetProgramProcedure, skating.GetProgram, opts)
	unary(mux, ListProgramsProcedure, skating.ListPrograms, opts)
	unary(mux, SetPresetProgramProcedure, skating.SetPresetProgram, opts)
	unary(mux, CreateCompetitionProcedure, skating.CreateCompetition, opts)
	unary(mux, GetCompetitionProcedure, skating.GetCompetition, opts)
	unary(mux, ListCompetitionsProcedure, skating.ListCompetitions, opts)
	unary(mux, DeleteCompetitionProcedure, skating.DeleteCompetition, opts)
	unary(mux, SimulateProgramProcedure, skating.SimulateProgram, opts)
	unary(mux, RunCompetitionProcedure, skating.RunCompetition, opts)
	unary(mux, GetLeaderboardProcedure, skating.GetLeaderboard, opts)

	unary(mux, CreateProfileProcedure, social.CreateProfile, opts)
	unary(mux, GetProfileProcedure, social.GetProfile, opts)
	unary(mux, UpdateProfileProcedure, social.UpdateProfile, opts)
	unary(mux, DeleteProfileProcedure, social.DeleteProfile, opts)
	unary(mux, ListProfilesProcedure, social.ListProfiles, opts)
	unary(mux, PostStatusProcedure, social.PostStatus, opts)
	unary(mux, UpdateStatusProcedure, social.UpdateStatus, opts)
	unary(mux, DeleteStatusProcedure, social.DeleteStatus, opts)
	unary(mux, ListStatusesProcedure, social.ListStatuses, opts)
	unary(mux, AddFriendProcedure, social.AddFriend, opts)
	unary(mux, GetFriendsProcedure, social.GetFriends, opts)
	unary(mux, GetFriendSuggestionsProcedure, social.GetFriendSuggestions, opts)
	unary(mux, GetNewsFeedProcedure, social.GetNewsFeed, opts)

	unary(mux, CreateVoterProcedure, voter.CreateVoter, opts)
	unary(mux, GetVoterProcedure, voter.GetVoter, opts)
	unary(mux, ListVotersProcedure, voter.ListVoters, opts)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK
		if err := sqlDB.PingContext(r.Context()); err != nil {
			logger.Error().Err(err).Msg("health check failed")
			status, code = "unavailable", http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
	})
	mux.Handle("GET /metrics", m.Handler())

	return mux
}
