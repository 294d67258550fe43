package server

import (
	"context"
	"errors"

	"skatebook/internal/domain"
	"skatebook/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

type SkatingServer struct {
	skaters      *service.SkaterService
	elements     *service.ElementService
	programs     *service.ProgramService
	competitions *service.CompetitionService
	simulator    *service.SimulationService
	logger       zerolog.Logger
}

func NewSkatingServer(
	skaters *service.SkaterService,
	elements *service.ElementService,
	programs *service.ProgramService,
	competitions *service.CompetitionService,
	simulator *service.SimulationService,
	logger zerolog.Logger,
) *SkatingServer {
	return &SkatingServer{
		skaters:      skaters,
		elements:     elements,
		programs:     programs,
		competitions: competitions,
		simulator:    simulator,
		logger:       logger,
	}
}

func (s *SkatingServer) CreateSkater(ctx context.Context, req *connect.Request[CreateSkaterRequest]) (*connect.Response[SkaterResponse], error) {
	msg := req.Msg
	birth, err := parseDate("birthDate", msg.BirthDate)
	if err != nil {
		return nil, err
	}

	skater := &domain.Skater{
		FirstName:   msg.FirstName,
		LastName:    msg.LastName,
		Nationality: msg.Nationality,
		BirthDate:   birth,
		Hometown:    msg.Hometown,
		SkatingClub: msg.SkatingClub,
		ImageURL:    msg.ImageURL,
	}
	if err := s.skaters.Create(ctx, skater); err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&SkaterResponse{Skater: toSkater(*skater)}), nil
}

func (s *SkatingServer) GetSkater(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[GetSkaterResponse], error) {
	detail, err := s.skaters.Get(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&GetSkaterResponse{
		Skater:     toSkater(detail.Skater),
		Programs:   toPrograms(detail.Programs),
		Executions: toExecutions(detail.Executions),
	}), nil
}

func (s *SkatingServer) UpdateSkater(ctx context.Context, req *connect.Request[UpdateSkaterRequest]) (*connect.Response[SkaterResponse], error) {
	msg := req.Msg
	updated, err := s.skaters.Update(ctx, &domain.Skater{
		ID:          msg.ID,
		Nationality: msg.Nationality,
		Hometown:    msg.Hometown,
		SkatingClub: msg.SkatingClub,
		ImageURL:    msg.ImageURL,
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&SkaterResponse{Skater: toSkater(*updated)}), nil
}

func (s *SkatingServer) DeleteSkater(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[Empty], error) {
	if err := s.skaters.Delete(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&Empty{}), nil
}

func (s *SkatingServer) ListSkaters(ctx context.Context, req *connect.Request[ListRequest]) (*connect.Response[ListSkatersResponse], error) {
	skaters, err := s.skaters.List(ctx, req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	resp := &ListSkatersResponse{Skaters: make([]Skater, len(skaters))}
	for i, sk := range skaters {
		resp.Skaters[i] = toSkater(sk)
	}
	return connect.NewResponse(resp), nil
}

func (s *SkatingServer) CreateElement(ctx context.Context, req *connect.Request[CreateElementRequest]) (*connect.Response[ElementResponse], error) {
	msg := req.Msg
	element := &domain.Element{
		Code:      msg.Code,
		Name:      msg.Name,
		Type:      domain.ElementType(msg.Type),
		BaseValue: msg.BaseValue,
	}
	if err := s.elements.Create(ctx, element); err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ElementResponse{Element: toElement(*element)}), nil
}

func (s *SkatingServer) ListElements(ctx context.Context, req *connect.Request[ListElementsRequest]) (*connect.Response[ListElementsResponse], error) {
	msg := req.Msg
	elements, err := s.elements.List(ctx, msg.Query, domain.ElementType(msg.Type), msg.Limit)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	resp := &ListElementsResponse{Elements: make([]Element, len(elements))}
	for i, e := range elements {
		resp.Elements[i] = toElement(e)
	}
	return connect.NewResponse(resp), nil
}

func (s *SkatingServer) GetElementUsage(ctx context.Context, req *connect.Request[GetElementUsageRequest]) (*connect.Response[ElementUsageResponse], error) {
	report, err := s.elements.Usage(ctx, req.Msg.ElementID, req.Msg.SkaterID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(toElementUsageResponse(report)), nil
}

func (s *SkatingServer) SetElementProbability(ctx context.Context, req *connect.Request[ProbabilityRequest]) (*connect.Response[ProbabilityResponse], error) {
	msg := req.Msg
	p, err := s.elements.SetProbability(ctx, msg.SkaterID, msg.ElementID, msg.SuccessRate)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(toProbabilityResponse(p)), nil
}

func (s *SkatingServer) UpdateElementProbability(ctx context.Context, req *connect.Request[ProbabilityRequest]) (*connect.Response[ProbabilityResponse], error) {
	msg := req.Msg
	p, err := s.elements.UpdateProbability(ctx, msg.SkaterID, msg.ElementID, msg.SuccessRate)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(toProbabilityResponse(p)), nil
}

func (s *SkatingServer) CreateProgram(ctx context.Context, req *connect.Request[CreateProgramRequest]) (*connect.Response[ProgramResponse], error) {
	msg := req.Msg
	program, err := s.programs.Create(ctx, msg.SkaterID, msg.Title, msg.ElementIDs, msg.Preset)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ProgramResponse{Program: toProgram(*program)}), nil
}

func (s *SkatingServer) GetProgram(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[GetProgramResponse], error) {
	detail, err := s.programs.Get(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(toGetProgramResponse(detail)), nil
}

func (s *SkatingServer) ListPrograms(ctx context.Context, req *connect.Request[ListRequest]) (*connect.Response[ListProgramsResponse], error) {
	summaries, err := s.programs.List(ctx, req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	resp := &ListProgramsResponse{Programs: make([]Program, len(summaries))}
	for i, sum := range summaries {
		p := toProgram(sum.Program)
		p.TopScore = sum.TopScore
		resp.Programs[i] = p
	}
	return connect.NewResponse(resp), nil
}

func (s *SkatingServer) SetPresetProgram(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[ProgramResponse], error) {
	program, err := s.programs.SetPreset(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ProgramResponse{Program: toProgram(*program)}), nil
}

func (s *SkatingServer) CreateCompetition(ctx context.Context, req *connect.Request[CreateCompetitionRequest]) (*connect.Response[CompetitionResponse], error) {
	msg := req.Msg
	date, err := parseDate("date", msg.Date)
	if err != nil {
		return nil, err
	}

	competition := &domain.Competition{
		Name:      msg.Name,
		Date:      date,
		Location:  msg.Location,
		SkaterIDs: msg.SkaterIDs,
	}
	if err := s.competitions.Create(ctx, competition); err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&CompetitionResponse{Competition: toCompetition(*competition)}), nil
}

func (s *SkatingServer) GetCompetition(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[GetCompetitionResponse], error) {
	detail, err := s.competitions.Get(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	resp := &GetCompetitionResponse{
		Competition: toCompetition(detail.Competition),
		Skaters:     make([]Skater, len(detail.Skaters)),
		Results:     toExecutions(detail.Results),
	}
	for i, sk := range detail.Skaters {
		resp.Skaters[i] = toSkater(sk)
	}
	return connect.NewResponse(resp), nil
}

func (s *SkatingServer) ListCompetitions(ctx context.Context, req *connect.Request[ListRequest]) (*connect.Response[ListCompetitionsResponse], error) {
	competitions, err := s.competitions.List(ctx, req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	resp := &ListCompetitionsResponse{Competitions: make([]Competition, len(competitions))}
	for i, c := range competitions {
		resp.Competitions[i] = toCompetition(c)
	}
	return connect.NewResponse(resp), nil
}

func (s *SkatingServer) DeleteCompetition(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[Empty], error) {
	if err := s.competitions.Delete(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&Empty{}), nil
}

func (s *SkatingServer) SimulateProgram(ctx context.Context, req *connect.Request[SimulateProgramRequest]) (*connect.Response[SimulateProgramResponse], error) {
	msg := req.Msg
	if msg.CompetitionID == "" || msg.SkaterID == "" || msg.ProgramID == "" {
		return nil, invalidArgument(errors.New("competitionId, skaterId and programId are required"))
	}

	executed, err := s.simulator.Simulate(ctx, msg.CompetitionID, msg.SkaterID, msg.ProgramID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&SimulateProgramResponse{Execution: toExecutedProgram(*executed)}), nil
}

func (s *SkatingServer) RunCompetition(ctx context.Context, req *connect.Request[RunCompetitionRequest]) (*connect.Response[RunCompetitionResponse], error) {
	results, err := s.competitions.Run(ctx, req.Msg.CompetitionID, req.Msg.Selections)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	resp := &RunCompetitionResponse{Executions: make([]ExecutedProgram, len(results))}
	for i, r := range results {
		resp.Executions[i] = toExecutedProgram(r)
	}
	return connect.NewResponse(resp), nil
}

func (s *SkatingServer) GetLeaderboard(ctx context.Context, req *connect.Request[ListRequest]) (*connect.Response[GetLeaderboardResponse], error) {
	entries, err := s.competitions.Leaderboard(ctx, req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	resp := &GetLeaderboardResponse{Entries: make([]LeaderboardEntry, len(entries))}
	for i, e := range entries {
		resp.Entries[i] = LeaderboardEntry{
			Rank:        i + 1,
			SkaterID:    e.SkaterID,
			SkaterName:  e.SkaterName,
			Nationality: e.Nationality,
			BestScore:   e.BestScore,
		}
	}
	return connect.NewResponse(resp), nil
}
