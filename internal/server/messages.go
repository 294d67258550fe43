package server

import (
	"fmt"
	"time"

	"skatebook/internal/domain"
	"skatebook/internal/repository"
	"skatebook/internal/service"
)

const dateLayout = "2006-01-02"

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, invalidArgument(fmt.Errorf("%s must be a YYYY-MM-DD date, got %q", field, value))
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

type Empty struct{}

type IDRequest struct {
	ID string `json:"id"`
}

type ListRequest struct {
	Limit int `json:"limit,omitempty"`
}

// skating

type Skater struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Nationality string    `json:"nationality"`
	BirthDate   string    `json:"birthDate"`
	Hometown    string    `json:"hometown,omitempty"`
	SkatingClub string    `json:"skatingClub,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toSkater(s domain.Skater) Skater {
	return Skater{
		ID:          s.ID,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Nationality: s.Nationality,
		BirthDate:   formatDate(s.BirthDate),
		Hometown:    s.Hometown,
		SkatingClub: s.SkatingClub,
		ImageURL:    s.ImageURL,
		CreatedAt:   s.CreatedAt,
	}
}

type CreateSkaterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Nationality string `json:"nationality"`
	BirthDate   string `json:"birthDate"`
	Hometown    string `json:"hometown,omitempty"`
	SkatingClub string `json:"skatingClub,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type UpdateSkaterRequest struct {
	ID          string `json:"id"`
	Nationality string `json:"nationality"`
	Hometown    string `json:"hometown,omitempty"`
	SkatingClub string `json:"skatingClub,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type SkaterResponse struct {
	Skater Skater `json:"skater"`
}

type GetSkaterResponse struct {
	Skater     Skater      `json:"skater"`
	Programs   []Program   `json:"programs"`
	Executions []Execution `json:"executions"`
}

type ListSkatersResponse struct {
	Skaters []Skater `json:"skaters"`
}

type Element struct {
	ID        string  `json:"id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	BaseValue float64 `json:"baseValue"`
}

func toElement(e domain.Element) Element {
	return Element{
		ID:        e.ID,
		Code:      e.Code,
		Name:      e.Name,
		Type:      string(e.Type),
		BaseValue: e.BaseValue,
	}
}

type CreateElementRequest struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	BaseValue float64 `json:"baseValue"`
}

type ElementResponse struct {
	Element Element `json:"element"`
}

type ListElementsRequest struct {
	Query string `json:"query,omitempty"`
	Type  string `json:"type,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

type ListElementsResponse struct {
	Elements []Element `json:"elements"`
}

type GetElementUsageRequest struct {
	ElementID string `json:"elementId"`
	SkaterID  string `json:"skaterId,omitempty"`
}

type ElementUsage struct {
	CompetitionID   string  `json:"competitionId"`
	CompetitionName string  `json:"competitionName"`
	CompetitionDate string  `json:"competitionDate"`
	Executions      int     `json:"executions"`
	AverageGOE      float64 `json:"averageGoe"`
}

type GOEPoint struct {
	CompetitionID   string  `json:"competitionId"`
	CompetitionName string  `json:"competitionName"`
	CompetitionDate string  `json:"competitionDate"`
	GOE             float64 `json:"goe"`
}

type ElementUsageResponse struct {
	Element Element        `json:"element"`
	Usage   []ElementUsage `json:"usage"`
	History []GOEPoint     `json:"history,omitempty"`
}

func toElementUsageResponse(r *service.ElementUsageReport) *ElementUsageResponse {
	resp := &ElementUsageResponse{
		Element: toElement(r.Element),
		Usage:   make([]ElementUsage, len(r.Usage)),
	}
	for i, u := range r.Usage {
		resp.Usage[i] = ElementUsage{
			CompetitionID:   u.CompetitionID,
			CompetitionName: u.CompetitionName,
			CompetitionDate: formatDate(u.CompetitionDate),
			Executions:      u.Executions,
			AverageGOE:      u.AverageGOE,
		}
	}
	for _, h := range r.History {
		resp.History = append(resp.History, GOEPoint{
			CompetitionID:   h.CompetitionID,
			CompetitionName: h.CompetitionName,
			CompetitionDate: formatDate(h.CompetitionDate),
			GOE:             h.GOE,
		})
	}
	return resp
}

type ProbabilityRequest struct {
	SkaterID    string  `json:"skaterId"`
	ElementID   string  `json:"elementId"`
	SuccessRate float64 `json:"successRate"`
}

type Probability struct {
	ID          string  `json:"id"`
	SkaterID    string  `json:"skaterId"`
	ElementID   string  `json:"elementId"`
	SuccessRate float64 `json:"successRate"`
}

type ProbabilityResponse struct {
	Probability Probability `json:"probability"`
}

func toProbabilityResponse(p *domain.ElementProbability) *ProbabilityResponse {
	return &ProbabilityResponse{Probability: Probability{
		ID:          p.ID,
		SkaterID:    p.SkaterID,
		ElementID:   p.ElementID,
		SuccessRate: p.SuccessRate,
	}}
}

type Program struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	SkaterID  string    `json:"skaterId"`
	Preset    bool      `json:"preset"`
	CreatedAt time.Time `json:"createdAt"`
	TopScore  *float64  `json:"topScore,omitempty"`
}

func toProgram(p domain.Program) Program {
	return Program{
		ID:        p.ID,
		Title:     p.Title,
		SkaterID:  p.SkaterID,
		Preset:    p.Preset,
		CreatedAt: p.CreatedAt,
	}
}

func toPrograms(programs []domain.Program) []Program {
	out := make([]Program, len(programs))
	for i, p := range programs {
		out[i] = toProgram(p)
	}
	return out
}

type CreateProgramRequest struct {
	SkaterID   string   `json:"skaterId"`
	Title      string   `json:"title"`
	ElementIDs []string `json:"elementIds"`
	Preset     bool     `json:"preset,omitempty"`
}

type ProgramResponse struct {
	Program Program `json:"program"`
}

type ProgramElement struct {
	Position int     `json:"position"`
	Element  Element `json:"element"`
}

type GetProgramResponse struct {
	Program        Program          `json:"program"`
	Elements       []ProgramElement `json:"elements"`
	TotalBaseValue float64          `json:"totalBaseValue"`
	Executions     []Execution      `json:"executions"`
}

func toGetProgramResponse(d *service.ProgramDetail) *GetProgramResponse {
	resp := &GetProgramResponse{
		Program:        toProgram(d.Program),
		Elements:       make([]ProgramElement, len(d.Elements)),
		TotalBaseValue: d.TotalBaseValue,
		Executions:     toExecutions(d.Executions),
	}
	for i, pe := range d.Elements {
		resp.Elements[i] = ProgramElement{Position: pe.Position, Element: toElement(pe.Element)}
	}
	return resp
}

type ListProgramsResponse struct {
	Programs []Program `json:"programs"`
}

type Competition struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	Location  string    `json:"location"`
	SkaterIDs []string  `json:"skaterIds,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCompetition(c domain.Competition) Competition {
	return Competition{
		ID:        c.ID,
		Name:      c.Name,
		Date:      formatDate(c.Date),
		Location:  c.Location,
		SkaterIDs: c.SkaterIDs,
		CreatedAt: c.CreatedAt,
	}
}

type CreateCompetitionRequest struct {
	Name      string   `json:"name"`
	Date      string   `json:"date"`
	Location  string   `json:"location"`
	SkaterIDs []string `json:"skaterIds"`
}

type CompetitionResponse struct {
	Competition Competition `json:"competition"`
}

type GetCompetitionResponse struct {
	Competition Competition `json:"competition"`
	Skaters     []Skater    `json:"skaters"`
	Results     []Execution `json:"results"`
}

type ListCompetitionsResponse struct {
	Competitions []Competition `json:"competitions"`
}

// Execution is one result line: an executed program with who skated it where.
type Execution struct {
	ID              string    `json:"id"`
	ProgramID       string    `json:"programId"`
	ProgramTitle    string    `json:"programTitle"`
	SkaterID        string    `json:"skaterId"`
	SkaterName      string    `json:"skaterName"`
	CompetitionID   string    `json:"competitionId"`
	CompetitionName string    `json:"competitionName"`
	CompetitionDate string    `json:"competitionDate"`
	TotalScore      float64   `json:"totalScore"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toExecutions(executions []repository.Execution) []Execution {
	out := make([]Execution, len(executions))
	for i, e := range executions {
		out[i] = Execution{
			ID:              e.ID,
			ProgramID:       e.ProgramID,
			ProgramTitle:    e.ProgramTitle,
			SkaterID:        e.SkaterID,
			SkaterName:      e.SkaterName,
			CompetitionID:   e.CompetitionID,
			CompetitionName: e.CompetitionName,
			CompetitionDate: formatDate(e.CompetitionDate),
			TotalScore:      e.TotalScore,
			CreatedAt:       e.CreatedAt,
		}
	}
	return out
}

type ExecutedElement struct {
	ID        string  `json:"id"`
	ElementID string  `json:"elementId"`
	Position  int     `json:"position"`
	Success   bool    `json:"success"`
	GOE       float64 `json:"goe"`
	Score     float64 `json:"score"`
}

type ExecutedProgram struct {
	ID            string            `json:"id"`
	ProgramID     string            `json:"programId"`
	CompetitionID string            `json:"competitionId"`
	TotalScore    float64           `json:"totalScore"`
	CreatedAt     time.Time         `json:"createdAt"`
	Elements      []ExecutedElement `json:"elements"`
}

func toExecutedProgram(ep domain.ExecutedProgram) ExecutedProgram {
	out := ExecutedProgram{
		ID:            ep.ID,
		ProgramID:     ep.ProgramID,
		CompetitionID: ep.CompetitionID,
		TotalScore:    ep.TotalScore,
		CreatedAt:     ep.CreatedAt,
		Elements:      make([]ExecutedElement, len(ep.Elements)),
	}
	for i, e := range ep.Elements {
		out.Elements[i] = ExecutedElement{
			ID:        e.ID,
			ElementID: e.ElementID,
			Position:  e.Position,
			Success:   e.Success,
			GOE:       e.GOE,
			Score:     e.Score,
		}
	}
	return out
}

type SimulateProgramRequest struct {
	CompetitionID string `json:"competitionId"`
	SkaterID      string `json:"skaterId"`
	ProgramID     string `json:"programId"`
}

type SimulateProgramResponse struct {
	Execution ExecutedProgram `json:"execution"`
}

type RunCompetitionRequest struct {
	CompetitionID string `json:"competitionId"`
	// skater id -> program id; skaters left out perform their preset program
	Selections map[string]string `json:"selections,omitempty"`
}

type RunCompetitionResponse struct {
	Executions []ExecutedProgram `json:"executions"`
}

type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	SkaterID    string  `json:"skaterId"`
	SkaterName  string  `json:"skaterName"`
	Nationality string  `json:"nationality"`
	BestScore   float64 `json:"bestScore"`
}

type GetLeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// social

type Profile struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	City      string    `json:"city"`
	Email     string    `json:"email"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toProfile(p domain.Profile) Profile {
	return Profile{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		City:      p.City,
		Email:     p.Email,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
	}
}

func toProfiles(profiles []domain.Profile) []Profile {
	out := make([]Profile, len(profiles))
	for i, p := range profiles {
		out[i] = toProfile(p)
	}
	return out
}

type CreateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	City      string `json:"city"`
	Email     string `json:"email"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

type UpdateProfileRequest struct {
	ID       string `json:"id"`
	City     string `json:"city"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type ProfileResponse struct {
	Profile Profile `json:"profile"`
}

type ListProfilesResponse struct {
	Profiles []Profile `json:"profiles"`
}

type Image struct {
	ID      string `json:"id,omitempty"`
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

type Status struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profileId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Images    []Image   `json:"images,omitempty"`
}

func toStatus(s domain.StatusMessage) Status {
	out := Status{
		ID:        s.ID,
		ProfileID: s.ProfileID,
		Message:   s.Message,
		CreatedAt: s.CreatedAt,
	}
	for _, img := range s.Images {
		out.Images = append(out.Images, Image{ID: img.ID, URL: img.URL, Caption: img.Caption})
	}
	return out
}

func toStatuses(statuses []domain.StatusMessage) []Status {
	out := make([]Status, len(statuses))
	for i, s := range statuses {
		out[i] = toStatus(s)
	}
	return out
}

type PostStatusRequest struct {
	ProfileID string  `json:"profileId"`
	Message   string  `json:"message"`
	Images    []Image `json:"images,omitempty"`
}

type UpdateStatusRequest struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Status Status `json:"status"`
}

type ProfileFeedRequest struct {
	ProfileID string `json:"profileId"`
	Limit     int    `json:"limit,omitempty"`
}

type ListStatusesResponse struct {
	Statuses []Status `json:"statuses"`
}

type AddFriendRequest struct {
	ProfileID string `json:"profileId"`
	FriendID  string `json:"friendId"`
}

type Friend struct {
	ID         string    `json:"id"`
	Profile1ID string    `json:"profile1Id"`
	Profile2ID string    `json:"profile2Id"`
	CreatedAt  time.Time `json:"createdAt"`
}

type AddFriendResponse struct {
	Friend Friend `json:"friend"`
}

type ProfileRequest struct {
	ProfileID string `json:"profileId"`
}

type Suggestion struct {
	Profile Profile `json:"profile"`
	Mutual  int     `json:"mutualFriends"`
}

type GetFriendSuggestionsResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// voter

type Voter struct {
	ID               string `json:"id"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	StreetNumber     string `json:"streetNumber"`
	StreetName       string `json:"streetName"`
	Apartment        string `json:"apartment,omitempty"`
	ZipCode          string `json:"zipCode"`
	BirthDate        string `json:"birthDate"`
	RegistrationDate string `json:"registrationDate"`
	Party            string `json:"party"`
	Precinct         string `json:"precinct"`
	V20State         bool   `json:"v20state"`
	V21Town          bool   `json:"v21town"`
	V21Primary       bool   `json:"v21primary"`
	V22General       bool   `json:"v22general"`
	V23Town          bool   `json:"v23town"`
	VoterScore       int    `json:"voterScore"`
}

func toVoter(v domain.Voter) Voter {
	return Voter{
		ID:               v.ID,
		FirstName:        v.FirstName,
		LastName:         v.LastName,
		StreetNumber:     v.StreetNumber,
		StreetName:       v.StreetName,
		Apartment:        v.Apartment,
		ZipCode:          v.ZipCode,
		BirthDate:        formatDate(v.BirthDate),
		RegistrationDate: formatDate(v.RegistrationDate),
		Party:            v.Party,
		Precinct:         v.Precinct,
		V20State:         v.V20State,
		V21Town:          v.V21Town,
		V21Primary:       v.V21Primary,
		V22General:       v.V22General,
		V23Town:          v.V23Town,
		VoterScore:       v.VoterScore,
	}
}

func fromVoter(v Voter) (domain.Voter, error) {
	birth, err := parseDate("birthDate", v.BirthDate)
	if err != nil {
		return domain.Voter{}, err
	}
	registered, err := parseDate("registrationDate", v.RegistrationDate)
	if err != nil {
		return domain.Voter{}, err
	}
	return domain.Voter{
		ID:               v.ID,
		FirstName:        v.FirstName,
		LastName:         v.LastName,
		StreetNumber:     v.StreetNumber,
		StreetName:       v.StreetName,
		Apartment:        v.Apartment,
		ZipCode:          v.ZipCode,
		BirthDate:        birth,
		RegistrationDate: registered,
		Party:            v.Party,
		Precinct:         v.Precinct,
		V20State:         v.V20State,
		V21Town:          v.V21Town,
		V21Primary:       v.V21Primary,
		V22General:       v.V22General,
		V23Town:          v.V23Town,
		VoterScore:       v.VoterScore,
	}, nil
}

type VoterResponse struct {
	Voter Voter `json:"voter"`
}

type ListVotersRequest struct {
	Party        string   `json:"party,omitempty"`
	MinBirthYear int      `json:"minBirthYear,omitempty"`
	MaxBirthYear int      `json:"maxBirthYear,omitempty"`
	VoterScore   *int     `json:"voterScore,omitempty"`
	Elections    []string `json:"elections,omitempty"`
	Limit        int      `json:"limit,omitempty"`
}

type ListVotersResponse struct {
	Voters []Voter `json:"voters"`
}
