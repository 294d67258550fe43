package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"skatebook/internal/scoring"
	"skatebook/internal/server"
	"skatebook/internal/service"
	"skatebook/internal/testutil"

	"connectrpc.com/connect"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestServer(t *testing.T) (*testutil.Env, *httptest.Server) {
	env := testutil.NewEnv(t)
	simulator := service.NewSimulationService(
		env.Competitions, env.Skaters, env.Programs, env.Elements, env.Executions,
		scoring.NewSource(1), env.Metrics, env.Logger,
	)
	skating := server.NewSkatingServer(
		service.NewSkaterService(env.Skaters, env.Programs, env.Executions, env.Logger),
		service.NewElementService(env.Elements, env.Skaters, env.Executions, env.Logger),
		service.NewProgramService(env.Programs, env.Elements, env.Skaters, env.Executions, env.Logger),
		service.NewCompetitionService(env.Config, env.Competitions, env.Skaters, env.Programs, env.Executions, simulator, env.Logger),
		simulator,
		env.Logger,
	)
	social := server.NewSocialServer(
		service.NewSocialService(env.Config, env.Profiles, env.Statuses, env.Friends, env.Metrics, env.Logger),
		env.Logger,
	)
	voter := server.NewVoterServer(service.NewVoterService(env.Voters, env.Logger), env.Logger)

	ts := httptest.NewServer(server.NewHandler(skating, social, voter, env.Metrics, env.DB, env.Logger))
	t.Cleanup(ts.Close)
	return env, ts
}

func client[Req, Res any](ts *httptest.Server, procedure string) *connect.Client[Req, Res] {
	return connect.NewClient[Req, Res](ts.Client(), ts.URL+procedure, server.ClientOptions()...)
}

func TestSkatingProcedures(t *testing.T) {
	Convey("Given a running server", t, func() {
		env, ts := newTestServer(t)
		ctx := context.Background()

		createSkater := client[server.CreateSkaterRequest, server.SkaterResponse](ts, server.CreateSkaterProcedure)
		getSkater := client[server.IDRequest, server.GetSkaterResponse](ts, server.GetSkaterProcedure)

		Convey("A created skater can be read back with its birth date", func() {
			created, err := createSkater.CallUnary(ctx, connect.NewRequest(&server.CreateSkaterRequest{
				FirstName:   "Yuzuru",
				LastName:    "Hanyu",
				Nationality: "JPN",
				BirthDate:   "1994-12-07",
			}))
			So(err, ShouldBeNil)
			So(created.Msg.Skater.ID, ShouldNotBeEmpty)

			got, err := getSkater.CallUnary(ctx, connect.NewRequest(&server.IDRequest{ID: created.Msg.Skater.ID}))
			So(err, ShouldBeNil)
			So(got.Msg.Skater.FirstName, ShouldEqual, "Yuzuru")
			So(got.Msg.Skater.BirthDate, ShouldEqual, "1994-12-07")
			So(got.Msg.Programs, ShouldBeEmpty)
		})

		Convey("A malformed birth date is an invalid argument", func() {
			_, err := createSkater.CallUnary(ctx, connect.NewRequest(&server.CreateSkaterRequest{
				FirstName:   "Yuzuru",
				LastName:    "Hanyu",
				Nationality: "JPN",
				BirthDate:   "07/12/1994",
			}))
			So(connect.CodeOf(err), ShouldEqual, connect.CodeInvalidArgument)
		})

		Convey("An unknown skater is not found", func() {
			_, err := getSkater.CallUnary(ctx, connect.NewRequest(&server.IDRequest{ID: "missing"}))
			So(connect.CodeOf(err), ShouldEqual, connect.CodeNotFound)
		})

		Convey("A full program can be created and simulated", func() {
			skater := env.SeedSkater(t, "Kaori", "Sakamoto")
			catalogue := env.SeedCatalogue(t)

			createProgram := client[server.CreateProgramRequest, server.ProgramResponse](ts, server.CreateProgramProcedure)
			program, err := createProgram.CallUnary(ctx, connect.NewRequest(&server.CreateProgramRequest{
				SkaterID:   skater.ID,
				Title:      "Free Skate",
				ElementIDs: catalogue.ValidProgram(),
				Preset:     true,
			}))
			So(err, ShouldBeNil)
			So(program.Msg.Program.Preset, ShouldBeTrue)

			createCompetition := client[server.CreateCompetitionRequest, server.CompetitionResponse](ts, server.CreateCompetitionProcedure)
			competition, err := createCompetition.CallUnary(ctx, connect.NewRequest(&server.CreateCompetitionRequest{
				Name:      "NHK Trophy",
				Date:      "2025-11-07",
				Location:  "Osaka",
				SkaterIDs: []string{skater.ID},
			}))
			So(err, ShouldBeNil)
			So(competition.Msg.Competition.Date, ShouldEqual, "2025-11-07")

			run := client[server.RunCompetitionRequest, server.RunCompetitionResponse](ts, server.RunCompetitionProcedure)
			results, err := run.CallUnary(ctx, connect.NewRequest(&server.RunCompetitionRequest{
				CompetitionID: competition.Msg.Competition.ID,
			}))
			So(err, ShouldBeNil)
			So(results.Msg.Executions, ShouldHaveLength, 1)
			So(results.Msg.Executions[0].Elements, ShouldHaveLength, 12)
			So(results.Msg.Executions[0].Elements[0].Position, ShouldEqual, 1)

			leaderboard := client[server.ListRequest, server.GetLeaderboardResponse](ts, server.GetLeaderboardProcedure)
			board, err := leaderboard.CallUnary(ctx, connect.NewRequest(&server.ListRequest{}))
			So(err, ShouldBeNil)
			So(board.Msg.Entries, ShouldHaveLength, 1)
			So(board.Msg.Entries[0].Rank, ShouldEqual, 1)
			So(board.Msg.Entries[0].SkaterID, ShouldEqual, skater.ID)
			So(board.Msg.Entries[0].BestScore, ShouldEqual, results.Msg.Executions[0].TotalScore)
		})

		Convey("A simulation without ids is rejected before reaching storage", func() {
			simulate := client[server.SimulateProgramRequest, server.SimulateProgramResponse](ts, server.SimulateProgramProcedure)
			_, err := simulate.CallUnary(ctx, connect.NewRequest(&server.SimulateProgramRequest{}))
			So(connect.CodeOf(err), ShouldEqual, connect.CodeInvalidArgument)
		})
	})
}

func TestSocialProcedures(t *testing.T) {
	Convey("Given two profiles", t, func() {
		env, ts := newTestServer(t)
		ctx := context.Background()
		a := env.SeedProfile(t, "Ada", "Lovelace")
		b := env.SeedProfile(t, "Charles", "Babbage")

		addFriend := client[server.AddFriendRequest, server.AddFriendResponse](ts, server.AddFriendProcedure)

		Convey("The second friend request in either direction already exists", func() {
			_, err := addFriend.CallUnary(ctx, connect.NewRequest(&server.AddFriendRequest{ProfileID: a.ID, FriendID: b.ID}))
			So(err, ShouldBeNil)

			_, err = addFriend.CallUnary(ctx, connect.NewRequest(&server.AddFriendRequest{ProfileID: b.ID, FriendID: a.ID}))
			So(connect.CodeOf(err), ShouldEqual, connect.CodeAlreadyExists)

			getFriends := client[server.ProfileRequest, server.ListProfilesResponse](ts, server.GetFriendsProcedure)
			friends, err := getFriends.CallUnary(ctx, connect.NewRequest(&server.ProfileRequest{ProfileID: b.ID}))
			So(err, ShouldBeNil)
			So(friends.Msg.Profiles, ShouldHaveLength, 1)
			So(friends.Msg.Profiles[0].ID, ShouldEqual, a.ID)
		})

		Convey("A posted status shows up in a friend's news feed", func() {
			_, err := addFriend.CallUnary(ctx, connect.NewRequest(&server.AddFriendRequest{ProfileID: a.ID, FriendID: b.ID}))
			So(err, ShouldBeNil)

			post := client[server.PostStatusRequest, server.StatusResponse](ts, server.PostStatusProcedure)
			posted, err := post.CallUnary(ctx, connect.NewRequest(&server.PostStatusRequest{
				ProfileID: b.ID,
				Message:   "difference engine works",
				Images:    []server.Image{{URL: "https://example.com/engine.png"}},
			}))
			So(err, ShouldBeNil)
			So(posted.Msg.Status.Images, ShouldHaveLength, 1)

			feed := client[server.ProfileFeedRequest, server.ListStatusesResponse](ts, server.GetNewsFeedProcedure)
			got, err := feed.CallUnary(ctx, connect.NewRequest(&server.ProfileFeedRequest{ProfileID: a.ID}))
			So(err, ShouldBeNil)
			So(got.Msg.Statuses, ShouldHaveLength, 1)
			So(got.Msg.Statuses[0].ID, ShouldEqual, posted.Msg.Status.ID)
			So(got.Msg.Statuses[0].Images[0].URL, ShouldEqual, "https://example.com/engine.png")
		})

		Convey("Befriending yourself is an invalid argument", func() {
			_, err := addFriend.CallUnary(ctx, connect.NewRequest(&server.AddFriendRequest{ProfileID: a.ID, FriendID: a.ID}))
			So(connect.CodeOf(err), ShouldEqual, connect.CodeInvalidArgument)
		})
	})
}

func TestVoterProcedures(t *testing.T) {
	Convey("Given a registered voter", t, func() {
		_, ts := newTestServer(t)
		ctx := context.Background()

		create := client[server.Voter, server.VoterResponse](ts, server.CreateVoterProcedure)
		created, err := create.CallUnary(ctx, connect.NewRequest(&server.Voter{
			FirstName:        "Grace",
			LastName:         "Hopper",
			StreetNumber:     "12",
			StreetName:       "Main St",
			ZipCode:          "01002",
			BirthDate:        "1960-05-01",
			RegistrationDate: "1990-01-15",
			Party:            "D",
			Precinct:         "3",
			V22General:       true,
			VoterScore:       1,
		}))
		So(err, ShouldBeNil)

		list := client[server.ListVotersRequest, server.ListVotersResponse](ts, server.ListVotersProcedure)

		Convey("It is found by the election it voted in", func() {
			got, err := list.CallUnary(ctx, connect.NewRequest(&server.ListVotersRequest{Elections: []string{"v22general"}}))
			So(err, ShouldBeNil)
			So(got.Msg.Voters, ShouldHaveLength, 1)
			So(got.Msg.Voters[0].ID, ShouldEqual, created.Msg.Voter.ID)
			So(got.Msg.Voters[0].BirthDate, ShouldEqual, "1960-05-01")
		})

		Convey("It is not found by an election it skipped", func() {
			got, err := list.CallUnary(ctx, connect.NewRequest(&server.ListVotersRequest{Elections: []string{"v23town"}}))
			So(err, ShouldBeNil)
			So(got.Msg.Voters, ShouldBeEmpty)
		})

		Convey("An unknown election is an invalid argument", func() {
			_, err := list.CallUnary(ctx, connect.NewRequest(&server.ListVotersRequest{Elections: []string{"v99mayor"}}))
			So(connect.CodeOf(err), ShouldEqual, connect.CodeInvalidArgument)
		})
	})
}

func TestHTTPEndpoints(t *testing.T) {
	Convey("Given a running server", t, func() {
		_, ts := newTestServer(t)

		Convey("Health reports ok", func() {
			resp, err := http.Get(ts.URL + "/health")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var body map[string]string
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(body["status"], ShouldEqual, "ok")
		})

		Convey("Metrics expose request durations by procedure", func() {
			getSkater := client[server.IDRequest, server.GetSkaterResponse](ts, server.GetSkaterProcedure)
			_, _ = getSkater.CallUnary(context.Background(), connect.NewRequest(&server.IDRequest{ID: "missing"}))

			resp, err := http.Get(ts.URL + "/metrics")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			So(err, ShouldBeNil)
			So(string(body), ShouldContainSubstring, "skatebook_rpc_request_duration_seconds")
			So(string(body), ShouldContainSubstring, `code="not_found"`)
		})
	})
}
