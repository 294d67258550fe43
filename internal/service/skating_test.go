package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"skatebook/internal/domain"
	"skatebook/internal/scoring"
	"skatebook/internal/service"
	"skatebook/internal/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

type skating struct {
	env          *testutil.Env
	simulator    *service.SimulationService
	programs     *service.ProgramService
	competitions *service.CompetitionService
	elements     *service.ElementService
	skaters      *service.SkaterService
}

func newSkating(t *testing.T, seed uint64) *skating {
	env := testutil.NewEnv(t)
	simulator := service.NewSimulationService(
		env.Competitions, env.Skaters, env.Programs, env.Elements, env.Executions,
		scoring.NewSource(seed), env.Metrics, env.Logger,
	)
	return &skating{
		env:       env,
		simulator: simulator,
		programs:  service.NewProgramService(env.Programs, env.Elements, env.Skaters, env.Executions, env.Logger),
		competitions: service.NewCompetitionService(
			env.Config, env.Competitions, env.Skaters, env.Programs, env.Executions, simulator, env.Logger,
		),
		elements: service.NewElementService(env.Elements, env.Skaters, env.Executions, env.Logger),
		skaters:  service.NewSkaterService(env.Skaters, env.Programs, env.Executions, env.Logger),
	}
}

var competitionDay = time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

func TestSimulate(t *testing.T) {
	Convey("Given a two element program and no recorded success rates", t, func() {
		s := newSkating(t, 7)
		ctx := context.Background()

		skater := s.env.SeedSkater(t, "Mao", "Asada")
		a := s.env.SeedElement(t, "A", domain.ElementJump, 1.0)
		b := s.env.SeedElement(t, "B", domain.ElementSpin, 2.0)
		program := domain.Program{Title: "Exhibition", SkaterID: skater.ID}
		So(s.env.Programs.Create(ctx, &program, []string{a.ID, b.ID}), ShouldBeNil)
		competition := s.env.SeedCompetition(t, "Gala", competitionDay, skater.ID)

		Convey("When the program is simulated", func() {
			ep, err := s.simulator.Simulate(ctx, competition.ID, skater.ID, program.ID)
			So(err, ShouldBeNil)

			Convey("Then two elements are stored at positions 1 and 2 in program order", func() {
				stored, err := s.env.Executions.Get(ctx, ep.ID)
				So(err, ShouldBeNil)
				So(stored.Elements, ShouldHaveLength, 2)
				So(stored.Elements[0].Position, ShouldEqual, 1)
				So(stored.Elements[0].ElementID, ShouldEqual, a.ID)
				So(stored.Elements[1].Position, ShouldEqual, 2)
				So(stored.Elements[1].ElementID, ShouldEqual, b.ID)
			})

			Convey("Then the stored total is the rounded sum of the stored element scores", func() {
				stored, err := s.env.Executions.Get(ctx, ep.ID)
				So(err, ShouldBeNil)

				scores := make([]float64, len(stored.Elements))
				for i, el := range stored.Elements {
					So(el.Score, ShouldBeGreaterThanOrEqualTo, 0.0)
					So(el.Score, ShouldEqual, scoring.Round2(scoring.ElementScore(map[string]float64{a.ID: 1.0, b.ID: 2.0}[el.ElementID], el.GOE)))
					scores[i] = el.Score
				}
				So(stored.TotalScore, ShouldEqual, scoring.Total(scores))
				So(stored.TotalScore, ShouldEqual, ep.TotalScore)
			})

			Convey("Then a second simulation creates an independent record", func() {
				again, err := s.simulator.Simulate(ctx, competition.ID, skater.ID, program.ID)
				So(err, ShouldBeNil)
				So(again.ID, ShouldNotEqual, ep.ID)

				results, err := s.env.Executions.ByCompetition(ctx, competition.ID)
				So(err, ShouldBeNil)
				So(results, ShouldHaveLength, 2)
			})
		})

		Convey("When the competition or skater does not exist", func() {
			_, errCompetition := s.simulator.Simulate(ctx, "missing", skater.ID, program.ID)
			_, errSkater := s.simulator.Simulate(ctx, competition.ID, "missing", program.ID)

			Convey("Then it is not found", func() {
				So(errors.Is(errCompetition, domain.ErrNotFound), ShouldBeTrue)
				So(errors.Is(errSkater, domain.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the program belongs to someone else or the skater is not registered", func() {
			other := s.env.SeedSkater(t, "Evgeni", "Plushenko")
			otherProgram := domain.Program{Title: "Other", SkaterID: other.ID}
			So(s.env.Programs.Create(ctx, &otherProgram, []string{a.ID}), ShouldBeNil)

			_, errOwner := s.simulator.Simulate(ctx, competition.ID, skater.ID, otherProgram.ID)
			_, errRegistered := s.simulator.Simulate(ctx, competition.ID, other.ID, otherProgram.ID)

			Convey("Then both are validation errors and nothing is stored", func() {
				So(errors.Is(errOwner, domain.ErrValidation), ShouldBeTrue)
				So(errors.Is(errRegistered, domain.ErrValidation), ShouldBeTrue)

				results, err := s.env.Executions.ByCompetition(ctx, competition.ID)
				So(err, ShouldBeNil)
				So(results, ShouldBeEmpty)
			})
		})

		Convey("When the program has no elements", func() {
			empty := domain.Program{Title: "Empty", SkaterID: skater.ID}
			So(s.env.Programs.Create(ctx, &empty, nil), ShouldBeNil)
			_, err := s.simulator.Simulate(ctx, competition.ID, skater.ID, empty.ID)

			Convey("Then it is an invalid state", func() {
				So(errors.Is(err, domain.ErrInvalidState), ShouldBeTrue)
			})
		})
	})

	Convey("Given a skater with a 0.9 success rate on a single jump", t, func() {
		s := newSkating(t, 2024)
		ctx := context.Background()

		skater := s.env.SeedSkater(t, "Shoma", "Uno")
		axel := s.env.SeedElement(t, "3A", domain.ElementJump, 8.0)
		_, err := s.elements.SetProbability(ctx, skater.ID, axel.ID, 0.9)
		So(err, ShouldBeNil)
		program := domain.Program{Title: "Axel", SkaterID: skater.ID}
		So(s.env.Programs.Create(ctx, &program, []string{axel.ID}), ShouldBeNil)
		competition := s.env.SeedCompetition(t, "Practice", competitionDay, skater.ID)

		Convey("When it is simulated many times", func() {
			const runs = 300
			successes := 0
			for i := 0; i < runs; i++ {
				ep, err := s.simulator.Simulate(ctx, competition.ID, skater.ID, program.ID)
				So(err, ShouldBeNil)
				if ep.Elements[0].Success {
					successes++
				}
			}

			Convey("Then the success rate is near 90%", func() {
				So(float64(successes)/runs, ShouldAlmostEqual, 0.9, 0.06)
			})
		})
	})
}

func TestProgramComposition(t *testing.T) {
	Convey("Given a skater and a catalogue", t, func() {
		s := newSkating(t, 1)
		ctx := context.Background()
		skater := s.env.SeedSkater(t, "Alysa", "Liu")
		catalogue := s.env.SeedCatalogue(t)
		valid := catalogue.ValidProgram()

		rejected := func(ids []string) {
			_, err := s.programs.Create(ctx, skater.ID, "Free", ids, false)
			So(errors.Is(err, domain.ErrValidation), ShouldBeTrue)

			var verr *domain.ValidationError
			So(errors.As(err, &verr), ShouldBeTrue)
			So(verr.Problems, ShouldNotBeEmpty)

			programs, err := s.env.Programs.ListBySkater(ctx, skater.ID)
			So(err, ShouldBeNil)
			So(programs, ShouldBeEmpty)
		}

		Convey("When the composition is 7 jumps, 3 spins, 1 step and 1 choreo", func() {
			program, err := s.programs.Create(ctx, skater.ID, "Free", valid, true)

			Convey("Then it is accepted", func() {
				So(err, ShouldBeNil)
				detail, err := s.programs.Get(ctx, program.ID)
				So(err, ShouldBeNil)
				So(detail.Elements, ShouldHaveLength, 12)
				So(detail.Program.Preset, ShouldBeTrue)

				var base float64
				for _, pe := range detail.Elements {
					base += pe.Element.BaseValue
				}
				So(detail.TotalBaseValue, ShouldAlmostEqual, base, 1e-9)
			})
		})

		Convey("When an element is missing", func() {
			rejected(valid[:11])
		})

		Convey("When an element is repeated", func() {
			ids := append([]string{}, valid...)
			ids[1] = ids[0]
			rejected(ids)
		})

		Convey("When a spin replaces a jump", func() {
			ids := append([]string{}, valid...)
			ids[0] = catalogue[domain.ElementSpin][3].ID
			rejected(ids)
		})

		Convey("When thirteen elements are given", func() {
			rejected(append(append([]string{}, valid...), catalogue[domain.ElementJump][7].ID))
		})

		Convey("When an element is unknown", func() {
			ids := append([]string{}, valid...)
			ids[11] = "missing"
			rejected(ids)
		})

		Convey("When the title is blank", func() {
			_, err := s.programs.Create(ctx, skater.ID, "  ", valid, false)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, domain.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When the skater does not exist", func() {
			_, err := s.programs.Create(ctx, "missing", "Free", valid, false)

			Convey("Then it is not found", func() {
				So(errors.Is(err, domain.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestValidateComposition(t *testing.T) {
	Convey("Given a known catalogue", t, func() {
		known := map[string]domain.Element{}
		var ids []string
		add := func(prefix string, n int, et domain.ElementType) {
			for i := 0; i < n; i++ {
				id := prefix + string(rune('a'+i))
				known[id] = domain.Element{ID: id, Type: et}
				ids = append(ids, id)
			}
		}
		add("j", 7, domain.ElementJump)
		add("s", 3, domain.ElementSpin)
		add("t", 1, domain.ElementStep)
		add("c", 1, domain.ElementChoreo)

		Convey("A valid composition passes", func() {
			So(service.ValidateComposition(ids, known), ShouldBeNil)
		})

		Convey("Wrong type counts are reported per type", func() {
			known["ja"] = domain.Element{ID: "ja", Type: domain.ElementSpin}
			err := service.ValidateComposition(ids, known)

			var verr *domain.ValidationError
			So(errors.As(err, &verr), ShouldBeTrue)
			So(verr.Problems, ShouldHaveLength, 2)
		})
	})
}

func TestCompetitionRun(t *testing.T) {
	Convey("Given a competition with two skaters", t, func() {
		s := newSkating(t, 99)
		ctx := context.Background()
		catalogue := s.env.SeedCatalogue(t)
		valid := catalogue.ValidProgram()

		first := s.env.SeedSkater(t, "Kamila", "Valieva")
		second := s.env.SeedSkater(t, "Anna", "Shcherbakova")
		preset, err := s.programs.Create(ctx, first.ID, "Preset", valid, true)
		So(err, ShouldBeNil)
		chosen, err := s.programs.Create(ctx, second.ID, "Chosen", valid, false)
		So(err, ShouldBeNil)

		competition := domain.Competition{
			Name:      "Worlds",
			Date:      competitionDay,
			Location:  "Montreal",
			SkaterIDs: []string{first.ID, second.ID, first.ID},
		}
		So(s.competitions.Create(ctx, &competition), ShouldBeNil)

		Convey("When run with a selection for the skater without a preset", func() {
			results, err := s.competitions.Run(ctx, competition.ID, map[string]string{second.ID: chosen.ID})

			Convey("Then each skater performs once, highest score first", func() {
				So(err, ShouldBeNil)
				So(results, ShouldHaveLength, 2)
				So(results[0].TotalScore, ShouldBeGreaterThanOrEqualTo, results[1].TotalScore)

				programs := map[string]bool{results[0].ProgramID: true, results[1].ProgramID: true}
				So(programs[preset.ID], ShouldBeTrue)
				So(programs[chosen.ID], ShouldBeTrue)
			})

			Convey("Then the detail and leaderboard reflect the results", func() {
				detail, err := s.competitions.Get(ctx, competition.ID)
				So(err, ShouldBeNil)
				So(detail.Skaters, ShouldHaveLength, 2)
				So(detail.Results, ShouldHaveLength, 2)
				So(detail.Results[0].TotalScore, ShouldBeGreaterThanOrEqualTo, detail.Results[1].TotalScore)

				board, err := s.competitions.Leaderboard(ctx, 0)
				So(err, ShouldBeNil)
				So(board, ShouldHaveLength, 2)
				So(board[0].BestScore, ShouldEqual, detail.Results[0].TotalScore)
			})
		})

		Convey("When a skater has neither a selection nor a preset", func() {
			_, err := s.competitions.Run(ctx, competition.ID, nil)

			Convey("Then it is a validation error and nothing runs", func() {
				So(errors.Is(err, domain.ErrValidation), ShouldBeTrue)
				detail, err := s.competitions.Get(ctx, competition.ID)
				So(err, ShouldBeNil)
				So(detail.Results, ShouldBeEmpty)
			})
		})

		Convey("When a selection names another skater's program", func() {
			_, err := s.competitions.Run(ctx, competition.ID, map[string]string{second.ID: preset.ID})

			Convey("Then it is a validation error and no skater's result is kept", func() {
				So(errors.Is(err, domain.ErrValidation), ShouldBeTrue)
				detail, err := s.competitions.Get(ctx, competition.ID)
				So(err, ShouldBeNil)
				So(detail.Results, ShouldBeEmpty)
			})
		})

		Convey("When a selection names a program that does not exist", func() {
			_, err := s.competitions.Run(ctx, competition.ID, map[string]string{second.ID: "missing"})

			Convey("Then it is a validation error and nothing is kept", func() {
				So(errors.Is(err, domain.ErrValidation), ShouldBeTrue)
				results, err := s.env.Executions.ByCompetition(ctx, competition.ID)
				So(err, ShouldBeNil)
				So(results, ShouldBeEmpty)
			})
		})

		Convey("When a selected program has no elements", func() {
			empty := domain.Program{Title: "Empty", SkaterID: second.ID}
			So(s.env.Programs.Create(ctx, &empty, nil), ShouldBeNil)
			_, err := s.competitions.Run(ctx, competition.ID, map[string]string{second.ID: empty.ID})

			Convey("Then it is an invalid state and nothing is kept", func() {
				So(errors.Is(err, domain.ErrInvalidState), ShouldBeTrue)
				results, err := s.env.Executions.ByCompetition(ctx, competition.ID)
				So(err, ShouldBeNil)
				So(results, ShouldBeEmpty)
			})
		})

		Convey("When a selection names an unregistered skater", func() {
			outsider := s.env.SeedSkater(t, "Out", "Sider")
			_, err := s.competitions.Run(ctx, competition.ID, map[string]string{second.ID: chosen.ID, outsider.ID: chosen.ID})

			Convey("Then it is a validation error", func() {
				So(errors.Is(err, domain.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When a competition is created without skaters", func() {
			err := s.competitions.Create(ctx, &domain.Competition{Name: "Empty", Date: competitionDay, Location: "Nowhere"})

			Convey("Then it is rejected", func() {
				So(errors.Is(err, domain.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When a competition names a missing skater", func() {
			err := s.competitions.Create(ctx, &domain.Competition{
				Name: "Ghosts", Date: competitionDay, Location: "Nowhere", SkaterIDs: []string{"missing"},
			})

			Convey("Then it is not found", func() {
				So(errors.Is(err, domain.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestElementService(t *testing.T) {
	Convey("Given the element service", t, func() {
		s := newSkating(t, 3)
		ctx := context.Background()

		Convey("When an element is invalid", func() {
			err := s.elements.Create(ctx, &domain.Element{Code: "TOOLONGCODE1", Name: "", Type: "FLIP", BaseValue: -1})

			Convey("Then every problem is reported", func() {
				var verr *domain.ValidationError
				So(errors.As(err, &verr), ShouldBeTrue)
				So(verr.Problems, ShouldHaveLength, 4)
			})
		})

		Convey("When a success rate is out of range", func() {
			skater := s.env.SeedSkater(t, "Rate", "Limit")
			el := s.env.SeedElement(t, "2A", domain.ElementJump, 3.3)
			_, err := s.elements.SetProbability(ctx, skater.ID, el.ID, 1.01)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, domain.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When listing with an unknown type", func() {
			_, err := s.elements.List(ctx, "", "FLIP", 10)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, domain.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When a usage report is requested for an executed element", func() {
			skater := s.env.SeedSkater(t, "Usage", "Report")
			el := s.env.SeedElement(t, "3Lz", domain.ElementJump, 5.9)
			program := domain.Program{Title: "One", SkaterID: skater.ID}
			So(s.env.Programs.Create(ctx, &program, []string{el.ID}), ShouldBeNil)
			competition := s.env.SeedCompetition(t, "Cup", competitionDay, skater.ID)
			ep, err := s.simulator.Simulate(ctx, competition.ID, skater.ID, program.ID)
			So(err, ShouldBeNil)

			report, err := s.elements.Usage(ctx, el.ID, skater.ID)

			Convey("Then usage and skater history match the execution", func() {
				So(err, ShouldBeNil)
				So(report.Usage, ShouldHaveLength, 1)
				So(report.Usage[0].AverageGOE, ShouldAlmostEqual, ep.Elements[0].GOE, 1e-9)
				So(report.History, ShouldHaveLength, 1)
				So(report.History[0].GOE, ShouldEqual, ep.Elements[0].GOE)
			})
		})
	})
}

func TestSkaterService(t *testing.T) {
	Convey("Given the skater service", t, func() {
		s := newSkating(t, 5)
		ctx := context.Background()

		Convey("When a skater without names or birth date is created", func() {
			err := s.skaters.Create(ctx, &domain.Skater{Nationality: "USA"})

			Convey("Then it is rejected", func() {
				var verr *domain.ValidationError
				So(errors.As(err, &verr), ShouldBeTrue)
				So(verr.Problems, ShouldHaveLength, 3)
			})
		})

		Convey("When an existing skater is loaded", func() {
			skater := s.env.SeedSkater(t, "Madison", "Chock")
			detail, err := s.skaters.Get(ctx, skater.ID)

			Convey("Then the detail has no programs or executions yet", func() {
				So(err, ShouldBeNil)
				So(detail.Skater.ID, ShouldEqual, skater.ID)
				So(detail.Programs, ShouldBeEmpty)
				So(detail.Executions, ShouldBeEmpty)
			})
		})
	})
}
