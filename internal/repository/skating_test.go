package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"skatebook/internal/domain"
	"skatebook/internal/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSkaterRepository(t *testing.T) {
	Convey("Given an empty database", t, func() {
		env := testutil.NewEnv(t)
		ctx := context.Background()

		Convey("When a skater is created", func() {
			s := env.SeedSkater(t, "Yuzuru", "Hanyu")

			Convey("Then it gets an id and can be read back", func() {
				So(s.ID, ShouldNotBeEmpty)
				got, err := env.Skaters.Get(ctx, s.ID)
				So(err, ShouldBeNil)
				So(got.FullName(), ShouldEqual, "Yuzuru Hanyu")
				So(got.SkatingClub, ShouldEqual, "Rink Club")
				So(got.Hometown, ShouldBeEmpty)
				So(got.BirthDate.Year(), ShouldEqual, 2000)
			})

			Convey("Then updating changes the mutable fields", func() {
				s.Nationality = "CAN"
				s.Hometown = "Sendai"
				So(env.Skaters.Update(ctx, &s), ShouldBeNil)

				got, err := env.Skaters.Get(ctx, s.ID)
				So(err, ShouldBeNil)
				So(got.Nationality, ShouldEqual, "CAN")
				So(got.Hometown, ShouldEqual, "Sendai")
			})
		})

		Convey("When a missing skater is read, updated or deleted", func() {
			_, getErr := env.Skaters.Get(ctx, "missing")
			updateErr := env.Skaters.Update(ctx, &domain.Skater{ID: "missing", Nationality: "USA"})
			deleteErr := env.Skaters.Delete(ctx, "missing")

			Convey("Then every call reports not found", func() {
				So(errors.Is(getErr, domain.ErrNotFound), ShouldBeTrue)
				So(errors.Is(updateErr, domain.ErrNotFound), ShouldBeTrue)
				So(errors.Is(deleteErr, domain.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestElementRepository(t *testing.T) {
	Convey("Given a seeded element", t, func() {
		env := testutil.NewEnv(t)
		ctx := context.Background()
		axel := env.SeedElement(t, "3A", domain.ElementJump, 8.0)
		env.SeedElement(t, "CCoSp4", domain.ElementSpin, 3.5)

		Convey("When another element reuses the code", func() {
			dup := domain.Element{Code: "3A", Name: "Other", Type: domain.ElementJump, BaseValue: 1}
			err := env.Elements.Create(ctx, &dup)

			Convey("Then it is a conflict", func() {
				So(errors.Is(err, domain.ErrConflict), ShouldBeTrue)
			})
		})

		Convey("When searching", func() {
			byCode, err1 := env.Elements.Search(ctx, "3a", "", 10)
			byType, err2 := env.Elements.Search(ctx, "", domain.ElementSpin, 10)
			all, err3 := env.Elements.Search(ctx, "", "", 10)

			Convey("Then matches are case-insensitive and filtered by type", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(err3, ShouldBeNil)
				So(byCode, ShouldHaveLength, 1)
				So(byCode[0].ID, ShouldEqual, axel.ID)
				So(byType, ShouldHaveLength, 1)
				So(byType[0].Code, ShouldEqual, "CCoSp4")
				So(all, ShouldHaveLength, 2)
			})
		})

		Convey("When probabilities are recorded", func() {
			skater := env.SeedSkater(t, "Nathan", "Chen")
			p := domain.ElementProbability{SkaterID: skater.ID, ElementID: axel.ID, SuccessRate: 0.9}
			So(env.Elements.CreateProbability(ctx, &p), ShouldBeNil)

			Convey("Then a second record for the pair conflicts", func() {
				again := domain.ElementProbability{SkaterID: skater.ID, ElementID: axel.ID, SuccessRate: 0.2}
				So(errors.Is(env.Elements.CreateProbability(ctx, &again), domain.ErrConflict), ShouldBeTrue)
			})

			Convey("Then rates outside [0, 1] are rejected by the store", func() {
				So(errors.Is(env.Elements.UpdateProbability(ctx, skater.ID, axel.ID, 1.5), domain.ErrValidation), ShouldBeTrue)
			})

			Convey("Then success rates are returned for known pairs only", func() {
				other := env.SeedElement(t, "4Lz", domain.ElementJump, 11.5)
				rates, err := env.Elements.SuccessRates(ctx, skater.ID, []string{axel.ID, other.ID})
				So(err, ShouldBeNil)
				So(rates, ShouldHaveLength, 1)
				So(rates[axel.ID], ShouldEqual, 0.9)
			})

			Convey("Then an update is visible", func() {
				So(env.Elements.UpdateProbability(ctx, skater.ID, axel.ID, 0.75), ShouldBeNil)
				got, err := env.Elements.GetProbability(ctx, skater.ID, axel.ID)
				So(err, ShouldBeNil)
				So(got.SuccessRate, ShouldEqual, 0.75)
			})
		})

		Convey("When a probability references a missing skater", func() {
			p := domain.ElementProbability{SkaterID: "missing", ElementID: axel.ID, SuccessRate: 0.5}
			err := env.Elements.CreateProbability(ctx, &p)

			Convey("Then it is not found", func() {
				So(errors.Is(err, domain.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestProgramRepository(t *testing.T) {
	Convey("Given a skater and a catalogue", t, func() {
		env := testutil.NewEnv(t)
		ctx := context.Background()
		skater := env.SeedSkater(t, "Kaori", "Sakamoto")
		catalogue := env.SeedCatalogue(t)
		ids := catalogue.ValidProgram()

		Convey("When a program is created", func() {
			program := domain.Program{Title: "Free Skate", SkaterID: skater.ID}
			So(env.Programs.Create(ctx, &program, ids), ShouldBeNil)

			Convey("Then its elements come back in order with dense positions", func() {
				elements, err := env.Programs.Elements(ctx, program.ID)
				So(err, ShouldBeNil)
				So(elements, ShouldHaveLength, len(ids))
				for i, pe := range elements {
					So(pe.Position, ShouldEqual, i+1)
					So(pe.Element.ID, ShouldEqual, ids[i])
				}
			})

			Convey("Then the program list shows no top score yet", func() {
				list, err := env.Programs.ListWithTopScore(ctx, 10)
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 1)
				So(list[0].TopScore, ShouldBeNil)
			})
		})

		Convey("When two programs are flagged preset in turn", func() {
			first := domain.Program{Title: "Short", SkaterID: skater.ID, Preset: true}
			So(env.Programs.Create(ctx, &first, ids), ShouldBeNil)
			second := domain.Program{Title: "Free", SkaterID: skater.ID, Preset: true}
			So(env.Programs.Create(ctx, &second, ids), ShouldBeNil)

			Convey("Then only the latest is the preset", func() {
				preset, err := env.Programs.GetPreset(ctx, skater.ID)
				So(err, ShouldBeNil)
				So(preset.ID, ShouldEqual, second.ID)
			})

			Convey("Then SetPreset moves the flag back", func() {
				_, err := env.Programs.SetPreset(ctx, first.ID)
				So(err, ShouldBeNil)

				preset, err := env.Programs.GetPreset(ctx, skater.ID)
				So(err, ShouldBeNil)
				So(preset.ID, ShouldEqual, first.ID)

				programs, err := env.Programs.ListBySkater(ctx, skater.ID)
				So(err, ShouldBeNil)
				presets := 0
				for _, p := range programs {
					if p.Preset {
						presets++
					}
				}
				So(presets, ShouldEqual, 1)
			})
		})

		Convey("When an element id is unknown", func() {
			program := domain.Program{Title: "Broken", SkaterID: skater.ID}
			err := env.Programs.Create(ctx, &program, append(ids[:11:11], "missing"))

			Convey("Then nothing is persisted", func() {
				So(errors.Is(err, domain.ErrNotFound), ShouldBeTrue)
				programs, err := env.Programs.ListBySkater(ctx, skater.ID)
				So(err, ShouldBeNil)
				So(programs, ShouldBeEmpty)
			})
		})
	})
}

func TestExecutionRepository(t *testing.T) {
	Convey("Given a competition with a registered skater and program", t, func() {
		env := testutil.NewEnv(t)
		ctx := context.Background()
		skater := env.SeedSkater(t, "Ilia", "Malinin")
		a := env.SeedElement(t, "A", domain.ElementJump, 1.0)
		b := env.SeedElement(t, "B", domain.ElementSpin, 2.0)
		program := domain.Program{Title: "Test", SkaterID: skater.ID}
		So(env.Programs.Create(ctx, &program, []string{a.ID, b.ID}), ShouldBeNil)
		competition := env.SeedCompetition(t, "Nationals", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), skater.ID)

		Convey("When an execution is saved", func() {
			ep := domain.ExecutedProgram{
				ProgramID:     program.ID,
				CompetitionID: competition.ID,
				TotalScore:    3.3,
				Elements: []domain.ExecutedElement{
					{ElementID: a.ID, Position: 1, GOE: 1.0, Score: 1.1},
					{ElementID: b.ID, Position: 2, GOE: 0.5, Score: 2.2},
				},
			}
			So(env.Executions.Save(ctx, &ep), ShouldBeNil)

			Convey("Then it reads back with its elements in order", func() {
				got, err := env.Executions.Get(ctx, ep.ID)
				So(err, ShouldBeNil)
				So(got.TotalScore, ShouldEqual, 3.3)
				So(got.Elements, ShouldHaveLength, 2)
				So(got.Elements[0].Position, ShouldEqual, 1)
				So(got.Elements[1].ElementID, ShouldEqual, b.ID)
			})

			Convey("Then it shows in results, leaderboard and usage", func() {
				results, err := env.Executions.ByCompetition(ctx, competition.ID)
				So(err, ShouldBeNil)
				So(results, ShouldHaveLength, 1)
				So(results[0].SkaterName, ShouldEqual, "Ilia Malinin")

				board, err := env.Executions.Leaderboard(ctx, 10)
				So(err, ShouldBeNil)
				So(board, ShouldHaveLength, 1)
				So(board[0].BestScore, ShouldEqual, 3.3)

				usage, err := env.Executions.ElementUsage(ctx, a.ID)
				So(err, ShouldBeNil)
				So(usage, ShouldHaveLength, 1)
				So(usage[0].Executions, ShouldEqual, 1)
				So(usage[0].AverageGOE, ShouldEqual, 1.0)

				history, err := env.Executions.GOEHistory(ctx, b.ID, skater.ID)
				So(err, ShouldBeNil)
				So(history, ShouldHaveLength, 1)
				So(history[0].GOE, ShouldEqual, 0.5)
			})

			Convey("Then deleting the skater cascades to programs and executions", func() {
				So(env.Skaters.Delete(ctx, skater.ID), ShouldBeNil)

				_, err := env.Programs.Get(ctx, program.ID)
				So(errors.Is(err, domain.ErrNotFound), ShouldBeTrue)
				_, err = env.Executions.Get(ctx, ep.ID)
				So(errors.Is(err, domain.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then deleting the competition removes its executions", func() {
				So(env.Competitions.Delete(ctx, competition.ID), ShouldBeNil)
				_, err := env.Executions.Get(ctx, ep.ID)
				So(errors.Is(err, domain.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When one element of an execution cannot be stored", func() {
			ep := domain.ExecutedProgram{
				ProgramID:     program.ID,
				CompetitionID: competition.ID,
				TotalScore:    1.1,
				Elements: []domain.ExecutedElement{
					{ElementID: a.ID, Position: 1, GOE: 1.0, Score: 1.1},
					{ElementID: "missing", Position: 2, GOE: 0, Score: 0},
				},
			}
			err := env.Executions.Save(ctx, &ep)

			Convey("Then the whole execution is rolled back", func() {
				So(err, ShouldNotBeNil)
				results, err := env.Executions.ByCompetition(ctx, competition.ID)
				So(err, ShouldBeNil)
				So(results, ShouldBeEmpty)
			})
		})

		Convey("When registration is checked", func() {
			other := env.SeedSkater(t, "Adam", "Siao")
			yes, err1 := env.Competitions.IsRegistered(ctx, competition.ID, skater.ID)
			no, err2 := env.Competitions.IsRegistered(ctx, competition.ID, other.ID)

			Convey("Then only the registered skater counts", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(yes, ShouldBeTrue)
				So(no, ShouldBeFalse)
			})
		})
	})
}
