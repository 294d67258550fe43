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

func TestFriendRepository(t *testing.T) {
	Convey("Given two profiles", t, func() {
		env := testutil.NewEnv(t)
		ctx := context.Background()
		a := env.SeedProfile(t, "Ada", "Lovelace")
		b := env.SeedProfile(t, "Bob", "Marley")

		Convey("When they are connected once", func() {
			friend, err := env.Friends.Add(ctx, a.ID, b.ID)
			So(err, ShouldBeNil)

			Convey("Then the edge is stored as given", func() {
				So(friend.Profile1ID, ShouldEqual, a.ID)
				So(friend.Profile2ID, ShouldEqual, b.ID)
			})

			Convey("Then adding again in either direction is rejected", func() {
				_, same := env.Friends.Add(ctx, a.ID, b.ID)
				_, reverse := env.Friends.Add(ctx, b.ID, a.ID)
				So(errors.Is(same, domain.ErrAlreadyFriends), ShouldBeTrue)
				So(errors.Is(reverse, domain.ErrAlreadyFriends), ShouldBeTrue)
				So(errors.Is(reverse, domain.ErrConflict), ShouldBeTrue)

				edges, err := env.Friends.Edges(ctx, []string{a.ID, b.ID})
				So(err, ShouldBeNil)
				So(edges, ShouldHaveLength, 1)
			})

			Convey("Then deleting a profile removes the edge", func() {
				So(env.Profiles.Delete(ctx, b.ID), ShouldBeNil)
				edges, err := env.Friends.Edges(ctx, []string{a.ID})
				So(err, ShouldBeNil)
				So(edges, ShouldBeEmpty)
			})
		})

		Convey("When the other profile does not exist", func() {
			_, err := env.Friends.Add(ctx, a.ID, "missing")

			Convey("Then it is not found", func() {
				So(errors.Is(err, domain.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When both sides add each other concurrently", func() {
			errs := make(chan error, 2)
			go func() { _, err := env.Friends.Add(ctx, a.ID, b.ID); errs <- err }()
			go func() { _, err := env.Friends.Add(ctx, b.ID, a.ID); errs <- err }()
			first, second := <-errs, <-errs

			Convey("Then exactly one succeeds", func() {
				failures := 0
				for _, err := range []error{first, second} {
					if err != nil {
						So(errors.Is(err, domain.ErrAlreadyFriends), ShouldBeTrue)
						failures++
					}
				}
				So(failures, ShouldEqual, 1)

				edges, err := env.Friends.Edges(ctx, []string{a.ID})
				So(err, ShouldBeNil)
				So(edges, ShouldHaveLength, 1)
			})
		})
	})
}

func TestProfileRepository(t *testing.T) {
	Convey("Given a profile", t, func() {
		env := testutil.NewEnv(t)
		ctx := context.Background()
		p := env.SeedProfile(t, "Grace", "Hopper")

		Convey("When another profile reuses the email", func() {
			dup := domain.Profile{FirstName: "G", LastName: "H", City: "NYC", Email: p.Email}
			err := env.Profiles.Create(ctx, &dup)

			Convey("Then it conflicts", func() {
				So(errors.Is(err, domain.ErrConflict), ShouldBeTrue)
			})
		})

		Convey("When the profile is updated", func() {
			p.City = "Arlington"
			p.ImageURL = "https://example.com/grace.png"
			So(env.Profiles.Update(ctx, &p), ShouldBeNil)

			Convey("Then the new values are stored", func() {
				got, err := env.Profiles.Get(ctx, p.ID)
				So(err, ShouldBeNil)
				So(got.City, ShouldEqual, "Arlington")
				So(got.ImageURL, ShouldEqual, "https://example.com/grace.png")
			})
		})
	})
}

func TestStatusRepository(t *testing.T) {
	Convey("Given a profile with statuses", t, func() {
		env := testutil.NewEnv(t)
		ctx := context.Background()
		p := env.SeedProfile(t, "Alan", "Turing")

		first := domain.StatusMessage{ProfileID: p.ID, Message: "hello"}
		So(env.Statuses.Create(ctx, &first), ShouldBeNil)
		time.Sleep(5 * time.Millisecond)
		second := domain.StatusMessage{
			ProfileID: p.ID,
			Message:   "with pictures",
			Images: []domain.Image{
				{URL: "https://example.com/1.png", Caption: "one"},
				{URL: "https://example.com/2.png"},
			},
		}
		So(env.Statuses.Create(ctx, &second), ShouldBeNil)

		Convey("When listed by author", func() {
			statuses, err := env.Statuses.ByProfiles(ctx, []string{p.ID}, 10)
			So(err, ShouldBeNil)
			So(env.Statuses.AttachImages(ctx, statuses), ShouldBeNil)

			Convey("Then the newest comes first with its images", func() {
				So(statuses, ShouldHaveLength, 2)
				So(statuses[0].ID, ShouldEqual, second.ID)
				So(statuses[0].Images, ShouldHaveLength, 2)
				So(statuses[1].Images, ShouldBeEmpty)
			})
		})

		Convey("When a status is edited and another deleted", func() {
			So(env.Statuses.Update(ctx, first.ID, "hello again"), ShouldBeNil)
			So(env.Statuses.Delete(ctx, second.ID), ShouldBeNil)

			Convey("Then the changes are visible", func() {
				got, err := env.Statuses.Get(ctx, first.ID)
				So(err, ShouldBeNil)
				So(got.Message, ShouldEqual, "hello again")

				_, err = env.Statuses.Get(ctx, second.ID)
				So(errors.Is(err, domain.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the author is deleted", func() {
			So(env.Profiles.Delete(ctx, p.ID), ShouldBeNil)

			Convey("Then the statuses are gone", func() {
				statuses, err := env.Statuses.ByProfiles(ctx, []string{p.ID}, 10)
				So(err, ShouldBeNil)
				So(statuses, ShouldBeEmpty)
			})
		})
	})
}
