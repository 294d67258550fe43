package graph_test

import (
	"slices"
	"testing"
	"time"

	"skatebook/internal/domain"
	"skatebook/internal/graph"

	. "github.com/smartystreets/goconvey/convey"
)

func ids(cands []graph.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.ProfileID
	}
	slices.Sort(out)
	return out
}

func mutuals(cands []graph.Candidate) map[string]int {
	out := make(map[string]int, len(cands))
	for _, c := range cands {
		out[c.ProfileID] = c.Mutual
	}
	return out
}

func TestSuggest(t *testing.T) {
	Convey("Given edges A-B and B-C only", t, func() {
		edges := []domain.Friend{
			{Profile1ID: "A", Profile2ID: "B"},
			{Profile1ID: "B", Profile2ID: "C"},
		}

		Convey("When suggesting for A", func() {
			direct := graph.Neighbours([]string{"A"}, edges)["A"]
			fof := graph.Neighbours(direct, edges)
			got := graph.Suggest("A", direct, fof)

			Convey("Then C is the only suggestion", func() {
				So(ids(got), ShouldResemble, []string{"C"})
				So(got[0].Mutual, ShouldEqual, 1)
			})
		})

		Convey("When suggesting for B", func() {
			direct := graph.Neighbours([]string{"B"}, edges)["B"]
			fof := graph.Neighbours(direct, edges)
			got := graph.Suggest("B", direct, fof)

			Convey("Then nothing is suggested", func() {
				So(direct, ShouldHaveLength, 2)
				So(got, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a profile reachable through two friends", t, func() {
		direct := []string{"B", "C", "D"}
		fof := map[string][]string{
			"B": {"A", "E", "F", "C"},
			"C": {"A", "E", "B"},
			"D": {"A", "G"},
		}
		got := graph.Suggest("A", direct, fof)

		Convey("Then it appears once with its mutual count", func() {
			So(ids(got), ShouldResemble, []string{"E", "F", "G"})
			So(mutuals(got), ShouldResemble, map[string]int{"E": 2, "F": 1, "G": 1})
		})

		Convey("Then self and direct friends are never suggested", func() {
			for _, c := range got {
				So(c.ProfileID, ShouldNotEqual, "A")
				So(direct, ShouldNotContain, c.ProfileID)
			}
		})
	})

	Convey("A profile without friends gets no suggestions", t, func() {
		So(graph.Suggest("A", nil, nil), ShouldBeEmpty)
	})
}

func TestRankSuggestions(t *testing.T) {
	Convey("Suggestions rank by mutual count, then last name, first name and id", t, func() {
		suggestions := []graph.Suggestion{
			{Profile: domain.Profile{ID: "p4", FirstName: "Zoe", LastName: "Adams"}, Mutual: 1},
			{Profile: domain.Profile{ID: "p3", FirstName: "Amy", LastName: "Brown"}, Mutual: 1},
			{Profile: domain.Profile{ID: "p2", FirstName: "Amy", LastName: "Adams"}, Mutual: 1},
			{Profile: domain.Profile{ID: "p1", FirstName: "Amy", LastName: "Adams"}, Mutual: 1},
			{Profile: domain.Profile{ID: "p5", FirstName: "Yan", LastName: "Young"}, Mutual: 3},
		}
		graph.RankSuggestions(suggestions)

		order := make([]string, len(suggestions))
		for i, s := range suggestions {
			order[i] = s.Profile.ID
		}
		So(order, ShouldResemble, []string{"p5", "p1", "p2", "p4", "p3"})
	})
}

func TestMergeFeed(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(id string, minutes int) domain.StatusMessage {
		return domain.StatusMessage{ID: id, CreatedAt: base.Add(time.Duration(minutes) * time.Minute)}
	}

	Convey("Given own and friends' statuses sorted independently", t, func() {
		own := []domain.StatusMessage{at("o3", 30), at("o1", 10)}
		friends := []domain.StatusMessage{at("f4", 40), at("f2", 20), at("f0", 0)}

		Convey("When merged", func() {
			feed := graph.MergeFeed(0, own, friends)

			Convey("Then the result is globally newest first", func() {
				got := make([]string, len(feed))
				for i, m := range feed {
					got[i] = m.ID
				}
				So(got, ShouldResemble, []string{"f4", "o3", "f2", "o1", "f0"})
			})
		})

		Convey("When merged with a limit", func() {
			feed := graph.MergeFeed(2, own, friends)
			So(feed, ShouldHaveLength, 2)
			So(feed[0].ID, ShouldEqual, "f4")
			So(feed[1].ID, ShouldEqual, "o3")
		})
	})

	Convey("Given statuses with identical timestamps and duplicates", t, func() {
		a := []domain.StatusMessage{at("a", 5), at("c", 5)}
		b := []domain.StatusMessage{at("b", 5), at("a", 5)}
		feed := graph.MergeFeed(0, a, b)

		Convey("Then ties break on id descending and duplicates are dropped", func() {
			So(feed, ShouldHaveLength, 3)
			So(feed[0].ID, ShouldEqual, "c")
			So(feed[1].ID, ShouldEqual, "b")
			So(feed[2].ID, ShouldEqual, "a")
		})
	})
}
