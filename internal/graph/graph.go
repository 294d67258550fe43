// Package graph holds the friend-graph computations that do not touch
// storage: second degree suggestions and news feed merging.
package graph

import (
	"cmp"
	"slices"

	"skatebook/internal/domain"
)

// Candidate is a suggested profile and how many of self's friends know it.
type Candidate struct {
	ProfileID string
	Mutual    int
}

// Suggest walks one hop past self's direct friends. Self and direct friends are
// never suggested and each candidate appears once, in no particular order;
// RankSuggestions orders them once their profiles are loaded.
func Suggest(self string, direct []string, friendsOf map[string][]string) []Candidate {
	excluded := make(map[string]struct{}, len(direct)+1)
	excluded[self] = struct{}{}
	for _, id := range direct {
		excluded[id] = struct{}{}
	}

	mutual := make(map[string]int)
	for _, friend := range direct {
		seen := make(map[string]struct{})
		for _, fof := range friendsOf[friend] {
			if _, skip := excluded[fof]; skip {
				continue
			}
			if _, dup := seen[fof]; dup {
				continue
			}
			seen[fof] = struct{}{}
			mutual[fof]++
		}
	}

	out := make([]Candidate, 0, len(mutual))
	for id, n := range mutual {
		out = append(out, Candidate{ProfileID: id, Mutual: n})
	}
	return out
}

// Suggestion is a friend of a friend with the number of friends it shares.
type Suggestion struct {
	Profile domain.Profile
	Mutual  int
}

// RankSuggestions orders by mutual friend count (highest first), then last
// name, first name and id.
func RankSuggestions(suggestions []Suggestion) {
	slices.SortStableFunc(suggestions, func(a, b Suggestion) int {
		if c := cmp.Compare(b.Mutual, a.Mutual); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Profile.LastName, b.Profile.LastName); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Profile.FirstName, b.Profile.FirstName); c != 0 {
			return c
		}
		return cmp.Compare(a.Profile.ID, b.Profile.ID)
	})
}

// Neighbours maps every profile in ids to the profiles it shares an edge
// with, whichever side of the edge it sits on.
func Neighbours(ids []string, edges []domain.Friend) map[string][]string {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make(map[string][]string, len(ids))
	for _, e := range edges {
		if _, ok := wanted[e.Profile1ID]; ok {
			out[e.Profile1ID] = append(out[e.Profile1ID], e.Profile2ID)
		}
		if _, ok := wanted[e.Profile2ID]; ok {
			out[e.Profile2ID] = append(out[e.Profile2ID], e.Profile1ID)
		}
	}
	return out
}

// NewestFirst orders status messages by creation time descending, breaking
// ties on id descending so the order is total.
func NewestFirst(a, b domain.StatusMessage) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

// MergeFeed merges several status lists into one newest-first list, dropping
// duplicates by id. Inputs need not be sorted. A positive limit truncates.
func MergeFeed(limit int, feeds ...[]domain.StatusMessage) []domain.StatusMessage {
	seen := make(map[string]struct{})
	var out []domain.StatusMessage
	for _, feed := range feeds {
		for _, msg := range feed {
			if _, dup := seen[msg.ID]; dup {
				continue
			}
			seen[msg.ID] = struct{}{}
			out = append(out, msg)
		}
	}
	slices.SortStableFunc(out, NewestFirst)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
