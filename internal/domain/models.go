package domain

import (
	"time"
)

type ElementType string

const (
	ElementJump   ElementType = "JUMP"
	ElementSpin   ElementType = "SPIN"
	ElementStep   ElementType = "STEP"
	ElementChoreo ElementType = "CHOREO"
)

func (t ElementType) Valid() bool {
	switch t {
	case ElementJump, ElementSpin, ElementStep, ElementChoreo:
		return true
	}
	return false
}

type Skater struct {
	ID          string
	FirstName   string
	LastName    string
	Nationality string
	BirthDate   time.Time
	Hometown    string
	SkatingClub string
	ImageURL    string
	CreatedAt   time.Time
}

func (s Skater) FullName() string {
	return s.FirstName + " " + s.LastName
}

type Element struct {
	ID        string
	Code      string
	Name      string
	Type      ElementType
	BaseValue float64
}

type ElementProbability struct {
	ID          string
	SkaterID    string
	ElementID   string
	SuccessRate float64
}

type Program struct {
	ID        string
	Title     string
	SkaterID  string
	Preset    bool
	CreatedAt time.Time
}

// ProgramElement is one slot of a program; Position is 1-based.
type ProgramElement struct {
	Position int
	Element  Element
}

type Competition struct {
	ID        string
	Name      string
	Date      time.Time
	Location  string
	SkaterIDs []string
	CreatedAt time.Time
}

type ExecutedProgram struct {
	ID            string
	ProgramID     string
	CompetitionID string
	TotalScore    float64
	CreatedAt     time.Time
	Elements      []ExecutedElement
}

type ExecutedElement struct {
	ID                string
	ExecutedProgramID string
	ElementID         string
	Position          int
	GOE               float64
	Score             float64
	Success           bool // not persisted
}

type Profile struct {
	ID        string
	FirstName string
	LastName  string
	City      string
	Email     string
	ImageURL  string
	CreatedAt time.Time
}

type StatusMessage struct {
	ID        string
	ProfileID string
	Message   string
	CreatedAt time.Time
	Images    []Image
}

type Image struct {
	ID        string
	ProfileID string
	URL       string
	Caption   string
	CreatedAt time.Time
}

type Friend struct {
	ID         string
	Profile1ID string
	Profile2ID string
	CreatedAt  time.Time
}

type Voter struct {
	ID               string
	FirstName        string
	LastName         string
	StreetNumber     string
	StreetName       string
	Apartment        string
	ZipCode          string
	BirthDate        time.Time
	RegistrationDate time.Time
	Party            string
	Precinct         string
	V20State         bool
	V21Town          bool
	V21Primary       bool
	V22General       bool
	V23Town          bool
	VoterScore       int
}

// Election identifies one of the elections a voter may have taken part in.
type Election string

const (
	Election2020State   Election = "v20state"
	Election2021Town    Election = "v21town"
	Election2021Primary Election = "v21primary"
	Election2022General Election = "v22general"
	Election2023Town    Election = "v23town"
)

var Elections = []Election{
	Election2020State,
	Election2021Town,
	Election2021Primary,
	Election2022General,
	Election2023Town,
}

// Voted reports whether the voter took part in e.
func (v Voter) Voted(e Election) bool {
	switch e {
	case Election2020State:
		return v.V20State
	case Election2021Town:
		return v.V21Town
	case Election2021Primary:
		return v.V21Primary
	case Election2022General:
		return v.V22General
	case Election2023Town:
		return v.V23Town
	}
	return false
}

type VoterFilter struct {
	Party        string
	MinBirthYear int
	MaxBirthYear int
	VoterScore   *int
	Elections    []Election
	Limit        int
}
