package db

import (
	"time"
)

type Skater struct {
	ID          string
	FirstName   string
	LastName    string
	Nationality string
	BirthDate   time.Time
	Hometown    *string
	SkatingClub *string
	ImageUrl    *string
	CreatedAt   time.Time
}

type Element struct {
	ID          string
	Code        string
	Name        string
	ElementType string
	BaseValue   float64
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

type Competition struct {
	ID        string
	Name      string
	Date      time.Time
	Location  string
	CreatedAt time.Time
}

type ExecutedProgram struct {
	ID            string
	ProgramID     string
	CompetitionID string
	TotalScore    float64
	CreatedAt     time.Time
}

type ExecutedElement struct {
	ID                string
	ExecutedProgramID string
	ElementID         string
	Position          int64
	Goe               float64
	Score             float64
}

type Profile struct {
	ID        string
	FirstName string
	LastName  string
	City      string
	Email     string
	ImageUrl  *string
	CreatedAt time.Time
}

type StatusMessage struct {
	ID        string
	ProfileID string
	Message   string
	CreatedAt time.Time
}

type Image struct {
	ID        string
	ProfileID string
	Url       string
	Caption   *string
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
	Apartment        *string
	ZipCode          string
	BirthDate        time.Time
	RegistrationDate time.Time
	Party            string
	Precinct         string
	V20state         bool
	V21town          bool
	V21primary       bool
	V22general       bool
	V23town          bool
	VoterScore       int64
}
