package constants

import "time"

const (
	DatabaseTimeout   = 5 * time.Second
	SimulationTimeout = 10 * time.Second
	RequestTimeout    = 30 * time.Second
)

const (
	DBMaxOpenConns    = 16
	DBMaxIdleConns    = 4
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

// program composition
const (
	ProgramElementCount = 12
	ProgramJumps        = 7
	ProgramSpins        = 3
	ProgramSteps        = 1
	ProgramChoreos      = 1
)

const (
	DefaultSuccessRate = 0.5
	GOEFactor          = 0.1
	SuccessGOEMin      = -3.0
	SuccessGOEMax      = 3.0
	FailureGOEMin      = -5.0
	FailureGOEMax      = 0.0
)

const (
	ElementCodeMaxLen = 10
	NameMaxLen        = 100
	StatusMaxLen      = 2000
	MaxListLimit      = 500
)
