package domain

import "time"

// ItemOutcome is what happened to one dependency or generated file in a stage.
type ItemOutcome string

const (
	// OutcomeFetched means the artifact was downloaded or the file rewritten.
	OutcomeFetched ItemOutcome = "fetched"
	// OutcomeReused means the previous build's entry was carried over.
	OutcomeReused ItemOutcome = "reused"
	// OutcomeRemoved means a previously built dependency is no longer declared.
	OutcomeRemoved ItemOutcome = "removed"
)

// StageReport summarises one stage of a build.
type StageReport struct {
	Stage    StageName
	Status   VertexStatus
	Fetched  int
	Reused   int
	Removed  []string
	Duration time.Duration
}

// BuildReport summarises a whole build.
type BuildReport struct {
	OutputDir string
	Stages    []StageReport
	Duration  time.Duration
}

// Stage returns the report of the named stage.
func (r *BuildReport) Stage(name StageName) (StageReport, bool) {
	if r == nil {
		return StageReport{}, false
	}
	for _, s := range r.Stages {
		if s.Stage == name {
			return s, true
		}
	}
	return StageReport{}, false
}

// Fetched returns the number of artifacts fetched across all stages.
func (r *BuildReport) Fetched() int {
	n := 0
	for _, s := range r.Stages {
		n += s.Fetched
	}
	return n
}

// Reused returns the number of entries reused across all stages.
func (r *BuildReport) Reused() int {
	n := 0
	for _, s := range r.Stages {
		n += s.Reused
	}
	return n
}
