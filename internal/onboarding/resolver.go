// Package onboarding derives the setup stage shown to the user from
// project, integration, and data presence.
package onboarding

// Stage is the derived UI-gating state indicating what setup step the
// user must complete next. It is recomputed from its inputs on every
// relevant state change and never persisted.
type Stage int

const (
	// StageNeedsProject: the user owns no project yet.
	StageNeedsProject Stage = iota + 1

	// StageNeedsIntegration: a project exists but its platform
	// integration is absent or inactive.
	StageNeedsIntegration

	// StageAwaitingData: project and integration are in place but no
	// analytics rows have arrived yet.
	StageAwaitingData

	// StageReady: the dashboard has everything it needs.
	StageReady
)

func (s Stage) String() string {
	switch s {
	case StageNeedsProject:
		return "needs project"
	case StageNeedsIntegration:
		return "needs integration"
	case StageAwaitingData:
		return "awaiting data"
	case StageReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Input is a boolean stage input together with whether it has resolved
// at least once. An unresolved input must never be guessed at.
type Input struct {
	Value    bool
	Resolved bool
}

// ResolvedInput returns an input that has a known value.
func ResolvedInput(v bool) Input {
	return Input{Value: v, Resolved: true}
}

// Inputs are the three facts the stage is derived from.
type Inputs struct {
	HasAnyProject        Input
	HasActiveIntegration Input
	HasAnalyticsData     Input
}

// Resolve computes the onboarding stage. ok is false while any input is
// still unresolved, in which case callers must suppress rendering rather
// than flash a possibly wrong stage. Resolution order means later inputs
// are only consulted when the earlier ones pass, so a missing project
// yields StageNeedsProject even if the other probes are still in flight.
func Resolve(in Inputs) (stage Stage, ok bool) {
	if !in.HasAnyProject.Resolved {
		return 0, false
	}
	if !in.HasAnyProject.Value {
		return StageNeedsProject, true
	}

	if !in.HasActiveIntegration.Resolved {
		return 0, false
	}
	if !in.HasActiveIntegration.Value {
		return StageNeedsIntegration, true
	}

	if !in.HasAnalyticsData.Resolved {
		return 0, false
	}
	if !in.HasAnalyticsData.Value {
		return StageAwaitingData, true
	}

	return StageReady, true
}
