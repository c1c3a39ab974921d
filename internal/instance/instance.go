// Package instance holds the problem-level data model shared across the
// whole engine (§3 DATA MODEL: Move, Path, Agent) plus the Instance type
// that bundles a roadmap, its agents, and the shared radius — and the
// error kinds of §7. Grounded on the teacher's internal/core package
// (core.Instance / core.Robot / core.Path), generalized from a
// heterogeneous task-assignment model down to the spec's single-radius,
// start/goal-per-agent model.
package instance

import (
	"errors"
	"fmt"

	"github.com/elektrokombinacija/ccbs/internal/roadmap"
)

// AgentID uniquely identifies an agent.
type AgentID int

// Agent is a disk of the instance's shared radius moving start->goal.
type Agent struct {
	ID    AgentID
	Start roadmap.VertexID
	Goal  roadmap.VertexID
}

// Move is a single timed edge traversal by one agent (§3). A wait move has
// From == To.
type Move struct {
	Agent      AgentID
	From, To   roadmap.VertexID
	Start, End float64
}

// IsWait reports whether this move is a wait at a vertex.
func (m Move) IsWait() bool { return m.From == m.To }

// Path is a temporally contiguous sequence of moves for one agent,
// beginning at its start vertex at time 0 (§3).
type Path []Move

// Duration returns the total elapsed time of the path (t_finish), 0 for an
// empty path.
func (p Path) Duration() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1].End
}

// VertexAt returns the vertex the path occupies at time t, assuming t lies
// within [0, Duration()].
func (p Path) VertexAt(t float64) (roadmap.VertexID, bool) {
	for _, m := range p {
		if t >= m.Start-1e-9 && t <= m.End+1e-9 {
			return m.From, true
		}
	}
	if len(p) > 0 && t > p[len(p)-1].End {
		return p[len(p)-1].To, true
	}
	return 0, false
}

// Instance is a complete CCBS problem: a roadmap, its agents, and the
// shared disk radius (§3).
type Instance struct {
	Roadmap *roadmap.Roadmap
	Agents  []Agent
	Radius  float64
}

// AgentByID finds an agent by ID, or nil.
func (inst *Instance) AgentByID(id AgentID) *Agent {
	for i := range inst.Agents {
		if inst.Agents[i].ID == id {
			return &inst.Agents[i]
		}
	}
	return nil
}

// --- §7 ERROR HANDLING DESIGN -----------------------------------------

// ErrInvalidInput is returned (wrapped with details) when the instance
// fails validation before any search is attempted.
var ErrInvalidInput = errors.New("ccbs: invalid input")

// ErrInternalAssertionFailed indicates an invariant (I1-I5) was violated;
// this should never happen on well-formed input and signals a bug.
var ErrInternalAssertionFailed = errors.New("ccbs: internal assertion failed")

// NoSolutionReason classifies why the high-level search did not find a
// solution (§7).
type NoSolutionReason int

const (
	ReasonTimeout NoSolutionReason = iota
	ReasonStepLimit
	ReasonInfeasible
)

func (r NoSolutionReason) String() string {
	switch r {
	case ReasonTimeout:
		return "timeout"
	case ReasonStepLimit:
		return "step_limit"
	case ReasonInfeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// NoSolutionError wraps a NoSolutionReason in a value that implements the
// error interface, so callers can use errors.As to recover the reason.
// highlevel.Search does not return it: a search without a solution
// reports found=false and its reason in Result.Reason with a nil error.
type NoSolutionError struct {
	Reason NoSolutionReason
}

func (e *NoSolutionError) Error() string {
	return fmt.Sprintf("ccbs: no solution found (%s)", e.Reason)
}

// Validate checks the §7 InvalidInput conditions: radius range, start
// vertices present in the roadmap, and no two agents sharing a start
// vertex (which would mean their disks already overlap at t=0 with no
// planning able to resolve it).
func (inst *Instance) Validate() error {
	if inst.Radius <= 0 || inst.Radius > 0.5 {
		return fmt.Errorf("%w: agent radius %v outside (0, 0.5]", ErrInvalidInput, inst.Radius)
	}
	if inst.Roadmap == nil {
		return fmt.Errorf("%w: instance has no roadmap", ErrInvalidInput)
	}
	starts := make(map[roadmap.VertexID]AgentID, len(inst.Agents))
	for _, a := range inst.Agents {
		if !inst.Roadmap.HasVertex(a.Start) {
			return fmt.Errorf("%w: agent %d start vertex %d not in roadmap", ErrInvalidInput, a.ID, a.Start)
		}
		if !inst.Roadmap.HasVertex(a.Goal) {
			return fmt.Errorf("%w: agent %d goal vertex %d not in roadmap", ErrInvalidInput, a.ID, a.Goal)
		}
		if other, dup := starts[a.Start]; dup {
			return fmt.Errorf("%w: agents %d and %d share start vertex %d", ErrInvalidInput, other, a.ID, a.Start)
		}
		starts[a.Start] = a.ID
	}
	return nil
}
