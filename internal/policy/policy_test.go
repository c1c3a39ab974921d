package policy

import (
	"testing"

	"github.com/elektrokombinacija/ccbs/internal/conflict"
)

func TestHeuristic_PrefersCardinal(t *testing.T) {
	obs := []Observation{
		{Class: conflict.NonCardinal, TimeToConflict: 0},
		{Class: conflict.Cardinal, TimeToConflict: 5},
	}
	if got := (Heuristic{}).Score(obs); got != 1 {
		t.Fatalf("expected index 1 (the cardinal conflict), got %d", got)
	}
}

func TestHeuristic_TieBreaksByEarliestTime(t *testing.T) {
	obs := []Observation{
		{Class: conflict.SemiCardinal, TimeToConflict: 3},
		{Class: conflict.SemiCardinal, TimeToConflict: 1},
	}
	if got := (Heuristic{}).Score(obs); got != 1 {
		t.Fatalf("expected index 1 (earlier time), got %d", got)
	}
}

func TestHeuristic_TieBreaksByAgentTuple(t *testing.T) {
	obs := []Observation{
		{Class: conflict.NonCardinal, TimeToConflict: 1, AgentA: 3, AgentB: 4},
		{Class: conflict.NonCardinal, TimeToConflict: 1, AgentA: 1, AgentB: 2},
	}
	if got := (Heuristic{}).Score(obs); got != 1 {
		t.Fatalf("expected index 1 (smaller agent tuple), got %d", got)
	}
}

func TestHeuristic_EmptyReturnsNegativeOne(t *testing.T) {
	if got := (Heuristic{}).Score(nil); got != -1 {
		t.Fatalf("expected -1 for no conflicts, got %d", got)
	}
}

func TestLearnedScorer_DelegatesToFn(t *testing.T) {
	calls := 0
	scorer := LearnedScorer{Fn: func(obs []Observation) int {
		calls++
		return len(obs) - 1
	}}
	obs := make([]Observation, 3)
	if got := scorer.Score(obs); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one delegated call, got %d", calls)
	}
}
