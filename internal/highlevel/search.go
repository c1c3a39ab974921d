package highlevel

import (
	"time"

	"github.com/elektrokombinacija/ccbs/internal/conflict"
	"github.com/elektrokombinacija/ccbs/internal/constraint"
	"github.com/elektrokombinacija/ccbs/internal/geom"
	"github.com/elektrokombinacija/ccbs/internal/hvalue"
	"github.com/elektrokombinacija/ccbs/internal/instance"
	"github.com/elektrokombinacija/ccbs/internal/policy"
	"github.com/elektrokombinacija/ccbs/internal/roadmap"
	"github.com/elektrokombinacija/ccbs/internal/sipp"
)

// Options is the typed configuration surface §6 lists, consumed directly
// by Search.
type Options struct {
	Radius               float64
	Precision            float64
	TimeLimit            time.Duration
	StepLimit            int // 0 = unlimited
	HLHType              hvalue.Type
	UseDisjointSplitting bool
	UseCardinal          bool
	UseCorridorSymmetry  bool
	UseTargetSymmetry    bool
	Policy               policy.Scorer
}

// Result is the solution object §6 specifies.
type Result struct {
	Found              bool
	Flowtime           float64
	Makespan           float64
	Elapsed            time.Duration
	HighLevelExpanded  int
	LowLevelExpansions int
	Paths              map[instance.AgentID]instance.Path
	Reason             instance.NoSolutionReason
}

// Search runs the high-level CBS-style search (§4.H) to completion,
// timeout, or step limit. The only error it returns is InvalidInput
// (§7); a search that exhausts its budget or its open list without a
// solution returns (Result{Found:false,...}, nil).
func Search(inst *instance.Instance, opts Options) (Result, error) {
	if err := inst.Validate(); err != nil {
		return Result{}, err
	}
	if opts.Policy == nil {
		opts.Policy = policy.Heuristic{}
	}

	rm := inst.Roadmap
	vertices := rm.VertexIDs()

	var deadline time.Time
	if opts.TimeLimit > 0 {
		deadline = time.Now().Add(opts.TimeLimit)
	}
	start := time.Now()

	a := &arena{}
	highExpanded := 0
	lowLevel := 0

	rootPaths := make(map[instance.AgentID]instance.Path, len(inst.Agents))
	for _, ag := range inst.Agents {
		p, found, err := sipp.Plan(rm, ag.ID, ag.Start, ag.Goal, constraint.Empty, vertices, opts.Precision, deadline)
		lowLevel++
		if err != nil {
			return timeoutResult(highExpanded, lowLevel, start), nil
		}
		if !found {
			return Result{Found: false, Reason: instance.ReasonInfeasible, Elapsed: time.Since(start),
				HighLevelExpanded: highExpanded, LowLevelExpansions: lowLevel}, nil
		}
		rootPaths[ag.ID] = p
	}

	root := hlNode{parent: -1, constraints: constraint.Empty, paths: rootPaths, g: sumDurations(rootPaths)}
	extra, err := computeConflictsAndH(rm, inst, opts, vertices, deadline, &root)
	lowLevel += extra
	if err != nil {
		return timeoutResult(highExpanded, lowLevel, start), nil
	}
	rootIdx := a.add(root)

	open := newOpenList()
	open.push(rootIdx, root.f(), len(root.infos))

	for open.Len() > 0 {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return timeoutResult(highExpanded, lowLevel, start), nil
		}
		if opts.StepLimit > 0 && highExpanded >= opts.StepLimit {
			return Result{Found: false, Reason: instance.ReasonStepLimit, Elapsed: time.Since(start),
				HighLevelExpanded: highExpanded, LowLevelExpansions: lowLevel}, nil
		}

		item := open.pop()
		node := a.get(item.idx)
		highExpanded++

		if len(node.infos) == 0 {
			return Result{
				Found:              true,
				Flowtime:           node.g,
				Makespan:           maxDuration(node.paths),
				Elapsed:            time.Since(start),
				HighLevelExpanded:  highExpanded,
				LowLevelExpansions: lowLevel,
				Paths:              node.paths,
			}, nil
		}

		ci := chooseConflict(node, opts.Policy)
		info := node.infos[ci]

		children, calls, err := expand(rm, inst, opts, vertices, deadline, *node, info)
		lowLevel += calls
		if err != nil {
			return timeoutResult(highExpanded, lowLevel, start), nil
		}
		for _, child := range children {
			child.parent = item.idx
			idx := a.add(child)
			open.push(idx, child.f(), len(child.infos))
		}
	}

	return Result{Found: false, Reason: instance.ReasonInfeasible, Elapsed: time.Since(start),
		HighLevelExpanded: highExpanded, LowLevelExpansions: lowLevel}, nil
}

func timeoutResult(highExpanded, lowLevel int, start time.Time) Result {
	return Result{Found: false, Reason: instance.ReasonTimeout, Elapsed: time.Since(start),
		HighLevelExpanded: highExpanded, LowLevelExpansions: lowLevel}
}

// chooseConflict builds the fixed-length observation vector §4.I
// prescribes and asks the configured scorer to pick an index.
func chooseConflict(node *hlNode, scorer policy.Scorer) int {
	obs := make([]policy.Observation, len(node.infos))
	for i, info := range node.infos {
		t := info.c.MoveA.Start
		if info.c.MoveB.Start < t {
			t = info.c.MoveB.Start
		}
		obs[i] = policy.Observation{
			Class: info.class, TimeToConflict: t,
			DeltaA: info.deltaA, DeltaB: info.deltaB, HasDeltas: node.classified,
			AgentA: info.c.A, AgentB: info.c.B,
		}
	}
	idx := scorer.Score(obs)
	if idx < 0 || idx >= len(node.infos) {
		idx = 0
	}
	return idx
}

// probeDelta replans agent under node's constraints plus a negative
// forbidding exactly `move`, returning the cost delta against the
// agent's path in that node (§4.F).
func probeDelta(rm *roadmap.Roadmap, inst *instance.Instance, vertices []roadmap.VertexID, precision float64, deadline time.Time,
	base constraint.Set, agentID instance.AgentID, move instance.Move, basePath instance.Path,
) (delta float64, feasible bool, calls int, err error) {
	neg := constraint.Negative{Agent: agentID, From: move.From, To: move.To, Lo: move.Start, Hi: move.End}
	cs := base.WithNegative(neg)
	ag := inst.AgentByID(agentID)
	p, found, perr := sipp.Plan(rm, agentID, ag.Start, ag.Goal, cs, vertices, precision, deadline)
	if perr != nil {
		return 0, false, 1, perr
	}
	if !found {
		return 0, false, 1, nil
	}
	return p.Duration() - basePath.Duration(), true, 1, nil
}

// computeConflictsAndH detects the node's conflicts, classifies them
// (only when a classification-dependent option is enabled, since
// classification costs one extra SIPP replan per agent per conflict),
// and computes the §4.G h-value.
func computeConflictsAndH(rm *roadmap.Roadmap, inst *instance.Instance, opts Options, vertices []roadmap.VertexID, deadline time.Time, node *hlNode) (int, error) {
	conflicts := conflict.FindAll(rm, node.paths, opts.Radius)
	calls := 0
	needClass := opts.HLHType != hvalue.TypeNone || opts.UseCardinal

	infos := make([]conflictInfo, len(conflicts))
	for i, c := range conflicts {
		infos[i] = conflictInfo{c: c}
		if !needClass {
			continue
		}
		dA, fA, n1, err := probeDelta(rm, inst, vertices, opts.Precision, deadline, node.constraints, c.A, c.MoveA, node.paths[c.A])
		calls += n1
		if err != nil {
			return calls, err
		}
		dB, fB, n2, err := probeDelta(rm, inst, vertices, opts.Precision, deadline, node.constraints, c.B, c.MoveB, node.paths[c.B])
		calls += n2
		if err != nil {
			return calls, err
		}
		infos[i].deltaA, infos[i].feasA = dA, fA
		infos[i].deltaB, infos[i].feasB = dB, fB
		infos[i].class = conflict.Classify(dA, fA, dB, fB)
	}
	node.infos = infos
	node.classified = needClass

	node.h = 0
	if opts.HLHType != hvalue.TypeNone {
		var edges []hvalue.Edge
		for _, info := range infos {
			if info.class != conflict.Cardinal {
				continue
			}
			w := info.deltaA
			if info.deltaB < w {
				w = info.deltaB
			}
			edges = append(edges, hvalue.Edge{A: info.c.A, B: info.c.B, Weight: w})
		}
		node.h = hvalue.Compute(opts.HLHType, edges)
	}
	return calls, nil
}

// replanAgents builds a child node sharing base's paths except for the
// agents listed in toReplan, which are replanned under newConstraints.
// feasible=false means at least one replan failed (NoPath): the caller
// must drop this child rather than enqueue it.
func replanAgents(rm *roadmap.Roadmap, inst *instance.Instance, vertices []roadmap.VertexID, precision float64, deadline time.Time,
	base hlNode, newConstraints constraint.Set, toReplan []instance.AgentID,
) (hlNode, int, bool, error) {
	child := hlNode{constraints: newConstraints, paths: clonePaths(base.paths)}
	calls := 0
	for _, agentID := range toReplan {
		ag := inst.AgentByID(agentID)
		p, found, err := sipp.Plan(rm, agentID, ag.Start, ag.Goal, newConstraints, vertices, precision, deadline)
		calls++
		if err != nil {
			return hlNode{}, calls, false, err
		}
		if !found {
			return hlNode{}, calls, false, nil
		}
		child.paths[agentID] = p
	}
	child.g = sumDurations(child.paths)
	return child, calls, true, nil
}

// expand builds the children for the HLN being split on `info`'s
// conflict, applying corridor symmetry (which collapses the usual
// two-child split into one strengthened child), else standard or
// disjoint splitting (§4.H step 3).
func expand(rm *roadmap.Roadmap, inst *instance.Instance, opts Options, vertices []roadmap.VertexID, deadline time.Time, node hlNode, info conflictInfo) ([]hlNode, int, error) {
	c := info.c

	if opts.UseCorridorSymmetry {
		if neg, ok := conflict.CorridorSymmetry(rm, c); ok {
			cs := node.constraints.WithNegative(neg)
			child, calls, feasible, err := replanAgents(rm, inst, vertices, opts.Precision, deadline, node, cs, []instance.AgentID{neg.Agent})
			if err != nil {
				return nil, calls, err
			}
			if !feasible {
				return nil, calls, nil
			}
			extra, err := computeConflictsAndH(rm, inst, opts, vertices, deadline, &child)
			calls += extra
			if err != nil {
				return nil, calls, err
			}
			return []hlNode{child}, calls, nil
		}
	}

	if opts.UseDisjointSplitting {
		return expandDisjoint(rm, inst, opts, vertices, deadline, node, c)
	}
	return expandStandard(rm, inst, opts, vertices, deadline, node, c)
}

func expandStandard(rm *roadmap.Roadmap, inst *instance.Instance, opts Options, vertices []roadmap.VertexID, deadline time.Time, node hlNode, c conflict.Conflict) ([]hlNode, int, error) {
	calls := 0
	var children []hlNode

	var symForB, symForA constraint.Negative
	var okSymB, okSymA bool
	if opts.UseTargetSymmetry {
		symForB, okSymB = conflict.TargetSymmetry(node.paths, c.A, c.B, inst.AgentByID(c.A).Goal)
		symForA, okSymA = conflict.TargetSymmetry(node.paths, c.B, c.A, inst.AgentByID(c.B).Goal)
	}

	if lo, hi, ok := conflict.CollisionInterval(c.MoveB, rm, c.MoveA.From, c.MoveA.To, opts.Radius, geom.Epsilon); ok {
		negA := constraint.Negative{Agent: c.A, From: c.MoveA.From, To: c.MoveA.To, Lo: lo, Hi: hi}
		csA := node.constraints.WithNegative(negA)
		toReplan := []instance.AgentID{c.A}
		if okSymB {
			csA = csA.WithNegative(symForB)
			toReplan = append(toReplan, c.B)
		}
		child, n, feasible, err := replanAgents(rm, inst, vertices, opts.Precision, deadline, node, csA, toReplan)
		calls += n
		if err != nil {
			return nil, calls, err
		}
		if feasible {
			extra, err := computeConflictsAndH(rm, inst, opts, vertices, deadline, &child)
			calls += extra
			if err != nil {
				return nil, calls, err
			}
			children = append(children, child)
		}
	}

	if lo, hi, ok := conflict.CollisionInterval(c.MoveA, rm, c.MoveB.From, c.MoveB.To, opts.Radius, geom.Epsilon); ok {
		negB := constraint.Negative{Agent: c.B, From: c.MoveB.From, To: c.MoveB.To, Lo: lo, Hi: hi}
		csB := node.constraints.WithNegative(negB)
		toReplan := []instance.AgentID{c.B}
		if okSymA {
			csB = csB.WithNegative(symForA)
			toReplan = append(toReplan, c.A)
		}
		child, n, feasible, err := replanAgents(rm, inst, vertices, opts.Precision, deadline, node, csB, toReplan)
		calls += n
		if err != nil {
			return nil, calls, err
		}
		if feasible {
			extra, err := computeConflictsAndH(rm, inst, opts, vertices, deadline, &child)
			calls += extra
			if err != nil {
				return nil, calls, err
			}
			children = append(children, child)
		}
	}

	return children, calls, nil
}

// expandDisjoint implements §4.H's disjoint-splitting variant: one child
// locks agent A to its conflicting move via a positive constraint,
// propagating negative equivalents to every agent whose current move
// would collide with it; the other child simply forbids A from the move
// (§3 glossary: "Disjoint splitting").
func expandDisjoint(rm *roadmap.Roadmap, inst *instance.Instance, opts Options, vertices []roadmap.VertexID, deadline time.Time, node hlNode, c conflict.Conflict) ([]hlNode, int, error) {
	calls := 0
	var children []hlNode

	pos := constraint.Positive{Agent: c.A, From: c.MoveA.From, To: c.MoveA.To, Start: c.MoveA.Start}
	if csPos, perr := node.constraints.WithPositive(pos); perr == nil {
		toReplan := []instance.AgentID{c.A}
		for agentID, path := range node.paths {
			if agentID == c.A {
				continue
			}
			for _, mv := range path {
				if mv.Start >= c.MoveA.End || c.MoveA.Start >= mv.End {
					continue
				}
				lo, hi, ok := conflict.CollisionInterval(c.MoveA, rm, mv.From, mv.To, opts.Radius, geom.Epsilon)
				if !ok {
					continue
				}
				csPos = csPos.WithNegative(constraint.Negative{Agent: agentID, From: mv.From, To: mv.To, Lo: lo, Hi: hi})
				toReplan = append(toReplan, agentID)
				break
			}
		}
		child, n, feasible, err := replanAgents(rm, inst, vertices, opts.Precision, deadline, node, csPos, toReplan)
		calls += n
		if err != nil {
			return nil, calls, err
		}
		if feasible {
			extra, err := computeConflictsAndH(rm, inst, opts, vertices, deadline, &child)
			calls += extra
			if err != nil {
				return nil, calls, err
			}
			children = append(children, child)
		}
	}

	if lo, hi, ok := conflict.CollisionInterval(c.MoveB, rm, c.MoveA.From, c.MoveA.To, opts.Radius, geom.Epsilon); ok {
		negA := constraint.Negative{Agent: c.A, From: c.MoveA.From, To: c.MoveA.To, Lo: lo, Hi: hi}
		csNeg := node.constraints.WithNegative(negA)
		child, n, feasible, err := replanAgents(rm, inst, vertices, opts.Precision, deadline, node, csNeg, []instance.AgentID{c.A})
		calls += n
		if err != nil {
			return nil, calls, err
		}
		if feasible {
			extra, err := computeConflictsAndH(rm, inst, opts, vertices, deadline, &child)
			calls += extra
			if err != nil {
				return nil, calls, err
			}
			children = append(children, child)
		}
	}

	return children, calls, nil
}
