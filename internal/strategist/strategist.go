// Package strategist holds the pluggable policy functions Compositor
// consults when it needs to decide where a new surface belongs and where
// a floating surface should be placed on screen. Keeping these as
// ordinary Go function values — rather than folding the choice into
// Compositor itself — mirrors the original engine's own reasoning for
// separating them out: it keeps Compositor's own logic free of policy
// branching and makes the policy swappable from configuration.
package strategist

import (
	"log"

	"github.com/peria-go/peria/internal/frame"
	"github.com/peria-go/peria/internal/geom"
	"github.com/peria-go/peria/internal/surface"
)

// TargetDecision describes how a newly-ready surface should be settled.
type TargetDecision struct {
	Target    frame.ID
	Geometry  frame.Geometry
	Selection bool
	Floating  *FloatingDecision
}

// FloatingDecision describes where and how large a floating frame's area
// should be.
type FloatingDecision struct {
	Area geom.Area
}

// TargetDecider decides how to handle a newly-ready surface.
type TargetDecider func(s *Strategist, tree *frame.Tree, selection frame.ID, info surface.Info) TargetDecision

// FloatingDecider decides where to place a floating surface. preferredSize
// is nil when the surface did not request a particular size.
type FloatingDecider func(s *Strategist, workspaceSize geom.Size, preferredSize *geom.Size) FloatingDecision

// Strategist holds the two currently-active policy functions.
type Strategist struct {
	chooseTarget   TargetDecider
	chooseFloating FloatingDecider
}

// New constructs a Strategist from explicit policy functions.
func New(chooseTarget TargetDecider, chooseFloating FloatingDecider) *Strategist {
	return &Strategist{chooseTarget: chooseTarget, chooseFloating: chooseFloating}
}

// Default returns the engine's out-of-the-box strategist: every surface
// floats, and floating surfaces land at a random position.
func Default() *Strategist {
	return New(ChooseTargetAlwaysFloating, ChooseFloatingRandom)
}

// NewFromConfig builds a Strategist from the configured strategy names,
// falling back to Default()'s choice for any name left blank, and logging
// a warning (rather than failing) for an unrecognized one — matching
// strategist.rs's own new_from_config.
func NewFromConfig(chooseTargetName, chooseFloatingName string) *Strategist {
	s := Default()
	switch chooseTargetName {
	case "always_floating":
		s.chooseTarget = ChooseTargetAlwaysFloating
	case "anchored_but_popups":
		s.chooseTarget = ChooseTargetAnchoredButPopups
	case "":
	default:
		log.Printf("strategist: unknown choose_target strategy %q", chooseTargetName)
	}
	switch chooseFloatingName {
	case "always_centered":
		s.chooseFloating = ChooseFloatingAlwaysCentered
	case "random":
		s.chooseFloating = ChooseFloatingRandom
	case "":
	default:
		log.Printf("strategist: unknown choose_floating strategy %q", chooseFloatingName)
	}
	return s
}

// ChooseTarget decides how to handle a newly-ready surface.
func (s *Strategist) ChooseTarget(tree *frame.Tree, selection frame.ID, info surface.Info) TargetDecision {
	return s.chooseTarget(s, tree, selection, info)
}

// ChooseFloating decides where to place a floating surface.
func (s *Strategist) ChooseFloating(workspaceSize geom.Size, preferredSize *geom.Size) FloatingDecision {
	return s.chooseFloating(s, workspaceSize, preferredSize)
}
