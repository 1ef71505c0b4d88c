// Package workflow sequences the tutorial → design → package journey.
//
// The machine is deliberately tiny: three stages, three triggers, and a
// transition table. Dispatching a trigger that is not valid from the current
// stage is reported as ErrInvalidTransition and leaves the stage untouched.
package workflow

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned by Dispatch for triggers the current stage does not accept.
var ErrInvalidTransition = errors.New("invalid transition")

// Stage is one screen of the fabrication journey.
type Stage int

const (
	StageTutorial Stage = iota
	StageDesign
	StagePackage
)

func (s Stage) String() string {
	switch s {
	case StageTutorial:
		return "TUTORIAL"
	case StageDesign:
		return "DESIGN"
	case StagePackage:
		return "PACKAGE"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Trigger is a user action that may move the machine.
type Trigger int

const (
	TriggerStartFabrication Trigger = iota
	TriggerPackage
	TriggerBack
)

func (t Trigger) String() string {
	switch t {
	case TriggerStartFabrication:
		return "start-fabrication"
	case TriggerPackage:
		return "package"
	case TriggerBack:
		return "back"
	default:
		return fmt.Sprintf("Trigger(%d)", int(t))
	}
}

// Transition is one row of the transition table.
type Transition struct {
	From    Stage
	Trigger Trigger
	To      Stage
}

func (t Transition) String() string {
	return fmt.Sprintf("%s --%s--> %s", t.From, t.Trigger, t.To)
}

// transitions is the complete table. There is no edge from TUTORIAL to
// PACKAGE; the package stage is only reachable through DESIGN.
var transitions = []Transition{
	{From: StageTutorial, Trigger: TriggerStartFabrication, To: StageDesign},
	{From: StageDesign, Trigger: TriggerPackage, To: StagePackage},
	{From: StagePackage, Trigger: TriggerBack, To: StageDesign},
}

// Machine holds the active stage of one session.
type Machine struct {
	current Stage
}

// New returns a machine in the initial TUTORIAL stage.
func New() *Machine { return &Machine{current: StageTutorial} }

// Current returns the active stage.
func (m *Machine) Current() Stage { return m.current }

// Dispatch applies trigger. On success the taken transition is returned.
func (m *Machine) Dispatch(trigger Trigger) (Transition, error) {
	for _, tr := range transitions {
		if tr.From == m.current && tr.Trigger == trigger {
			m.current = tr.To
			return tr, nil
		}
	}
	return Transition{}, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, trigger, m.current)
}

// Can reports whether trigger is accepted from the current stage.
func (m *Machine) Can(trigger Trigger) bool {
	for _, tr := range transitions {
		if tr.From == m.current && tr.Trigger == trigger {
			return true
		}
	}
	return false
}

// Allowed lists the triggers accepted from the current stage, in table order.
func (m *Machine) Allowed() []Trigger {
	var out []Trigger
	for _, tr := range transitions {
		if tr.From == m.current {
			out = append(out, tr.Trigger)
		}
	}
	return out
}
