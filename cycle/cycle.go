/*
Package cycle normalizes cyclic animation curves to a time window.

A cyclic curve repeats with the length of the window, but its keys may be
shifted against it. CropCycle rewrites every curve animating the selected
objects so that its first and last keys land exactly on the window
boundaries, moving overshooting parts of the curve to the other end of the
window. A curve is accepted if afterwards its values at start and end of the
window match. All other curves are flagged for manual inspection.

Processing of a curve passes through the states

	Unprocessed → {TailTrim, HeadTrim, BothTrim, AlreadyValid, Rejected} → {Accepted, Flagged}

There are no retries: a flagged curve is never corrected twice.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package cycle

import (
	"fmt"
	"strings"

	"github.com/npillmayer/graphed/curve"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'graphed.cycle'
func tracer() tracing.Trace {
	return tracing.Select("graphed.cycle")
}

// State is the processing state of a curve.
type State int8

const (
	Unprocessed State = iota
	TailTrim          // keys reach beyond the end of the window
	HeadTrim          // keys start before the window
	BothTrim          // keys overshoot the window on both sides
	AlreadyValid      // keys match the window
	Rejected          // keys do not cover the window
	Accepted          // terminal, values at start and end match
	Flagged           // terminal, curve needs manual inspection
)

var stateNames = []string{"unprocessed", "tail-trim", "head-trim", "both-trim", "already-valid",
	"rejected", "accepted", "flagged"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", s)
	}
	return stateNames[s]
}

// IsTerminal is a predicate: is s the final state of a curve?
func (s State) IsTerminal() bool {
	return s == Accepted || s == Flagged
}

// Session is the state of one normalization batch. A new session is
// created for every batch.
type Session struct {
	window     curve.TimeWindow
	order      []curve.ID
	branches   map[curve.ID]State
	states     map[curve.ID]State
	nonCycling map[curve.ID]bool
}

func newSession(w curve.TimeWindow) *Session {
	return &Session{
		window:     w,
		branches:   make(map[curve.ID]State),
		states:     make(map[curve.ID]State),
		nonCycling: make(map[curve.ID]bool),
	}
}

// Window is the time window of the batch.
func (sess *Session) Window() curve.TimeWindow {
	return sess.window
}

// State returns the current state of curve c.
func (sess *Session) State(c curve.ID) State {
	return sess.states[c] // Unprocessed for unknown curves
}

func (sess *Session) enter(c curve.ID, st State) {
	if _, seen := sess.states[c]; !seen {
		sess.order = append(sess.order, c)
	}
	if !st.IsTerminal() {
		sess.branches[c] = st
	}
	tracer().Debugf("curve %q: %s → %s", c, sess.states[c], st)
	sess.states[c] = st
}

func (sess *Session) flag(c curve.ID) {
	sess.nonCycling[c] = true
}

// finish moves curve c to its terminal state.
func (sess *Session) finish(c curve.ID) {
	if sess.nonCycling[c] {
		sess.enter(c, Flagged)
		return
	}
	sess.enter(c, Accepted)
}

// Report is the outcome of a normalization batch.
type Report struct {
	Window   curve.TimeWindow
	Accepted []curve.ID
	Flagged  []curve.ID
	// Branches tells how each curve was treated.
	Branches map[curve.ID]State
	// States holds the terminal state of each curve.
	States map[curve.ID]State
}

func (sess *Session) report() *Report {
	r := &Report{
		Window:   sess.window,
		Branches: make(map[curve.ID]State, len(sess.branches)),
		States:   make(map[curve.ID]State, len(sess.states)),
	}
	for _, c := range sess.order {
		r.Branches[c] = sess.branches[c]
		r.States[c] = sess.states[c]
		if sess.states[c] == Flagged {
			r.Flagged = append(r.Flagged, c)
		} else {
			r.Accepted = append(r.Accepted, c)
		}
	}
	return r
}

// OK is a predicate: have all curves been accepted?
func (r *Report) OK() bool {
	return len(r.Flagged) == 0
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cycle %s: %d accepted", r.Window, len(r.Accepted))
	if len(r.Flagged) > 0 {
		names := make([]string, len(r.Flagged))
		for i, c := range r.Flagged {
			names[i] = string(c)
		}
		fmt.Fprintf(&b, ", %d not cycling: %s", len(r.Flagged), strings.Join(names, ", "))
	}
	return b.String()
}
