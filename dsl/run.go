package dsl

import (
	"errors"
	"fmt"

	"github.com/ByLCY/siliconsim/design"
	"github.com/ByLCY/siliconsim/export"
	"github.com/ByLCY/siliconsim/session"
)

// errExit stops the replay; statements after exit are ignored.
var errExit = errors.New("script exited")

// Sink receives every artifact produced by a download gesture.
type Sink func(export.Artifact) error

// Run replays script against sess in order and stops at the first failure.
// Errors carry the script position of the failing statement.
func Run(sess *session.Session, script *Script, sink Sink) error {
	if script == nil {
		return nil
	}
	for _, st := range script.Statements {
		err := apply(sess, st, sink)
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%d:%d %s: %w", st.Pos.Line, st.Pos.Column, st.Kind(), err)
		}
	}
	return nil
}

// RunString parses and replays src.
func RunString(sess *session.Session, src string, sink Sink) error {
	script, err := ParseString(src)
	if err != nil {
		return fmt.Errorf("parse script: %w", err)
	}
	return Run(sess, script, sink)
}

func apply(sess *session.Session, st *Statement, sink Sink) error {
	switch {
	case st.Start:
		return sess.StartFabrication()
	case st.Size != nil:
		return sess.Resize(*st.Size)
	case st.Tool != nil:
		kind, err := design.ParseKind(*st.Tool)
		if err != nil {
			return err
		}
		return sess.Select(kind)
	case st.Paint != nil:
		if st.Paint.Second != nil {
			return sess.PaintAt(st.Paint.First, *st.Paint.Second)
		}
		return sess.Paint(st.Paint.First)
	case st.Package:
		return sess.Package()
	case st.Back:
		return sess.Back()
	case st.Engrave != nil:
		return sess.SetEngraving(string(*st.Engrave))
	case st.Download:
		a, err := sess.Download()
		if err != nil {
			return err
		}
		if sink == nil {
			return nil
		}
		return sink(a)
	case st.Exit:
		sess.Exit()
		return errExit
	default:
		return fmt.Errorf("unsupported statement")
	}
}
