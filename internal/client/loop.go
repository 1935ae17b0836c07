// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/MKhiriev/go-sqrl/internal/action"
)

// Loop drives exactly one dispatcher iteration, per spec §4.H: (i) call
// the Hooks' onLoop hook; (ii) drain the callback queue, invoking the
// matching Hooks method for each entry in FIFO order; (iii) pop one
// Action off the head of the action queue and step it; (iv) report
// whether either queue is still non-empty.
//
// The embedder is the dispatcher thread here: Loop never blocks on a
// callback, a worker-pool result, or a server round-trip, so it is safe
// to call from a UI event loop, a ticker, or a dedicated goroutine — but
// only ever one call at a time, matching §5's "cooperative on the
// dispatcher thread" scheduling model. Callers drive progress by calling
// Loop repeatedly (typically paced by their own idle timer) until it
// returns false.
func (c *Client) Loop() bool {
	c.hooks.OnLoop()
	c.drainCallbacks()
	c.stepOne()

	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.actions) > 0 || len(c.callbackQueue) > 0
}

// stepOne pops the Action at the head of the queue, if any, steps it
// exactly once, and either re-enqueues it at the tail (still live) or
// lets it drop (reached DONE), so that every live Action gets a turn
// across successive Loop calls instead of one Action's repeated
// suspension starving the rest.
func (c *Client) stepOne() {
	c.mu.Lock()
	if len(c.actions) == 0 {
		c.mu.Unlock()
		return
	}
	a := c.actions[0]
	c.actions = c.actions[1:]
	c.mu.Unlock()

	result := a.Step(context.Background())
	c.logStepResult(a, result)
	c.queueStepResult(a, result)
}

// logStepResult records one Action's step outcome: a debug line for
// ordinary progress, an error line (with the failure cause attached) once
// the Action reaches DONE(FAILED).
func (c *Client) logStepResult(a *action.Action, r action.StepResult) {
	if c.log == nil {
		return
	}

	if r.Outcome == action.OutcomeDone {
		if err := a.Err(); err != nil {
			c.log.Error().Err(err).Str("action_id", a.ID()).Str("kind", a.ErrorKind().String()).Msg("action finished with error")
			return
		}
		c.log.Debug().Str("action_id", a.ID()).Msg("action completed")
		return
	}

	c.log.Debug().Str("action_id", a.ID()).Str("state", a.State().String()).Msg("action stepped")
}

// queueStepResult translates one Action's [action.StepResult] into zero
// or more callback records: SAVE_SUGGESTED before
// ACTION_COMPLETE, on the step that finally completes the Action. A
// still-live Action is rotated back onto the tail of the action queue; a
// finished one is simply not re-enqueued (stepOne already popped it off).
func (c *Client) queueStepResult(a *action.Action, r action.StepResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.Progress > 0 && r.Progress != c.lastProgress[a.ID()] {
		c.lastProgress[a.ID()] = r.Progress
		c.callbackQueue = append(c.callbackQueue, callbackRecord{kind: callbackProgress, act: a, progress: r.Progress})
	}

	switch r.Await {
	case action.AwaitSelectUser:
		c.callbackQueue = append(c.callbackQueue, callbackRecord{kind: callbackSelectUser, act: a})
	case action.AwaitSelectAlt:
		c.callbackQueue = append(c.callbackQueue, callbackRecord{kind: callbackSelectAlt, act: a})
	case action.AwaitCredential:
		c.callbackQueue = append(c.callbackQueue, callbackRecord{kind: callbackAuthRequired, act: a, credentialKind: r.CredentialKind})
	case action.AwaitSend:
		c.callbackQueue = append(c.callbackQueue, callbackRecord{kind: callbackSend, act: a, sendURL: r.SendURL, sendPayload: r.SendPayload})
	case action.AwaitAsk:
		c.callbackQueue = append(c.callbackQueue, callbackRecord{kind: callbackAsk, act: a, askMessage: r.AskMessage, askButton1: r.AskButton1, askButton2: r.AskButton2})
	}

	if r.SaveSuggested {
		if u := a.User(); u != nil {
			c.callbackQueue = append(c.callbackQueue, callbackRecord{kind: callbackSaveSuggested, user: u})
		}
	}

	if r.Outcome == action.OutcomeDone {
		if u := a.User(); u != nil {
			c.registerUserLocked(u)
		}
		delete(c.lastProgress, a.ID())
		c.callbackQueue = append(c.callbackQueue, callbackRecord{kind: callbackActionComplete, act: a})
		return
	}

	c.actions = append(c.actions, a)
}

// drainCallbacks empties the callback queue and invokes Hooks for each
// entry, in FIFO order, outside of c.mu so a Hooks method is free to call
// back into the Client (e.g. submitting a follow-up Action from
// OnActionComplete) without deadlocking.
func (c *Client) drainCallbacks() {
	c.mu.Lock()
	queue := c.callbackQueue
	c.callbackQueue = nil
	c.mu.Unlock()

	for _, cb := range queue {
		c.dispatch(cb)
	}
}

func (c *Client) dispatch(cb callbackRecord) {
	switch cb.kind {
	case callbackSaveSuggested:
		c.hooks.OnSaveSuggested(cb.user)
	case callbackSelectUser:
		c.hooks.OnSelectUser(cb.act)
	case callbackSelectAlt:
		c.hooks.OnSelectAlt(cb.act)
	case callbackAuthRequired:
		c.hooks.OnAuthRequired(cb.act, cb.credentialKind)
	case callbackSend:
		c.hooks.OnSend(cb.act, cb.sendURL, cb.sendPayload)
	case callbackAsk:
		c.hooks.OnAsk(cb.act, cb.askMessage, cb.askButton1, cb.askButton2)
	case callbackProgress:
		c.hooks.OnProgress(cb.act, cb.progress)
	case callbackActionComplete:
		c.hooks.OnActionComplete(cb.act)
	}
}
