// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"sync"

	"github.com/MKhiriev/go-sqrl/internal/action"
	"github.com/MKhiriev/go-sqrl/internal/identity"
	"github.com/MKhiriev/go-sqrl/internal/logger"
	"github.com/MKhiriev/go-sqrl/internal/utils"
)

var (
	singletonMu sync.Mutex
	singleton   *Client
)

// Client is the process-wide SQRL dispatcher. Construct one with [New];
// only one may exist at a time. It owns no goroutine of its own — the
// embedder drives all progress by calling [Client.Loop] repeatedly, per
// spec's cooperative, dispatcher-thread scheduling model.
type Client struct {
	mu sync.Mutex

	deps  action.Deps
	hooks Hooks
	log   *logger.Logger
	ids   *utils.UUIDGenerator

	users         []*identity.User
	actions       []*action.Action
	callbackQueue []callbackRecord

	// lastProgress dedupes PROGRESS callbacks per Action ID, so a job
	// polled across many loop iterations reports each estimate once.
	lastProgress map[string]int
}

// New constructs a Client. It fails with [ErrAlreadyRunning] if a Client
// is already running in this process, and with [ErrNilHooks] if hooks is
// nil. The returned Client does nothing until the embedder starts calling
// [Client.Loop].
func New(hooks Hooks, deps action.Deps, log *logger.Logger) (*Client, error) {
	if hooks == nil {
		return nil, ErrNilHooks
	}

	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singleton != nil {
		return nil, ErrAlreadyRunning
	}

	c := &Client{
		deps:         deps,
		hooks:        hooks,
		log:          log,
		ids:          utils.NewUUIDGenerator(),
		lastProgress: make(map[string]int),
	}

	singleton = c
	return c, nil
}

// Shutdown releases the process-wide singleton slot, drops every User of
// this Client that is not hint-locked (calling [identity.User.Release] on
// it), and reports how many Users remain hint-locked — safe to discard
// without a plaintext key ever having touched disk unencrypted. The embedder must
// stop calling [Client.Loop] before or after calling Shutdown; Shutdown
// itself does not stop any goroutine, since Client runs none.
func (c *Client) Shutdown() int {
	singletonMu.Lock()
	if singleton == c {
		singleton = nil
	}
	singletonMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	survivors := 0
	kept := c.users[:0]
	for _, u := range c.users {
		if u.IsHintLocked() {
			survivors++
			kept = append(kept, u)
			continue
		}
		u.Release()
	}
	c.users = kept
	return survivors
}

// Users returns a snapshot of every User this Client currently holds.
func (c *Client) Users() []*identity.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*identity.User(nil), c.users...)
}

// getUserByUniqueID linearly scans the held Users for a matching
// [identity.User.GetUniqueId]; the set stays small (tens, not thousands),
// so no index is kept.
func (c *Client) getUserByUniqueID(uniqueID string) *identity.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, u := range c.users {
		if u.GetUniqueId() == uniqueID {
			return u
		}
	}
	return nil
}

// getUserByTag linearly scans the held Users for a matching
// embedder-attached [identity.User.Tag].
func (c *Client) getUserByTag(tag any) *identity.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, u := range c.users {
		if u.Tag() == tag {
			return u
		}
	}
	return nil
}

// getAction finds one of this Client's held Actions by ID.
func (c *Client) getAction(actionID string) *action.Action {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.actions {
		if a.ID() == actionID {
			return a
		}
	}
	return nil
}

func (c *Client) registerUserLocked(u *identity.User) {
	for _, existing := range c.users {
		if existing == u || existing.GetUniqueId() == u.GetUniqueId() {
			return
		}
	}
	c.users = append(c.users, u)
}
