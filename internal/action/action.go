// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package action

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-sqrl/internal/entropy"
	"github.com/MKhiriev/go-sqrl/internal/identity"
	"github.com/MKhiriev/go-sqrl/internal/protocol"
	"github.com/MKhiriev/go-sqrl/internal/site"
	"github.com/MKhiriev/go-sqrl/internal/workers"
	"github.com/MKhiriev/go-sqrl/models"
)

// State is one node of the generic Action frame's state machine.
type State int

const (
	StateNew State = iota
	StateAuthenticating
	StateWorking
	StateSending
	StateAwaitingResponse
	StateCompleting
	StateDone
)

// String returns a human-readable label for the state.
func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "AUTHENTICATING"
	case StateWorking:
		return "WORKING"
	case StateSending:
		return "SENDING"
	case StateAwaitingResponse:
		return "AWAITING_RESPONSE"
	case StateCompleting:
		return "COMPLETING"
	case StateDone:
		return "DONE"
	default:
		return "NEW"
	}
}

// Outcome is the coarse result of one [Action.Step] call.
type Outcome int

const (
	// OutcomeSuspended means the Action yielded control back to the
	// dispatcher without reaching DONE; Await, if not [AwaitNone],
	// names the outbound callback the dispatcher should raise.
	OutcomeSuspended Outcome = iota
	// OutcomeDone means the Action reached a terminal state this step;
	// the dispatcher should raise ACTION_COMPLETE (after SAVE_SUGGESTED,
	// if SaveSuggested is also set) and retire the Action.
	OutcomeDone
)

// Await names the outbound callback, if any, a [StepResult] asks the
// dispatcher to raise.
type Await int

const (
	// AwaitNone means this step produced no callback; the dispatcher
	// should simply call Step again on its next loop iteration (used
	// while a worker-pool KDF job is still running).
	AwaitNone Await = iota
	// AwaitSelectUser corresponds to the SELECT_USER callback.
	AwaitSelectUser
	// AwaitSelectAlt corresponds to the SELECT_ALT callback.
	AwaitSelectAlt
	// AwaitCredential corresponds to the AUTH_REQUIRED callback.
	AwaitCredential
	// AwaitSend corresponds to the SEND callback.
	AwaitSend
	// AwaitAsk corresponds to the ASK callback.
	AwaitAsk
)

// StepResult reports what happened during one [Action.Step] call and
// what, if anything, the dispatcher must do about it.
type StepResult struct {
	Outcome Outcome
	Await   Await

	// CredentialKind is set when Await is [AwaitCredential].
	CredentialKind models.CredentialKind

	// SendURL and SendPayload are set when Await is [AwaitSend].
	SendURL     string
	SendPayload []byte

	// AskMessage, AskButton1, AskButton2 are set when Await is [AwaitAsk].
	AskMessage, AskButton1, AskButton2 string

	// Progress is an advisory 0-100 completion estimate, valid whenever
	// non-negative.
	Progress int

	// SaveSuggested is true exactly on the step where the Action's User
	// gained a persistable mutation; the dispatcher MUST raise
	// SAVE_SUGGESTED for that User before this Action's eventual
	// ACTION_COMPLETE.
	SaveSuggested bool
}

// Deps bundles the collaborators an Action needs to perform its work,
// supplied by the dispatcher at construction time so Action itself never
// reaches for global state.
type Deps struct {
	// Pool runs EnScrypt/Argon2id derivation off the dispatcher
	// goroutine.
	Pool *workers.Pool
	// GenerateParams supplies the EnScrypt/hint tunables used by
	// identity-generate, rekey, and change-password.
	GenerateParams identity.GenerateParams
	// EntropyPool supplies the random bytes identity-generate and rekey
	// draw a fresh Identity Unlock Key from, and a fresh Random Lock Key
	// for auth transactions that negotiate identity-lock material.
	EntropyPool *entropy.Pool
	// SendTimeout bounds how long a SENDING Action waits for
	// [Action.SupplyResponse] before failing with [ErrorKindTimeout].
	SendTimeout time.Duration
	// MinEntropyBits is the [entropy.Pool.EstimateBits] floor an
	// identity-generate or rekey Action waits for before drawing a fresh
	// IUK. Zero disables the gate.
	MinEntropyBits uint64
}

// Action is a single long-running SQRL transaction, owned exclusively by
// the dispatcher until it reaches DONE.
type Action struct {
	mu sync.Mutex

	id   string
	typ  models.ActionType
	deps Deps

	user      *identity.User
	container *identity.Container
	source    []byte
	targetURL *protocol.URL
	site      *site.Action

	state  State
	status models.ActionStatus
	kind   ErrorKind
	err    error

	requiredCreds []models.CredentialKind
	credIndex     int
	creds         map[models.CredentialKind]string
	attempts      int

	awaitingUser bool

	altRequested bool
	altSupplied  bool

	job *kdfJob

	// cmds is the remaining server-command sequence for a network
	// transaction: every command other than a bare query is preceded by a
	// query round-trip, per the protocol's query-then-act convention.
	cmds    []string
	nextQry string

	sendDeadline time.Time
	response     []byte
	responseErr  error

	askAnswer    int
	askAvailable bool

	rescueCode string
	s4         []byte

	saveSuggestedPending bool
	cancelRequested      bool
}

// kdfJob tracks an in-flight worker-pool operation. result is populated by
// the job closure before done is closed and is read back by the next
// [Action.Step] call once the Action holds a.mu again, so no further
// synchronization is needed to access it.
type kdfJob struct {
	done   chan struct{}
	cancel context.CancelFunc
	result any
	err    error
}

// New constructs an Action of the given type, uniquely identified by id
// (typically a [github.com/MKhiriev/go-sqrl/internal/utils.UUIDGenerator]
// value).
func New(id string, typ models.ActionType, deps Deps) *Action {
	return &Action{
		id:            id,
		typ:           typ,
		deps:          deps,
		state:         StateNew,
		status:        models.StatusWorking,
		requiredCreds: typ.RequiredCredentials(),
		creds:         make(map[models.CredentialKind]string),
		site:          site.New(),
	}
}

// ID returns the Action's unique identifier.
func (a *Action) ID() string { return a.id }

// Type returns the Action's transaction type.
func (a *Action) Type() models.ActionType { return a.typ }

// State returns the Action's current state-machine node.
func (a *Action) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Status returns the Action's working/terminal status.
func (a *Action) Status() models.ActionStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Err returns the error recorded when the Action reached DONE(FAILED), or
// nil otherwise.
func (a *Action) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// ErrorKind returns the classification of [Action.Err], or
// [ErrorKindNone] if the Action has not failed.
func (a *Action) ErrorKind() ErrorKind {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.kind
}

// User returns the Action's bound User, or nil if none has been selected
// or produced yet.
func (a *Action) User() *identity.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

// Site returns the Action's per-site authentication state.
func (a *Action) Site() *site.Action {
	return a.site
}

// RescueCode returns the one-time rescue code produced by an
// identity-generate or rekey Action, or the empty string otherwise.
func (a *Action) RescueCode() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rescueCode
}

// S4 returns the canonical S4 byte stream a rekey or change-password
// Action produced, ready for the embedder to persist. It is nil for an
// identity-generate Action; that Action's bytes are read from its User's
// container.
func (a *Action) S4() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.s4
}

// SetSource supplies the raw S4 container bytes an identity-load Action
// should decrypt. It is a no-op once the Action has left StateNew.
func (a *Action) SetSource(data []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateNew {
		return
	}
	a.source = data
}

// PresetUser binds u as the Action's identity before the Action starts,
// skipping the SELECT_USER callback that would otherwise request it. It is
// a no-op once the Action has left StateNew.
func (a *Action) PresetUser(u *identity.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateNew {
		return
	}
	a.user = u
}

// RequestAltSelection marks the Action as needing an alternate-identity
// choice from the embedder before its first server round-trip, raising
// the SELECT_ALT callback once the Action's User and credentials are in
// hand. It is a no-op once the Action has left StateNew.
func (a *Action) RequestAltSelection() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateNew {
		return
	}
	a.altRequested = true
}

// SetTargetURL parses and binds the SQRL URL a query/ident/disable/enable/
// remove Action authenticates against. It is a no-op once the Action has
// left StateNew.
func (a *Action) SetTargetURL(raw string) error {
	parsed, err := protocol.ParseURL(raw)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateNew {
		return nil
	}
	a.targetURL = parsed
	return nil
}

// isNetworkAction reports whether the Action's type involves a server
// round-trip, as opposed to a purely local operation (load/generate/
// change-password/rekey).
func (a *Action) isNetworkAction() bool {
	switch a.typ {
	case models.ActionAuthQuery, models.ActionAuthIdent, models.ActionAuthDisable,
		models.ActionAuthEnable, models.ActionAuthRemove:
		return true
	default:
		return false
	}
}

// needsUserSelection reports whether the Action requires an existing User
// to be bound via [Action.SupplyUser] before authentication can proceed.
func (a *Action) needsUserSelection() bool {
	switch a.typ {
	case models.ActionIdentityLoad, models.ActionIdentityGenerate:
		return false
	default:
		return true
	}
}

func (a *Action) fail(kind ErrorKind, err error) StepResult {
	a.state = StateDone
	a.status = models.StatusFailed
	a.kind = kind
	a.err = err
	return StepResult{Outcome: OutcomeDone, Progress: 100}
}

func (a *Action) cancelledResult() StepResult {
	a.state = StateDone
	a.status = models.StatusCancelled
	a.kind = ErrorKindCancelled
	if a.job != nil && a.job.cancel != nil {
		a.job.cancel()
	}
	return StepResult{Outcome: OutcomeDone, Progress: 100}
}
