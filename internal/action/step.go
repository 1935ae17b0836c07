// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package action

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-sqrl/internal/encoding"
	"github.com/MKhiriev/go-sqrl/internal/entropy"
	"github.com/MKhiriev/go-sqrl/internal/identity"
	"github.com/MKhiriev/go-sqrl/internal/protocol"
	"github.com/MKhiriev/go-sqrl/internal/site"
	"github.com/MKhiriev/go-sqrl/internal/sqrlcrypto"
	"github.com/MKhiriev/go-sqrl/models"
)

// poolRandom adapts a [entropy.Pool]'s infallible Bytes draw to the
// fallible random function [sqrlcrypto.GenerateRandomLockKey] expects.
func poolRandom(pool *entropy.Pool) func(int) ([]byte, error) {
	return func(n int) ([]byte, error) {
		return pool.Bytes(n), nil
	}
}

// maxCredentialAttempts bounds how many times a wrong password or rescue
// code retries AUTHENTICATING before the Action fails outright.
const maxCredentialAttempts = 3

// Step advances the Action by exactly one unit of work and returns without
// blocking on any callback, network response, or worker-pool result still
// in flight. The dispatcher calls Step repeatedly — once per turn of its
// round-robin over the live Actions — until Outcome is [OutcomeDone].
func (a *Action) Step(ctx context.Context) StepResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateDone {
		return StepResult{Outcome: OutcomeDone, Progress: 100}
	}

	if a.cancelRequested && a.state != StateCompleting {
		return a.cancelledResult()
	}

	switch a.state {
	case StateNew:
		return a.stepNewLocked(ctx)
	case StateAuthenticating:
		return a.stepAuthenticatingLocked(ctx)
	case StateWorking:
		return a.stepWorkingLocked(ctx)
	case StateSending:
		return a.stepSendingLocked(ctx)
	case StateAwaitingResponse:
		return a.stepAwaitingResponseLocked(ctx)
	case StateCompleting:
		return a.stepCompletingLocked(ctx)
	default:
		return a.fail(ErrorKindInternalInvariant, fmt.Errorf("action: unreachable state %v", a.state))
	}
}

// stepNewLocked resolves the credentials an identity-load or -generate
// Action needs before any user-facing prompt can be raised, binds a
// pre-selected User for every other type, and advances to AUTHENTICATING.
func (a *Action) stepNewLocked(ctx context.Context) StepResult {
	switch a.typ {
	case models.ActionIdentityLoad:
		if a.container == nil {
			if len(a.source) == 0 {
				return a.fail(ErrorKindInternalInvariant, errors.New("action: identity load has no source"))
			}
			raw, err := identity.DecodeText(string(a.source))
			if err != nil {
				return a.fail(ErrorKindCorrupt, err)
			}
			container, err := identity.Parse(raw)
			if err != nil {
				return a.fail(classifyIdentityErr(err), err)
			}
			a.container = container
			a.requiredCreds = []models.CredentialKind{a.identityLoadCredentialKindLocked()}
		}

	case models.ActionIdentityGenerate:
		// The rescue code this transaction produces does not exist until
		// generation runs, so there is nothing for the embedder to supply
		// under that kind; what gates generation is the password chosen
		// to protect the new identity.
		a.requiredCreds = []models.CredentialKind{models.CredentialPassword}

	default:
		if a.needsUserSelection() && a.user == nil {
			a.awaitingUser = true
			return StepResult{Outcome: OutcomeSuspended, Await: AwaitSelectUser}
		}
		if a.isNetworkAction() {
			if a.targetURL == nil {
				return a.fail(ErrorKindInternalInvariant, errors.New("action: network action has no target url"))
			}
			a.cmds = commandChain(a.typ)
		}
	}

	if len(a.requiredCreds) == 0 {
		return a.fail(ErrorKindInternalInvariant, errors.New("action: no credentials required"))
	}

	a.state = StateAuthenticating
	return StepResult{Outcome: OutcomeSuspended, Progress: 5}
}

// stepAuthenticatingLocked raises AUTH_REQUIRED for the next credential not
// yet collected, or advances to WORKING once every required credential
// (and, for actions that need one, the bound User) is in hand.
func (a *Action) stepAuthenticatingLocked(ctx context.Context) StepResult {
	if a.needsUserSelection() && a.user == nil {
		a.awaitingUser = true
		return StepResult{Outcome: OutcomeSuspended, Await: AwaitSelectUser}
	}

	if a.altRequested && !a.altSupplied {
		return StepResult{Outcome: OutcomeSuspended, Await: AwaitSelectAlt}
	}

	kind := a.expectedCredentialKindLocked()
	if kind == models.CredentialUnspecified {
		a.state = StateWorking
		a.job = nil
		return StepResult{Outcome: OutcomeSuspended, Progress: 10}
	}

	if _, ok := a.creds[kind]; !ok {
		if kind == models.CredentialPassword && a.isNetworkAction() {
			if _, ok := a.creds[models.CredentialHint]; ok {
				a.credIndex++
				return StepResult{Outcome: OutcomeSuspended, Progress: 10}
			}
		}
		return StepResult{Outcome: OutcomeSuspended, Await: AwaitCredential, CredentialKind: kind}
	}

	a.credIndex++
	return StepResult{Outcome: OutcomeSuspended, Progress: 10}
}

// stepWorkingLocked starts, polls, and consumes the single worker-pool job
// that performs this Action's cryptographic work off the calling goroutine.
func (a *Action) stepWorkingLocked(ctx context.Context) StepResult {
	if a.job == nil {
		if a.needsFreshEntropyLocked() && a.deps.EntropyPool.EstimateBits() < a.deps.MinEntropyBits {
			// Not enough accumulated entropy to mint a new IUK yet; the
			// background collector keeps stirring, so re-suspend and
			// re-check on the next step.
			return StepResult{Outcome: OutcomeSuspended, Progress: 12}
		}
		if !a.startJobLocked() {
			// Every pool slot is busy. Re-suspend without blocking so the
			// dispatcher can step other Actions this iteration; the next
			// Step call retries submission.
			return StepResult{Outcome: OutcomeSuspended, Progress: 15}
		}
		return StepResult{Outcome: OutcomeSuspended, Progress: 20}
	}

	select {
	case <-a.job.done:
	default:
		return StepResult{Outcome: OutcomeSuspended, Progress: 60}
	}

	job := a.job
	a.job = nil

	if job.err != nil {
		return a.handleWorkFailureLocked(job.err)
	}

	return a.applyWorkResultLocked(job.result)
}

// startJobLocked submits this Action's type-specific unit of work to the
// worker pool via [workers.Pool.TrySubmit], which never blocks: if every
// pool slot is busy it reports false and leaves a.job nil so the caller
// retries on the next Step call instead of stalling the dispatcher
// goroutine. The job closure never touches Action fields directly; it
// writes its outcome into the kdfJob and closes done, which
// stepWorkingLocked only observes after re-acquiring a.mu.
func (a *Action) startJobLocked() bool {
	work := a.buildWorkLocked()

	jobCtx, cancel := context.WithCancel(context.Background())
	job := &kdfJob{done: make(chan struct{}), cancel: cancel}

	submitted := a.deps.Pool.TrySubmit(jobCtx, func(ctx context.Context) {
		defer close(job.done)
		job.result, job.err = work(ctx)
	})
	if !submitted {
		cancel()
		return false
	}

	a.job = job
	return true
}

// needsFreshEntropyLocked reports whether this Action's WORKING-state job
// draws a brand-new IUK from the entropy pool, and so should respect the
// configured minimum-bits floor before starting.
func (a *Action) needsFreshEntropyLocked() bool {
	if a.deps.MinEntropyBits == 0 || a.deps.EntropyPool == nil {
		return false
	}
	return a.typ == models.ActionIdentityGenerate || a.typ == models.ActionRekey
}

// workFunc performs one Action's WORKING-state operation on a worker-pool
// goroutine and returns an opaque result for applyWorkResultLocked to
// interpret back on the dispatcher goroutine.
type workFunc func(ctx context.Context) (any, error)

func (a *Action) buildWorkLocked() workFunc {
	switch a.typ {
	case models.ActionIdentityLoad:
		return a.workIdentityLoadLocked()
	case models.ActionIdentityGenerate:
		return a.workIdentityGenerateLocked()
	case models.ActionChangePassword:
		return a.workChangePasswordLocked()
	case models.ActionRekey:
		return a.workRekeyLocked()
	default:
		return a.workUnlockForAuthLocked()
	}
}

func (a *Action) workIdentityLoadLocked() workFunc {
	container := a.container
	password := a.creds[models.CredentialPassword]
	rescue := a.creds[models.CredentialRescueCode]
	return func(ctx context.Context) (any, error) {
		return identity.Load(ctx, container, password, rescue)
	}
}

func (a *Action) workIdentityGenerateLocked() workFunc {
	password := a.creds[models.CredentialPassword]
	pool := a.deps.EntropyPool
	params := a.deps.GenerateParams
	return func(ctx context.Context) (any, error) {
		user, rescueCode, err := identity.Generate(ctx, pool, password, params)
		if err != nil {
			return nil, err
		}
		return generateResult{user: user, rescueCode: rescueCode}, nil
	}
}

type generateResult struct {
	user       *identity.User
	rescueCode string
	s4         []byte
}

func (a *Action) workChangePasswordLocked() workFunc {
	user := a.user
	oldPassword := a.creds[models.CredentialPassword]
	newPassword := a.creds[models.CredentialNewPassword]
	params := a.deps.GenerateParams
	return func(ctx context.Context) (any, error) {
		if user.IsHintLocked() {
			if err := user.Unlock(ctx, oldPassword); err != nil {
				return nil, err
			}
		}
		s4, err := user.Save(ctx, newPassword, params)
		if err != nil {
			return nil, err
		}
		return saveResult{s4: s4}, nil
	}
}

type saveResult struct {
	s4 []byte
}

func (a *Action) workRekeyLocked() workFunc {
	user := a.user
	oldRescue := a.creds[models.CredentialRescueCode]
	newPassword := a.creds[models.CredentialNewPassword]
	pool := a.deps.EntropyPool
	params := a.deps.GenerateParams
	return func(ctx context.Context) (any, error) {
		if _, ok := user.IMK(); !ok {
			return nil, identity.ErrHintLocked
		}
		if err := user.UnlockIUK(ctx, oldRescue); err != nil {
			return nil, err
		}

		var newIUK [32]byte
		copy(newIUK[:], pool.Bytes(sqrlcrypto.KeySize))

		rescueCode, s4, err := user.Rekey(ctx, newIUK, newPassword, params)
		if err != nil {
			return nil, err
		}
		return generateResult{user: user, rescueCode: rescueCode, s4: s4}, nil
	}
}

// workUnlockForAuthLocked handles every query/ident/disable/enable/remove
// Action: it only needs IMK held, re-deriving it from whichever credential
// was collected if the User arrived hint-locked.
func (a *Action) workUnlockForAuthLocked() workFunc {
	user := a.user
	creds := a.creds
	return func(ctx context.Context) (any, error) {
		if _, ok := user.IMK(); ok {
			return nil, nil
		}
		if hint, ok := creds[models.CredentialHint]; ok {
			if err := user.HintUnlock(hint); err != nil {
				return nil, err
			}
			return nil, nil
		}
		if password, ok := creds[models.CredentialPassword]; ok {
			if err := user.Unlock(ctx, password); err != nil {
				return nil, err
			}
			return nil, nil
		}
		return nil, errors.New("action: no credential available to unlock user")
	}
}

// handleWorkFailureLocked classifies a failed WORKING-state job, retrying
// AUTHENTICATING for a bad credential up to maxCredentialAttempts before
// giving up, or failing immediately for a structural/cancellation error.
func (a *Action) handleWorkFailureLocked(err error) StepResult {
	if errors.Is(err, context.Canceled) {
		return a.cancelledResult()
	}

	kind := classifyIdentityErr(err)
	switch kind {
	case ErrorKindBadPassword, ErrorKindBadRescueCode, ErrorKindBadHint:
		a.attempts++
		if a.attempts >= maxCredentialAttempts {
			return a.fail(kind, err)
		}
		kindRequested := a.expectedCredentialKindForRetryLocked()
		delete(a.creds, kindRequested)
		a.credIndex = 0
		a.state = StateAuthenticating
		return StepResult{Outcome: OutcomeSuspended, Await: AwaitCredential, CredentialKind: kindRequested}
	default:
		return a.fail(kind, err)
	}
}

// expectedCredentialKindForRetryLocked returns the credential kind whose
// value should be discarded and re-requested after a failed WORKING-state
// verification. It mirrors expectedCredentialKindLocked's source-dependent
// resolution for identity-load. The caller then resets credIndex, so
// AUTHENTICATING walks the required list again and skips every credential
// still held.
func (a *Action) expectedCredentialKindForRetryLocked() models.CredentialKind {
	if a.typ == models.ActionIdentityLoad {
		return a.identityLoadCredentialKindLocked()
	}
	if _, ok := a.creds[models.CredentialPassword]; ok {
		return models.CredentialPassword
	}
	if _, ok := a.creds[models.CredentialHint]; ok {
		return models.CredentialHint
	}
	if _, ok := a.creds[models.CredentialRescueCode]; ok {
		return models.CredentialRescueCode
	}
	return models.CredentialPassword
}

// applyWorkResultLocked routes a successful job's result into the Action's
// fields and decides the next state: network actions move to SENDING;
// everything else is already finished and moves to COMPLETING.
func (a *Action) applyWorkResultLocked(result any) StepResult {
	switch r := result.(type) {
	case *identity.User:
		a.user = r
	case generateResult:
		a.user = r.user
		a.rescueCode = r.rescueCode
		if r.s4 != nil {
			a.s4 = r.s4
		}
		a.saveSuggestedPending = true
	case saveResult:
		a.s4 = r.s4
		a.saveSuggestedPending = true
	}

	if a.isNetworkAction() {
		a.state = StateSending
		return StepResult{Outcome: OutcomeSuspended, Progress: 70}
	}

	a.state = StateCompleting
	return StepResult{Outcome: OutcomeSuspended, Progress: 90}
}

// stepSendingLocked raises SEND on the first visit, building the signed
// client command body from the bound User's per-site keypair, then waits
// for [Action.SupplyResponse] on subsequent visits.
func (a *Action) stepSendingLocked(ctx context.Context) StepResult {
	if a.response == nil && a.responseErr == nil {
		if a.sendDeadline.IsZero() {
			payload, err := a.buildSendPayloadLocked()
			if err != nil {
				return a.fail(ErrorKindInternalInvariant, err)
			}
			a.sendDeadline = time.Now().Add(a.deps.SendTimeout)
			return StepResult{Outcome: OutcomeSuspended, Await: AwaitSend, SendURL: a.sendURLLocked(), SendPayload: payload}
		}
		if time.Now().After(a.sendDeadline) {
			return a.fail(ErrorKindTimeout, errors.New("action: timed out waiting for server response"))
		}
		return StepResult{Outcome: OutcomeSuspended, Progress: 75}
	}

	if a.responseErr != nil {
		err := a.responseErr
		a.responseErr = nil
		a.response = nil
		return a.fail(ErrorKindNetworkFailure, err)
	}

	a.state = StateAwaitingResponse
	return StepResult{Outcome: OutcomeSuspended, Progress: 80}
}

// sendURLLocked returns the HTTP endpoint the current command is POSTed
// to: the identity URL's HTTP(S) form for the opening query, or the server-
// directed qry endpoint for every follow-up command.
func (a *Action) sendURLLocked() string {
	if a.nextQry != "" {
		return a.targetURL.QryURL(a.nextQry)
	}
	return a.targetURL.PostURL()
}

// advanceChainLocked retires the command the server just acknowledged and
// either queues the next one in the transaction's chain (SENDING again,
// against the reply's qry endpoint) or moves to COMPLETING.
func (a *Action) advanceChainLocked() StepResult {
	if len(a.cmds) > 0 {
		a.cmds = a.cmds[1:]
	}
	if len(a.cmds) == 0 {
		a.state = StateCompleting
		return StepResult{Outcome: OutcomeSuspended, Progress: 95}
	}

	if a.nextQry == "" {
		return a.fail(ErrorKindNetworkFailure, errors.New("action: server reply carries no qry for the next command"))
	}
	a.response = nil
	a.responseErr = nil
	a.sendDeadline = time.Time{}
	a.state = StateSending
	return StepResult{Outcome: OutcomeSuspended, Progress: 85}
}

func (a *Action) buildSendPayloadLocked() ([]byte, error) {
	imk, ok := a.user.IMK()
	if !ok {
		return nil, errors.New("action: user has no imk to sign with")
	}

	domain := a.targetURL.SiteKeyDomain()
	if alt := a.site.AltIdentity(); alt != "" {
		// An alternate identity presents a distinct keypair to the same
		// site by extending the key-derivation domain.
		domain += alt
	}
	priv := sqrlcrypto.DeriveSiteKeyPair(imk, domain)
	pub, _ := priv.Public().(ed25519.PublicKey)
	idk := encoding.Base64URLEncode(pub)

	cmd := "query"
	if len(a.cmds) > 0 {
		cmd = a.cmds[0]
	}

	fields := [][2]string{{"idk", idk}}
	if cmd != "query" && a.user.Options().Has(models.OptionRequestIDLock) {
		if ilk, ok := a.user.ILK(); ok {
			rlk, err := sqrlcrypto.GenerateRandomLockKey(poolRandom(a.deps.EntropyPool))
			if err == nil {
				if suk, err := sqrlcrypto.GenerateServerUnlockKey(rlk); err == nil {
					if vuk, err := sqrlcrypto.GenerateVerifyUnlockKey(ilk, rlk); err == nil {
						fields = append(fields, [2]string{"suk", encoding.Base64URLEncode(suk[:])})
						fields = append(fields, [2]string{"vuk", encoding.Base64URLEncode(vuk)})
					}
				}
			}
		}
	}

	body := protocol.BuildClientBody(cmd, fields)
	sig := sqrlcrypto.Sign(priv, []byte(body))
	body += "ids=" + encoding.Base64URLEncode(sig) + "\n"

	return []byte(protocol.EncodeClientBody(body)), nil
}

// commandChain returns the ordered server-command sequence an auth
// transaction of the given type issues: a bare query stands alone; every
// mutating command is preceded by a query round-trip so the client learns
// the site's current view of the identity (and its qry endpoint) before
// acting on it.
func commandChain(typ models.ActionType) []string {
	switch typ {
	case models.ActionAuthIdent:
		return []string{"query", "ident"}
	case models.ActionAuthDisable:
		return []string{"query", "disable"}
	case models.ActionAuthEnable:
		return []string{"query", "enable"}
	case models.ActionAuthRemove:
		return []string{"query", "remove"}
	default:
		return []string{"query"}
	}
}

// stepAwaitingResponseLocked parses the server's reply and either raises
// an ASK for the embedder, fails on a reported command/client failure, or
// advances the transaction's command chain, moving to COMPLETING once the
// last command is acknowledged.
func (a *Action) stepAwaitingResponseLocked(ctx context.Context) StepResult {
	if !a.site.HasPendingAsk() {
		reply, err := protocol.ParseServerReply(string(a.response))
		if err != nil {
			return a.fail(ErrorKindNetworkFailure, err)
		}
		a.site.SetNonce(reply.Nut)
		a.nextQry = reply.Qry

		if reply.Ask != "" {
			message, button1, button2 := reply.AskPrompt()
			a.site.SetPendingAsk(site.Ask{Message: message, Button1: button1, Button2: button2})
			return StepResult{Outcome: OutcomeSuspended, Await: AwaitAsk, AskMessage: message, AskButton1: button1, AskButton2: button2}
		}

		if reply.Has(protocol.TIFCommandFailed) || reply.Has(protocol.TIFClientFailure) {
			return a.fail(ErrorKindNetworkFailure, fmt.Errorf("action: server reported failure (tif=%#x)", reply.TIF))
		}

		return a.advanceChainLocked()
	}

	if !a.askAvailable {
		ask, _ := a.site.PendingAsk()
		return StepResult{Outcome: OutcomeSuspended, Await: AwaitAsk, AskMessage: ask.Message, AskButton1: ask.Button1, AskButton2: ask.Button2}
	}

	answer := a.askAnswer
	a.askAvailable = false
	a.site.ClearAsk()

	if answer != 0 {
		return a.cancelledResult()
	}

	return a.advanceChainLocked()
}

// stepCompletingLocked performs the SAVE_SUGGESTED ordering invariant and
// marks the Action successfully DONE. A cancel requested after the Action
// has already reached COMPLETING — its server command accepted, or its
// local operation finished — no longer has anything left to roll back, so
// it is ignored here rather than turning a finished transaction into a
// reported cancellation.
func (a *Action) stepCompletingLocked(ctx context.Context) StepResult {
	saveSuggested := a.saveSuggestedPending
	a.saveSuggestedPending = false
	if a.user != nil && a.user.SaveSuggested() {
		saveSuggested = true
	}

	a.state = StateDone
	a.status = models.StatusSuccess
	return StepResult{Outcome: OutcomeDone, Progress: 100, SaveSuggested: saveSuggested}
}

// classifyIdentityErr maps an error from the identity package to the
// Action-level [ErrorKind] the dispatcher surfaces to the embedder.
func classifyIdentityErr(err error) ErrorKind {
	switch {
	case errors.Is(err, identity.ErrBadPassword):
		return ErrorKindBadPassword
	case errors.Is(err, identity.ErrBadRescueCode):
		return ErrorKindBadRescueCode
	case errors.Is(err, identity.ErrBadHint):
		return ErrorKindBadHint
	case errors.Is(err, identity.ErrUnsupportedVersion):
		return ErrorKindUnsupportedVersion
	case errors.Is(err, identity.ErrCorrupt), errors.Is(err, identity.ErrNoUserAccessBlock), errors.Is(err, identity.ErrNoRescueBlock):
		return ErrorKindCorrupt
	default:
		return ErrorKindCorrupt
	}
}
