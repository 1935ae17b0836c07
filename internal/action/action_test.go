// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package action

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-sqrl/internal/encoding"
	"github.com/MKhiriev/go-sqrl/internal/entropy"
	"github.com/MKhiriev/go-sqrl/internal/identity"
	"github.com/MKhiriev/go-sqrl/internal/workers"
	"github.com/MKhiriev/go-sqrl/models"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	pool, err := entropy.NewPool()
	if err != nil {
		t.Fatalf("entropy.NewPool: %v", err)
	}
	t.Cleanup(pool.Close)

	return Deps{
		Pool:        workers.NewPool(4),
		EntropyPool: pool,
		GenerateParams: identity.GenerateParams{
			Log2N:              10,
			PasswordIterations: 1,
			RescueIterations:   1,
			HintLength:         4,
			IdleTimeoutMinutes: 15,
		},
		SendTimeout: 5 * time.Second,
	}
}

// runToSuspend drives Step until it suspends with a non-AwaitNone callback
// or reaches DONE, failing the test if it never does within a generous
// number of iterations (guards against an accidental infinite WORKING loop
// in a test, not production code).
func runToSuspend(t *testing.T, a *Action) StepResult {
	t.Helper()
	for i := 0; i < 10000; i++ {
		r := a.Step(context.Background())
		if r.Outcome == OutcomeDone || r.Await != AwaitNone {
			return r
		}
	}
	t.Fatalf("action: Step never suspended on a callback or finished")
	return StepResult{}
}

func generateIdentity(t *testing.T, deps Deps, password string) (*identity.User, []byte) {
	t.Helper()
	user, _, err := identity.Generate(context.Background(), deps.EntropyPool, password, deps.GenerateParams)
	if err != nil {
		t.Fatalf("identity.Generate: %v", err)
	}
	return user, user.Container().Emit()
}

func TestIdentityLoadSucceedsWithPassword(t *testing.T) {
	deps := testDeps(t)
	_, s4 := generateIdentity(t, deps, "correct horse")

	a := New("a1", models.ActionIdentityLoad, deps)
	a.SetSource(s4)

	r := runToSuspend(t, a)
	if r.Await != AwaitCredential || r.CredentialKind != models.CredentialPassword {
		t.Fatalf("expected AwaitCredential(password), got %+v", r)
	}

	if err := a.SupplyCredential(models.CredentialPassword, []byte("correct horse")); err != nil {
		t.Fatalf("SupplyCredential: %v", err)
	}

	r = runToSuspend(t, a)
	if r.Outcome != OutcomeDone {
		t.Fatalf("expected OutcomeDone, got %+v (err=%v)", r, a.Err())
	}
	if a.Status() != models.StatusSuccess {
		t.Fatalf("expected success, got %v (err=%v)", a.Status(), a.Err())
	}
	if a.User() == nil {
		t.Fatal("expected a bound user after successful load")
	}
}

func TestIdentityLoadRetriesBadPasswordThenFails(t *testing.T) {
	deps := testDeps(t)
	_, s4 := generateIdentity(t, deps, "correct horse")

	a := New("a1", models.ActionIdentityLoad, deps)
	a.SetSource(s4)

	for attempt := 0; attempt < maxCredentialAttempts; attempt++ {
		r := runToSuspend(t, a)
		if r.Outcome == OutcomeDone {
			t.Fatalf("action finished early on attempt %d: %+v", attempt, r)
		}
		if r.Await != AwaitCredential || r.CredentialKind != models.CredentialPassword {
			t.Fatalf("attempt %d: expected AwaitCredential(password), got %+v", attempt, r)
		}
		if err := a.SupplyCredential(models.CredentialPassword, []byte("wrong password")); err != nil {
			t.Fatalf("SupplyCredential: %v", err)
		}
	}

	r := runToSuspend(t, a)
	if r.Outcome != OutcomeDone {
		t.Fatalf("expected OutcomeDone after exhausting retries, got %+v", r)
	}
	if a.Status() != models.StatusFailed {
		t.Fatalf("expected failed status, got %v", a.Status())
	}
	if a.ErrorKind() != ErrorKindBadPassword {
		t.Fatalf("expected ErrorKindBadPassword, got %v", a.ErrorKind())
	}
}

func TestIdentityGenerateProducesRescueCodeAndSaveSuggested(t *testing.T) {
	deps := testDeps(t)

	a := New("a1", models.ActionIdentityGenerate, deps)

	r := runToSuspend(t, a)
	if r.Await != AwaitCredential || r.CredentialKind != models.CredentialPassword {
		t.Fatalf("expected AwaitCredential(password), got %+v", r)
	}
	if err := a.SupplyCredential(models.CredentialPassword, []byte("a new password")); err != nil {
		t.Fatalf("SupplyCredential: %v", err)
	}

	r = runToSuspend(t, a)
	if r.Outcome != OutcomeDone {
		t.Fatalf("expected OutcomeDone, got %+v (err=%v)", r, a.Err())
	}
	if !r.SaveSuggested {
		t.Fatal("expected SaveSuggested on a freshly generated identity")
	}
	if a.RescueCode() == "" {
		t.Fatal("expected a non-empty rescue code")
	}
	if a.User() == nil {
		t.Fatal("expected a bound user after generation")
	}
}

func TestChangePasswordRequiresBothCredentialsInOrder(t *testing.T) {
	deps := testDeps(t)
	user, _ := generateIdentity(t, deps, "old password")

	a := New("a1", models.ActionChangePassword, deps)
	if err := a.SupplyUser(user); err == nil {
		t.Fatal("expected SupplyUser to fail before SELECT_USER is requested")
	}

	r := runToSuspend(t, a)
	if r.Await != AwaitSelectUser {
		t.Fatalf("expected AwaitSelectUser, got %+v", r)
	}
	if err := a.SupplyUser(user); err != nil {
		t.Fatalf("SupplyUser: %v", err)
	}

	r = runToSuspend(t, a)
	if r.Await != AwaitCredential || r.CredentialKind != models.CredentialPassword {
		t.Fatalf("expected AwaitCredential(password), got %+v", r)
	}
	if err := a.SupplyCredential(models.CredentialNewPassword, []byte("x")); err == nil {
		t.Fatal("expected supplying the wrong credential kind to be rejected")
	}
	if err := a.SupplyCredential(models.CredentialPassword, []byte("old password")); err != nil {
		t.Fatalf("SupplyCredential: %v", err)
	}

	r = runToSuspend(t, a)
	if r.Await != AwaitCredential || r.CredentialKind != models.CredentialNewPassword {
		t.Fatalf("expected AwaitCredential(new_password), got %+v", r)
	}
	if err := a.SupplyCredential(models.CredentialNewPassword, []byte("new password")); err != nil {
		t.Fatalf("SupplyCredential: %v", err)
	}

	r = runToSuspend(t, a)
	if r.Outcome != OutcomeDone {
		t.Fatalf("expected OutcomeDone, got %+v (err=%v)", r, a.Err())
	}
	if a.Status() != models.StatusSuccess {
		t.Fatalf("expected success, got %v (err=%v)", a.Status(), a.Err())
	}
	if len(a.S4()) == 0 {
		t.Fatal("expected a non-empty S4 byte stream after change-password")
	}
}

func TestAuthQueryAcceptsHintInPlaceOfPassword(t *testing.T) {
	deps := testDeps(t)
	user, _ := generateIdentity(t, deps, "correct horse")
	if err := user.HintLock("correct horse"); err != nil {
		t.Fatalf("HintLock: %v", err)
	}
	if !user.IsHintLocked() {
		t.Fatal("expected user to be hint-locked")
	}

	a := New("a1", models.ActionAuthQuery, deps)
	if err := a.SetTargetURL("sqrl://example.com/sqrl?nut=abc123"); err != nil {
		t.Fatalf("SetTargetURL: %v", err)
	}

	r := runToSuspend(t, a)
	if r.Await != AwaitSelectUser {
		t.Fatalf("expected AwaitSelectUser, got %+v", r)
	}
	if err := a.SupplyUser(user); err != nil {
		t.Fatalf("SupplyUser: %v", err)
	}

	r = runToSuspend(t, a)
	if r.Await != AwaitCredential || r.CredentialKind != models.CredentialPassword {
		t.Fatalf("expected AwaitCredential(password), got %+v", r)
	}
	if err := a.SupplyCredential(models.CredentialHint, []byte("horse")); err != nil {
		t.Fatalf("SupplyCredential(hint): %v", err)
	}

	r = runToSuspend(t, a)
	if r.Await != AwaitSend {
		t.Fatalf("expected AwaitSend after hint-unlock, got %+v (err=%v)", r, a.Err())
	}
	if len(r.SendPayload) == 0 {
		t.Fatal("expected a non-empty SEND payload")
	}
	if user.IsHintLocked() {
		t.Fatal("expected hint-unlock to have cleared the hint lock")
	}
}

func TestAltIdentityChangesSiteKey(t *testing.T) {
	deps := testDeps(t)
	user, _ := generateIdentity(t, deps, "correct horse")

	sendPayloadFor := func(alt string) []byte {
		a := New("a-"+alt, models.ActionAuthQuery, deps)
		if err := a.SetTargetURL("sqrl://example.com/sqrl?nut=abc123"); err != nil {
			t.Fatalf("SetTargetURL: %v", err)
		}
		a.PresetUser(user)
		a.RequestAltSelection()

		r := runToSuspend(t, a)
		if r.Await != AwaitSelectAlt {
			t.Fatalf("expected AwaitSelectAlt, got %+v", r)
		}
		if err := a.SupplyAltIdentity(alt); err != nil {
			t.Fatalf("SupplyAltIdentity: %v", err)
		}

		r = runToSuspend(t, a)
		if r.Await != AwaitCredential {
			t.Fatalf("expected AwaitCredential, got %+v", r)
		}
		if err := a.SupplyCredential(models.CredentialPassword, []byte("correct horse")); err != nil {
			t.Fatalf("SupplyCredential: %v", err)
		}

		r = runToSuspend(t, a)
		if r.Await != AwaitSend {
			t.Fatalf("expected AwaitSend, got %+v (err=%v)", r, a.Err())
		}
		return r.SendPayload
	}

	defaultPayload := sendPayloadFor("")
	altPayload := sendPayloadFor("alice")

	if idkLine(t, defaultPayload) == idkLine(t, altPayload) {
		t.Fatal("expected the alternate identity to present a different site key")
	}
}

func idkLine(t *testing.T, payload []byte) string {
	t.Helper()
	raw, err := encoding.Base64URLDecode(string(payload))
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	for _, line := range strings.Split(string(raw), "\n") {
		if strings.HasPrefix(line, "idk=") {
			return line
		}
	}
	t.Fatal("payload has no idk line")
	return ""
}

func TestSupplyAltIdentityRejectedWhenNotRequested(t *testing.T) {
	deps := testDeps(t)
	a := New("a1", models.ActionAuthQuery, deps)

	if err := a.SupplyAltIdentity("alice"); err != ErrNotAwaitingAlt {
		t.Fatalf("expected ErrNotAwaitingAlt, got %v", err)
	}
}

func TestCancelDuringCredentialWaitEndsCancelled(t *testing.T) {
	deps := testDeps(t)
	_, s4 := generateIdentity(t, deps, "correct horse")

	a := New("a1", models.ActionIdentityLoad, deps)
	a.SetSource(s4)

	r := runToSuspend(t, a)
	if r.Await != AwaitCredential {
		t.Fatalf("expected AwaitCredential, got %+v", r)
	}

	a.RequestCancel()
	r = a.Step(context.Background())
	if r.Outcome != OutcomeDone {
		t.Fatalf("expected OutcomeDone after cancel, got %+v", r)
	}
	if a.Status() != models.StatusCancelled {
		t.Fatalf("expected cancelled status, got %v", a.Status())
	}
}

func TestSupplyCredentialRejectsWrongState(t *testing.T) {
	deps := testDeps(t)
	a := New("a1", models.ActionIdentityGenerate, deps)

	if err := a.SupplyCredential(models.CredentialPassword, []byte("x")); err == nil {
		t.Fatal("expected SupplyCredential to fail before AUTHENTICATING is reached")
	}
}
