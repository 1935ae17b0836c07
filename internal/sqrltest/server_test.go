// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package sqrltest

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-sqrl/internal/action"
	"github.com/MKhiriev/go-sqrl/internal/entropy"
	"github.com/MKhiriev/go-sqrl/internal/identity"
	"github.com/MKhiriev/go-sqrl/internal/transport"
	"github.com/MKhiriev/go-sqrl/internal/workers"
	"github.com/MKhiriev/go-sqrl/models"
)

func stepUntil(t *testing.T, a *action.Action, want action.Await) action.StepResult {
	t.Helper()
	for i := 0; i < 10000; i++ {
		r := a.Step(context.Background())
		if r.Outcome == action.OutcomeDone || r.Await == want {
			return r
		}
	}
	t.Fatal("action never reached the expected await/done state")
	return action.StepResult{}
}

func stepUntilSendOrDone(t *testing.T, a *action.Action) action.StepResult {
	t.Helper()
	for i := 0; i < 10000; i++ {
		r := a.Step(context.Background())
		if r.Outcome == action.OutcomeDone || r.Await == action.AwaitSend {
			return r
		}
	}
	t.Fatal("action never reached the next send or finished")
	return action.StepResult{}
}

// TestIdentQueryEndToEndAgainstFakeSite drives a full query-then-ident
// exchange against the fake site through the real [transport.Transport],
// exercising the signed-command encode/decode round trip in both
// directions.
func TestIdentQueryEndToEndAgainstFakeSite(t *testing.T) {
	site := NewServer()
	defer site.Close()

	pool, err := entropy.NewPool()
	if err != nil {
		t.Fatalf("entropy.NewPool: %v", err)
	}
	defer pool.Close()

	deps := action.Deps{
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

	user, _, err := identity.Generate(context.Background(), pool, "correct horse", deps.GenerateParams)
	if err != nil {
		t.Fatalf("identity.Generate: %v", err)
	}

	tr := transport.New(transport.Config{})

	a := action.New("a1", models.ActionAuthIdent, deps)
	nutURL := site.NewNut()
	if err := a.SetTargetURL(nutURL); err != nil {
		t.Fatalf("SetTargetURL: %v", err)
	}
	a.PresetUser(user)

	r := stepUntil(t, a, action.AwaitCredential)
	if r.Await != action.AwaitCredential || r.CredentialKind != models.CredentialPassword {
		t.Fatalf("expected AwaitCredential(password), got %+v", r)
	}
	if err := a.SupplyCredential(models.CredentialPassword, []byte("correct horse")); err != nil {
		t.Fatalf("SupplyCredential: %v", err)
	}

	// An ident transaction issues two commands: the opening query, then
	// the ident itself against the reply's qry endpoint.
	var idk string
	r = stepUntil(t, a, action.AwaitSend)
	for round := 0; r.Outcome != action.OutcomeDone; round++ {
		if round >= 4 {
			t.Fatalf("transaction did not finish within 4 round-trips")
		}
		if r.Await != action.AwaitSend {
			t.Fatalf("round %d: expected AwaitSend, got %+v (err=%v)", round, r, a.Err())
		}

		cmd, err := decodeClientBody(string(r.SendPayload))
		if err != nil {
			t.Fatalf("round %d: decode payload: %v", round, err)
		}
		idk = cmd.idk

		reply, sendErr := tr.Send(context.Background(), r.SendURL, r.SendPayload)
		if err := a.SupplyResponse(reply, sendErr); err != nil {
			t.Fatalf("round %d: SupplyResponse: %v", round, err)
		}
		r = stepUntilSendOrDone(t, a)
	}

	if a.Status() != models.StatusSuccess {
		t.Fatalf("expected success, got %v (err=%v)", a.Status(), a.Err())
	}
	if !site.IsIdentified(idk) {
		t.Fatal("expected the fake site to have registered the identity after ident")
	}
}
