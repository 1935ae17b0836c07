// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-sqrl/internal/action"
	"github.com/MKhiriev/go-sqrl/internal/mock"
	"github.com/MKhiriev/go-sqrl/models"
)

// TestClientIdentityGenerateWithMockHooks exercises the same
// identity_generate transaction as TestClientIdentityGenerateEndToEnd,
// but asserts on the Hooks call sequence with a generated mock instead of
// a hand-scripted fake: gomock.InOrder pins OnAuthRequired ahead of
// OnSaveSuggested and OnActionComplete, which a scripted fake can't
// express as a standalone assertion.
func TestClientIdentityGenerateWithMockHooks(t *testing.T) {
	deps := testClientDeps(t)

	ctrl := gomock.NewController(t)
	hooks := mock.NewMockHooks(ctrl)

	var c *Client
	done := make(chan struct{}, 1)

	hooks.EXPECT().OnLoop().AnyTimes()
	hooks.EXPECT().OnProgress(gomock.Any(), gomock.Any()).AnyTimes()

	authRequired := hooks.EXPECT().
		OnAuthRequired(gomock.Any(), models.CredentialPassword).
		Do(func(act *action.Action, _ models.CredentialKind) {
			if err := c.Authenticate(act.ID(), models.CredentialPassword, []byte("a new password")); err != nil {
				t.Errorf("Authenticate: %v", err)
			}
		})
	saveSuggested := hooks.EXPECT().OnSaveSuggested(gomock.Any())
	actionComplete := hooks.EXPECT().
		OnActionComplete(gomock.Any()).
		Do(func(act *action.Action) {
			if act.Status() != models.StatusSuccess {
				t.Errorf("expected success, got %v (err=%v)", act.Status(), act.Err())
			}
			done <- struct{}{}
		})
	gomock.InOrder(authRequired, saveSuggested, actionComplete)

	var err error
	c, err = New(hooks, deps, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Shutdown()
	driveLoop(t, c)

	if _, err := c.Submit(models.ActionIdentityGenerate, SubmitOptions{}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for OnActionComplete")
	}
}
