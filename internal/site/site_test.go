// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package site

import "testing"

func TestAction_AltIdentity_DefaultEmpty(t *testing.T) {
	a := New()
	if got := a.AltIdentity(); got != "" {
		t.Fatalf("expected empty alt identity, got %q", got)
	}
}

func TestAction_SetAltIdentity_OwnershipSurvivesReassignment(t *testing.T) {
	a := New()
	a.SetAltIdentity("alice")
	if got := a.AltIdentity(); got != "alice" {
		t.Fatalf("expected %q, got %q", "alice", got)
	}

	// Reassigning must not panic or corrupt state, unlike the source's
	// double-free: altIdentity is plain Go string data owned solely here.
	a.SetAltIdentity("bob")
	if got := a.AltIdentity(); got != "bob" {
		t.Fatalf("expected %q, got %q", "bob", got)
	}

	a.SetAltIdentity("")
	if got := a.AltIdentity(); got != "" {
		t.Fatalf("expected empty after clearing, got %q", got)
	}
}

func TestAction_Nonce(t *testing.T) {
	a := New()
	a.SetNonce("abc123")
	if got := a.Nonce(); got != "abc123" {
		t.Fatalf("expected %q, got %q", "abc123", got)
	}
}

func TestAction_PendingAsk(t *testing.T) {
	a := New()
	if _, ok := a.PendingAsk(); ok {
		t.Fatal("expected no pending ask initially")
	}

	a.SetPendingAsk(Ask{Message: "Continue?", Button1: "Yes", Button2: "No"})
	ask, ok := a.PendingAsk()
	if !ok {
		t.Fatal("expected a pending ask")
	}
	if ask.Message != "Continue?" || ask.Button1 != "Yes" || ask.Button2 != "No" {
		t.Fatalf("unexpected ask contents: %+v", ask)
	}

	a.ClearAsk()
	if _, ok := a.PendingAsk(); ok {
		t.Fatal("expected no pending ask after clear")
	}
}
