// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"github.com/MKhiriev/go-sqrl/internal/action"
	"github.com/MKhiriev/go-sqrl/internal/identity"
	"github.com/MKhiriev/go-sqrl/models"
)

// model implements [internal/client.Hooks]. Every method below runs on
// the Client's dispatcher goroutine; none may block, and none may touch
// Bubble Tea model state directly — each forwards a typed message to the
// program, which marshals it onto Bubble Tea's own goroutine for
// handling in [model.Update].

func (m *model) OnLoop() {}

func (m *model) OnSaveSuggested(user *identity.User) {
	m.program.Send(saveSuggestedMsg{user: user})
}

func (m *model) OnSelectUser(act *action.Action) {
	m.program.Send(selectUserMsg{act: act})
}

func (m *model) OnSelectAlt(act *action.Action) {
	m.program.Send(selectAltMsg{act: act})
}

func (m *model) OnProgress(act *action.Action, percent int) {
	m.program.Send(progressMsg{act: act, percent: percent})
}

func (m *model) OnAuthRequired(act *action.Action, kind models.CredentialKind) {
	m.program.Send(authRequiredMsg{act: act, kind: kind})
}

func (m *model) OnSend(act *action.Action, url string, payload []byte) {
	m.program.Send(sendMsg{act: act, url: url, payload: payload})
}

func (m *model) OnAsk(act *action.Action, message, button1, button2 string) {
	m.program.Send(askMsg{act: act, message: message, button1: button1, button2: button2})
}

func (m *model) OnActionComplete(act *action.Action) {
	m.program.Send(actionCompleteMsg{act: act})
}
