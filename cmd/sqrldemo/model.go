// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atotto/clipboard"

	"github.com/MKhiriev/go-sqrl/internal/action"
	"github.com/MKhiriev/go-sqrl/internal/client"
	"github.com/MKhiriev/go-sqrl/internal/identity"
	"github.com/MKhiriev/go-sqrl/internal/logger"
	"github.com/MKhiriev/go-sqrl/internal/transport"
	"github.com/MKhiriev/go-sqrl/models"
)

const maxLogLines = 300

// loopInterval paces this demo's calls to [client.Client.Loop]. Actions
// never block inside Step, so this only bounds callback latency, not
// cryptographic work.
const loopInterval = 20 * time.Millisecond

// loopTickCmd schedules the next loopTickMsg; Update reissues it after
// every tick so the drive loop runs for as long as the program does.
func loopTickCmd() tea.Cmd {
	return tea.Tick(loopInterval, func(time.Time) tea.Msg { return loopTickMsg{} })
}

// uiState names which part of the screen is currently driving keyboard
// input: the top-level menu, or a prompt raised either by the operator's
// own menu choice or by a Hooks callback from the dispatcher.
type uiState int

const (
	stateMenu uiState = iota
	statePrompt
	stateAsk
)

// promptKind identifies what a pending [request] is asking the operator
// for, so [model.submitPrompt] knows how to interpret the input line.
type promptKind int

const (
	promptLoadPath promptKind = iota
	promptSavePath
	promptCredential
	promptSelectUser
	promptAsk
	promptPickUserForRekey
	promptPickUserForPassword
	promptPickUserForAuth
	promptPickUserForSave
	promptAuthCommand
	promptAuthURL
	promptAltIdentity
)

// request is one pending interaction: either raised by a Hooks callback
// (act is set) or staged locally by a menu-driven wizard (rekey, change
// password, auth).
type request struct {
	kind promptKind

	act      *action.Action
	credKind models.CredentialKind

	askMessage, askButton1, askButton2 string

	saveUser *identity.User

	stagedUser *identity.User
	stagedType models.ActionType
}

// model is the sole Bubble Tea model for sqrldemo. It also implements
// [internal/client.Hooks] (see hooks.go); the Client calls those methods
// from its own dispatcher goroutine, and they do nothing but forward a
// message into this same model via [model.program.Send].
type model struct {
	deps      action.Deps
	transport transport.Transport
	log       *logger.Logger
	buildInfo models.AppBuildInfo

	client  *client.Client
	program *tea.Program

	events []string

	state   uiState
	current request
	queue   []request

	input textinput.Model

	// loadPaths remembers the file path an identity-load Action read
	// from, keyed by Action ID, so that once the load completes the
	// resulting User's save path is known without asking again.
	loadPaths map[string]string
	// paths remembers the last file path a User was loaded from or saved
	// to, keyed by [identity.User.GetUniqueId], so [model].handleSaveSuggested
	// can persist automatically instead of prompting every time.
	paths map[string]string
	// progress holds each in-flight Action's latest advisory completion
	// estimate, keyed by Action ID, rendered as a status line.
	progress map[string]int

	width int
}

func newModel(deps action.Deps, tr transport.Transport, log *logger.Logger, buildInfo models.AppBuildInfo) *model {
	ti := textinput.New()
	ti.Placeholder = ""
	ti.CharLimit = 4096

	return &model{
		deps:      deps,
		transport: tr,
		log:       log,
		buildInfo: buildInfo,
		state:     stateMenu,
		input:     ti,
		loadPaths: make(map[string]string),
		paths:     make(map[string]string),
		progress:  make(map[string]int),
	}
}

func (m *model) Init() tea.Cmd {
	return loopTickCmd()
}

// logf appends one line to the scrollback event log shown on screen,
// trimming the oldest lines once maxLogLines is exceeded, and mirrors the
// same line to the structured file logger so a session can be
// reconstructed after the TUI screen itself is gone.
func (m *model) logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	m.events = append(m.events, line)
	if len(m.events) > maxLogLines {
		m.events = m.events[len(m.events)-maxLogLines:]
	}
	if m.log != nil {
		m.log.Debug().Msg(line)
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(v)

	case saveSuggestedMsg:
		m.handleSaveSuggested(v.user)
		return m, nil

	case selectUserMsg:
		m.handleSelectUser(v.act)
		return m, nil

	case authRequiredMsg:
		m.enqueue(request{kind: promptCredential, act: v.act, credKind: v.kind})
		return m, nil

	case selectAltMsg:
		m.enqueue(request{kind: promptAltIdentity, act: v.act})
		return m, nil

	case progressMsg:
		m.progress[v.act.ID()] = v.percent
		return m, nil

	case askMsg:
		m.enqueue(request{kind: promptAsk, act: v.act, askMessage: v.message, askButton1: v.button1, askButton2: v.button2})
		return m, nil

	case sendMsg:
		m.logf("SEND  %s -> %s (%d bytes)", v.act.ID()[:8], v.url, len(v.payload))
		return m, m.sendCmd(v.act, v.url, v.payload)

	case sendResultMsg:
		if v.err != nil {
			m.logf("SEND  %s: transport error: %v", v.actionID[:8], v.err)
		} else {
			m.logf("SEND  %s: received %d bytes", v.actionID[:8], len(v.reply))
		}
		if err := m.client.Respond(v.actionID, v.reply, v.err); err != nil {
			m.logf("respond error: %v", err)
		}
		return m, nil

	case actionCompleteMsg:
		m.handleActionComplete(v.act)
		return m, nil

	case loopTickMsg:
		// Loop runs inside a command, off Bubble Tea's own goroutine: the
		// Hooks it invokes call program.Send, which does not return until
		// the event loop receives the message, so it must not run in Update.
		return m, func() tea.Msg {
			m.client.Loop()
			return loopTickCmd()()
		}
	}

	return m, nil
}

// enqueue shows req immediately if the operator isn't mid-prompt,
// otherwise appends it to the FIFO so it is shown once the current one
// is answered; this is what keeps two concurrent Actions' callbacks from
// stepping on each other's input the way spec's per-Action ordering
// guarantee requires (see internal/client's ordering notes).
func (m *model) enqueue(req request) {
	if m.state == stateMenu {
		m.showRequest(req)
		return
	}
	m.queue = append(m.queue, req)
}

func (m *model) showRequest(req request) {
	m.current = req
	switch req.kind {
	case promptAsk:
		m.state = stateAsk
		m.logf("ASK   %s: %s [%s / %s]", req.act.ID()[:8], req.askMessage, req.askButton1, req.askButton2)
	case promptSelectUser:
		users := m.client.Users()
		var b strings.Builder
		for i, u := range users {
			fmt.Fprintf(&b, "\n  [%d] %s", i, shortID(u.GetUniqueId()))
		}
		m.logf("SELECT %s: choose an identity:%s", req.act.ID()[:8], b.String())
		m.beginTextPrompt(req, fmt.Sprintf("%s - identity index: ", req.act.ID()[:8]))
	case promptCredential:
		m.beginTextPrompt(req, fmt.Sprintf("%s requires %s: ", req.act.ID()[:8], req.credKind))
		if req.credKind == models.CredentialPassword || req.credKind == models.CredentialNewPassword {
			m.input.EchoMode = textinput.EchoPassword
		}
	case promptSavePath:
		m.beginTextPrompt(req, fmt.Sprintf("save path for identity %s: ", shortID(req.saveUser.GetUniqueId())))
	case promptAltIdentity:
		m.beginTextPrompt(req, fmt.Sprintf("%s alternate identity (empty for default): ", req.act.ID()[:8]))
	}
}

func (m *model) beginTextPrompt(req request, label string) {
	m.current = req
	m.state = statePrompt
	m.input.Prompt = label
	m.input.EchoMode = textinput.EchoNormal
	m.input.SetValue("")
	m.input.Focus()
}

// advance shows the next queued request, if any, or returns to the menu.
func (m *model) advance() {
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		m.showRequest(next)
		return
	}
	m.state = stateMenu
	m.input.Blur()
}

func (m *model) updateKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if k.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case stateMenu:
		return m.updateMenuKey(k)
	case stateAsk:
		return m.updateAskKey(k)
	default:
		return m.updatePromptKey(k)
	}
}

func (m *model) updateMenuKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, keys.quit):
		return m, tea.Quit
	case key.Matches(k, keys.generate):
		m.startGenerate()
	case key.Matches(k, keys.load):
		m.beginTextPrompt(request{kind: promptLoadPath}, "path to identity file: ")
	case key.Matches(k, keys.rekey):
		m.startPickUser(promptPickUserForRekey, "rekey")
	case key.Matches(k, keys.password):
		m.startPickUser(promptPickUserForPassword, "change password")
	case key.Matches(k, keys.command):
		m.startPickUser(promptPickUserForAuth, "auth command")
	case key.Matches(k, keys.save):
		m.startPickUser(promptPickUserForSave, "save")
	}
	return m, nil
}

func (m *model) updateAskKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, keys.esc):
		_ = m.client.Answer(m.current.act.ID(), -1)
		m.logf("ASK   %s: cancelled", m.current.act.ID()[:8])
		m.advance()
	case k.String() == "1" || k.String() == "y":
		_ = m.client.Answer(m.current.act.ID(), 0)
		m.logf("ASK   %s: answered %q", m.current.act.ID()[:8], m.current.askButton1)
		m.advance()
	case k.String() == "2" || k.String() == "n":
		_ = m.client.Answer(m.current.act.ID(), 1)
		m.logf("ASK   %s: answered %q", m.current.act.ID()[:8], m.current.askButton2)
		m.advance()
	}
	return m, nil
}

func (m *model) updatePromptKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, keys.esc):
		m.logf("cancelled prompt")
		m.advance()
		return m, nil
	case key.Matches(k, keys.enter):
		m.submitPrompt(strings.TrimSpace(m.input.Value()))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(k)
	return m, cmd
}

// startGenerate submits a fresh identity-generation Action; its own
// password requirement arrives through the normal AUTH_REQUIRED hook, so
// nothing else needs staging here.
func (m *model) startGenerate() {
	act, err := m.client.Submit(models.ActionIdentityGenerate, client.SubmitOptions{})
	if err != nil {
		m.logf("submit error: %v", err)
		return
	}
	m.logf("submitted identity_generate %s", act.ID()[:8])
}

func (m *model) startPickUser(kind promptKind, label string) {
	users := m.client.Users()
	if len(users) == 0 {
		m.logf("%s: no identity loaded yet (use g/l first)", label)
		return
	}
	if len(users) == 1 {
		m.current = request{kind: kind, stagedUser: users[0]}
		m.continueWizard()
		return
	}

	var b strings.Builder
	for i, u := range users {
		fmt.Fprintf(&b, "\n  [%d] %s", i, shortID(u.GetUniqueId()))
	}
	m.logf("%s: choose an identity:%s", label, b.String())
	m.beginTextPrompt(request{kind: kind}, fmt.Sprintf("%s - identity index: ", label))
}

func shortID(uniqueID string) string {
	if len(uniqueID) <= 12 {
		return uniqueID
	}
	return uniqueID[:12] + "..."
}

// submitPrompt interprets the current prompt's answer and either
// completes the interaction or advances a multi-step wizard.
func (m *model) submitPrompt(value string) {
	req := m.current

	switch req.kind {
	case promptLoadPath:
		m.submitLoadPath(value)
		m.advance()

	case promptCredential:
		if err := m.client.Authenticate(req.act.ID(), req.credKind, []byte(value)); err != nil {
			m.logf("authenticate error: %v", err)
		} else {
			m.logf("AUTH  %s: %s supplied", req.act.ID()[:8], req.credKind)
		}
		m.advance()

	case promptSelectUser:
		m.submitSelectUserIndex(req.act, value)
		m.advance()

	case promptAltIdentity:
		if err := m.client.SelectAlt(req.act.ID(), value); err != nil {
			m.logf("select alt error: %v", err)
		} else if value != "" {
			m.logf("ALT   %s: presenting as %q", req.act.ID()[:8], value)
		}
		m.advance()

	case promptSavePath:
		m.submitSavePath(req.saveUser, value)
		m.advance()

	case promptPickUserForRekey, promptPickUserForPassword, promptPickUserForAuth, promptPickUserForSave:
		idx, err := strconv.Atoi(value)
		users := m.client.Users()
		if err != nil || idx < 0 || idx >= len(users) {
			m.logf("invalid identity index %q", value)
			m.advance()
			return
		}
		m.current = request{kind: req.kind, stagedUser: users[idx]}
		m.continueWizard()

	case promptAuthCommand:
		typ, ok := parseActionType(value)
		if !ok {
			m.logf("unrecognized command %q (want query/ident/disable/enable/remove)", value)
			m.advance()
			return
		}
		m.current = request{kind: promptAuthURL, stagedUser: req.stagedUser, stagedType: typ}
		m.continueWizard()

	case promptAuthURL:
		m.submitAuthURL(req.stagedUser, req.stagedType, value)
		m.advance()
	}
}

// continueWizard drives the next step of a locally-staged flow
// (rekey / change-password / auth-command) after the operator answers
// the previous step; these flows only ever start from an idle menu, so
// there is no queue to drain here.
func (m *model) continueWizard() {
	switch m.current.kind {
	case promptPickUserForRekey:
		m.submitRekey(m.current.stagedUser)
		m.advance()
	case promptPickUserForPassword:
		m.submitChangePassword(m.current.stagedUser)
		m.advance()
	case promptPickUserForAuth:
		m.beginTextPrompt(request{kind: promptAuthCommand, stagedUser: m.current.stagedUser},
			"command (query/ident/disable/enable/remove): ")
	case promptAuthURL:
		m.beginTextPrompt(m.current, "target sqrl:// URL: ")
	case promptPickUserForSave:
		m.beginTextPrompt(request{kind: promptSavePath, saveUser: m.current.stagedUser}, "save path: ")
	}
}

func parseActionType(s string) (models.ActionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "query":
		return models.ActionAuthQuery, true
	case "ident":
		return models.ActionAuthIdent, true
	case "disable":
		return models.ActionAuthDisable, true
	case "enable":
		return models.ActionAuthEnable, true
	case "remove":
		return models.ActionAuthRemove, true
	default:
		return models.ActionUnspecified, false
	}
}

func (m *model) submitLoadPath(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		m.logf("read %s: %v", path, err)
		return
	}
	act, err := m.client.Submit(models.ActionIdentityLoad, client.SubmitOptions{Source: data})
	if err != nil {
		m.logf("submit error: %v", err)
		return
	}
	m.loadPaths[act.ID()] = path
	m.logf("submitted identity_load %s from %s", act.ID()[:8], path)
}

func (m *model) submitSelectUserIndex(act *action.Action, value string) {
	users := m.client.Users()
	idx, err := strconv.Atoi(value)
	if err != nil || idx < 0 || idx >= len(users) {
		m.logf("invalid identity index %q", value)
		return
	}
	uniqueID := users[idx].GetUniqueId()
	if err := m.client.SelectUser(act.ID(), uniqueID); err != nil {
		m.logf("select user error: %v", err)
		return
	}
	m.logf("SELECT %s: bound identity %s", act.ID()[:8], shortID(uniqueID))
}

func (m *model) submitSavePath(user *identity.User, path string) {
	if err := m.writeIdentity(user, path); err != nil {
		m.logf("save %s: %v", path, err)
		return
	}
	m.paths[user.GetUniqueId()] = path
	m.logf("saved identity %s to %s", shortID(user.GetUniqueId()), path)
}

func (m *model) writeIdentity(user *identity.User, path string) error {
	text := identity.EncodeText(user.Container().Emit())
	return os.WriteFile(path, []byte(text), 0o600)
}

func (m *model) submitRekey(user *identity.User) {
	act, err := m.client.Submit(models.ActionRekey, client.SubmitOptions{User: user})
	if err != nil {
		m.logf("submit error: %v", err)
		return
	}
	m.logf("submitted rekey %s for %s", act.ID()[:8], shortID(user.GetUniqueId()))
}

func (m *model) submitChangePassword(user *identity.User) {
	act, err := m.client.Submit(models.ActionChangePassword, client.SubmitOptions{User: user})
	if err != nil {
		m.logf("submit error: %v", err)
		return
	}
	m.logf("submitted change_password %s for %s", act.ID()[:8], shortID(user.GetUniqueId()))
}

func (m *model) submitAuthURL(user *identity.User, typ models.ActionType, url string) {
	act, err := m.client.Submit(typ, client.SubmitOptions{User: user, TargetURL: url, RequestAltIdentity: true})
	if err != nil {
		m.logf("submit error: %v", err)
		return
	}
	m.logf("submitted %s %s for %s -> %s", typ, act.ID()[:8], shortID(user.GetUniqueId()), url)
}

func (m *model) handleSaveSuggested(user *identity.User) {
	uid := user.GetUniqueId()
	if path, ok := m.paths[uid]; ok {
		if err := m.writeIdentity(user, path); err != nil {
			m.logf("auto-save %s: %v", path, err)
			return
		}
		m.logf("SAVE  %s: re-saved to %s", shortID(uid), path)
		return
	}
	m.enqueue(request{kind: promptSavePath, saveUser: user})
}

func (m *model) handleSelectUser(act *action.Action) {
	users := m.client.Users()
	switch len(users) {
	case 0:
		m.logf("SELECT %s: no identity loaded; cancelling (load or generate one first)", act.ID()[:8])
		_ = m.client.Cancel(act.ID())
	case 1:
		if err := m.client.SelectUser(act.ID(), users[0].GetUniqueId()); err != nil {
			m.logf("select user error: %v", err)
		}
	default:
		m.enqueue(request{kind: promptSelectUser, act: act})
	}
}

func (m *model) handleActionComplete(act *action.Action) {
	delete(m.progress, act.ID())
	if path, ok := m.loadPaths[act.ID()]; ok {
		delete(m.loadPaths, act.ID())
		if act.Status() == models.StatusSuccess && act.User() != nil {
			m.paths[act.User().GetUniqueId()] = path
		}
	}

	switch act.Status() {
	case models.StatusSuccess:
		m.logf("DONE  %s: success", act.ID()[:8])
		if act.Type() == models.ActionIdentityGenerate || act.Type() == models.ActionRekey {
			if rc := act.RescueCode(); rc != "" {
				m.logf("RESCUE CODE (write this down, shown once): %s", rc)
				if err := clipboard.WriteAll(rc); err == nil {
					m.logf("rescue code copied to clipboard")
				}
			}
		}
		if act.User() != nil {
			m.logf("identity: %s", shortID(act.User().GetUniqueId()))
		}
	case models.StatusFailed:
		// act.Err()'s text is never shown here: collapsing bad-credential
		// and corrupt-container failures to one wording is the dispatcher's
		// side-channel requirement (see action.ErrorKind.PublicMessage),
		// and printing the underlying error would reopen it at this
		// presentation boundary.
		m.logf("DONE  %s: failed: %s", act.ID()[:8], act.ErrorKind().PublicMessage())
	case models.StatusCancelled:
		m.logf("DONE  %s: cancelled", act.ID()[:8])
	}
}

func (m *model) sendCmd(act *action.Action, url string, payload []byte) tea.Cmd {
	id := act.ID()
	return func() tea.Msg {
		reply, err := m.transport.Send(context.Background(), url, payload)
		return sendResultMsg{actionID: id, reply: reply, err: err}
	}
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("go-sqrl demo"))
	b.WriteString("  ")
	b.WriteString(helpStyle.Render(fmt.Sprintf("build %s (%s)", m.buildInfo.BuildVersion(), m.buildInfo.BuildCommit())))
	b.WriteString("\n\n")

	start := 0
	if len(m.events) > 20 {
		start = len(m.events) - 20
	}
	rendered := make([]string, 0, len(m.events)-start)
	for _, line := range m.events[start:] {
		rendered = append(rendered, styleLogLine(line))
	}
	b.WriteString(logBoxStyle.Width(maxInt(40, m.width-6)).Render(strings.Join(rendered, "\n")))
	b.WriteString("\n")

	for id, pct := range m.progress {
		if pct < 100 {
			b.WriteString(helpStyle.Render(fmt.Sprintf("working %s: %d%%", id[:8], pct)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	switch m.state {
	case stateMenu:
		b.WriteString(promptStyle.Render("menu"))
		b.WriteString(": [g]enerate  [l]oad  [c]ommand (query/ident/disable/enable/remove)  [r]ekey  [p]assword  [s]ave  [q]uit\n")
	case stateAsk:
		b.WriteString(promptStyle.Render(m.current.askMessage))
		b.WriteString(fmt.Sprintf("\n[1/y] %s   [2/n] %s   [esc] cancel", m.current.askButton1, m.current.askButton2))
	default:
		b.WriteString(m.input.View())
		b.WriteString(helpStyle.Render("  (enter to submit, esc to cancel)"))
	}

	return appStyle.Render(b.String())
}

// styleLogLine highlights a completed Action's outcome; every other line
// is left in the terminal's default color.
func styleLogLine(line string) string {
	switch {
	case strings.Contains(line, "failed"):
		return errorStyle.Render(line)
	case strings.HasPrefix(line, "DONE") && strings.Contains(line, "success"):
		return successStyle.Render(line)
	default:
		return line
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
