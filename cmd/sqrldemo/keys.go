// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	generate key.Binding
	load     key.Binding
	command  key.Binding
	rekey    key.Binding
	password key.Binding
	save     key.Binding
	quit     key.Binding
	enter    key.Binding
	esc      key.Binding
}

var keys = keyMap{
	generate: key.NewBinding(key.WithKeys("g")),
	load:     key.NewBinding(key.WithKeys("l")),
	command:  key.NewBinding(key.WithKeys("c")),
	rekey:    key.NewBinding(key.WithKeys("r")),
	password: key.NewBinding(key.WithKeys("p")),
	save:     key.NewBinding(key.WithKeys("s")),
	quit:     key.NewBinding(key.WithKeys("q", "ctrl+c")),
	enter:    key.NewBinding(key.WithKeys("enter")),
	esc:      key.NewBinding(key.WithKeys("esc")),
}
