// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ActionType identifies which transaction an action.Action runs. Each
// type carries its own required
// credential set and server-command semantics.
type ActionType int

const (
	// ActionUnspecified is the zero value and is never a valid submission.
	ActionUnspecified ActionType = iota
	// ActionIdentityLoad decrypts an existing S4 container with either a
	// rescue code or a password, depending on the block the source holds.
	ActionIdentityLoad
	// ActionIdentityGenerate creates a brand-new identity from fresh
	// entropy, requiring a rescue code acknowledgement before saving.
	ActionIdentityGenerate
	// ActionAuthQuery performs a SQRL "query" command against a site,
	// establishing whether the site recognizes the identity.
	ActionAuthQuery
	// ActionAuthIdent performs a SQRL "ident" command, authenticating the
	// user to the site.
	ActionAuthIdent
	// ActionAuthDisable performs a SQRL "disable" command, disabling the
	// identity for the site without removing it.
	ActionAuthDisable
	// ActionAuthEnable performs a SQRL "enable" command, re-enabling a
	// previously disabled identity for the site.
	ActionAuthEnable
	// ActionAuthRemove performs a SQRL "remove" command, deleting the
	// identity's association with the site.
	ActionAuthRemove
	// ActionRekey replaces a User's IUK with a newly generated one,
	// requiring the old rescue code followed by the new password.
	ActionRekey
	// ActionChangePassword re-encrypts the Type 1 block under a new
	// password, requiring the old password followed by the new one.
	ActionChangePassword
)

// String returns a human-readable label for the action type.
func (t ActionType) String() string {
	switch t {
	case ActionIdentityLoad:
		return "identity_load"
	case ActionIdentityGenerate:
		return "identity_generate"
	case ActionAuthQuery:
		return "auth_query"
	case ActionAuthIdent:
		return "auth_ident"
	case ActionAuthDisable:
		return "auth_disable"
	case ActionAuthEnable:
		return "auth_enable"
	case ActionAuthRemove:
		return "auth_remove"
	case ActionRekey:
		return "rekey"
	case ActionChangePassword:
		return "change_password"
	default:
		return "unspecified"
	}
}

// RequiredCredentials returns the ordered sequence of credential kinds an
// Action of this type must collect before it can proceed past
// AUTHENTICATING.
func (t ActionType) RequiredCredentials() []CredentialKind {
	switch t {
	case ActionIdentityLoad:
		return []CredentialKind{CredentialRescueCode}
	case ActionIdentityGenerate:
		return []CredentialKind{CredentialRescueCode}
	case ActionAuthQuery, ActionAuthIdent, ActionAuthDisable, ActionAuthEnable, ActionAuthRemove:
		return []CredentialKind{CredentialPassword}
	case ActionRekey:
		return []CredentialKind{CredentialRescueCode, CredentialNewPassword}
	case ActionChangePassword:
		return []CredentialKind{CredentialPassword, CredentialNewPassword}
	default:
		return nil
	}
}
