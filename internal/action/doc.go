// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package action implements component G: the transaction state machine
// that drives every SQRL operation (identity load/generate, authentication
// query/ident/disable/enable/remove, rekey, change-password) through the
// cooperative-suspension lifecycle —
// NEW → AUTHENTICATING → WORKING → (SENDING ↔ AWAITING_RESPONSE)* →
// COMPLETING → DONE.
//
// An Action's [Action.Step] method performs exactly one step and returns;
// it never blocks on a callback answer or on network I/O. The
// [github.com/MKhiriev/go-sqrl/internal/client] dispatcher owns the
// callback queue and routes a [StepResult]'s pending question to the
// matching outbound callback, then routes the embedder's answer back into
// the Action via its Supply* methods before calling Step again.
package action
