// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package site implements per-authentication SiteAction state that
// survives across server round-trips within one
// [github.com/MKhiriev/go-sqrl/internal/action.Action].
//
// A SiteAction is the sole owner of its alternate-identity string: no
// other package ever frees or reassigns it, avoiding any double-free
// or use-after-free hazard by construction.
package site
