// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package sqrltest

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-sqrl/internal/encoding"
	"github.com/MKhiriev/go-sqrl/internal/sqrlcrypto"
)

// identityRecord is the fake site's per-idk registration state.
type identityRecord struct {
	identified bool
	disabled   bool
}

// Server is a fake SQRL site backed by an [httptest.Server]. It does not
// track the nuts it issues: a POST is accepted whatever nut it carries,
// and no nut ever expires.
type Server struct {
	httpServer *httptest.Server
	router     chi.Router

	mu         sync.Mutex
	identities map[string]*identityRecord
}

// NewServer starts a fake SQRL site listening on a loopback port.
// Call Close when done.
func NewServer() *Server {
	s := &Server{
		router:     chi.NewRouter(),
		identities: make(map[string]*identityRecord),
	}
	s.router.Post("/sqrl", s.handleSQRL)
	s.httpServer = httptest.NewServer(s.router)
	return s
}

// URL returns the base URL of the fake site.
func (s *Server) URL() string {
	return s.httpServer.URL
}

// Close shuts down the fake site.
func (s *Server) Close() {
	s.httpServer.Close()
}

// NewNut mints a fresh nonce and returns the full qrl:// URL (the plain
// HTTP form, matching the httptest listener) a client should start a
// transaction against, as if it had just scanned a QR code or followed a
// "Login with SQRL" link.
func (s *Server) NewNut() string {
	nut := randomNut()
	host := s.httpServer.URL[len("http://"):]
	return fmt.Sprintf("qrl://%s/sqrl?nut=%s", host, nut)
}

func randomNut() string {
	buf := make([]byte, 12)
	_, _ = rand.Read(buf)
	return encoding.Base64URLEncode(buf)
}

// IsIdentified reports whether idk (a Base64URL-encoded Ed25519 public
// key) has successfully completed an "ident" command against this site.
func (s *Server) IsIdentified(idk string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.identities[idk]
	return ok && rec.identified && !rec.disabled
}

func (s *Server) handleSQRL(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	cmd, err := decodeClientBody(r.FormValue("client"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tif := s.processCommand(cmd)

	body := fmt.Sprintf("ver=1\ntif=%x\nnut=%s\nqry=/sqrl\n", tif, randomNut())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(encoding.Base64URLEncode([]byte(body))))
}

// processCommand verifies cmd's signature and applies its effect to the
// fake site's registration state, returning the TIF bits the reply
// should carry.
func (s *Server) processCommand(cmd *clientCommand) uint32 {
	pubBytes, err := encoding.Base64URLDecode(cmd.idk)
	if err != nil || len(pubBytes) != ed25519.PublicKeySize {
		return tifClientFailure
	}
	pub := ed25519.PublicKey(pubBytes)

	sig, err := encoding.Base64URLDecode(cmd.ids)
	if err != nil {
		return tifClientFailure
	}
	if !sqrlcrypto.Verify(pub, cmd.signedMessage, sig) {
		return tifClientFailure
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, known := s.identities[cmd.idk]
	if !known {
		rec = &identityRecord{}
		s.identities[cmd.idk] = rec
	}

	var tif uint32
	if known && rec.identified {
		tif |= tifIDMatch
	}

	switch cmd.cmd {
	case "ident":
		rec.identified = true
		rec.disabled = false
		tif |= tifIDMatch
	case "disable":
		rec.disabled = true
	case "enable":
		rec.disabled = false
	case "remove":
		delete(s.identities, cmd.idk)
	case "query":
		// no state change; tif already reports whether the identity had
		// completed an ident before.
	}

	if rec.disabled {
		tif |= tifSQRLDisabled
	}

	return tif
}

// TIF bit values duplicated from internal/protocol to keep this
// test-only package free of a dependency on action/protocol internals
// beyond the signature primitives it must verify against.
const (
	tifIDMatch       uint32 = 0x01
	tifSQRLDisabled  uint32 = 0x08
	tifClientFailure uint32 = 0x80
)
