// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendPostsClientFieldAndReturnsBody(t *testing.T) {
	var gotForm string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		gotForm = r.FormValue("client")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("dmVyPTE="))
	}))
	defer srv.Close()

	tr := New(Config{})
	body, err := tr.Send(context.Background(), srv.URL, []byte("cGF5bG9hZA"))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if string(body) != "dmVyPTE=" {
		t.Fatalf("unexpected body: %q", body)
	}
	if gotForm != "cGF5bG9hZA" {
		t.Fatalf("unexpected client field: %q", gotForm)
	}
}

func TestSendReturnsErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "boom")
	}))
	defer srv.Close()

	tr := New(Config{})
	_, err := tr.Send(context.Background(), srv.URL, []byte("x"))
	if err == nil {
		t.Fatal("expected an error on a 500 response")
	}
}
