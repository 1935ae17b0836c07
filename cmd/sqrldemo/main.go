// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command sqrldemo is a terminal embedder built on top of the go-sqrl
// client library. It demonstrates the [internal/client.Hooks] contract:
// it submits Actions, answers every callback the dispatcher raises, and
// persists identities to a local file chosen by the operator.
//
// This is a demonstration embedder, not part of the core library: the
// terminal rendering, filesystem access, and HTTP transport it wires
// together are exactly the external collaborators the core interacts
// with through narrow contracts (see the library's top-level doc.go).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-sqrl/internal/action"
	"github.com/MKhiriev/go-sqrl/internal/client"
	"github.com/MKhiriev/go-sqrl/internal/config"
	"github.com/MKhiriev/go-sqrl/internal/entropy"
	"github.com/MKhiriev/go-sqrl/internal/identity"
	"github.com/MKhiriev/go-sqrl/internal/logger"
	"github.com/MKhiriev/go-sqrl/internal/sqrlcrypto"
	"github.com/MKhiriev/go-sqrl/internal/transport"
	"github.com/MKhiriev/go-sqrl/internal/workers"
	"github.com/MKhiriev/go-sqrl/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("sqrldemo")

	cfg, err := config.GetClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config error: %v\n", err)
		os.Exit(1)
	}

	pool, err := entropy.NewPool()
	if err != nil {
		fmt.Fprintf(os.Stderr, "entropy pool init error: %v\n", err)
		os.Exit(1)
	}
	runCtx, stopEntropy := context.WithCancel(context.Background())
	pool.Run(runCtx)
	defer func() {
		stopEntropy()
		pool.Close()
	}()

	deps := action.Deps{
		Pool:           workers.NewPool(poolSize(cfg.Workers.PoolSize)),
		GenerateParams: generateParams(pool, cfg),
		EntropyPool:    pool,
		SendTimeout:    sendTimeout(cfg.Transport.RequestTimeout),
		MinEntropyBits: cfg.Entropy.MinimumBits,
	}

	tr := transport.New(transport.Config{Timeout: cfg.Transport.RequestTimeout})

	model := newModel(deps, tr, log, buildInfo())
	program := tea.NewProgram(model, tea.WithAltScreen())
	model.program = program

	cl, err := client.New(model, deps, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "client init error: %v\n", err)
		os.Exit(1)
	}
	model.client = cl

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui run error: %v\n", err)
	}

	survivors := cl.Shutdown()
	if survivors > 0 {
		fmt.Printf("%d identity(ies) remained hint-locked at shutdown\n", survivors)
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}

func buildInfo() models.AppBuildInfo {
	return models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
}

func poolSize(configured int) int {
	if configured <= 0 {
		return 2
	}
	return configured
}

func sendTimeout(configured time.Duration) time.Duration {
	if configured <= 0 {
		return 15 * time.Second
	}
	return configured
}

// generateParams sizes EnScrypt's iteration counts from the configured
// wall-clock budget by timing one chain against the host, so a new
// identity costs roughly the same unlock time on any machine.
func generateParams(pool *entropy.Pool, cfg *config.ClientConfig) identity.GenerateParams {
	log2N := cfg.KDF.DefaultLog2N
	if log2N == 0 {
		log2N = 9
	}
	budget := cfg.KDF.EnScryptBudget
	if budget <= 0 {
		budget = 5 * time.Second
	}

	salt := pool.Bytes(sqrlcrypto.KeySize)
	_, iterations, err := sqrlcrypto.EnScryptMillis(context.Background(), []byte("sqrldemo-sizing"), salt, budget, uint(log2N))
	if err != nil || iterations <= 0 {
		iterations = 100
	}

	hintLength := cfg.KDF.HintLength
	if hintLength <= 0 {
		hintLength = 4
	}

	return identity.GenerateParams{
		Log2N:              uint8(log2N),
		PasswordIterations: uint32(iterations),
		RescueIterations:   uint32(iterations),
		HintLength:         uint8(hintLength),
		IdleTimeoutMinutes: idleTimeoutMinutes(cfg.KDF.HintLockIdleTimeout),
		Options:            models.IdentityOption(cfg.Identity.DefaultOptions),
	}
}

func idleTimeoutMinutes(d time.Duration) uint16 {
	if d <= 0 {
		return 15
	}
	minutes := d / time.Minute
	if minutes > 0xFFFF {
		return 0xFFFF
	}
	return uint16(minutes)
}
