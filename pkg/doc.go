// Package pkg provides the libraries behind onboardqr, the onboarding QR
// document generator.
//
// # Overview
//
// onboardqr turns the onboarding configurations of an event tenant into
// one printable PDF: an overview, an optional currencies page, a detail
// page with QR codes per configuration and a top-up manual after every
// top-up station. The pkg directory is organized into four areas:
//
//  1. Data: [onboarding] model, [store] data fetcher, [io] snapshots
//  2. Planning: [layout] page plan and geometry
//  3. Drawing: [render] pages and document, [qr] codes, [i18n] texts
//  4. Orchestration: [pipeline] (fetch → plan → render) with [cache],
//     [config], [observability] and [errors]
//
// # Architecture
//
// The data flow of one run:
//
//	Central + tenant databases
//	         ↓
//	    [store/sqlstore] (tenant, records, users, event, currencies, refund)
//	         ↓
//	    [onboarding.Snapshot] (cached, or saved with [io])
//	         ↓
//	    [layout.Build] (page plan, known before drawing)
//	         ↓
//	    [render.Assembler] (one page at a time, failures contained)
//	         ↓
//	    onboarding_{app|guest}_{tenant}_all.pdf
//
// # Quick Start
//
//	import (
//	    "github.com/KaiDries/OnboardingQR/pkg/config"
//	    "github.com/KaiDries/OnboardingQR/pkg/pipeline"
//	    "github.com/KaiDries/OnboardingQR/pkg/store/sqlstore"
//	)
//
//	cfg, _ := config.Load("")
//	st, _ := sqlstore.New(sqlstore.OptionsFromConfig(cfg.Database, logger))
//	runner := pipeline.NewRunner(st, nil, nil, logger)
//	defer runner.Close()
//
//	result, err := runner.Execute(ctx, pipeline.Options{Tenant: "summercamp"})
//
// [onboarding]: https://pkg.go.dev/github.com/KaiDries/OnboardingQR/pkg/onboarding
// [onboarding.Snapshot]: https://pkg.go.dev/github.com/KaiDries/OnboardingQR/pkg/onboarding#Snapshot
// [store]: https://pkg.go.dev/github.com/KaiDries/OnboardingQR/pkg/store
// [store/sqlstore]: https://pkg.go.dev/github.com/KaiDries/OnboardingQR/pkg/store/sqlstore
// [io]: https://pkg.go.dev/github.com/KaiDries/OnboardingQR/pkg/io
// [layout]: https://pkg.go.dev/github.com/KaiDries/OnboardingQR/pkg/layout
// [layout.Build]: https://pkg.go.dev/github.com/KaiDries/OnboardingQR/pkg/layout#Build
// [render]: https://pkg.go.dev/github.com/KaiDries/OnboardingQR/pkg/render
// [render.Assembler]: https://pkg.go.dev/github.com/KaiDries/OnboardingQR/pkg/render#Assembler
// [qr]: https://pkg.go.dev/github.com/KaiDries/OnboardingQR/pkg/qr
// [i18n]: https://pkg.go.dev/github.com/KaiDries/OnboardingQR/pkg/i18n
// [pipeline]: https://pkg.go.dev/github.com/KaiDries/OnboardingQR/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/KaiDries/OnboardingQR/pkg/cache
// [config]: https://pkg.go.dev/github.com/KaiDries/OnboardingQR/pkg/config
// [observability]: https://pkg.go.dev/github.com/KaiDries/OnboardingQR/pkg/observability
// [errors]: https://pkg.go.dev/github.com/KaiDries/OnboardingQR/pkg/errors
package pkg
