// Package io reads and writes tenant snapshots as JSON files.
//
// # Overview
//
// A snapshot holds everything one document needs: the tenant, its
// onboarding records, user matches, currencies, the event and the refund
// window. Writing it to disk splits a run in two: `onboardqr fetch` talks
// to the databases once, and `onboardqr render` can then be repeated
// offline while a layout is being tuned.
//
// # JSON Format
//
// The file is an envelope around the snapshot:
//
//	{
//	  "version": 1,
//	  "variant": "guest",
//	  "snapshot": {
//	    "tenant": {"id": "summercamp", "domain": "summercamp.anykrowd.app"},
//	    "records": [
//	      {"name": "Bar 1 | Jan Peeters", "qr_code": "a1b2c3", "roles": "sales"}
//	    ],
//	    "currencies": [{"name": "Token", "exchange_rate": "2.5", ...}],
//	    "fetched_at": "2025-07-01T10:00:00Z"
//	  }
//	}
//
// Decimal amounts are encoded as strings so that exchange rates survive
// the round trip exactly.
//
// # Import
//
// Use [ImportJSON] to read a file, or [ReadJSON] to read from any
// io.Reader. Both reject unknown versions, unknown variants and
// snapshots without a tenant.
//
// # Export
//
// Use [ExportJSON] to write a file, or [WriteJSON] to write to any
// io.Writer. ExportJSON writes to a temporary file first, so an
// interrupted export never leaves a truncated snapshot behind.
package io
