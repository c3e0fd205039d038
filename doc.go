/*
Package satchel is a data donation flow engine. It lets research teams
run consent-first donation studies: a participant picks a platform
export file, the extractor reduces it to aggregate tables locally, and
only after explicit review does anything leave the session.

# Concept

A donation flow is ordinary Go code that runs inside a session
goroutine and talks to its host exclusively through a message protocol:
the flow emits Commands (render a page, submit a donation, log a line,
exit) and suspends until the host answers with a Payload. The host can
be an HTTP server, the bundled CLI, or a test harness; the flow cannot
tell the difference. This hexagonal split keeps extraction logic,
consent UX, and transport independently testable.

# Key Packages

  - pkg/domain: the closed Command/Payload/Prop unions and their wire
    encoding.
  - pkg/engine: the suspend/resume session core.
  - pkg/bridge: the adapter hosts drive, with command buffering, log
    forwarding, and file-capability bridging.
  - pkg/wizard: the generic select/extract/retry/consent flow.
  - pkg/extract: lookup, bucketing, clustering, and archive helpers for
    writing extractors.
  - pkg/platforms: built-in extractors.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/satchelhq/satchel"
		"github.com/satchelhq/satchel/pkg/bridge"
		"github.com/satchelhq/satchel/pkg/engine"
	)

	func main() {
		flows := satchel.Flows()
		a := bridge.Start(engine.Config{}, flows["zip"])

		result, err := satchel.Run(context.Background(), a, myHost)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("exit %d, %d donations", result.Exit.Code, len(result.Donations))
	}

where myHost is a satchel.Host that renders pages and collects answers.
*/
package satchel
