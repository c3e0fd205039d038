package satchel

import (
	"context"

	"github.com/satchelhq/satchel/pkg/bridge"
	"github.com/satchelhq/satchel/pkg/domain"
)

// Host answers render commands on behalf of a participant or script.
// Returning an error abandons the session.
type Host func(ctx context.Context, cmd domain.RenderUI) (domain.Payload, error)

// RunResult summarizes a completed session.
type RunResult struct {
	Exit      domain.SystemExit
	Donations []domain.SystemDonate
	Logs      []domain.SystemLog
}

// Run drives an adapter to completion: renders are answered by the
// host, donations and logs are collected, and the terminal exit ends
// the loop. This is the execution loop shared by the CLI and tests;
// the HTTP adapter exposes the same steps as individual endpoints.
func Run(ctx context.Context, a *bridge.Adapter, host Host) (*RunResult, error) {
	res := &RunResult{}
	for {
		cmd, err := a.NextCommand(ctx)
		if err != nil {
			return nil, err
		}
		switch c := cmd.(type) {
		case domain.SystemExit:
			res.Exit = c
			return res, nil
		case domain.SystemDonate:
			res.Donations = append(res.Donations, c)
		case domain.SystemLog:
			res.Logs = append(res.Logs, c)
		case domain.RenderUI:
			p, err := host(ctx, c)
			if err != nil {
				a.Abandon()
				return nil, err
			}
			if err := a.Resume(p); err != nil {
				return nil, err
			}
		}
	}
}
