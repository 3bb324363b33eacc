// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"time"
)

// healthReport is the --json shape of health.
type healthReport struct {
	URL       string `json:"url"`
	Status    string `json:"status"`
	Healthy   bool   `json:"healthy"`
	LatencyMS int64  `json:"latency_ms"`
}

func (r *Runner) health(args Args) error {
	report := healthReport{}
	if r.Config != nil {
		report.URL = r.Config.API.BaseURL
	}

	start := time.Now()
	h, err := r.Backend.CheckHealth(r.ctx())
	report.LatencyMS = time.Since(start).Milliseconds()
	if err == nil && h != nil {
		report.Status = h.Status
		report.Healthy = h.Healthy()
		if !report.Healthy {
			err = fmt.Errorf("el backend respondió %q", h.Status)
		}
	}

	if args.JSON {
		return r.writeJSON("health", report, err)
	}
	if err != nil {
		fmt.Fprintf(r.Out, "%s Backend no disponible (%s): %s\n",
			RenderStatus(false), report.URL, UserMessage(err))
		return &ReportedError{Err: &CommandError{Command: "health", Err: err}}
	}
	if !args.Quiet {
		fmt.Fprintf(r.Out, "%s Backend en línea %s\n",
			RenderStatus(true), DimStyle.Render(fmt.Sprintf("%s · %dms", report.URL, report.LatencyMS)))
	}
	return nil
}
