// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/coursegate/internal/observability"
)

const probeTimeout = 2 * time.Second

// ProbeStatus is the result of querying one health probe.
type ProbeStatus struct {
	Probe      string `json:"probe"`
	URL        string `json:"url"`
	Healthy    bool   `json:"healthy"`
	StatusCode int    `json:"status_code,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show health of a running coursegate server",
		Long: `Query the liveness and readiness probes served on metrics.addr and
report the result.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	appCfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if appCfg.Metrics.Addr == "" {
		return oops.Code("CONFIG_INVALID").With("key", "metrics.addr").
			Errorf("metrics.addr is empty; the server exposes no probes")
	}

	client := &http.Client{Timeout: probeTimeout}
	base := probeBaseURL(appCfg.Metrics.Addr)
	statuses := []ProbeStatus{
		queryProbe(cmd.Context(), client, "liveness", base+observability.LivenessPath),
		queryProbe(cmd.Context(), client, "readiness", base+observability.ReadinessPath),
	}

	if cfg.jsonOutput {
		out, err := formatStatusJSON(statuses)
		if err != nil {
			return err
		}
		cmd.Println(out)
		return nil
	}
	cmd.Print(formatStatusTable(statuses))
	return nil
}

// probeBaseURL turns a listen address into a URL a local client can reach.
// A wildcard host becomes loopback.
func probeBaseURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func queryProbe(ctx context.Context, client *http.Client, probe, url string) ProbeStatus {
	status := ProbeStatus{Probe: probe, URL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		status.Detail = err.Error()
		return status
	}
	resp, err := client.Do(req)
	if err != nil {
		status.Detail = fmt.Sprintf("failed to connect: %v", err)
		return status
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024)) //nolint:errcheck // detail is best effort
	status.StatusCode = resp.StatusCode
	status.Healthy = resp.StatusCode == http.StatusOK
	status.Detail = strings.TrimSpace(string(body))
	return status
}

// formatStatusTable formats the statuses as a human-readable table.
func formatStatusTable(statuses []ProbeStatus) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "PROBE\tSTATUS\tCODE\tDETAIL")
	for _, s := range statuses {
		state := "unhealthy"
		if s.Healthy {
			state = "healthy"
		}
		code := "-"
		if s.StatusCode != 0 {
			code = fmt.Sprintf("%d", s.StatusCode)
		}
		detail := s.Detail
		if detail == "" {
			detail = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Probe, state, code, detail)
	}

	_ = w.Flush()
	return buf.String()
}

// formatStatusJSON formats the statuses as indented JSON.
func formatStatusJSON(statuses []ProbeStatus) (string, error) {
	data, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		return "", oops.Code("STATUS_FORMAT_FAILED").Wrap(err)
	}
	return string(data), nil
}
