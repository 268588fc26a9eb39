package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/dto"
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/in/cli/remote"
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/in/cli/ui/components"
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/in/cli/ui/styles"
)

const defaultURL = "http://localhost:8080"

// newStatsCmd queries a running launcher's /stats endpoint.
func newStatsCmd() *cobra.Command {
	var (
		url     string
		timeout time.Duration
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show running backends, last hits and cold-start times",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := remote.NewClient(url, remote.WithTimeout(timeout))
			stats, err := client.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch stats from %s: %w", url, err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			renderStats(cmd.OutOrStdout(), stats, time.Now())
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", defaultURL, "Base URL of the running launcher")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func renderStats(w io.Writer, stats *dto.StatsResponse, now time.Time) {
	running := make(map[string]bool, len(stats.Running))
	names := make(map[string]struct{})
	for _, name := range stats.Running {
		running[name] = true
		names[name] = struct{}{}
	}
	for name := range stats.LastHits {
		names[name] = struct{}{}
	}
	for name := range stats.StartMetrics {
		names[name] = struct{}{}
	}

	if len(names) == 0 {
		fmt.Fprintln(w, styles.Muted.Render("No backend activity yet."))
		return
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	rows := make([][]string, 0, len(sorted))
	for _, name := range sorted {
		state := styles.Stopped.Render("stopped")
		if running[name] {
			state = styles.Running.Render("running")
		}

		lastHit := "-"
		if t, ok := stats.LastHits[name]; ok && !t.IsZero() {
			lastHit = formatAgo(now.Sub(t))
		}

		starts, last, avg := "0", "-", "-"
		if m, ok := stats.StartMetrics[name]; ok && m.StartCount > 0 {
			starts = strconv.FormatInt(m.StartCount, 10)
			last = formatMillis(m.LastDurationMs)
			avg = formatMillis(m.AverageDurationMs)
		}

		rows = append(rows, []string{name, state, lastHit, starts, last, avg})
	}

	fmt.Fprintln(w, components.StatsTable(rows))
	if stats.IdleTimeout != "" {
		fmt.Fprintln(w, styles.Muted.Render("idle timeout: "+stats.IdleTimeout))
	}
}

func formatAgo(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return d.Round(time.Second).String() + " ago"
}

func formatMillis(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d >= time.Second {
		return d.Round(100 * time.Millisecond).String()
	}
	return d.String()
}
