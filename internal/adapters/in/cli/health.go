package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/dto"
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/in/cli/remote"
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/in/cli/ui/styles"
)

// errUnhealthy makes the command exit non-zero for container health checks.
var errUnhealthy = errors.New("launcher is not healthy")

// newHealthCmd queries a running launcher's /healthz endpoint.
func newHealthCmd() *cobra.Command {
	var (
		url     string
		timeout time.Duration
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that a running launcher can reach Docker",
		Long: `Query /healthz on a running launcher. The command exits non-zero when the
launcher is unreachable or reports itself degraded, so it can serve as a
container HEALTHCHECK.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			health, err := remote.NewClient(url, remote.WithTimeout(timeout)).Health(cmd.Context())
			if health == nil {
				return fmt.Errorf("failed to fetch health from %s: %w", url, err)
			}

			if asJSON {
				if encErr := writeJSON(cmd.OutOrStdout(), health); encErr != nil {
					return encErr
				}
			} else {
				renderHealth(cmd.OutOrStdout(), health)
			}
			if err != nil {
				return fmt.Errorf("%w: %w", errUnhealthy, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", defaultURL, "Base URL of the running launcher")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Request timeout")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func renderHealth(w io.Writer, h *dto.HealthResponse) {
	status := styles.Running.Render(h.Status)
	if h.Status != "ok" {
		status = styles.Failure.Render(h.Status)
	}
	fmt.Fprintf(w, "status: %s\n", status)

	docker := h.Docker
	if h.Version != "" {
		docker += " (" + h.Version + ")"
	}
	fmt.Fprintf(w, "docker: %s\n", docker)
	if h.Error != "" {
		fmt.Fprintln(w, styles.Muted.Render(h.Error))
	}
}
