package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/dto"
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/in/cli/remote"
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/in/cli/ui/components"
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/in/cli/ui/styles"
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/in/http/admin"
	"github.com/johnmschoonover/multi-llm-hosting/internal/app"
)

// newRoutesCmd prints the route table, either as the local configuration
// resolves it or as a running launcher reports it.
func newRoutesCmd() *cobra.Command {
	var (
		configPath string
		url        string
		timeout    time.Duration
		asYAML     bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Show the resolved route table and model index",
		Long: `Load the configuration file, the dotenv route file and ROUTE_* environment
variables exactly as "launcher serve" would, and print the result. Nothing is
started and Docker is not contacted.

With --url the table is fetched from a running launcher's /routes endpoint
instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var resp dto.RoutesResponse
			if url != "" {
				remoteRoutes, err := remote.NewClient(url, remote.WithTimeout(timeout)).Routes(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to fetch routes from %s: %w", url, err)
				}
				resp = *remoteRoutes
			} else {
				kernel, err := app.NewKernel(configPath, zerowrap.New(zerowrap.Config{Level: "warn", Format: "console"}))
				if err != nil {
					return err
				}
				resp = admin.RoutesResponse(kernel.Catalog)
			}

			switch {
			case asYAML:
				return writeYAML(cmd.OutOrStdout(), resp)
			case asJSON:
				return writeJSON(cmd.OutOrStdout(), resp)
			default:
				renderRoutes(cmd.OutOrStdout(), resp)
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVar(&url, "url", "", "Base URL of a running launcher to query instead of the local config")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout with --url")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print as YAML (usable as the routes: section of launcher.yaml)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	cmd.MarkFlagsMutuallyExclusive("yaml", "json")
	cmd.MarkFlagsMutuallyExclusive("config", "url")

	return cmd
}

func renderRoutes(w io.Writer, resp dto.RoutesResponse) {
	if len(resp.Routes) == 0 {
		fmt.Fprintln(w, styles.Muted.Render("No routes configured."))
		return
	}

	rows := make([][]string, 0, len(resp.Routes))
	for _, r := range resp.Routes {
		rows = append(rows, []string{
			r.Key,
			r.Container,
			strconv.Itoa(r.Port),
			r.HealthPath,
			r.Auth,
			strings.Join(r.Models, ", "),
		})
	}
	fmt.Fprintln(w, styles.Title.Render("Routes"))
	fmt.Fprintln(w, components.RouteTable(rows))

	if len(resp.Models) == 0 {
		return
	}
	models := make([][]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		models = append(models, []string{m.ID, m.Route, m.OwnedBy})
	}
	fmt.Fprintln(w, styles.Title.Render("Models"))
	fmt.Fprintln(w, components.ModelTable(models))
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
