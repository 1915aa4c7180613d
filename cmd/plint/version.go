package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"plint/internal/modules"
	"plint/internal/version"
)

type versionPayload struct {
	Tool      string   `json:"tool"`
	Version   string   `json:"version"`
	GitCommit string   `json:"git_commit,omitempty"`
	BuildDate string   `json:"build_date,omitempty"`
	Modules   []string `json:"modules"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the plint version and built-in modules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			switch strings.ToLower(format) {
			case "pretty":
				colorMode, _ := cmd.Root().PersistentFlags().GetString("color")
				renderVersionPretty(cmd.OutOrStdout(), useColor(colorMode, os.Stdout))
				return nil
			case "json":
				return renderVersionJSON(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func renderVersionPretty(out io.Writer, colored bool) {
	saved := color.NoColor
	color.NoColor = !colored
	defer func() { color.NoColor = saved }()

	fmt.Fprint(out, version.Banner())
	fmt.Fprintf(out, "modules: %s\n", strings.Join(modules.Names(), ", "))
}

func renderVersionJSON(out io.Writer) error {
	payload := versionPayload{
		Tool:      "plint",
		Version:   version.Version,
		GitCommit: version.GitCommit,
		BuildDate: version.BuildDate,
		Modules:   modules.Names(),
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
