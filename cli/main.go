// Command canvas lays out workflow and investigation canvases from JSON files.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/meikuraledutech/canvas/config"
)

var (
	good = color.New(color.FgGreen, color.Bold)
	bad  = color.New(color.FgRed, color.Bold)
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	configPath string
	noColor    bool

	cfg *config.Config
	log hclog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "canvas",
		Short:         "Lay out DFIR workflow and investigation canvases",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.noColor {
				color.NoColor = true
			}
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = hclog.New(&hclog.LoggerOptions{
				Name:   "canvas",
				Level:  hclog.LevelFromString(cfg.LogLevel),
				Output: a.stderr,
			})
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (.yaml or .toml)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(a.layoutCmd(), a.specCmd(), a.patternCmd())
	return root
}

// printJSON writes v to stdout indented with two spaces.
func (a *app) printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(a.stdout, string(out))
	return err
}

func (a *app) success(format string, args ...any) {
	good.Fprintf(a.stderr, "✓ "+format+"\n", args...)
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		bad.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}
