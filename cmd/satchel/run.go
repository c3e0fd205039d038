package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/satchelhq/satchel"
	"github.com/satchelhq/satchel/internal/cli"
	"github.com/satchelhq/satchel/internal/logging"
	"github.com/satchelhq/satchel/pkg/bridge"
	"github.com/satchelhq/satchel/pkg/engine"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a donation flow in the terminal",
	Long: `Runs a donation flow locally. Interactive by default: pages are
rendered in the terminal and prompts read from stdin. With --scenario,
the session is driven by canned answers from a YAML file instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		platform, _ := cmd.Flags().GetString("platform")
		locale, _ := cmd.Flags().GetString("locale")
		sessionID, _ := cmd.Flags().GetString("session")
		scenarioPath, _ := cmd.Flags().GetString("scenario")

		// Stderr logging stays off unless asked for, so the rendered
		// pages own the terminal.
		logger := logging.NewNop()
		if cmd.Flags().Changed("log-level") {
			levelName, _ := cmd.Flags().GetString("log-level")
			logger = logging.New(logging.ParseLevel(levelName))
		}

		flows := satchel.Flows()

		var (
			host satchel.Host
			sc   *cli.Scenario
		)
		interactive := term.IsTerminal(int(os.Stdin.Fd()))
		printer := cli.NewPrinter(os.Stdout, locale, interactive && scenarioPath == "")

		if scenarioPath != "" {
			var err error
			sc, err = cli.LoadScenario(scenarioPath)
			if err != nil {
				return err
			}
			platform = sc.Platform
			if sc.Locale != "" {
				locale = sc.Locale
			}
			host = sc.Host(printer)
		} else {
			if !interactive {
				return fmt.Errorf("stdin is not a terminal; use --scenario for unattended runs")
			}
			host = cli.Interactive(os.Stdin, printer)
		}

		flow, ok := flows[platform]
		if !ok {
			return fmt.Errorf("unknown platform %q (available: %v)", platform, platformNames(flows))
		}

		a := bridge.Start(engine.Config{
			SessionID: sessionID,
			Locale:    locale,
			Logger:    logger,
		}, flow)

		res, err := satchel.Run(cmd.Context(), a, host)
		if err != nil {
			return err
		}
		if sc != nil {
			if err := sc.Check(res); err != nil {
				return err
			}
		}
		if res.Exit.Code != 0 {
			return fmt.Errorf("session failed: %s", res.Exit.Message)
		}
		return nil
	},
}

func platformNames(flows map[string]bridge.Flow) []string {
	names := make([]string, 0, len(flows))
	for name := range flows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("platform", "P", "zip", "Platform flow to run")
	runCmd.Flags().String("locale", "en", "Locale for rendered copy")
	runCmd.Flags().String("session", "", "Session ID (generated when empty)")
	runCmd.Flags().String("scenario", "", "YAML scenario file for unattended runs")
}
