package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"arcrun/internal/errors"
	"arcrun/internal/overlay"
)

var checkCmd = &cobra.Command{
	Use:   "check [scenario]",
	Short: "Validate scenario configs without running anything",
	Long: `Check merges each scenario's config layers and runs the shape checks:
focus weight placement and arithmetic, country membership, cluster
bounds, and carrier list sanity. Without a scenario every declared
scenario is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	scenarios := a.Scenarios.All()
	if len(args) == 1 {
		sc, err := lookupScenario(a, args[0])
		if err != nil {
			return err
		}
		scenarios = scenarios[:0]
		scenarios = append(scenarios, sc)
	}

	failed := 0
	for _, sc := range scenarios {
		doc, _, err := loadMergedConfig(a, sc)
		if err != nil {
			logError("%s: %v", sc.Name, err)
			failed++
			continue
		}

		violations := overlay.Validate(doc)
		if len(violations) == 0 {
			logSuccess("%s: ok", sc.Name)
			continue
		}

		failed++
		for _, v := range violations {
			logError("%s: %s", sc.Name, v)
		}
	}

	if failed > 0 {
		return errors.New(errors.ExitConfigInvalid,
			fmt.Sprintf("%d of %d scenario(s) failed validation", failed, len(scenarios)))
	}
	return nil
}
