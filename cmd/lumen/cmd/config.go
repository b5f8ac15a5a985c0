package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/lumen/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfgPath := configPath
	if cfgPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		cfgPath = p
	}

	f, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	rankCfg, err := f.RankingConfig()
	if err != nil {
		return err
	}

	fmt.Printf("config file: %s\n\n", cfgPath)
	fmt.Println("application_dirs:")
	for _, d := range f.ApplicationDirs {
		fmt.Printf("  - %s\n", d)
	}
	if len(f.Applications) > 0 {
		fmt.Println("applications:")
		for _, a := range f.Applications {
			fmt.Printf("  - %s\n", a)
		}
	}
	fmt.Println("ranking:")
	fmt.Printf("  w_fuzzy:           %g\n", rankCfg.WFuzzy)
	fmt.Printf("  w_usage:           %g\n", rankCfg.WUsage)
	fmt.Printf("  recency_half_life: %s\n", rankCfg.RecencyHalfLife)
	fmt.Printf("  top_k:             %d\n", rankCfg.TopK)
	return nil
}
