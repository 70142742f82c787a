package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thurmanmarka/astroreturn"
	"github.com/thurmanmarka/astroreturn/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "astroreturn",
	Short: "Find when a body reaches an ecliptic longitude",
	Long: `astroreturn finds the instants at which the Sun, Moon, planets or the
lunar phase angle reach a target ecliptic longitude: single crossings, the
Nth return after a date, the nearest return, and lunar phases.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .astroreturn.yaml)")
	pf.BoolP("verbose", "v", false, "verbose output")
	pf.Bool("json", false, "output result as JSON")
	pf.Float64("tolerance", 1, "time tolerance in seconds")
	pf.Int("max-iterations", 1000, "bound on bracket steps and bisection steps per search")
	pf.String("catalog", "", "TOML body catalog layered over the built-in bodies")
	pf.String("tz", "UTC", "IANA time zone for input and output times (e.g. America/Phoenix)")
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".astroreturn")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	pf := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = viper.BindPFlag("tolerance_seconds", pf.Lookup("tolerance"))
	_ = viper.BindPFlag("max_iterations", pf.Lookup("max-iterations"))
	_ = viper.BindPFlag("catalog_path", pf.Lookup("catalog"))

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// env bundles what every query command needs.
type env struct {
	cfg     config.Config
	solver  *astroreturn.Solver
	catalog *astroreturn.Catalog
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	solver, err := astroreturn.NewSolver(astroreturn.Ephemeris{}, cfg.Options())
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, solver: solver, catalog: catalog}, nil
}

func (e *env) body(id string) (astroreturn.Body, error) {
	b, ok := e.catalog.Lookup(id)
	if !ok {
		return astroreturn.Body{}, fmt.Errorf("unknown body %q (see `astroreturn bodies`)", id)
	}
	return b, nil
}

func tzFlag(cmd *cobra.Command) (*time.Location, error) {
	name, _ := cmd.Flags().GetString("tz")
	return location(name)
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}
