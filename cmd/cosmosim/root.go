package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/cosmosim/internal/config"
	"github.com/san-kum/cosmosim/internal/export"
	"github.com/san-kum/cosmosim/internal/integrators"
	"github.com/san-kum/cosmosim/internal/metrics"
	"github.com/san-kum/cosmosim/internal/physics"
	"github.com/san-kum/cosmosim/internal/sim"
)

var densityArgs = [3]string{"rho_m0", "rho_r0", "rho_de0"}

type options struct {
	configFile string
	preset     string
	maxSteps   int
	parallel   bool
	logLevel   string
	dataDir    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "cosmosim <rho_m0> <rho_r0> <rho_de0>",
		Short: "integrate the scale factor of a Friedmann universe",
		Long: `cosmosim integrates a(t) backward until the scale factor reaches its floor
and forward to the time horizon, given present-day densities of matter,
radiation and dark energy in kg/m^3. The result is printed as one JSON line.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd, opts.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := resolveConfig(cmd, opts, args)
			if err != nil {
				return err
			}
			result, err := simulate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return export.WriteJSON(cmd.OutOrStdout(), result.Samples)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&opts.preset, "preset", "", "use a named density preset")
	pf.IntVar(&opts.maxSteps, "max-steps", sim.DefaultMaxSteps, "per-pass step cap (0 disables)")
	pf.BoolVar(&opts.parallel, "parallel", false, "run the backward and forward passes concurrently")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.dataDir, "data", ".cosmosim", "data directory")

	rootCmd.AddCommand(
		newRunCmd(opts),
		newListCmd(opts),
		newPlotCmd(opts),
		newExportJSONCmd(opts),
		newExportCSVCmd(opts),
		newExportSVGCmd(opts),
		newPresetsCmd(),
		newInitConfigCmd(opts),
		newScanCmd(opts),
		newLiveCmd(opts),
	)

	return rootCmd
}

func setupLogging(cmd *cobra.Command, level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logrus.SetOutput(cmd.ErrOrStderr())
	logrus.SetLevel(lvl)
	return nil
}

// resolveConfig layers the run configuration: defaults, then --preset, then
// --config read over the preset, then positional densities and changed
// flags. The returned label names where the densities came from.
func resolveConfig(cmd *cobra.Command, opts *options, args []string) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	label := "default"

	if opts.preset != "" {
		p := config.GetPreset(opts.preset)
		if p == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", opts.preset, config.ListPresets())
		}
		cfg = p
		label = opts.preset
	}

	if opts.configFile != "" {
		loaded, err := config.LoadOver(opts.configFile, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		if loaded.Densities != cfg.Densities {
			label = "config"
		}
		cfg = loaded
	}

	if len(args) == len(densityArgs) {
		d, err := parseDensities(args)
		if err != nil {
			return nil, "", err
		}
		cfg.Densities = d
		label = "custom"
	}

	if cmd.Flags().Changed("max-steps") {
		cfg.MaxSteps = opts.maxSteps
	}
	if cmd.Flags().Changed("parallel") {
		cfg.Parallel = opts.parallel
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	if cfg.MaxSteps == 0 {
		logrus.Warn("max_steps is 0, passes run without a step cap")
	}
	return cfg, label, nil
}

func parseDensities(args []string) (physics.Densities, error) {
	var vals [3]float64
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return physics.Densities{}, fmt.Errorf("invalid %s %q: %w", densityArgs[i], arg, err)
		}
		vals[i] = v
	}
	return physics.Densities{Matter: vals[0], Radiation: vals[1], DarkEnergy: vals[2]}, nil
}

func simulate(ctx context.Context, cfg *config.Config) (*sim.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	s := sim.New(physics.NewFriedmann(cfg.Densities), integrators.NewEuler())
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}

	logrus.Infof("simulating densities m=%g r=%g de=%g", cfg.Densities.Matter, cfg.Densities.Radiation, cfg.Densities.DarkEnergy)
	start := time.Now()

	result, err := s.Run(ctx, cfg.SimConfig())
	if err != nil {
		return nil, err
	}

	logrus.Infof("simulation finished in %v: %d backward, %d forward samples",
		time.Since(start), result.BackwardSteps, result.ForwardSteps)
	return result, nil
}
