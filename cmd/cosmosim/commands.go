package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/cosmosim/internal/config"
	"github.com/san-kum/cosmosim/internal/export"
	"github.com/san-kum/cosmosim/internal/optim"
	"github.com/san-kum/cosmosim/internal/physics"
	"github.com/san-kum/cosmosim/internal/storage"
	"github.com/san-kum/cosmosim/internal/viz"
)

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run [rho_m0 rho_r0 rho_de0]",
		Short: "run a simulation and store it",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != len(densityArgs) {
				return fmt.Errorf("accepts 0 or %d arg(s), received %d", len(densityArgs), len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, label, err := resolveConfig(cmd, opts, args)
			if err != nil {
				return err
			}

			st := storage.New(opts.dataDir)
			if err := st.Init(); err != nil {
				return err
			}

			result, err := simulate(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			runID, err := st.Save(label, cfg.Densities, cfg.SimConfig(), result)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run id: %s\n", runID)
			fmt.Fprintf(out, "steps: %d backward, %d forward\n", result.BackwardSteps, result.ForwardSteps)
			fmt.Fprintln(out, "\nmetrics:")
			names := make([]string, 0, len(result.Metrics))
			for name := range result.Metrics {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "  %s: %.6g\n", name, result.Metrics[name])
			}
			return nil
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(opts.dataDir).List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLABEL\tTIME\tMATTER\tRADIATION\tDARK_ENERGY\tSAMPLES\tAGE")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.3g\t%.3g\t%.3g\t%d\t%.3g\n",
					run.ID,
					run.Label,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Densities.Matter,
					run.Densities.Radiation,
					run.Densities.DarkEnergy,
					run.BackwardSteps+run.ForwardSteps,
					run.Metrics["age"],
				)
			}
			return w.Flush()
		},
	}
}

func newPlotCmd(opts *options) *cobra.Command {
	var width, height int
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the scale factor of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(opts.dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			samples, err := st.LoadSamples(args[0])
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				return fmt.Errorf("no data to plot")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run: %s\n", meta.ID)
			fmt.Fprintf(out, "samples: %d\n\n", len(samples))
			fmt.Fprintln(out, viz.PlotScaleFactor(samples, width, height))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 70, "plot width")
	cmd.Flags().IntVar(&height, "height", 15, "plot height")
	return cmd
}

func newExportJSONCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "print a stored run as a JSON line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := storage.New(opts.dataDir).LoadSamples(args[0])
			if err != nil {
				return err
			}
			return export.WriteJSON(cmd.OutOrStdout(), samples)
		},
	}
}

func newExportCSVCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print a stored run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := storage.New(opts.dataDir).LoadSamples(args[0])
			if err != nil {
				return err
			}
			return storage.WriteCSV(cmd.OutOrStdout(), samples)
		},
	}
}

func newExportSVGCmd(opts *options) *cobra.Command {
	var outFile, stroke string
	var width, height int
	cmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := storage.New(opts.dataDir).LoadSamples(args[0])
			if err != nil {
				return err
			}
			svg := export.TrajectoryToSVG(samples, width, height, stroke)
			if svg == "" {
				return fmt.Errorf("run %s has too few samples to render", args[0])
			}
			if outFile == "" {
				outFile = args[0] + ".svg"
			}
			if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&outFile, "out", "", "output file (default <run_id>.svg)")
	cmd.Flags().StringVar(&stroke, "stroke", "#2a7ae2", "line color")
	cmd.Flags().IntVar(&width, "width", 800, "image width")
	cmd.Flags().IntVar(&height, "height", 400, "image height")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list density presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMATTER\tRADIATION\tDARK_ENERGY")
			for _, name := range config.ListPresets() {
				d := config.Presets[name]
				fmt.Fprintf(w, "%s\t%.3g\t%.3g\t%.3g\n", name, d.Matter, d.Radiation, d.DarkEnergy)
			}
			return w.Flush()
		},
	}
}

func newInitConfigCmd(opts *options) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the resolved configuration as YAML",
		Long: `init-config writes the defaults, or the --preset and --config layers
when given, to a YAML file that --config accepts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "cosmosim.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg, _, err := resolveConfig(cmd, opts, nil)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newScanCmd(opts *options) *cobra.Command {
	var (
		param     string
		from, to  float64
		points    int
		workers   int
		targetAge float64
	)
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "scan one density over a range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := resolveConfig(cmd, opts, nil)
			if err != nil {
				return err
			}
			if points < 1 {
				return fmt.Errorf("--points must be positive, got %d", points)
			}

			gs := optim.NewGridSearch([]string{param}, [][]float64{optim.Linspace(from, to, points)}).WithWorkers(workers)
			results, err := gs.Evaluate(cmd.Context(), cfg.Densities, cfg.SimConfig())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\tAGE\tFINAL_A\tPEAK_A\tSAMPLES\n", strings.ToUpper(param))
			for _, p := range results {
				if p.Err != nil {
					fmt.Fprintf(w, "%.4g\terror: %v\t\t\t\n", p.Params[param], p.Err)
					continue
				}
				fmt.Fprintf(w, "%.4g\t%.4g\t%.4g\t%.4g\t%d\n",
					p.Params[param], p.Metrics["age"], p.Metrics["final_scale_factor"],
					p.Metrics["peak_scale_factor"], p.BackwardSteps+p.ForwardSteps)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if targetAge <= 0 {
				return nil
			}
			best, diff, err := gs.Search(cmd.Context(), cfg.Densities, cfg.SimConfig(), func(p optim.Point) float64 {
				return math.Abs(p.Metrics["age"] - targetAge)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nclosest to age %.4g: %s=%.4g (age %.4g, off by %.3g)\n",
				targetAge, param, best.Params[param], best.Metrics["age"], diff)
			return nil
		},
	}
	cmd.Flags().StringVar(&param, "param", "dark_energy", "density to vary (matter, radiation, dark_energy)")
	cmd.Flags().Float64Var(&from, "from", 0, "first value (kg/m^3)")
	cmd.Flags().Float64Var(&to, "to", 1e-26, "last value (kg/m^3)")
	cmd.Flags().IntVar(&points, "points", 5, "number of grid points")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent simulations (0 = GOMAXPROCS)")
	cmd.Flags().Float64Var(&targetAge, "target-age", 0, "report the grid point whose age is closest (years)")
	return cmd
}

func newLiveCmd(opts *options) *cobra.Command {
	var fps int
	cmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "replay a(t) live and retune densities",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.preset = args[0]
			}
			cfg, label, err := resolveConfig(cmd, opts, nil)
			if err != nil {
				return err
			}

			model := viz.NewModel(physics.NewFriedmann(cfg.Densities), cfg.SimConfig(), label, fps)
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 30, "frame rate")
	return cmd
}
