package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/diffdrive/internal/drive"
)

var (
	dataDir string
	verbose bool
	logger  = zap.NewNop()

	// model and program selection
	configFile string
	preset     string
	program    string
	runName    string
	radius     float64
	separation float64
	height     float64
	dt         float64
	initX      float64
	initY      float64
	initTheta  float64

	metricNames []string
	noSave      bool
	sweepDts    []float64
	workers     int
	svgOut      string
	svgWidth    int
	svgHeight   int
	svgStroke   string
)

// main is the entry point for the diffdrive CLI; it registers commands and flags and executes the root command.
// It exits the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "diffdrive",
		Short:         "differential-drive robot kinematics lab",
		Long:          "Generate open-loop wheel signals for a differential-drive robot and integrate its pose.\n\nProgram statements:\n" + commandHelp(),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".diffdrive", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a program and store the run",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to collect (default all)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	signalsCmd := &cobra.Command{
		Use:   "signals",
		Short: "print the wheel signals generated for each step",
		Args:  cobra.NoArgs,
		RunE:  printSignals,
	}
	addModelFlags(signalsCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run the same program at several time steps",
		Args:  cobra.NoArgs,
		RunE:  sweepTimeSteps,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepDts, "dts", []float64{1e-2, 1e-3, 1e-4}, "time steps to compare")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = unlimited)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot pose and wheel speeds of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	pathCmd := &cobra.Command{
		Use:   "path [run_id]",
		Short: "draw the path of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  drawPath,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the path of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")
	exportSVGCmd.Flags().StringVar(&svgStroke, "stroke", "#00ccff", "path color")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live [run_id]",
		Short: "replay a stored run, or simulate and replay a program",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addModelFlags(liveCmd)

	rootCmd.AddCommand(runCmd, signalsCmd, sweepCmd, listCmd, plotCmd, pathCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVarP(&program, "program", "p", "", `command program, e.g. "D 1 10; T 90 1; C -0.5 90 3"`)
	f.StringVar(&runName, "name", "", "run name")
	f.Float64VarP(&radius, "radius", "r", 0, "wheel radius (m)")
	f.Float64VarP(&separation, "separation", "s", 0, "wheel separation (m)")
	f.Float64Var(&height, "height", 0, "robot height (m)")
	f.Float64Var(&dt, "dt", 0, "integration time step (s)")
	f.Float64Var(&initX, "x", 0, "initial x (m)")
	f.Float64Var(&initY, "y", 0, "initial y (m)")
	f.Float64Var(&initTheta, "theta", 0, "initial heading (rad)")
}

func commandHelp() string {
	var b strings.Builder
	for _, c := range drive.Commands() {
		b.WriteString("  " + c.Usage() + "\n")
	}
	return b.String()
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
