package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/diffdrive/internal/config"
	"github.com/san-kum/diffdrive/internal/export"
	"github.com/san-kum/diffdrive/internal/storage"
	"github.com/san-kum/diffdrive/internal/viz"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIMESTAMP\tDURATION\tFINAL (x, y, theta)")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t(%.3f, %.3f, %.3f)\n",
			run.ID, run.Name, run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration, run.Final.X, run.Final.Y, run.Final.Theta)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, controls, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("run %s has no samples", args[0])
	}

	xs := make([]float64, len(states))
	ys := make([]float64, len(states))
	thetas := make([]float64, len(states))
	for i, x := range states {
		xs[i], ys[i], thetas[i] = x.X, x.Y, x.Theta*180/math.Pi
	}
	left := make([]float64, len(controls))
	right := make([]float64, len(controls))
	for i, u := range controls {
		left[i], right[i] = u.Left, u.Right
	}

	fmt.Printf("%s  %s\n\n", meta.Name, meta.Program)
	fmt.Println(asciigraph.Plot(xs, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("x (m)")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(ys, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("y (m)")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(thetas, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("theta (deg)")))
	fmt.Println()
	fmt.Println(asciigraph.PlotMany([][]float64{left, right},
		asciigraph.Height(10), asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption("phi_l (blue) / phi_r (red), rad/s")))
	return nil
}

func drawPath(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, _, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	points := make([]viz.Point, len(states))
	for i, x := range states {
		points[i] = viz.Point{X: x.X, Y: x.Y}
	}
	fmt.Print(viz.PathCanvas(points, 60, 20).String())
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, controls, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	w.Write([]string{"time", "x", "y", "theta", "phi_l", "phi_r"})
	for i, x := range states {
		row := []string{
			strconv.FormatFloat(times[i], 'f', 6, 64),
			strconv.FormatFloat(x.X, 'f', 6, 64),
			strconv.FormatFloat(x.Y, 'f', 6, 64),
			strconv.FormatFloat(x.Theta, 'f', 6, 64),
			"", "",
		}
		if i < len(controls) {
			row[4] = strconv.FormatFloat(controls[i].Left, 'f', 6, 64)
			row[5] = strconv.FormatFloat(controls[i].Right, 'f', 6, 64)
		}
		w.Write(row)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, controls, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	return export.WriteJSON(os.Stdout, export.NewExportData(meta, states, controls, times))
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, _, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	svg := export.PathToSVG(states, svgWidth, svgHeight, svgStroke)
	if svgOut == "" {
		fmt.Print(svg)
		return nil
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDT\tPROGRAM")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%g\t%v\n", name, p.Dt, p.Program)
	}
	return w.Flush()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
