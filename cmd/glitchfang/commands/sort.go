// Package commands implements CLI command handlers for glitchfang.
package commands

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/glitchfang/glitchfang/internal/config"
	"github.com/glitchfang/glitchfang/internal/observability"
	"github.com/glitchfang/glitchfang/pkg/engine"
	"github.com/glitchfang/glitchfang/pkg/intervals"
	"github.com/glitchfang/glitchfang/pkg/pixelio"
	"github.com/glitchfang/glitchfang/pkg/sortkeys"
)

// Interval function selector names.
const (
	modeFull       = "full"
	modeEdge       = "edge"
	modeRandom     = "random"
	modeSplit      = "split"
	modeSplitWidth = "split-width"
	modeThreshold  = "threshold"
)

var (
	// ErrUnknownInterval indicates an unrecognized interval function name.
	ErrUnknownInterval = errors.New(
		"unknown interval function. Available: full, edge, random, split, split-width, threshold",
	)
	// ErrMissingBounds indicates a mode that needs --lower and --upper got neither or only one.
	ErrMissingBounds = errors.New("interval function requires both --lower and --upper")
	// ErrMissingPartCount indicates split mode without a positive --num.
	ErrMissingPartCount = errors.New("interval functions split and split-width require --num greater than zero")
)

// SortCommand holds configuration and flag state for the sort command.
type SortCommand struct {
	configPath string
	interval   string
	output     string
	maskPath   string
	upper      string
	lower      string
	rotation   int
	num        int
	sorting    string
	workers    int
	noColor    bool
}

// NewSortCommand creates the sort command.
func NewSortCommand() *cobra.Command {
	sc := &SortCommand{}

	cmd := &cobra.Command{
		Use:   "sort <input>",
		Short: "Pixel-sort an image",
		Long: "Pixel-sort an image: partition each row into intervals with the " +
			"selected interval function, reorder the pixels inside every interval " +
			"by the selected sort key, and write the result.",
		Args: cobra.ExactArgs(1),
		RunE: sc.run,
	}

	cmd.Flags().StringVar(&sc.configPath, "config", "", "Config file path (default: .glitchfang.yaml in CWD or $HOME)")
	cmd.Flags().StringVarP(&sc.interval, "interval", "i", config.DefaultInterval,
		"Interval function: full, edge, random, split, split-width, threshold")
	cmd.Flags().StringVarP(&sc.output, "output", "o", "",
		"Output path (default: input path with a sorted suffix before the extension)")
	cmd.Flags().StringVarP(&sc.maskPath, "mask", "m", "",
		"Gray mask image path; white pixels may be sorted, black pixels may not")
	cmd.Flags().StringVarP(&sc.upper, "upper", "u", "",
		"Upper bound: float edge threshold, int maximum random width, or byte lightness threshold, per interval function")
	cmd.Flags().StringVarP(&sc.lower, "lower", "l", "",
		"Lower bound: float edge threshold, int minimum random width, or byte lightness threshold, per interval function")
	cmd.Flags().IntVarP(&sc.rotation, "rotation", "r", config.DefaultRotation,
		"Rotation in degrees applied to image and mask before sorting and reversed after; any multiple of 90")
	cmd.Flags().IntVarP(&sc.num, "num", "n", 0,
		"Number of parts for split and split-width (split divides the row count, split-width the row width)")
	cmd.Flags().StringVarP(&sc.sorting, "sorting", "s", config.DefaultSorting,
		"Sort key: lightness, intensity, minimum, maximum")
	cmd.Flags().IntVar(&sc.workers, "workers", config.DefaultWorkers,
		"Rows sorted concurrently (-1 = CPU count, 0 or 1 = sequential)")
	cmd.Flags().BoolVar(&sc.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func (sc *SortCommand) run(cmd *cobra.Command, args []string) error {
	start := time.Now()
	input := args[0]

	cfg, err := config.LoadConfig(sc.configPath)
	if err != nil {
		return err
	}

	sc.applyConfig(cmd, cfg)

	logger, err := observability.NewLogger(cmd.ErrOrStderr(), sc.logLevel(cmd, cfg), cfg.Log.Format)
	if err != nil {
		return err
	}

	key, err := sortkeys.ByName(sc.sorting)
	if err != nil {
		return err
	}

	rot, err := pixelio.ParseRotation(sc.rotation)
	if err != nil {
		return err
	}

	img, err := pixelio.Open(input)
	if err != nil {
		return err
	}

	img = rot.Apply(img)

	logger.Debug("image loaded",
		"path", input, "width", img.Rect.Dx(), "height", img.Rect.Dy(), "rotation", sc.rotation)

	rows := intervals.RowsFor(img.Rect.Dx(), img.Rect.Dy())

	if sc.maskPath != "" {
		mask, maskErr := pixelio.OpenGray(sc.maskPath)
		if maskErr != nil {
			return maskErr
		}

		intervals.Mask(rows, pixelio.ToGray(rot.Apply(mask)))
		logger.Debug("mask applied", "path", sc.maskPath)
	}

	err = sc.applyInterval(rows, img)
	if err != nil {
		return err
	}

	res, err := engine.Sort(img, rows, key, engine.Options{Workers: sc.workers})
	if err != nil {
		return err
	}

	outputPath := sc.output
	if outputPath == "" {
		outputPath = pixelio.SortedPath(input, cfg.Output.Suffix)
	}

	// The destination is only touched once the full in-memory pass succeeded.
	err = pixelio.Save(rot.Undo(img), outputPath)
	if err != nil {
		return err
	}

	logger.Info("image sorted",
		"output", outputPath, "rows", res.Rows, "intervals", res.Intervals, "pixels", res.Pixels)

	if !sc.isQuiet(cmd) {
		sc.printSummary(cmd.OutOrStdout(), res, outputPath, time.Since(start))
	}

	return nil
}

// applyConfig fills flag values the user did not set from the loaded config.
func (sc *SortCommand) applyConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if !flags.Changed("workers") {
		sc.workers = cfg.Workers
	}

	if !flags.Changed("sorting") {
		sc.sorting = cfg.Sorting
	}

	if !flags.Changed("interval") {
		sc.interval = cfg.Interval
	}

	if !flags.Changed("rotation") {
		sc.rotation = cfg.Rotation
	}
}

// applyInterval dispatches the selected interval function over the rows.
func (sc *SortCommand) applyInterval(rows []*intervals.Set, img image.Image) error {
	switch sc.interval {
	case modeFull:
		return nil
	case modeSplit:
		if sc.num <= 0 {
			return ErrMissingPartCount
		}

		intervals.SplitEqual(rows, sc.num)

		return nil
	case modeSplitWidth:
		if sc.num <= 0 {
			return ErrMissingPartCount
		}

		intervals.SplitEqualWidth(rows, sc.num)

		return nil
	case modeThreshold:
		low, high, err := sc.byteBounds()
		if err != nil {
			return err
		}

		intervals.Threshold(rows, img, low, high)

		return nil
	case modeRandom:
		lower, upper, err := sc.intBounds()
		if err != nil {
			return err
		}

		return intervals.Random(rows, lower, upper, nil)
	case modeEdge:
		lower, upper, err := sc.floatBounds()
		if err != nil {
			return err
		}

		return intervals.EdgesCanny(rows, img, lower, upper)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownInterval, sc.interval)
	}
}

func (sc *SortCommand) byteBounds() (low, high uint8, err error) {
	if sc.lower == "" || sc.upper == "" {
		return 0, 0, ErrMissingBounds
	}

	lowVal, err := strconv.ParseUint(sc.lower, 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("parse --lower as byte: %w", err)
	}

	highVal, err := strconv.ParseUint(sc.upper, 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("parse --upper as byte: %w", err)
	}

	return uint8(lowVal), uint8(highVal), nil
}

func (sc *SortCommand) intBounds() (lower, upper int, err error) {
	if sc.lower == "" || sc.upper == "" {
		return 0, 0, ErrMissingBounds
	}

	lower, err = strconv.Atoi(sc.lower)
	if err != nil {
		return 0, 0, fmt.Errorf("parse --lower as integer: %w", err)
	}

	upper, err = strconv.Atoi(sc.upper)
	if err != nil {
		return 0, 0, fmt.Errorf("parse --upper as integer: %w", err)
	}

	return lower, upper, nil
}

func (sc *SortCommand) floatBounds() (lower, upper float64, err error) {
	if sc.lower == "" || sc.upper == "" {
		return 0, 0, ErrMissingBounds
	}

	lower, err = strconv.ParseFloat(sc.lower, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse --lower as float: %w", err)
	}

	upper, err = strconv.ParseFloat(sc.upper, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse --upper as float: %w", err)
	}

	return lower, upper, nil
}

// logLevel resolves the effective log level from the persistent verbosity
// flags and the config.
func (sc *SortCommand) logLevel(cmd *cobra.Command, cfg *config.Config) string {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return "debug"
	}

	if sc.isQuiet(cmd) {
		return "error"
	}

	return cfg.Log.Level
}

func (sc *SortCommand) isQuiet(cmd *cobra.Command) bool {
	quiet, _ := cmd.Flags().GetBool("quiet")

	return quiet
}

// printSummary renders the run summary table and status line.
func (sc *SortCommand) printSummary(w io.Writer, res engine.Result, outputPath string, elapsed time.Duration) {
	status := color.New(color.FgGreen)
	if sc.noColor {
		status.DisableColor()
	}

	status.Fprintf(w, "sorted %s\n", outputPath)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Rows", "Intervals", "Pixels", "Duration"})
	tw.AppendRow(table.Row{
		res.Rows,
		humanize.Comma(int64(res.Intervals)),
		humanize.Comma(int64(res.Pixels)),
		elapsed.Round(time.Millisecond).String(),
	})
	tw.Render()
}
