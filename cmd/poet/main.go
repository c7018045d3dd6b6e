package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/moraneus/PoET/internal/engine"
	"github.com/moraneus/PoET/internal/pctl"
	"github.com/moraneus/PoET/internal/poetcfg"
	"github.com/moraneus/PoET/internal/poetlog"
	"github.com/moraneus/PoET/internal/poetmetrics"
	"github.com/moraneus/PoET/internal/render"
	"github.com/moraneus/PoET/internal/trace"
)

// Exit codes per spec.md §6/§7: 0 regardless of the TRUE/FALSE verdict, and
// a distinct non-zero code per error kind so scripts can tell a malformed
// run from a genuine causality violation in the trace itself.
const (
	exitOK = iota
	exitFormatError
	exitCausalityError
	exitInvariantError
)

var rootCmd = &cobra.Command{
	Use:   "poet",
	Short: "Runtime verification of past-time PCTL properties over partial-order traces",
	Long: `poet checks whether an observed partial-order execution (events annotated
with vector clocks) satisfies a past-time branching-temporal-logic property,
incrementally building the lattice of consistent global states reachable
from the trace and evaluating the property over every state it visits.`,
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Verify a trace against a property",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd)
		},
	}
	flags := cmd.Flags()
	flags.StringP("property", "p", "", "path to the PCTL property file (required)")
	flags.StringP("trace", "t", "", "path to the JSON trace file (required)")
	flags.BoolP("reduce", "r", false, "enable the state-space reduction policy")
	flags.BoolP("visual", "v", false, "emit the frontier graph as Graphviz DOT")
	flags.String("output-level", "default", "nothing|experiment|default|max_state|debug")
	flags.String("log-file", "", "write logs here instead of stderr")
	flags.String("log-categories", "none", "comma-separated subsystems to log, or \"none\"")
	return cmd
}

func main() {
	rootCmd.AddCommand(runCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "poet: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps the error kinds of spec.md §7 to a process exit code.
// cobra's RunE error is whatever run returned, possibly wrapped in a usage
// error for bad flags, which falls through to the format-error bucket.
func exitCodeFor(err error) int {
	switch err.(type) {
	case *engine.CausalityError:
		return exitCausalityError
	case *engine.EvaluatorInvariantError:
		return exitInvariantError
	default:
		return exitFormatError
	}
}

func run(cmd *cobra.Command) error {
	flags := cmd.Flags()
	property, _ := flags.GetString("property")
	tracePath, _ := flags.GetString("trace")
	reduce, _ := flags.GetBool("reduce")
	visual, _ := flags.GetBool("visual")
	outputLevel, _ := flags.GetString("output-level")
	logFile, _ := flags.GetString("log-file")
	logCategories, _ := flags.GetString("log-categories")

	opts, err := poetcfg.NewBuilder().
		WithProperty(property).
		WithTrace(tracePath).
		WithReduce(reduce).
		WithVisual(visual).
		WithOutputLevel(outputLevel).
		WithLogFile(logFile).
		WithLogCategories(logCategories).
		Build()
	if err != nil {
		return err
	}

	base, closeLog, err := poetlog.NewFileLogger(opts.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	enabled, err := poetlog.ParseCategories(opts.LogCategories)
	if err != nil {
		return err
	}
	loggers := poetlog.New(base, enabled)

	propSrc, err := os.ReadFile(opts.PropertyPath)
	if err != nil {
		return err
	}
	formula, err := pctl.Parse(string(propSrc))
	if err != nil {
		return err
	}

	tr, err := trace.Load(opts.TracePath)
	if err != nil {
		return err
	}

	metrics, err := poetmetrics.New(prometheus.NewRegistry())
	if err != nil {
		return err
	}

	sm := engine.New(tr.Width, formula, opts.Reduce, loggers.For(poetlog.CategoryStateManager), metrics)

	var durations []time.Duration
	var lastVerdict bool
	for _, e := range tr.Events {
		result, err := sm.OnEvent(e)
		if err != nil {
			if _, ok := err.(*engine.CausalityError); ok {
				// Partial verdicts up to the offending event remain valid
				// (spec.md §7); report what we have before surfacing the error.
				printSummary(opts.OutputLevel, durations, lastVerdict, sm.Graph().Len())
			}
			return err
		}
		durations = append(durations, result.Duration)
		lastVerdict = result.Verdict
		printEvent(opts.OutputLevel, result)
	}

	printSummary(opts.OutputLevel, durations, lastVerdict, sm.Graph().Len())

	if opts.Visual {
		dotPath := strings.TrimSuffix(opts.TracePath, ".json") + ".dot"
		f, err := os.Create(dotPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := (render.DOT{}).Render(f, sm.Graph(), formula.ID); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "poet: wrote frontier graph to %s\n", dotPath)
	}

	return nil
}

func printEvent(level poetcfg.OutputLevel, r engine.StepResult) {
	if level == poetcfg.Nothing || level == poetcfg.Experiment {
		return
	}
	for _, m := range r.Maximal {
		if level == poetcfg.MaxState || level == poetcfg.Debug {
			fmt.Printf("event=%s cut=%v props=%v verdict=%t\n", r.EventID, m.Cut, m.Props, m.Value)
			continue
		}
		fmt.Printf("event=%s verdict=%t\n", r.EventID, m.Value)
	}
}

func printSummary(level poetcfg.OutputLevel, durations []time.Duration, finalVerdict bool, totalStates int) {
	if level == poetcfg.Nothing {
		return
	}
	if len(durations) == 0 {
		fmt.Printf("total_events=0 total_states=%d final_verdict=%t\n", totalStates, finalVerdict)
		return
	}
	var total, min, max time.Duration
	min = durations[0]
	for _, d := range durations {
		total += d
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	avg := total / time.Duration(len(durations))
	fmt.Printf("total_events=%d total_states=%d max_event_time=%v min_event_time=%v avg_event_time=%v final_verdict=%t\n",
		len(durations), totalStates, max, min, avg, finalVerdict)
}
