// Package poetcfg builds the run configuration the CLI passes to the
// engine, following the teacher's config.Builder fluent-builder pattern
// (config/builder.go): each With* call mutates an accumulated *Options and
// records the first validation error, which Build reports.
package poetcfg

import "fmt"

// OutputLevel controls how much per-event detail the run emits, per
// spec.md §6's --output-level flag.
type OutputLevel int

const (
	Nothing OutputLevel = iota
	Experiment
	Default
	MaxState
	Debug
)

var outputLevelNames = map[string]OutputLevel{
	"nothing":    Nothing,
	"experiment": Experiment,
	"default":    Default,
	"max_state":  MaxState,
	"debug":      Debug,
}

// ParseOutputLevel resolves the --output-level flag value.
func ParseOutputLevel(s string) (OutputLevel, error) {
	lvl, ok := outputLevelNames[s]
	if !ok {
		return 0, fmt.Errorf("poetcfg: unknown output level %q", s)
	}
	return lvl, nil
}

// Options is the fully-resolved configuration for one run.
type Options struct {
	PropertyPath  string
	TracePath     string
	Reduce        bool
	Visual        bool
	OutputLevel   OutputLevel
	LogFile       string
	LogCategories string
}

// Builder accumulates Options fluently, following the teacher's
// Builder{config, err} shape: every With* method is a no-op once a prior
// call has set err, so only the first validation failure is reported.
type Builder struct {
	opts *Options
	err  error
}

// NewBuilder returns a Builder with the defaults spec.md §6 implies: no
// reduction, no visualization, default output verbosity, logging off.
func NewBuilder() *Builder {
	return &Builder{opts: &Options{OutputLevel: Default}}
}

func (b *Builder) WithProperty(path string) *Builder {
	if b.err != nil {
		return b
	}
	if path == "" {
		b.err = fmt.Errorf("poetcfg: --property is required")
		return b
	}
	b.opts.PropertyPath = path
	return b
}

func (b *Builder) WithTrace(path string) *Builder {
	if b.err != nil {
		return b
	}
	if path == "" {
		b.err = fmt.Errorf("poetcfg: --trace is required")
		return b
	}
	b.opts.TracePath = path
	return b
}

func (b *Builder) WithReduce(reduce bool) *Builder {
	if b.err != nil {
		return b
	}
	b.opts.Reduce = reduce
	return b
}

func (b *Builder) WithVisual(visual bool) *Builder {
	if b.err != nil {
		return b
	}
	b.opts.Visual = visual
	return b
}

func (b *Builder) WithOutputLevel(level string) *Builder {
	if b.err != nil {
		return b
	}
	lvl, err := ParseOutputLevel(level)
	if err != nil {
		b.err = err
		return b
	}
	b.opts.OutputLevel = lvl
	return b
}

func (b *Builder) WithLogFile(path string) *Builder {
	if b.err != nil {
		return b
	}
	b.opts.LogFile = path
	return b
}

func (b *Builder) WithLogCategories(csv string) *Builder {
	if b.err != nil {
		return b
	}
	b.opts.LogCategories = csv
	return b
}

// Build validates that both required paths were set and returns the result.
func (b *Builder) Build() (*Options, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.opts.PropertyPath == "" {
		return nil, fmt.Errorf("poetcfg: --property is required")
	}
	if b.opts.TracePath == "" {
		return nil, fmt.Errorf("poetcfg: --trace is required")
	}
	return b.opts, nil
}
