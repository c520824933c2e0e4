package ctl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"

	"neuronshim/internal/config"
	"neuronshim/internal/logging"
	"neuronshim/internal/registry"
	"neuronshim/internal/resolver"
	"neuronshim/internal/runtime"
	"neuronshim/internal/selector"
	"neuronshim/pkg/types"
)

type globalOptions struct {
	logLevel string
	backend  string
}

// newLoader is replaced in tests.
var newLoader = config.NewLoader

// load resolves configuration and applies command-line overrides on top.
func (o *globalOptions) load() config.Result {
	res := newLoader().Load()
	if o.backend != "" {
		res.Config.Backend = o.backend
		res.Sources = append(res.Sources, config.Source{Name: "flag"})
	}
	if o.logLevel != "" {
		if lvl, ok := logging.ParseLevel(o.logLevel); ok {
			res.Config.LogLevel = lvl
		}
	}
	return res
}

func (o *globalOptions) logger(cfg config.Config) zerolog.Logger {
	return logging.New(os.Stderr, cfg.LogLevel)
}

func fnConfig(out io.Writer, o *globalOptions, format string) error {
	res := o.load()
	b, err := config.Export(res.Config, format)
	if err != nil {
		return err
	}
	if format == "" || format == "conf" {
		for _, src := range res.Sources {
			line := "# source: " + src.Name
			if src.Path != "" {
				line += " (" + src.Path + ")"
			}
			if src.Err != nil {
				line += " error: " + src.Err.Error()
			}
			fmt.Fprintln(out, line)
		}
	}
	_, err = out.Write(b)
	return err
}

// suffixFor predicts the suffix the shim would use without loading any engine.
func suffixFor(cfg config.Config) string {
	name := cfg.Backend
	if cfg.AutoBackend() {
		name = ""
	}
	return cfg.SuffixFor(selector.Default(zerolog.Nop()).Select(name).Name())
}

func fnResolve(out io.Writer, o *globalOptions, paths []string) error {
	cfg := o.load().Config
	suffix := suffixFor(cfg)
	missing := 0
	for _, p := range paths {
		resolved, err := resolver.Resolve(p, suffix, cfg.ModelDir)
		var nf *resolver.NotFoundError
		switch {
		case err == nil:
			fmt.Fprintf(out, "%s -> %s\n", p, resolved)
		case errors.As(err, &nf):
			missing++
			fmt.Fprintf(out, "%s -> %s (missing)\n", p, nf.Computed)
			fmt.Fprintln(out, nf.Diagnostic())
		default:
			return err
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d of %d models not found", missing, len(paths))
	}
	return nil
}

func fnModels(out io.Writer, o *globalOptions, dir string) error {
	cfg := o.load().Config
	if dir == "" {
		dir = cfg.ModelDir
	}
	if dir == "" {
		return errors.New("no model directory: set model_dir or pass --dir")
	}
	suffix := suffixFor(cfg)
	models, err := registry.LoadDir(dir, suffix)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		fmt.Fprintf(out, "no *%s models in %s\n", suffix, dir)
		return nil
	}
	t := newTable("REQUEST", "LOADS", "SIZE")
	for _, m := range models {
		t.Row(m.Name, m.Path, humanize.Bytes(uint64(m.Size)))
	}
	fmt.Fprintln(out, t.Render())
	return nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func fnProbe(out io.Writer, o *globalOptions) error {
	cfg := o.load().Config
	sel := selector.Default(zerolog.Nop())
	t := newTable("BACKEND", "LIBRARY", "COMPILED", "AVAILABLE")
	for _, st := range sel.Report() {
		lib := st.Library
		if lib == "" {
			lib = "-"
		}
		t.Row(st.Name, lib, yesNo(st.Compiled), yesNo(st.Available))
	}
	fmt.Fprintln(out, t.Render())
	name := cfg.Backend
	if cfg.AutoBackend() {
		name = ""
	}
	fmt.Fprintf(out, "selected: %s (configured: %s)\n", sel.Select(name).Name(), cfg.Backend)
	return nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

type smokeOptions struct {
	runs    int
	metrics bool
}

func fnSmoke(out io.Writer, o *globalOptions, so *smokeOptions, model string) error {
	cfg := o.load().Config
	s := runtime.New(cfg, runtime.WithLogger(o.logger(cfg)))
	fmt.Fprintf(out, "backend: %s  suffix: %s\n", s.Backend().Name(), s.Suffix())

	r, err := s.Create(&types.RuntimeConfig{})
	if err != nil {
		return fmt.Errorf("create: %s: %w", runtime.Code(err), err)
	}
	defer r.Release()

	if err := r.LoadNetworkFromFile(model); err != nil {
		var nf *resolver.NotFoundError
		if errors.As(err, &nf) {
			fmt.Fprintln(out, nf.Diagnostic())
		}
		return fmt.Errorf("load: %s: %w", runtime.Code(err), err)
	}
	nIn, err := r.InputCount()
	if err != nil {
		return fmt.Errorf("input count: %w", err)
	}
	nOut, err := r.OutputCount()
	if err != nil {
		return fmt.Errorf("output count: %w", err)
	}
	fmt.Fprintf(out, "tensors: %d inputs, %d outputs\n", nIn, nOut)

	outputs := make([][]byte, nOut)
	for i := 0; i < int(nIn); i++ {
		n, err := r.InputSize(i)
		if err != nil {
			return fmt.Errorf("input %d size: %w", i, err)
		}
		fmt.Fprintf(out, "  input[%d]  %d bytes\n", i, n)
		if err := r.SetInput(i, make([]byte, n), -1); err != nil {
			return fmt.Errorf("set input %d: %w", i, err)
		}
	}
	for i := range outputs {
		n, err := r.OutputSize(i)
		if err != nil {
			return fmt.Errorf("output %d size: %w", i, err)
		}
		fmt.Fprintf(out, "  output[%d] %d bytes\n", i, n)
		outputs[i] = make([]byte, n)
		if err := r.SetOutput(i, outputs[i], -1); err != nil {
			return fmt.Errorf("set output %d: %w", i, err)
		}
	}

	if err := r.SetQoSOption(&types.QoSOptions{Priority: types.PriorityHigh, BoostValue: 100}); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	runs := max(so.runs, 1)
	start := time.Now()
	for i := 0; i < runs; i++ {
		if err := r.Inference(); err != nil {
			return fmt.Errorf("inference %d: %s: %w", i, runtime.Code(err), err)
		}
	}
	elapsed := time.Since(start)
	fmt.Fprintf(out, "inference: %d runs in %s (%s/run)\n", runs, elapsed.Round(time.Microsecond), (elapsed / time.Duration(runs)).Round(time.Microsecond))
	for i, buf := range outputs {
		fmt.Fprintf(out, "  output[%d] nonzero bytes: %d\n", i, nonZero(buf))
	}
	if so.metrics {
		return dumpMetrics(out, prometheus.DefaultGatherer)
	}
	return nil
}

func nonZero(b []byte) int {
	n := 0
	for _, v := range b {
		if v != 0 {
			n++
		}
	}
	return n
}

// dumpMetrics writes the shim's own metric families in text exposition format.
func dumpMetrics(out io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range shimFamilies(mfs) {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return err
		}
	}
	return nil
}

func shimFamilies(mfs []*dto.MetricFamily) []*dto.MetricFamily {
	var out []*dto.MetricFamily
	for _, mf := range mfs {
		if strings.HasPrefix(mf.GetName(), "neuronshim_") {
			out = append(out, mf)
		}
	}
	return out
}
