// Package generator drives one documentation build: it resolves the source
// mode, parses units, associates test cases, renders the page set and hands it
// to the manifest tracker.
package generator

import (
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docgen/internal/config"
	"git.home.luguber.info/inful/docgen/internal/logfields"
	"git.home.luguber.info/inful/docgen/internal/manifest"
	"git.home.luguber.info/inful/docgen/internal/metrics"
	"git.home.luguber.info/inful/docgen/internal/parser"
	"git.home.luguber.info/inful/docgen/internal/render"
	"git.home.luguber.info/inful/docgen/internal/source"
	"git.home.luguber.info/inful/docgen/internal/testcases"
)

// ErrNameConflict is reported when two units parse to the same name. The first
// unit keeps the name.
var ErrNameConflict = errors.New("unit name already used in this build")

// Result summarizes a build.
type Result struct {
	Mode           config.Mode
	OutputDir      string
	Units          int // units rendered
	Skipped        int // units without a recognizable declaration
	Conflicts      int // units rejected for a duplicate name
	BrokenLinks    int
	Files          []string // manifest file list
	Removed        []string // stale pages deleted
	Changed        []string // pages whose content differs from the previous build
	StageDurations map[StageName]time.Duration
}

// Generator runs builds for one project.
type Generator struct {
	cfg           *config.Config
	projectRoot   string
	outputDir     string
	forceRegistry bool
	recorder      metrics.Recorder
	provider      source.Provider
}

// Option configures a Generator.
type Option func(*Generator)

// WithProjectRoot sets the directory that holds the registry descriptor and the
// source directories. Defaults to the working directory.
func WithProjectRoot(dir string) Option {
	return func(g *Generator) { g.projectRoot = dir }
}

// WithOutputDir overrides output.directory. Both are taken as given, so a
// relative dir resolves against the working directory, not the project root.
func WithOutputDir(dir string) Option {
	return func(g *Generator) { g.outputDir = dir }
}

// WithForceRegistry selects registry mode regardless of detection.
func WithForceRegistry(force bool) Option {
	return func(g *Generator) { g.forceRegistry = force }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithProvider replaces mode detection with a fixed provider.
func WithProvider(p source.Provider) Option {
	return func(g *Generator) { g.provider = p }
}

// New returns a generator for cfg. A nil cfg means config.Default().
func New(cfg *config.Config, opts ...Option) *Generator {
	if cfg == nil {
		cfg = config.Default()
	}
	g := &Generator{cfg: cfg, projectRoot: ".", recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(g)
	}
	if g.outputDir == "" {
		g.outputDir = cfg.Output.Directory
	}
	return g
}

func (g *Generator) underRoot(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(g.projectRoot, p)
}

// OutputDir returns the directory the build writes to.
func (g *Generator) OutputDir() string { return g.outputDir }

// Generate performs one build.
func (g *Generator) Generate() (*Result, error) {
	start := time.Now()
	bs := &buildState{
		gen:    g,
		result: &Result{OutputDir: g.outputDir, StageDurations: make(map[StageName]time.Duration)},
	}

	err := runStages(bs, []stageDef{
		{StageDiscover, stageDiscover},
		{StageParse, stageParse},
		{StageAssociate, stageAssociateTests},
		{StageRender, stageRender},
		{StageLinkCheck, stageLinkCheck},
		{StageClean, stageClean},
		{StageCommit, stageCommit},
	})
	g.recorder.ObserveBuildDuration(time.Since(start))
	if err != nil {
		g.recorder.IncBuildOutcome(metrics.BuildFailed)
		return nil, err
	}

	r := bs.result
	g.recorder.AddUnits(metrics.UnitParsed, r.Units)
	g.recorder.AddUnits(metrics.UnitSkipped, r.Skipped)
	g.recorder.AddUnits(metrics.UnitConflict, r.Conflicts)
	g.recorder.AddFiles(metrics.FileWritten, len(r.Files))
	g.recorder.AddFiles(metrics.FileRemoved, len(r.Removed))
	g.recorder.AddFiles(metrics.FileChanged, len(r.Changed))
	if r.Skipped+r.Conflicts+r.BrokenLinks > 0 {
		g.recorder.IncBuildOutcome(metrics.BuildWarning)
	} else {
		g.recorder.IncBuildOutcome(metrics.BuildSuccess)
	}

	slog.Info("Documentation generated",
		logfields.Mode(string(r.Mode)),
		logfields.Path(r.OutputDir),
		slog.Int("units", r.Units),
		slog.Int("skipped", r.Skipped),
		slog.Int("conflicts", r.Conflicts),
		slog.Int("removed", len(r.Removed)),
		slog.Int("changed", len(r.Changed)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return r, nil
}

// buildState carries data between stages of one build.
type buildState struct {
	gen      *Generator
	result   *Result
	provider source.Provider
	units    []source.SourceUnit
	texts    []source.TestText
	parsed   []parser.ParsedUnit
	tests    map[string][]testcases.TestCase
	pages    render.Pages
	tracker  *manifest.Tracker
	previous manifest.Manifest
}
