package generator

import (
	"fmt"
	"log/slog"
	"time"

	ferrors "git.home.luguber.info/inful/docgen/internal/foundation/errors"
	"git.home.luguber.info/inful/docgen/internal/logfields"
	"git.home.luguber.info/inful/docgen/internal/manifest"
	"git.home.luguber.info/inful/docgen/internal/markdown"
	"git.home.luguber.info/inful/docgen/internal/metrics"
	"git.home.luguber.info/inful/docgen/internal/parser"
	"git.home.luguber.info/inful/docgen/internal/render"
	"git.home.luguber.info/inful/docgen/internal/source"
	"git.home.luguber.info/inful/docgen/internal/testcases"
	"git.home.luguber.info/inful/docgen/internal/util/sets"
)

// StageName identifies a build stage.
type StageName string

// Build stages in execution order.
const (
	StageDiscover  StageName = "discover"
	StageParse     StageName = "parse"
	StageAssociate StageName = "associate_tests"
	StageRender    StageName = "render"
	StageLinkCheck StageName = "link_check"
	StageClean     StageName = "clean"
	StageCommit    StageName = "commit"
)

type stageDef struct {
	name StageName
	fn   func(*buildState) error
}

// runStages executes stages in order, recording timing and stopping on the first error.
func runStages(bs *buildState, stages []stageDef) error {
	rec := bs.gen.recorder
	for _, st := range stages {
		t0 := time.Now()
		err := st.fn(bs)
		dur := time.Since(t0)
		bs.result.StageDurations[st.name] = dur
		rec.ObserveStageDuration(string(st.name), dur)
		if err != nil {
			rec.IncStageResult(string(st.name), metrics.ResultFatal)
			slog.Error("Build stage failed", logfields.Stage(string(st.name)), logfields.Error(err))
			return err
		}
		rec.IncStageResult(string(st.name), metrics.ResultSuccess)
		slog.Debug("Build stage complete", logfields.Stage(string(st.name)), logfields.DurationMS(float64(dur.Microseconds())/1000))
	}
	return nil
}

func stageDiscover(bs *buildState) error {
	g := bs.gen
	p := g.provider
	if p == nil {
		mode := source.DetectMode(g.cfg, g.projectRoot, g.forceRegistry)
		var err error
		if p, err = source.New(mode, g.cfg, g.projectRoot); err != nil {
			return err
		}
	}
	bs.provider = p
	bs.result.Mode = p.Mode()

	units, err := p.Units()
	if err != nil {
		return err
	}
	texts, err := p.TestTexts()
	if err != nil {
		return err
	}
	bs.units, bs.texts = units, texts
	slog.Info("Discovered sources", logfields.Mode(string(p.Mode())),
		slog.Int("units", len(units)), slog.Int("test_texts", len(texts)))
	return nil
}

func stageParse(bs *buildState) error {
	defaultChapter := bs.gen.cfg.Render.DefaultChapter
	p := parser.New(defaultChapter)
	seen := make(map[string]string, len(bs.units))

	for _, u := range bs.units {
		pu, err := p.Parse(u)
		if err != nil {
			bs.result.Skipped++
			slog.Warn("Skipping source unit", logfields.File(u.Filename), logfields.Error(err))
			continue
		}
		if err := render.CheckUnitName(pu.Name); err != nil {
			bs.result.Skipped++
			slog.Warn("Skipping source unit with a reserved page name",
				logfields.Unit(pu.Name), logfields.File(u.Filename), logfields.Error(err))
			continue
		}
		if first, dup := seen[pu.Name]; dup {
			bs.result.Conflicts++
			slog.Warn("Rejecting duplicate unit",
				logfields.Unit(pu.Name),
				logfields.File(u.Filename),
				slog.String("first_file", first),
				logfields.Reason("duplicate"),
				logfields.Error(fmt.Errorf("%w: %s", ErrNameConflict, pu.Name)))
			continue
		}
		seen[pu.Name] = u.Filename
		if u.Origin != nil {
			applyOrigin(pu, u.Origin, defaultChapter)
		}
		slog.Debug("Parsed unit", logfields.Unit(pu.Name), logfields.Chapter(pu.Chapter))
		bs.parsed = append(bs.parsed, *pu)
	}
	bs.result.Units = len(bs.parsed)
	return nil
}

// applyOrigin merges catalog metadata into a parsed unit. The category
// replaces a default chapter and the catalog description fills an empty one.
func applyOrigin(pu *parser.ParsedUnit, o *source.Origin, defaultChapter string) {
	if (pu.Chapter == "" || pu.Chapter == defaultChapter) && o.Category != "" {
		pu.Chapter = o.Category
	}
	if pu.Description == "" {
		pu.Description = o.Description
	}
	pu.RegistryKey = o.Key
	pu.DisplayName = o.Name
	pu.Walkthrough = o.Walkthrough
	pu.Tags = o.Tags
}

func stageAssociateTests(bs *buildState) error {
	ex := testcases.New(bs.gen.cfg.Sources.TestSuffix)
	names := sets.New[string]()
	byKey := make(map[string]string)
	for _, u := range bs.parsed {
		names.Add(u.Name)
		if u.RegistryKey != "" {
			byKey[u.RegistryKey] = u.Name
		}
	}

	tests := make(map[string][]testcases.TestCase)
	for _, tt := range bs.texts {
		extraction := ex.Extract(tt.Path, tt.Text)
		target := extraction.Key
		if tt.RegistryKey != "" {
			name, ok := byKey[tt.RegistryKey]
			if !ok {
				slog.Debug("No rendered unit for registry tests", logfields.RegistryKey(tt.RegistryKey))
				continue
			}
			target = name
		} else if !names.Has(target) {
			slog.Debug("Test key matches no unit", logfields.File(tt.Path), slog.String("key", target))
			continue
		}
		tests[target] = append(tests[target], extraction.Cases...)
	}
	bs.tests = tests
	return nil
}

func stageRender(bs *buildState) error {
	opts := render.OptionsFromConfig(bs.gen.cfg.Render)
	opts.TemplatesDir = bs.gen.underRoot(opts.TemplatesDir)
	r, err := render.New(opts)
	if err != nil {
		return err
	}
	pages, err := r.Render(bs.parsed, bs.tests)
	if err != nil {
		return err
	}
	bs.pages = pages
	return nil
}

func stageLinkCheck(bs *buildState) error {
	broken := markdown.FindBrokenLinks(bs.pages.ByName())
	for _, b := range broken {
		slog.Warn("Broken link in generated page", logfields.File(b.Page), slog.String("destination", b.Destination))
	}
	bs.result.BrokenLinks = len(broken)
	return nil
}

func stageClean(bs *buildState) error {
	tracker, err := manifest.NewTracker(bs.gen.outputDir, bs.gen.cfg.Output.ManifestFile)
	if err != nil {
		return err
	}
	bs.tracker = tracker
	bs.previous = tracker.Load()
	bs.result.Removed = tracker.PreClean(bs.previous, bs.pages.Names())
	if n := len(bs.result.Removed); n > 0 {
		slog.Info("Removed stale pages", logfields.Count(n))
	}
	return nil
}

func stageCommit(bs *buildState) error {
	if bs.tracker == nil {
		return ferrors.InternalError("commit stage ran without a tracker").Build()
	}
	files := make([]manifest.File, 0, len(bs.pages))
	for _, p := range bs.pages {
		files = append(files, manifest.File{Name: p.Name, Content: p.Content})
	}
	m, err := bs.tracker.Commit(files)
	if err != nil {
		return err
	}
	bs.result.Files = m.Files
	bs.result.Changed = m.Changed(bs.previous)
	return nil
}
