// Package render turns parsed units and their test cases into the Markdown page
// set: one page per unit, the README index and the SUMMARY table of contents.
//
// Rendering is pure. Pages are returned in memory and written by the manifest
// tracker.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docgen/internal/config"
	ferrors "git.home.luguber.info/inful/docgen/internal/foundation/errors"
	"git.home.luguber.info/inful/docgen/internal/logfields"
	"git.home.luguber.info/inful/docgen/internal/markdown"
	"git.home.luguber.info/inful/docgen/internal/parser"
	"git.home.luguber.info/inful/docgen/internal/testcases"
)

// Fixed page names.
const (
	IndexPage   = "README.md"
	SummaryPage = "SUMMARY.md"
)

const (
	indexTemplate   = "readme.md.tmpl"
	summaryTemplate = "summary.md.tmpl"
	unitTemplate    = "unit.md.tmpl"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// Page is one rendered file.
type Page struct {
	Name    string
	Content []byte
}

// Pages is the ordered output of one render.
type Pages []Page

// Names returns the page names in order.
func (p Pages) Names() []string {
	names := make([]string, len(p))
	for i, page := range p {
		names[i] = page.Name
	}
	return names
}

// ByName indexes page contents by name.
func (p Pages) ByName() map[string][]byte {
	m := make(map[string][]byte, len(p))
	for _, page := range p {
		m[page.Name] = page.Content
	}
	return m
}

// Commands are the shell commands shown in the Run Locally section. The
// registry key is appended to Scaffold and SmokeTest.
type Commands struct {
	Scaffold  string
	Install   string
	Test      string
	SmokeTest string
}

// Options configure a Renderer.
type Options struct {
	Title            string
	Intro            string
	Commands         Commands
	IncludeFunctions bool
	TemplatesDir     string // optional directory of template overrides
}

// OptionsFromConfig maps the render configuration section to Options.
func OptionsFromConfig(rc config.RenderConfig) Options {
	return Options{
		Title: rc.Title,
		Intro: rc.Intro,
		Commands: Commands{
			Scaffold:  rc.ScaffoldCommand,
			Install:   rc.InstallCommand,
			Test:      rc.TestCommand,
			SmokeTest: rc.SmokeTestCommand,
		},
		IncludeFunctions: rc.IncludeFunctions,
		TemplatesDir:     rc.TemplatesDir,
	}
}

// TemplateInfo records where a template was loaded from.
type TemplateInfo struct {
	Source string // "embedded" or "file"
	Path   string
}

// Renderer renders page sets. It is safe to reuse across renders.
type Renderer struct {
	opts    Options
	index   *template.Template
	summary *template.Template
	unit    *template.Template
	usage   map[string]TemplateInfo
}

// New parses the page templates, preferring overrides from opts.TemplatesDir.
func New(opts Options) (*Renderer, error) {
	r := &Renderer{opts: opts, usage: make(map[string]TemplateInfo)}
	var err error
	if r.index, err = r.loadTemplate(indexTemplate); err != nil {
		return nil, err
	}
	if r.summary, err = r.loadTemplate(summaryTemplate); err != nil {
		return nil, err
	}
	if r.unit, err = r.loadTemplate(unitTemplate); err != nil {
		return nil, err
	}
	return r, nil
}

// TemplateUsage reports the source of each template.
func (r *Renderer) TemplateUsage() map[string]TemplateInfo {
	out := make(map[string]TemplateInfo, len(r.usage))
	for k, v := range r.usage {
		out[k] = v
	}
	return out
}

func (r *Renderer) loadTemplate(name string) (*template.Template, error) {
	raw, info, err := r.templateSource(name)
	if err != nil {
		return nil, err
	}
	tpl, err := template.New(name).Funcs(funcMap()).Parse(raw)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRender, "parse page template").
			Fatal().
			WithContext("template", name).
			WithContext("source", info.Source).
			Build()
	}
	r.usage[name] = info
	return tpl, nil
}

func (r *Renderer) templateSource(name string) (string, TemplateInfo, error) {
	if r.opts.TemplatesDir != "" {
		p := filepath.Join(r.opts.TemplatesDir, name)
		// #nosec G304 -- override path is built from the configured templates directory
		b, err := os.ReadFile(p)
		switch {
		case err == nil && strings.TrimSpace(string(b)) != "":
			slog.Debug("Loaded page template override", slog.String("template", name), logfields.Path(p))
			return string(b), TemplateInfo{Source: "file", Path: p}, nil
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return "", TemplateInfo{}, ferrors.WrapError(err, ferrors.CategoryRender, "read page template override").
				Fatal().
				WithContext("path", p).
				Build()
		}
	}
	b, err := embeddedTemplates.ReadFile("templates/" + name)
	if err != nil {
		panic(fmt.Sprintf("embedded default template missing: %s: %v", name, err))
	}
	return string(b), TemplateInfo{Source: "embedded"}, nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"chapterTitle": ChapterTitle,
		"replaceAll":   strings.ReplaceAll,
		"lower":        strings.ToLower,
	}
}

// ChapterTitle formats a chapter slug for display: "user-decryption" becomes
// "User Decryption". Only the first letter of each word changes case.
func ChapterTitle(slug string) string {
	caser := cases.Title(language.Und, cases.NoLower)
	words := strings.Split(slug, "-")
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

type indexEntry struct {
	Name        string
	Description string
	Key         string
}

type chapterView struct {
	Slug  string
	Title string
	Units []indexEntry
}

type indexView struct {
	Title    string
	Intro    string
	Chapters []chapterView
}

type unitView struct {
	Name        string
	Description string
	Chapter     string
	Key         string
	Tags        []string
	Walkthrough string
	Commands    Commands
	Operations  []parser.Operation
	Events      []parser.Event
	Tests       []testcases.TestCase
}

// Render produces the unit pages in input order followed by the index and the
// summary. tests maps unit names to their ordered test cases.
func (r *Renderer) Render(units []parser.ParsedUnit, tests map[string][]testcases.TestCase) (Pages, error) {
	seen := make(map[string]bool, len(units))
	for _, u := range units {
		if err := CheckUnitName(u.Name); err != nil {
			return nil, err
		}
		if seen[u.Name] {
			return nil, ferrors.RenderError("duplicate unit name").WithContext("unit", u.Name).Build()
		}
		seen[u.Name] = true
	}

	pages := make(Pages, 0, len(units)+2)
	for _, u := range units {
		content, err := execute(r.unit, r.unitView(u, tests[u.Name]))
		if err != nil {
			return nil, renderFailure(err, u.Name+".md")
		}
		pages = append(pages, Page{Name: u.Name + ".md", Content: content})
	}

	idx := indexView{
		Title:    r.opts.Title,
		Intro:    strings.TrimSpace(r.opts.Intro),
		Chapters: groupByChapter(units),
	}
	for _, p := range []struct {
		name string
		tpl  *template.Template
	}{{IndexPage, r.index}, {SummaryPage, r.summary}} {
		content, err := execute(p.tpl, idx)
		if err != nil {
			return nil, renderFailure(err, p.name)
		}
		pages = append(pages, Page{Name: p.name, Content: content})
	}
	return pages, nil
}

func (r *Renderer) unitView(u parser.ParsedUnit, tests []testcases.TestCase) unitView {
	v := unitView{
		Name:        u.Name,
		Description: u.Description,
		Chapter:     u.Chapter,
		Key:         u.RegistryKey,
		Tags:        u.Tags,
		Walkthrough: walkthrough(u.Walkthrough),
		Commands:    r.opts.Commands,
		Events:      u.Events,
		Tests:       tests,
	}
	if r.opts.IncludeFunctions {
		v.Operations = u.Operations
	}
	return v
}

func walkthrough(doc string) string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return ""
	}
	return strings.TrimSpace(string(markdown.StripLeadingH1([]byte(doc))))
}

// groupByChapter groups units by chapter in first-encounter order.
func groupByChapter(units []parser.ParsedUnit) []chapterView {
	var chapters []chapterView
	pos := make(map[string]int)
	for _, u := range units {
		i, ok := pos[u.Chapter]
		if !ok {
			i = len(chapters)
			pos[u.Chapter] = i
			chapters = append(chapters, chapterView{Slug: u.Chapter, Title: ChapterTitle(u.Chapter)})
		}
		chapters[i].Units = append(chapters[i].Units, indexEntry{
			Name:        u.Name,
			Description: u.Description,
			Key:         u.RegistryKey,
		})
	}
	return chapters
}

// CheckUnitName rejects unit names whose page would not be a plain base name inside
// the output directory or would replace a fixed page.
func CheckUnitName(name string) error {
	page := name + ".md"
	switch {
	case name == "", strings.HasPrefix(name, "."),
		strings.ContainsAny(name, `/\`), filepath.Base(page) != page:
		return ferrors.RenderError("unit name is not a plain file name").WithContext("unit", name).Build()
	case page == IndexPage || page == SummaryPage:
		return ferrors.RenderError("unit name collides with a fixed page").WithContext("unit", name).Build()
	}
	return nil
}

func execute(tpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderFailure(err error, page string) error {
	return ferrors.WrapError(err, ferrors.CategoryRender, "execute page template").
		Fatal().
		WithContext("page", page).
		Build()
}
