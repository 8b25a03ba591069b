// Package parser turns a source unit into a ParsedUnit: the documented
// declaration, its description and chapter, its functions and its events.
//
// Parsing is best effort. Malformed or missing doc comments degrade to
// defaults; only a unit without any recognizable declaration is an error.
package parser

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"

	ferrors "git.home.luguber.info/inful/docgen/internal/foundation/errors"
	"git.home.luguber.info/inful/docgen/internal/logfields"
	"git.home.luguber.info/inful/docgen/internal/source"
	"git.home.luguber.info/inful/docgen/internal/sourcetext"
)

// DefaultChapter is used when a unit carries no chapter tag.
const DefaultChapter = "general"

// ErrNoDeclaration is returned when a unit contains no contract, interface or
// library declaration.
var ErrNoDeclaration = errors.New("no contract, interface or library declaration")

var (
	declPattern  = regexp.MustCompile(`(?m)^[ \t]*((?:abstract[ \t]+)?(contract|interface|library))[ \t]+([A-Za-z_$][\w$]*)`)
	funcPattern  = regexp.MustCompile(`\bfunction\s+([A-Za-z_$][\w$]*)\s*\(`)
	eventPattern = regexp.MustCompile(`\bevent\s+([A-Za-z_$][\w$]*)\s*\(`)
)

type declaration struct {
	name  string
	kind  Kind
	start int // offset of the declaration keyword
	end   int // offset just past the name
}

// Parser parses source units. The zero value is not usable, use New.
type Parser struct {
	defaultChapter string
}

// New returns a parser that assigns defaultChapter to units without a chapter
// tag. An empty defaultChapter means DefaultChapter.
func New(defaultChapter string) *Parser {
	if defaultChapter == "" {
		defaultChapter = DefaultChapter
	}
	return &Parser{defaultChapter: defaultChapter}
}

// Parse parses unit with the default chapter.
func Parse(unit source.SourceUnit) (*ParsedUnit, error) {
	return New(DefaultChapter).Parse(unit)
}

// DefaultChapter returns the chapter assigned to untagged units.
func (p *Parser) DefaultChapter() string { return p.defaultChapter }

// Parse extracts the documented declaration of unit.
func (p *Parser) Parse(unit source.SourceUnit) (*ParsedUnit, error) {
	masked := sourcetext.Mask(unit.Text)
	decls := findDeclarations(masked)
	if len(decls) == 0 {
		return nil, ferrors.WrapError(ErrNoDeclaration, ferrors.CategoryParse, "parse source unit").
			WithContext("file", unit.Filename).
			Build()
	}

	target := selectTarget(decls, unit.PreferredName)
	if unit.PreferredName != "" && target.name != unit.PreferredName {
		slog.Debug("Preferred declaration not found, using first declaration",
			logfields.File(unit.Filename),
			slog.String("preferred", unit.PreferredName),
			logfields.Unit(target.name))
	}

	pu := &ParsedUnit{
		Name:     target.name,
		Kind:     target.kind,
		Filename: unit.Filename,
		Chapter:  p.defaultChapter,
	}
	if block, ok := sourcetext.DocBlockBefore(unit.Text, target.start); ok {
		dc := parseDocComment(block)
		pu.Description = dc.description()
		if ch := dc.chapter(); ch != "" {
			pu.Chapter = ch
		}
	}

	bodyStart, bodyEnd, ok := body(masked, target.end)
	if ok {
		pu.Operations = parseOperations(unit.Text, masked, bodyStart, bodyEnd)
		pu.Events = parseEvents(masked, bodyStart, bodyEnd)
	}
	return pu, nil
}

func findDeclarations(masked string) []declaration {
	var decls []declaration
	for _, m := range declPattern.FindAllStringSubmatchIndex(masked, -1) {
		decls = append(decls, declaration{
			name:  masked[m[6]:m[7]],
			kind:  Kind(masked[m[4]:m[5]]),
			start: m[2],
			end:   m[7],
		})
	}
	return decls
}

func selectTarget(decls []declaration, preferred string) declaration {
	if preferred != "" {
		for _, d := range decls {
			if d.name == preferred {
				return d
			}
		}
	}
	return decls[0]
}

// body locates the brace-delimited body following a declaration header.
// An unclosed body extends to the end of the text.
func body(masked string, from int) (start, end int, ok bool) {
	open := strings.IndexByte(masked[from:], '{')
	if open < 0 {
		return 0, 0, false
	}
	open += from
	if semi := strings.IndexByte(masked[from:open], ';'); semi >= 0 {
		return 0, 0, false
	}
	closeAt := sourcetext.MatchBrace(masked, open)
	if closeAt < 0 {
		closeAt = len(masked)
	}
	return open + 1, closeAt, true
}

func parseEvents(masked string, start, end int) []Event {
	var events []Event
	for _, m := range eventPattern.FindAllStringSubmatch(masked[start:end], -1) {
		events = append(events, Event{
			Name:        m[1],
			Description: "Event emitted by " + m[1],
		})
	}
	return events
}
