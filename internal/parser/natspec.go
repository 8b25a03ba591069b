package parser

import (
	"regexp"
	"strings"
)

// Tag names as stored after normalization (leading @ removed, lower case).
const (
	tagNotice        = "notice"
	tagTitle         = "title"
	tagDev           = "dev"
	tagParam         = "param"
	tagReturn        = "return"
	tagChapter       = "chapter"
	tagCustomChapter = "custom:chapter"
	tagBareChapter   = "chapter-line"
	tagUntagged      = "text" // leading text before any tag
)

// Precedence lists, first present tag wins.
var (
	descriptionTags = []string{tagNotice, tagTitle, tagUntagged}
	chapterTags     = []string{tagCustomChapter, tagChapter, tagBareChapter}
)

var (
	tagHead         = regexp.MustCompile(`^@([A-Za-z][\w-]*)((?::[\w-]*)*)`)
	inlineTag       = regexp.MustCompile(`\s@[A-Za-z]`)
	bareChapterLine = regexp.MustCompile(`^chapter:\s*(.*)$`)
	chapterValue    = regexp.MustCompile(`^[\w-]+`)
)

type tag struct {
	name  string
	value string
}

// docComment is a parsed /** ... */ block.
type docComment struct {
	tags []tag
}

// parseDocComment splits a doc block into tags. Several tags may share a line.
// Continuation lines extend the current tag until a blank line.
func parseDocComment(block string) docComment {
	body := strings.TrimPrefix(block, "/**")
	body = strings.TrimSuffix(body, "*/")

	var dc docComment
	current := -1
	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		line = strings.TrimSpace(strings.TrimLeft(line, "*"))
		if line == "" {
			current = -1
			continue
		}
		for _, seg := range splitInlineTags(line) {
			switch {
			case seg == "":
			case strings.HasPrefix(seg, "@"):
				t, ok := parseTag(seg)
				if !ok {
					current = -1
					continue
				}
				dc.tags = append(dc.tags, t)
				current = len(dc.tags) - 1
			case bareChapterLine.MatchString(seg):
				m := bareChapterLine.FindStringSubmatch(seg)
				dc.tags = append(dc.tags, tag{name: tagBareChapter, value: strings.TrimSpace(m[1])})
				current = -1
			case current >= 0:
				t := &dc.tags[current]
				if t.value == "" {
					t.value = seg
				} else {
					t.value += " " + seg
				}
			default:
				dc.tags = append(dc.tags, tag{name: tagUntagged, value: seg})
				current = len(dc.tags) - 1
			}
		}
	}
	return dc
}

// splitInlineTags cuts line before every whitespace-preceded @tag.
func splitInlineTags(line string) []string {
	var parts []string
	prev := 0
	for _, m := range inlineTag.FindAllStringIndex(line, -1) {
		parts = append(parts, strings.TrimSpace(line[prev:m[0]]))
		prev = m[0] + 1
	}
	return append(parts, strings.TrimSpace(line[prev:]))
}

// parseTag reads "@name value". A colon right after the name also ends it, so
// "@chapter:basic" and "@chapter: basic" both carry "basic". Tags in the custom
// namespace keep one colon segment in their name ("@custom:chapter basic").
func parseTag(seg string) (tag, bool) {
	m := tagHead.FindStringSubmatch(seg)
	if m == nil {
		return tag{}, false
	}
	name := strings.ToLower(m[1])
	suffix := m[2]
	rest := seg[len(m[0]):]
	if name == "custom" && suffix != "" {
		parts := strings.SplitN(strings.TrimPrefix(suffix, ":"), ":", 2)
		name += ":" + strings.ToLower(parts[0])
		if len(parts) == 2 {
			rest = parts[1] + rest
		}
	} else {
		rest = strings.TrimPrefix(suffix, ":") + rest
	}
	return tag{name: name, value: strings.TrimSpace(rest)}, true
}

// first returns the value of the first non-empty tag among names, in the order given.
func (dc docComment) first(names ...string) string {
	for _, name := range names {
		for _, t := range dc.tags {
			if t.name == name && t.value != "" {
				return t.value
			}
		}
	}
	return ""
}

func (dc docComment) all(name string) []string {
	var out []string
	for _, t := range dc.tags {
		if t.name == name && t.value != "" {
			out = append(out, t.value)
		}
	}
	return out
}

func (dc docComment) description() string {
	return dc.first(descriptionTags...)
}

// chapter returns the chapter slug or "" when no chapter tag is present.
func (dc docComment) chapter() string {
	for _, name := range chapterTags {
		if v := chapterValue.FindString(dc.first(name)); v != "" {
			return v
		}
	}
	return ""
}
