// Package markdown holds the goldmark based analysis used on rendered pages:
// link extraction, the cross-page link check and leading heading removal.
package markdown

import (
	"bytes"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docgen/internal/util/sets"
)

func parse(body []byte) (gmast.Node, parser.Context) {
	ctx := parser.NewContext()
	root := goldmark.New().Parser().Parse(text.NewReader(body), parser.WithContext(ctx))
	return root, ctx
}

// ExtractLinks parses a Markdown body and extracts link-like constructs.
// Links inside code spans and code blocks are not links and are not returned.
func ExtractLinks(body []byte) []Link {
	root, ctx := parse(body)

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			// reference-style links arrive here already resolved
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}
	return links
}

// FindBrokenLinks checks every relative link of every page against the set of
// page names. Pages are visited in name order.
func FindBrokenLinks(pages map[string][]byte) []BrokenLink {
	known := sets.New[string]()
	for name := range pages {
		known.Add(name)
	}

	var broken []BrokenLink
	for _, name := range known.Sorted() {
		for _, l := range ExtractLinks(pages[name]) {
			if l.Kind == LinkKindAuto {
				continue
			}
			target, ok := localTarget(name, l.Destination)
			if ok && !known.Has(target) {
				broken = append(broken, BrokenLink{Page: name, Destination: l.Destination})
			}
		}
	}
	return broken
}

// localTarget resolves a relative destination against the page's directory.
// ok is false for absolute URLs, fragment-only links and rooted paths.
func localTarget(page, dest string) (string, bool) {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "/") || strings.Contains(dest, ":") {
		return "", false
	}
	if i := strings.IndexAny(dest, "?#"); i >= 0 {
		dest = dest[:i]
	}
	return path.Clean(path.Join(path.Dir(page), dest)), true
}

// StripLeadingH1 removes the level one heading when it is the first block of
// body, together with the blank lines that follow it. Any other body is
// returned unchanged.
func StripLeadingH1(body []byte) []byte {
	root, _ := parse(body)
	first := root.FirstChild()
	heading, ok := first.(*gmast.Heading)
	if !ok || heading.Level != 1 || heading.Lines().Len() == 0 {
		return body
	}

	lines := heading.Lines()
	start := lineStart(body, lines.At(0).Start)
	stop := lines.At(lines.Len() - 1).Stop
	if stop > start {
		stop--
	}
	end := lineEnd(body, stop)

	// setext headings carry their underline on the following line
	if next := lineEnd(body, end); next > end {
		if u := bytes.TrimSpace(body[end:next]); len(u) > 0 && !slices.ContainsFunc(u, func(c byte) bool { return c != '=' }) {
			end = next
		}
	}
	for end < len(body) {
		next := lineEnd(body, end)
		if len(bytes.TrimSpace(body[end:next])) > 0 {
			break
		}
		end = next
	}

	out := make([]byte, 0, len(body)-(end-start))
	out = append(out, body[:start]...)
	return append(out, body[end:]...)
}

func lineStart(body []byte, pos int) int {
	return bytes.LastIndexByte(body[:pos], '\n') + 1
}

// lineEnd returns the offset just past the newline ending the line at pos.
func lineEnd(body []byte, pos int) int {
	if pos >= len(body) {
		return len(body)
	}
	i := bytes.IndexByte(body[pos:], '\n')
	if i < 0 {
		return len(body)
	}
	return pos + i + 1
}
