package parser

import (
	"strings"

	"git.home.luguber.info/inful/docgen/internal/sourcetext"
)

var operationDescriptionTags = []string{tagNotice, tagDev, tagUntagged}

var dataLocations = map[string]bool{"memory": true, "calldata": true, "storage": true}

func parseOperations(text, masked string, start, end int) []Operation {
	var ops []Operation
	region := masked[start:end]
	for _, m := range funcPattern.FindAllStringSubmatchIndex(region, -1) {
		fnStart := start + m[0]
		name := region[m[2]:m[3]]
		parenOpen := start + m[1] - 1

		sig, params := signature(masked, fnStart, parenOpen, end)
		op := Operation{Name: name, Signature: sig}

		if block, ok := sourcetext.DocBlockBefore(text, fnStart); ok {
			dc := parseDocComment(block)
			op.Description = dc.first(operationDescriptionTags...)
			op.Returns = dc.first(tagReturn)
			for _, v := range dc.all(tagParam) {
				pname, desc, _ := strings.Cut(v, " ")
				op.Parameters = append(op.Parameters, Parameter{
					Name:        pname,
					Type:        params[pname],
					Description: strings.TrimSpace(desc),
				})
			}
		}
		ops = append(ops, op)
	}
	return ops
}

// signature returns the collapsed header of the function starting at fnStart,
// up to its body or terminating semicolon, and the parameter types by name.
func signature(masked string, fnStart, parenOpen, limit int) (string, map[string]string) {
	depth := 0
	parenClose := -1
	for i := parenOpen; i < limit; i++ {
		if masked[i] == '(' {
			depth++
		} else if masked[i] == ')' {
			depth--
			if depth == 0 {
				parenClose = i
				break
			}
		}
	}
	if parenClose < 0 {
		return collapse(masked[fnStart:limit]), nil
	}

	headerEnd := limit
	for i := parenClose; i < limit; i++ {
		if masked[i] == '{' || masked[i] == ';' {
			headerEnd = i
			break
		}
	}
	return collapse(masked[fnStart:headerEnd]), paramTypes(masked[parenOpen+1 : parenClose])
}

func paramTypes(list string) map[string]string {
	types := make(map[string]string)
	for _, p := range splitTopLevel(list) {
		fields := strings.Fields(p)
		if len(fields) < 2 {
			continue
		}
		name := fields[len(fields)-1]
		var typ []string
		for _, f := range fields[:len(fields)-1] {
			if !dataLocations[f] {
				typ = append(typ, f)
			}
		}
		types[name] = strings.Join(typ, " ")
	}
	return types
}

func splitTopLevel(list string) []string {
	var parts []string
	depth, last := 0, 0
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, list[last:i])
				last = i + 1
			}
		}
	}
	if strings.TrimSpace(list[last:]) != "" {
		parts = append(parts, list[last:])
	}
	return parts
}

func collapse(s string) string {
	out := strings.Join(strings.Fields(s), " ")
	out = strings.ReplaceAll(out, "( ", "(")
	return strings.ReplaceAll(out, " )", ")")
}
