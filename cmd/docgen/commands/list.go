package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/docgen/internal/registry"
)

// ListCmd implements the 'list' command.
type ListCmd struct {
	ProjectRoot string `arg:"" optional:"" default:"." help:"Project root containing the catalog"`

	out io.Writer `kong:"-"`
}

func (l *ListCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig(l.ProjectRoot)
	if err != nil {
		return err
	}
	cat, err := registry.Load(filepath.Join(l.ProjectRoot, cfg.Sources.RegistryFile), l.ProjectRoot)
	if err != nil {
		return err
	}

	out := l.out
	if out == nil {
		out = os.Stdout
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KEY\tCATEGORY\tNAME\tTAGS")
	for _, key := range cat.Keys() {
		e, _ := cat.Lookup(key)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Key, e.Category, e.Name, strings.Join(e.Tags, ","))
	}
	return w.Flush()
}
