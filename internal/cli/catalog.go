package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/matverify/internal/candidate"
	"github.com/roach88/matverify/internal/faults"
)

// CatalogEntry is one fault code as printed by the catalog command.
type CatalogEntry struct {
	Code        faults.Code `json:"code" yaml:"code"`
	Label       string      `json:"label" yaml:"label"`
	Description string      `json:"description" yaml:"description"`
	Active      bool        `json:"active" yaml:"active"` // corrupts the faulty candidate's output
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the fault catalog",
		Long: `Print every hypothesized fault trigger condition.

Codes marked active are the ones the built-in faulty candidate acts on.

Examples:
  matverify catalog
  matverify catalog --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := catalogEntries()
			return rootOpts.formatter(cmd).Render(entries, func(w io.Writer) error {
				return writeCatalogText(w, entries)
			})
		},
	}
	return cmd
}

func catalogEntries() []CatalogEntry {
	active := candidate.DefaultModes
	var out []CatalogEntry
	for _, t := range faults.Catalog() {
		out = append(out, CatalogEntry{
			Code:        t.Code,
			Label:       t.Code.String(),
			Description: t.Description,
			Active:      slices.Contains(active, t.Code),
		})
	}
	return out
}

func writeCatalogText(w io.Writer, entries []CatalogEntry) error {
	var b strings.Builder
	var active []string
	for _, e := range entries {
		mark := " "
		if e.Active {
			mark = "*"
			active = append(active, e.Label)
		}
		fmt.Fprintf(&b, "%s %s  %s\n", mark, e.Label, e.Description)
	}
	if len(active) > 0 {
		fmt.Fprintf(&b, "\n* active in the faulty candidate: %s\n", strings.Join(active, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
