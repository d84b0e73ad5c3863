package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/artpar/mockdeck/internal/core"
	"github.com/artpar/mockdeck/internal/filter"
	"github.com/artpar/mockdeck/internal/sidebar"
	"github.com/spf13/cobra"
)

// ListOptions holds options for the list command.
type ListOptions struct {
	Query  string
	Filter string
	Script string
	JSON   bool
}

// listEntry is one row of `list --json`.
type listEntry struct {
	Kind    string `json:"kind"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Active  bool   `json:"active"`
	Method  string `json:"method,omitempty"`
	URL     string `json:"url,omitempty"`
	Status  int    `json:"status,omitempty"`
	GroupID string `json:"groupId,omitempty"`
}

// NewListCommand creates the list command.
func NewListCommand(global *GlobalOptions) *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the sidebar list",
		Long:  "Print groups and mocks in sidebar order after applying the search query and filters.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Search text matched against mock names and URLs")
	cmd.Flags().StringVarP(&opts.Filter, "filter", "f", "", "Filter preset: all, captured, active, inactive, errors")
	cmd.Flags().StringVar(&opts.Script, "script", "", "JavaScript filter expression over `mock`")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")

	return cmd
}

// buildFilter combines the query, preset and script into a sidebar filter.
func buildFilter(opts *ListOptions) (sidebar.Filter, error) {
	preset, err := filter.Preset(opts.Filter)
	if err != nil {
		return sidebar.Filter{}, err
	}

	var scripted filter.Predicate
	if opts.Script != "" {
		script, err := filter.Compile(opts.Script)
		if err != nil {
			return sidebar.Filter{}, fmt.Errorf("--script: %w", err)
		}
		scripted = script.Predicate()
	}

	return sidebar.Filter{Query: opts.Query, Predicate: filter.And(preset, scripted)}, nil
}

func runList(cmd *cobra.Command, global *GlobalOptions, opts *ListOptions) error {
	f, err := buildFilter(opts)
	if err != nil {
		return err
	}

	a, err := global.consoleApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	list := sidebar.LinearizeAll(a.API().Groups(), a.API().Mocks(), f)

	if opts.JSON {
		return writeListJSON(cmd.OutOrStdout(), list)
	}
	writeList(cmd.OutOrStdout(), list)
	return nil
}

func writeListJSON(w io.Writer, list sidebar.LinearList) error {
	entries := make([]listEntry, 0, len(list))
	for _, it := range list {
		e := listEntry{Kind: it.Kind.String(), ID: it.ID(), Name: it.Name()}
		if it.IsGroup() {
			e.Active = it.Group.Active()
		} else {
			e.Active = it.Mock.Active()
			e.Method = it.Mock.Method()
			e.URL = it.Mock.URL()
			e.Status = it.Mock.Status()
			e.GroupID = it.Mock.GroupID()
		}
		entries = append(entries, e)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func writeList(w io.Writer, list sidebar.LinearList) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No mocks")
		return
	}
	for _, it := range list {
		fmt.Fprintln(w, formatItem(it))
	}
}

func formatItem(it core.Item) string {
	if it.IsGroup() {
		marker := "▼"
		if !it.Group.Active() {
			marker = "▶"
		}
		return fmt.Sprintf("%s %s  [%s]", marker, it.Name(), it.ID())
	}

	m := it.Mock
	indent := ""
	if m.Grouped() {
		indent = "  "
	}
	dot := "●"
	if !m.Active() {
		dot = "○"
	}
	return fmt.Sprintf("%s%s %-6s %d %s  %s  [%s]", indent, dot, m.Method(), m.Status(), m.URL(), m.Name(), m.ID())
}
