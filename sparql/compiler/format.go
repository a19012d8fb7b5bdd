package compiler

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"

	"github.com/wbrown/janus-sparql/sparql/algebra"
)

// SelectionOf returns the projected positions of cmd: the projection of a
// SELECT or ASK, the template of a CONSTRUCT, the described elements of a
// DESCRIBE
func SelectionOf(cmd Command) []Selection {
	switch cmd := cmd.(type) {
	case *Select:
		return cmd.Projection
	case *Construct:
		return cmd.Template
	case *Describe:
		return cmd.Described
	case *Ask:
		return cmd.Projection
	}
	return nil
}

// FormatSelection renders the projected positions of cmd as a markdown
// table
func FormatSelection(cmd Command) string {
	selection := SelectionOf(cmd)
	if len(selection) == 0 {
		return "_No projection_\n"
	}

	tableString := &strings.Builder{}
	table := tablewriter.NewTable(tableString,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment([]tw.Align{tw.AlignNone, tw.AlignNone, tw.AlignNone}),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"#", "variable", "constant"})
	for i, s := range selection {
		constant := ""
		if s.IsConstant() {
			constant = s.Value.String()
		}
		table.Append([]string{strconv.Itoa(i), s.Var.String(), constant})
	}
	table.Render()
	return tableString.String()
}

// Summary is the serializable outline of a command
type Summary struct {
	Kind             string   `yaml:"kind"`
	Selection        []string `yaml:"selection,omitempty"`
	Graphs           []string `yaml:"graphs"`
	GraphDepth       int      `yaml:"graph_depth"`
	NamedGraphs      []string `yaml:"named_graphs,omitempty"`
	ReferencedGraphs []string `yaml:"referenced_graphs,omitempty"`
	Where            string   `yaml:"where"`
	Order            []string `yaml:"order,omitempty"`
	Limit            *int     `yaml:"limit,omitempty"`
	Offset           int      `yaml:"offset,omitempty"`
	Distinct         bool     `yaml:"distinct,omitempty"`
}

// Summarize outlines cmd
func Summarize(cmd Command) Summary {
	cl := cmd.Common()
	s := Summary{
		Kind:             cmd.Kind().String(),
		Graphs:           algebra.GraphIRIs(cl.Graph),
		GraphDepth:       algebra.GraphDepth(cl.Graph),
		NamedGraphs:      cl.NamedGraphs,
		ReferencedGraphs: cl.ReferencedGraphs,
		Limit:            cl.Limit,
		Offset:           cl.Offset,
		Distinct:         cl.Distinct,
	}
	if cl.Where != nil {
		s.Where = cl.Where.String()
	}
	for _, sel := range SelectionOf(cmd) {
		s.Selection = append(s.Selection, sel.String())
	}
	for _, o := range cl.Order {
		s.Order = append(s.Order, o.String())
	}
	return s
}

// YAML encodes the summary
func (s Summary) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}
