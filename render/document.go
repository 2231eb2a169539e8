// Package render provides the non-HTML implementations of the dashboard's
// display primitives.
package render

import (
	"github.com/melkeydev/bookdash/charts"
	"github.com/melkeydev/bookdash/types"
)

type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockMarkdown  BlockKind = "markdown"
	BlockTable     BlockKind = "table"
	BlockDataFrame BlockKind = "dataframe"
	BlockChart     BlockKind = "chart"
	BlockError     BlockKind = "error"
)

type Block struct {
	Kind  BlockKind          `json:"kind" yaml:"kind"`
	Text  string             `json:"text,omitempty" yaml:"text,omitempty"`
	Table *types.QueryResult `json:"table,omitempty" yaml:"table,omitempty"`
	Chart *charts.Spec       `json:"chart,omitempty" yaml:"chart,omitempty"`
}

// Document records every render call in order. It is what the MCP tools
// return and what tests inspect.
type Document struct {
	Blocks []Block `json:"blocks" yaml:"blocks"`
}

func NewDocument() *Document {
	return &Document{Blocks: []Block{}}
}

func (d *Document) Heading(text string) error {
	d.Blocks = append(d.Blocks, Block{Kind: BlockHeading, Text: text})
	return nil
}

func (d *Document) Markdown(text string) error {
	d.Blocks = append(d.Blocks, Block{Kind: BlockMarkdown, Text: text})
	return nil
}

func (d *Document) Table(res *types.QueryResult) error {
	d.Blocks = append(d.Blocks, Block{Kind: BlockTable, Table: res})
	return nil
}

func (d *Document) DataFrame(res *types.QueryResult) error {
	d.Blocks = append(d.Blocks, Block{Kind: BlockDataFrame, Table: res})
	return nil
}

func (d *Document) Chart(spec *charts.Spec) error {
	d.Blocks = append(d.Blocks, Block{Kind: BlockChart, Chart: spec})
	return nil
}

func (d *Document) Error(err error) error {
	d.Blocks = append(d.Blocks, Block{Kind: BlockError, Text: err.Error()})
	return nil
}

// Find returns the blocks of one kind.
func (d *Document) Find(kind BlockKind) []Block {
	var out []Block
	for _, b := range d.Blocks {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}
