// Package dashboard holds the fixed menu of book store analyses and the
// controller that turns a selection into a query and a rendered result.
package dashboard

import (
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

type ID string

const (
	Overview       ID = "overview"
	Formats        ID = "formats"
	Publishers     ID = "publishers"
	TopBooks       ID = "top-books"
	PublishedAfter ID = "after-2010"
	Discounts      ID = "discounts"
	PageCount      ID = "page-count"
	Authors        ID = "authors"
	Search         ID = "search"
	Outliers       ID = "outliers"
	CustomQuery    ID = "custom"
)

// InputKind is the free-text control an analysis needs, if any.
type InputKind string

const (
	InputNone    InputKind = ""
	InputKeyword InputKind = "keyword"
	InputSQL     InputKind = "sql"
)

var (
	ErrUnknownAnalysis = errors.New("unknown analysis")
	ErrInvalidOption   = errors.New("invalid option")
)

// Selection fully determines the SQL an analysis issues.
type Selection struct {
	Analysis ID     `json:"analysis"`
	Option   int    `json:"option"`
	Input    string `json:"input"`
}

// Statement is a built query with its bound arguments.
type Statement struct {
	SQL  string
	Args []any
}

type queryFunc func(b sq.StatementBuilderType, table string, sel Selection) (sq.Sqlizer, bool)

// Analysis is one menu entry: how to build its query and how to show the
// rows that come back.
type Analysis struct {
	ID      ID        `json:"id" yaml:"id"`
	Label   string    `json:"label" yaml:"label"`
	Heading string    `json:"heading" yaml:"heading"`
	Text    string    `json:"-" yaml:"-"`
	Options []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Input   InputKind `json:"input,omitempty" yaml:"input,omitempty"`
	Prompt  string    `json:"prompt,omitempty" yaml:"prompt,omitempty"`

	query  queryFunc
	render renderFunc
}

// Static reports whether the analysis shows fixed text instead of querying.
func (a Analysis) Static() bool {
	return a.query == nil
}

// Statement builds the SQL for sel against table. The boolean is false when
// there is nothing to run: a static entry or a blank required input.
func (a Analysis) Statement(b sq.StatementBuilderType, table string, sel Selection) (Statement, bool, error) {
	if a.query == nil {
		return Statement{}, false, nil
	}
	if len(a.Options) > 0 && (sel.Option < 0 || sel.Option >= len(a.Options)) {
		return Statement{}, false, fmt.Errorf("%w: %d for %s", ErrInvalidOption, sel.Option, a.ID)
	}
	if a.Input != InputNone && strings.TrimSpace(sel.Input) == "" {
		return Statement{}, false, nil
	}

	q, ok := a.query(b, table, sel)
	if !ok {
		return Statement{}, false, nil
	}

	query, args, err := q.ToSql()
	if err != nil {
		return Statement{}, false, fmt.Errorf("building %s query: %w", a.ID, err)
	}
	return Statement{SQL: query, Args: args}, true, nil
}

// Catalog returns the menu in display order.
func Catalog() []Analysis {
	out := make([]Analysis, len(catalog))
	copy(out, catalog)
	return out
}

func Lookup(id ID) (Analysis, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Analysis{}, false
}

// ParseID accepts either a slug or a menu label, case-insensitively.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	for _, a := range catalog {
		if strings.EqualFold(string(a.ID), s) || strings.EqualFold(a.Label, s) {
			return a.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAnalysis, s)
}

// Placeholder returns the bind variable style for a driver.
func Placeholder(driver string) sq.PlaceholderFormat {
	if driver == "postgres" {
		return sq.Dollar
	}
	return sq.Question
}

const overviewText = `Welcome to the Book Analysis Dashboard. Use the sidebar to explore various analyses:
- Book availability and trends
- Publisher statistics
- Top-rated and expensive books
- Outliers and custom queries`

var catalog = []Analysis{
	{
		ID:      Overview,
		Label:   "Overview",
		Heading: "Overview",
		Text:    overviewText,
	},
	{
		ID:      Formats,
		Label:   "Availability of eBooks vs Physical Books",
		Heading: "Availability of eBooks vs Physical Books",
		query:   formatsQuery,
		render:  pie("book_format", "total_books", "Book Formats Distribution"),
	},
	{
		ID:      Publishers,
		Label:   "Publisher Statistics",
		Heading: "Publisher Statistics",
		Options: []string{"Most Books Published", "Highest Average Rating"},
		query:   publishersQuery,
		render:  indexedBar("publisher", "Publisher Statistics"),
	},
	{
		ID:      TopBooks,
		Label:   "Top Books Analysis",
		Heading: "Top 5 Most Expensive Books",
		query:   topBooksQuery,
		render:  table,
	},
	{
		ID:      PublishedAfter,
		Label:   "Books Published After 2010",
		Heading: "Books Published After 2010 with 500+ Pages",
		query:   publishedAfterQuery,
		render:  dataFrame,
	},
	{
		ID:      Discounts,
		Label:   "Discount Analysis",
		Heading: "Books with Discounts Greater than 20%",
		query:   discountsQuery,
		render:  bar("title", []string{"retail_price", "discount_price"}, "Discounted Books"),
	},
	{
		ID:      PageCount,
		Label:   "Average Page Count",
		Heading: "Average Page Count",
		Options: []string{"eBooks vs Physical Books", "By Category"},
		query:   pageCountQuery,
		render:  firstColumnBar("avg_page_count", "Average Page Count"),
	},
	{
		ID:      Authors,
		Label:   "Author Statistics",
		Heading: "Top Authors",
		query:   authorsQuery,
		render:  bar("author", []string{"total_books"}, "Top Authors by Book Count"),
	},
	{
		ID:      Search,
		Label:   "Books with Specific Criteria",
		Heading: "Filter Books by Criteria",
		Input:   InputKeyword,
		Prompt:  "Enter keyword to search in titles:",
		query:   searchQuery,
		render:  table,
	},
	{
		ID:      Outliers,
		Label:   "Outliers and Trends",
		Heading: "Books with Outlier Ratings",
		query:   outliersQuery,
		render:  scatter("ratings_count", "average_rating", "title", "Outlier Books"),
	},
	{
		ID:      CustomQuery,
		Label:   "Custom Query",
		Heading: "Run Your Custom Query",
		Input:   InputSQL,
		Prompt:  "Enter SQL Query",
		query:   customQuery,
		render:  dataFrame,
	},
}
