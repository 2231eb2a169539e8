package dashboard

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

const (
	formatCase = "CASE WHEN COALESCE(%s.isEbook, 'False') = 'False' THEN 'Physical Book' ELSE 'Ebook' END AS book_format"

	// minDiscountPercent is compared against the computed percentage, so a
	// row qualifies once it is discounted by more than 0.2%.
	minDiscountPercent = 0.2
	discountPercent    = "ROUND((t.amount_listPrice - t.amount_retailPrice) / t.amount_listPrice * 100, 2)"
)

func from(table, alias string) string {
	return table + " " + alias
}

func formatsQuery(b sq.StatementBuilderType, table string, _ Selection) (sq.Sqlizer, bool) {
	return b.Select(
		fmt.Sprintf(formatCase, "t1"),
		"COUNT(*) AS total_books",
	).
		From(from(table, "t1")).
		GroupBy("book_format"), true
}

func publishersQuery(b sq.StatementBuilderType, table string, sel Selection) (sq.Sqlizer, bool) {
	if sel.Option == 0 {
		return b.Select("l1.publisher AS publisher", "COUNT(*) AS cnt").
			From(from(table, "l1")).
			GroupBy("l1.publisher").
			OrderBy("cnt DESC").
			Limit(10), true
	}

	return b.Select("l1.publisher AS publisher", "ROUND(AVG(l1.averageRating), 2) AS avg_rating").
		From(from(table, "l1")).
		GroupBy("l1.publisher").
		Having("COUNT(*) > 10").
		OrderBy("avg_rating DESC").
		Limit(10), true
}

func topBooksQuery(b sq.StatementBuilderType, table string, _ Selection) (sq.Sqlizer, bool) {
	return b.Select("dr.book_title AS title", "dr.amount_retailPrice AS retail_price").
		From(from(table, "dr")).
		OrderBy("retail_price DESC").
		Limit(5), true
}

func publishedAfterQuery(b sq.StatementBuilderType, table string, _ Selection) (sq.Sqlizer, bool) {
	return b.Select("dr.book_title AS title", "dr.pageCount AS page_count", "dr.year AS publication_year").
		From(from(table, "dr")).
		Where(sq.Gt{"dr.year": 2010}).
		Where(sq.GtOrEq{"dr.pageCount": 500}), true
}

func discountsQuery(b sq.StatementBuilderType, table string, _ Selection) (sq.Sqlizer, bool) {
	return b.Select(
		"t.book_title AS title",
		"t.amount_listPrice AS retail_price",
		"t.amount_retailPrice AS discount_price",
		discountPercent+" AS discount_percentage",
	).
		From(from(table, "t")).
		Where(sq.Gt{"t.amount_retailPrice": 0}).
		Where("t.amount_listPrice > t.amount_retailPrice").
		Where(discountPercent+" > ?", minDiscountPercent), true
}

func pageCountQuery(b sq.StatementBuilderType, table string, sel Selection) (sq.Sqlizer, bool) {
	if sel.Option == 0 {
		return b.Select(fmt.Sprintf(formatCase, "l1"), "ROUND(AVG(l1.pageCount), 2) AS avg_page_count").
			From(from(table, "l1")).
			GroupBy("book_format"), true
	}

	return b.Select("l1.categories AS categories", "ROUND(AVG(l1.pageCount), 2) AS avg_page_count").
		From(from(table, "l1")).
		GroupBy("l1.categories"), true
}

func authorsQuery(b sq.StatementBuilderType, table string, _ Selection) (sq.Sqlizer, bool) {
	return b.Select("COALESCE(l1.book_authors, 'unknown') AS author", "COUNT(*) AS total_books").
		From(from(table, "l1")).
		GroupBy("l1.book_authors").
		OrderBy("total_books DESC").
		Limit(10), true
}

// likeEscaper makes the keyword match literally. The escape character is '!'
// since a backslash literal is read differently by MySQL and Postgres.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// searchQuery binds the keyword instead of splicing it into the SQL text.
// The keyword is matched as typed, surrounding spaces included.
func searchQuery(b sq.StatementBuilderType, table string, sel Selection) (sq.Sqlizer, bool) {
	if strings.TrimSpace(sel.Input) == "" {
		return nil, false
	}

	return b.Select("l1.book_title AS book_title", "COALESCE(l1.amount_retailPrice, l1.amount_listPrice) AS price").
		From(from(table, "l1")).
		Where("l1.book_title LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(sel.Input)+"%"), true
}

func outliersQuery(b sq.StatementBuilderType, table string, _ Selection) (sq.Sqlizer, bool) {
	stats := fmt.Sprintf(
		"WITH stats AS (SELECT AVG(averageRating) AS avg_rating, STDDEV(averageRating) AS stddev_rating FROM %s)",
		table,
	)

	return b.Select("l1.book_title AS title", "l1.averageRating AS average_rating", "l1.ratingsCount AS ratings_count").
		Prefix(stats).
		From(from(table, "l1") + ", stats").
		Where("(l1.averageRating > stats.avg_rating + 2 * stats.stddev_rating OR l1.averageRating < stats.avg_rating - 2 * stats.stddev_rating)"), true
}

// customQuery passes the user's SQL through untouched.
func customQuery(_ sq.StatementBuilderType, _ string, sel Selection) (sq.Sqlizer, bool) {
	text := strings.TrimSpace(sel.Input)
	if text == "" {
		return nil, false
	}
	return sq.Expr(text), true
}
