package commands

import (
	"github.com/spf13/cobra"

	"github.com/danny270793/myorm/cli/internal/ui"
	"github.com/danny270793/myorm/query/builder"
	"github.com/danny270793/myorm/query/filter"
)

var queryCmd = &cobra.Command{
	Use:   "query <table>",
	Short: "Select rows from a table",
	Long: `Select rows from a table.

--where takes a filter expression, for example:

    myorm query users --where "active = true and email like '%@example.com'" --order "name desc"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

var (
	queryWhere  string
	queryFields []string
	queryOrder  string
	queryLimit  int
	queryOffset int
	queryDryRun bool
)

func init() {
	queryCmd.Flags().StringVarP(&queryWhere, "where", "w", "", "Filter expression")
	queryCmd.Flags().StringSliceVarP(&queryFields, "fields", "f", nil, "Columns to select (default all)")
	queryCmd.Flags().StringVarP(&queryOrder, "order", "o", "", `Ordering, "field [asc|desc]"`)
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "l", 0, "Maximum number of rows")
	queryCmd.Flags().IntVar(&queryOffset, "offset", 0, "Rows to skip")
	queryCmd.Flags().BoolVar(&queryDryRun, "dry-run", false, "Print the statement without running it")
	rootCmd.AddCommand(queryCmd)
}

// buildSelect turns the query flags into a select over table.
func buildSelect(table, where string, fields []string, order string, limit, offset int) (*builder.SelectBuilder, error) {
	sel := builder.From(table)

	if len(fields) > 0 {
		sel.Fields(fields...)
	}

	conditions, err := filter.Parse(where)
	if err != nil {
		return nil, err
	}
	sel.Where(conditions...)

	field, dir, err := parseOrder(order)
	if err != nil {
		return nil, err
	}
	if field != "" {
		sel.OrderBy(field, dir)
	}

	if limit > 0 {
		sel.Limit(limit)
	}
	if offset > 0 {
		sel.Offset(offset)
	}
	return sel, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sel, err := buildSelect(args[0], queryWhere, queryFields, queryOrder, queryLimit, queryOffset)
	if err != nil {
		return err
	}
	ps, err := sel.ToPreparedStatement()
	if err != nil {
		return err
	}
	if queryDryRun || settings.Debug {
		ui.PrintStatement(ps.SQL, ps.Params)
	}
	if queryDryRun {
		return nil
	}

	h, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer h.Close()

	rows, err := h.Query(ctx, ps)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		ui.PrintInfo("No rows")
		return nil
	}

	maps := rowMaps(rows)
	columns := displayColumns(queryFields, maps)
	if err := ui.PrintTable(columns, ui.TableRows(columns, maps)); err != nil {
		return err
	}
	ui.PrintInfo("%d row(s)", len(rows))
	return nil
}

// displayColumns keeps the requested field order when every field is a
// plain column of the result.
func displayColumns(fields []string, rows []map[string]interface{}) []string {
	if len(fields) == 0 || len(rows) == 0 {
		return ui.RowColumns(rows)
	}
	for _, f := range fields {
		if _, ok := rows[0][f]; !ok {
			return ui.RowColumns(rows)
		}
	}
	return fields
}
