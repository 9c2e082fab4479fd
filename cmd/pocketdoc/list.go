// Part of the pocketdoc CLI - the 'list' command with --where filters.
package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pocketdoc/pocketdoc/codec"
	"github.com/pocketdoc/pocketdoc/model"
	"github.com/pocketdoc/pocketdoc/query"
	"github.com/pocketdoc/pocketdoc/storage"
)

var (
	listCollection string
	whereClauses   []string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents, optionally filtered",
	Long: "List documents matching every --where clause. A clause has the form " +
		"'field,op,json-value', e.g. --where 'age,>=,30' or " +
		"--where 'tags,array-contains,\"go\"'. The __name__ field filters on keys.",
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listCollection, "collection", "", "restrict to one collection path")
	listCmd.Flags().StringArrayVarP(&whereClauses, "where", "w", nil, "filter clause: field,op,json-value (repeatable)")
}

func runList(cmd *cobra.Command, args []string) error {
	filters, err := parseWhereClauses(whereClauses)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	docs, err := store.List(storage.ListOptions{
		Collection: listCollection,
		Filters:    filters,
	})
	if err != nil {
		return err
	}
	slog.Debug("list evaluated", "filters", len(filters), "matches", len(docs))

	for _, doc := range docs {
		data, err := codec.EncodeJSON(doc.Data)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", doc.Key, data)
	}
	return nil
}

// parseWhereClauses turns 'field,op,json-value' clauses into filters.
// Construction-time validation (null/NaN rules, key-field rules, array
// bounds) happens inside query.Create.
func parseWhereClauses(clauses []string) ([]query.Filter, error) {
	var filters []query.Filter
	for _, clause := range clauses {
		parts := strings.SplitN(clause, ",", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("bad --where clause %q (want field,op,json-value)", clause)
		}

		path, err := model.ParseFieldPath(parts[0])
		if err != nil {
			return nil, fmt.Errorf("bad --where field in %q: %w", clause, err)
		}
		op, err := query.ParseOperator(parts[1])
		if err != nil {
			return nil, fmt.Errorf("bad --where operator in %q: %w", clause, err)
		}
		bound, err := codec.DecodeJSON([]byte(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("bad --where value in %q: %w", clause, err)
		}

		f, err := query.Create(path, op, bound)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}
