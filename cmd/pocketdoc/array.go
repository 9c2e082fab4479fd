// Part of the pocketdoc CLI - array transform commands.
package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pocketdoc/pocketdoc/codec"
	"github.com/pocketdoc/pocketdoc/model"
	"github.com/pocketdoc/pocketdoc/mutation"
	"github.com/pocketdoc/pocketdoc/value"
)

var arrayCmd = &cobra.Command{
	Use:   "array",
	Short: "Idempotent array transforms",
}

var arrayUnionCmd = &cobra.Command{
	Use:   "union <document-key> <field-path> <json-array>",
	Short: "Append the given elements that are not already present",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runArrayTransform(args, func(elems []value.Value) mutation.ArrayTransform {
			return mutation.NewUnion(elems...)
		})
	},
}

var arrayRemoveCmd = &cobra.Command{
	Use:   "remove <document-key> <field-path> <json-array>",
	Short: "Remove every occurrence of the given elements",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runArrayTransform(args, func(elems []value.Value) mutation.ArrayTransform {
			return mutation.NewRemove(elems...)
		})
	},
}

func init() {
	arrayCmd.AddCommand(arrayUnionCmd)
	arrayCmd.AddCommand(arrayRemoveCmd)
}

func runArrayTransform(args []string, build func([]value.Value) mutation.ArrayTransform) error {
	key, err := model.ParseDocumentKey(args[0])
	if err != nil {
		return err
	}
	path, err := model.ParseFieldPath(args[1])
	if err != nil {
		return err
	}
	v, err := codec.DecodeJSON([]byte(args[2]))
	if err != nil {
		return err
	}
	elems, ok := v.(value.ArrayValue)
	if !ok {
		return fmt.Errorf("transform elements must be a JSON array, got %v", v.Kind())
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.ApplyTransform(key, path, build(elems)); err != nil {
		return err
	}
	slog.Info("array transform applied", "key", key.String(), "field", path.String())
	return nil
}
