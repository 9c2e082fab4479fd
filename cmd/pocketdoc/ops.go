// Part of the pocketdoc CLI - document operations: get, set, update,
// delete, mask.
package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pocketdoc/pocketdoc/codec"
	"github.com/pocketdoc/pocketdoc/model"
	"github.com/pocketdoc/pocketdoc/storage"
	"github.com/pocketdoc/pocketdoc/value"
)

var getCmd = &cobra.Command{
	Use:   "get <document-key> [field-path]",
	Short: "Print a document or one of its fields",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	key, err := model.ParseDocumentKey(args[0])
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	doc, err := store.Get(key)
	if err != nil {
		return err
	}

	var v value.Value = doc.Data
	if len(args) == 2 {
		path, err := model.ParseFieldPath(args[1])
		if err != nil {
			return err
		}
		field, ok := doc.Data.Get(path)
		if !ok {
			return fmt.Errorf("document %s has no field %s", key, path)
		}
		v = field
	}

	out, err := codec.EncodeJSON(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

var setCmd = &cobra.Command{
	Use:   "set <document-key> <json-document>",
	Short: "Replace a document with the given JSON value",
	Long: "Replace the document under the key. The value uses the interchange " +
		"JSON form; the top level must decode to a map.",
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	key, err := model.ParseDocumentKey(args[0])
	if err != nil {
		return err
	}
	v, err := codec.DecodeJSON([]byte(args[1]))
	if err != nil {
		return err
	}
	m, ok := v.(value.Map)
	if !ok {
		return fmt.Errorf("document value must be a map, got %v", v.Kind())
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Set(key, m); err != nil {
		return err
	}
	slog.Info("document set", "key", key.String())
	return nil
}

var updateCmd = &cobra.Command{
	Use:   "update <document-key> <field-path> [json-value]",
	Short: "Set one field, or delete it with --delete",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runUpdate,
}

var deleteFieldFlag bool

func init() {
	updateCmd.Flags().BoolVar(&deleteFieldFlag, "delete", false, "delete the field instead of setting it")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	key, err := model.ParseDocumentKey(args[0])
	if err != nil {
		return err
	}
	path, err := model.ParseFieldPath(args[1])
	if err != nil {
		return err
	}

	var update storage.FieldUpdate
	switch {
	case deleteFieldFlag:
		if len(args) == 3 {
			return fmt.Errorf("--delete takes no value")
		}
		update = storage.DeleteField(path)
	case len(args) == 3:
		v, err := codec.DecodeJSON([]byte(args[2]))
		if err != nil {
			return err
		}
		update = storage.SetValue(path, v)
	default:
		return fmt.Errorf("update needs a value or --delete")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Update(key, update); err != nil {
		return err
	}
	slog.Info("document updated", "key", key.String(), "field", path.String())
	return nil
}

var deleteCmd = &cobra.Command{
	Use:   "delete <document-key>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	key, err := model.ParseDocumentKey(args[0])
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Delete(key); err != nil {
		return err
	}
	slog.Info("document deleted", "key", key.String())
	return nil
}

var maskCmd = &cobra.Command{
	Use:   "mask <document-key>",
	Short: "Print the document's field mask, one leaf path per line",
	Args:  cobra.ExactArgs(1),
	RunE:  runMask,
}

func runMask(cmd *cobra.Command, args []string) error {
	key, err := model.ParseDocumentKey(args[0])
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	doc, err := store.Get(key)
	if err != nil {
		return err
	}
	for _, p := range doc.Data.FieldMask().Paths() {
		fmt.Fprintln(cmd.OutOrStdout(), p.CanonicalString())
	}
	return nil
}
