package model_test

import (
	"testing"

	"github.com/pocketdoc/pocketdoc/model"
	"github.com/pocketdoc/pocketdoc/value"
)

func TestDocumentKeyValidation(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"users/alice", false},
		{"users/alice/orders/7", false},
		{"users", true},           // collection path, not a document
		{"users/alice/orders", true},
		{"", true},
		{"users//x", true},
	}
	for _, tt := range tests {
		_, err := model.ParseDocumentKey(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDocumentKey(%q) err = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestDocumentKeyParts(t *testing.T) {
	k, err := model.ParseDocumentKey("users/alice/orders/7")
	if err != nil {
		t.Fatal(err)
	}
	if k.Collection() != "users/alice/orders" {
		t.Errorf("Collection = %q", k.Collection())
	}
	if k.ID() != "7" {
		t.Errorf("ID = %q", k.ID())
	}
	if k.String() != "users/alice/orders/7" {
		t.Errorf("String = %q", k.String())
	}
}

func TestDocumentField(t *testing.T) {
	k, _ := model.ParseDocumentKey("users/alice")
	doc := model.NewDocument(k, 1, model.ObjectValueFromFields(map[string]value.Value{
		"name": value.String("alice"),
	}))

	v, ok := doc.Field(model.MustFieldPath("name"))
	if !ok || value.Compare(v, value.String("alice")) != 0 {
		t.Errorf("name = %v", v)
	}

	ref, ok := doc.Field(model.KeyFieldPath())
	if !ok || value.Compare(ref, value.Reference("users/alice")) != 0 {
		t.Errorf("__name__ = %v, want users/alice reference", ref)
	}

	if _, ok := doc.Field(model.MustFieldPath("missing")); ok {
		t.Error("missing field reported present")
	}
}
