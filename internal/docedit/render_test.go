package docedit

import (
	"reflect"
	"testing"
)

func TestRender_Format(t *testing.T) {
	nodes := []FlatNode{
		{ID: "a1", Text: "Hello"},
		{ID: "b2", Text: "World"},
	}
	got := Render(nodes)
	want := "[ID:a1] Hello\n[ID:b2] World"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRender_Empty(t *testing.T) {
	if got := Render(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestFilterByID_PreservesListOrder(t *testing.T) {
	nodes := []FlatNode{
		{ID: "a1", Text: "first"},
		{ID: "b2", Text: "second"},
		{ID: "c3", Text: "third"},
	}
	got := FilterByID(nodes, []string{"c3", "a1"})
	want := []FlatNode{{ID: "a1", Text: "first"}, {ID: "c3", Text: "third"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestFilterByID_NoIDs(t *testing.T) {
	nodes := []FlatNode{{ID: "a1", Text: "x"}}
	if got := FilterByID(nodes, nil); got != nil {
		t.Errorf("expected nil for empty selection, got %v", got)
	}
}

func TestFilterByID_UnknownIDsIgnored(t *testing.T) {
	nodes := []FlatNode{{ID: "a1", Text: "x"}}
	if got := FilterByID(nodes, []string{"zz"}); got != nil {
		t.Errorf("expected nil for unknown selection, got %v", got)
	}
}
