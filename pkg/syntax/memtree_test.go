package syntax

import (
	"errors"
	"reflect"
	"testing"
)

// testSource is a minimal curly-brace program used across accessor tests.
//
//	fn main() {
//	  call(arg);
//	}
const testSource = "fn main() {\n  call(arg);\n}\n"

// makeTestTree builds the shape a parser would produce for testSource.
func makeTestTree() *MemTree {
	root := Mem("source_file", 0, 26,
		Mem("function_definition", 0, 26,
			Mem("fn", 0, 2).Anon(),
			Mem("identifier", 3, 7).WithField("name"),
			Mem("parameter_list", 7, 9).WithField("parameters"),
			Mem("block", 10, 26,
				Mem("{", 10, 11).Anon(),
				Mem("expression_statement", 14, 24,
					Mem("call_expression", 14, 23,
						Mem("identifier", 14, 18).WithField("function"),
						Mem("argument_list", 18, 23,
							Mem("identifier", 19, 22),
						).WithField("arguments"),
					),
				),
				Mem("}", 25, 26).Anon(),
			).WithField("body"),
		),
	)

	return NewMemTree(testSource, root)
}

func TestMemTreeNavigation(t *testing.T) {
	t.Parallel()

	tree := makeTestTree()
	root := tree.Root()

	if root.Kind() != "source_file" {
		t.Fatalf("root kind: got %q", root.Kind())
	}

	fn := root.Child(0)
	if fn.Kind() != "function_definition" {
		t.Fatalf("child kind: got %q", fn.Kind())
	}

	if fn.Parent() == nil || fn.Parent().Kind() != "source_file" {
		t.Errorf("parent link broken")
	}

	name := fn.ChildByField("name")
	if name == nil || name.Text() != "main" {
		t.Errorf("ChildByField(name): got %v", name)
	}

	body := fn.ChildByField("body")
	if body == nil || body.Kind() != "block" {
		t.Fatalf("ChildByField(body): got %v", body)
	}

	if got := body.NamedChildCount(); got != 1 {
		t.Errorf("NamedChildCount: got %d, want 1", got)
	}

	if got := body.ChildCount(); got != 3 {
		t.Errorf("ChildCount: got %d, want 3", got)
	}

	stmt := body.NamedChild(0)
	if stmt.Kind() != "expression_statement" {
		t.Errorf("NamedChild(0): got %q", stmt.Kind())
	}

	if sib := stmt.PrevSibling(); sib == nil || sib.Kind() != "{" {
		t.Errorf("PrevSibling: got %v", sib)
	}

	if sib := stmt.NextSibling(); sib == nil || sib.Kind() != "}" {
		t.Errorf("NextSibling: got %v", sib)
	}
}

func TestMemNodePoints(t *testing.T) {
	t.Parallel()

	tree := makeTestTree()
	body := tree.Root().Child(0).ChildByField("body")

	if got := body.StartPoint(); got != (Point{Row: 0, Column: 10}) {
		t.Errorf("StartPoint: got %+v", got)
	}

	if got := body.EndPoint(); got != (Point{Row: 2, Column: 1}) {
		t.Errorf("EndPoint: got %+v", got)
	}
}

func TestWalkPreOrder(t *testing.T) {
	t.Parallel()

	tree := makeTestTree()

	var kinds []string

	Walk(tree.Root(), ByteRange{}, func(n Node) bool {
		kinds = append(kinds, n.Kind())

		return true
	})

	want := []string{
		"source_file", "function_definition", "fn", "identifier",
		"parameter_list", "block", "{", "expression_statement",
		"call_expression", "identifier", "argument_list", "identifier", "}",
	}

	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("Walk order: got %v, want %v", kinds, want)
	}
}

func TestWalkRangeBound(t *testing.T) {
	t.Parallel()

	tree := makeTestTree()

	var kinds []string

	// Restrict to the second line only.
	Walk(tree.Root(), ByteRange{Start: 12, End: 24}, func(n Node) bool {
		kinds = append(kinds, n.Kind())

		return true
	})

	for _, kind := range kinds {
		if kind == "fn" || kind == "parameter_list" {
			t.Errorf("range bound leaked node %q", kind)
		}
	}

	if len(kinds) == 0 {
		t.Fatal("range-bounded walk visited nothing")
	}
}

func TestSmallestNodeAt(t *testing.T) {
	t.Parallel()

	tree := makeTestTree()

	tests := []struct {
		name   string
		offset uint
		want   string
	}{
		{"inside_identifier", 4, "identifier"},
		{"inside_call_argument", 20, "identifier"},
		{"gap_between_tokens", 9, "function_definition"},
		{"block_interior_blank", 12, "block"},
		{"closing_brace", 25, "}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			node, err := SmallestNodeAt(tree, tt.offset)
			if err != nil {
				t.Fatalf("SmallestNodeAt: %v", err)
			}

			if node.Kind() != tt.want {
				t.Errorf("got %q, want %q", node.Kind(), tt.want)
			}
		})
	}
}

func TestSmallestNodeAtEmptyTree(t *testing.T) {
	t.Parallel()

	tree := NewMemTree("", nil)

	_, err := SmallestNodeAt(tree, 0)
	if !errors.Is(err, ErrNoNode) {
		t.Errorf("empty tree: got %v, want ErrNoNode", err)
	}
}

func TestSmallestNodeAtStale(t *testing.T) {
	t.Parallel()

	tree := makeTestTree()
	tree.Invalidate()

	_, err := SmallestNodeAt(tree, 0)
	if !errors.Is(err, ErrStaleTree) {
		t.Errorf("stale tree: got %v, want ErrStaleTree", err)
	}
}

func TestFirstNodeAfter(t *testing.T) {
	t.Parallel()

	tree := makeTestTree()

	node := FirstNodeAfter(tree, 24)
	if node == nil || node.Kind() != "}" {
		t.Errorf("FirstNodeAfter(24): got %v, want closing brace", node)
	}

	if node := FirstNodeAfter(tree, 26); node != nil {
		t.Errorf("FirstNodeAfter past end: got %v, want nil", node)
	}
}

func TestSame(t *testing.T) {
	t.Parallel()

	tree := makeTestTree()
	a := tree.Root().Child(0).ChildByField("name")
	b := tree.Root().Child(0).ChildByField("name")

	if !Same(a, b) {
		t.Error("Same: identical nodes reported different")
	}

	if Same(a, tree.Root()) {
		t.Error("Same: distinct nodes reported equal")
	}

	if !Same(nil, nil) {
		t.Error("Same: nil pair should be equal")
	}

	if Same(a, nil) {
		t.Error("Same: node vs nil should differ")
	}
}
