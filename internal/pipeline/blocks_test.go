package pipeline

import (
	"testing"

	"github.com/alnah/go-cvpager/internal/paginate"
)

// ---------------------------------------------------------------------------
// TestSplitBlocks - Fragment to block nodes
// ---------------------------------------------------------------------------

func TestSplitBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fragment string
		want     []string
	}{
		{
			name:     "top-level elements",
			fragment: "<h2>Skills</h2>\n<p>Go</p>\n<ul><li>a</li></ul>\n",
			want:     []string{"<h2>Skills</h2>", "<p>Go</p>", "<ul><li>a</li></ul>"},
		},
		{
			name:     "section children spliced in order",
			fragment: `<p>intro</p><section class="x"><h3>A</h3><p>a</p></section><p>end</p>`,
			want:     []string{"<p>intro</p>", "<h3>A</h3>", "<p>a</p>", "<p>end</p>"},
		},
		{
			name:     "nested sections",
			fragment: `<section><section><p>deep</p></section><p>shallow</p></section>`,
			want:     []string{"<p>deep</p>", "<p>shallow</p>"},
		},
		{
			name:     "stray inline run wrapped",
			fragment: `hello <em>world</em><p>next</p>`,
			want:     []string{"<p>hello <em>world</em></p>", "<p>next</p>"},
		},
		{
			name:     "comments and whitespace dropped",
			fragment: "\n<!-- note -->\n<p>only</p>\n\n",
			want:     []string{"<p>only</p>"},
		},
		{
			name:     "empty",
			fragment: "",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nodes, err := SplitBlocks(tt.fragment)
			if err != nil {
				t.Fatalf("SplitBlocks() unexpected error: %v", err)
			}
			blocks := paginate.Flatten(nodes)
			if len(blocks) != len(tt.want) {
				t.Fatalf("got %d blocks %v, want %d", len(blocks), blocks, len(tt.want))
			}
			for i, b := range blocks {
				if b.HTML != tt.want[i] {
					t.Errorf("block %d = %q, want %q", i, b.HTML, tt.want[i])
				}
				if b.ID != i {
					t.Errorf("block %d has ID %d", i, b.ID)
				}
			}
		})
	}
}

func TestSplitBlocks_SectionIsGroup(t *testing.T) {
	t.Parallel()

	nodes, err := SplitBlocks(`<section><p>a</p><p>b</p></section><p>c</p>`)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 2 {
		t.Fatalf("got %d top-level nodes, want 2", len(nodes))
	}
	if !nodes[0].IsGroup() || len(nodes[0].Children()) != 2 {
		t.Errorf("first node should be a group of 2, got %+v", nodes[0])
	}
	if nodes[1].IsGroup() {
		t.Error("second node should be a leaf")
	}
}

func TestSplitBlocks_WithListItems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fragment string
		want     []string
	}{
		{
			name:     "unordered items",
			fragment: "<ul>\n<li>one</li>\n<li>two</li>\n</ul>",
			want:     []string{"<ul><li>one</li></ul>", "<ul><li>two</li></ul>"},
		},
		{
			name:     "ordered items keep numbering",
			fragment: "<ol><li>a</li><li>b</li><li>c</li></ol>",
			want:     []string{"<ol><li>a</li></ol>", `<ol start="2"><li>b</li></ol>`, `<ol start="3"><li>c</li></ol>`},
		},
		{
			name:     "ordered list with start",
			fragment: `<ol start="5"><li>e</li><li>f</li></ol>`,
			want:     []string{`<ol start="5"><li>e</li></ol>`, `<ol start="6"><li>f</li></ol>`},
		},
		{
			name:     "other elements untouched",
			fragment: "<p>intro</p><ul><li>x</li></ul>",
			want:     []string{"<p>intro</p>", "<ul><li>x</li></ul>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nodes, err := SplitBlocks(tt.fragment, WithListItems())
			if err != nil {
				t.Fatalf("SplitBlocks() unexpected error: %v", err)
			}
			blocks := paginate.Flatten(nodes)
			if len(blocks) != len(tt.want) {
				t.Fatalf("got %d blocks %v, want %d", len(blocks), blocks, len(tt.want))
			}
			for i, b := range blocks {
				if b.HTML != tt.want[i] {
					t.Errorf("block %d = %q, want %q", i, b.HTML, tt.want[i])
				}
			}
		})
	}
}
