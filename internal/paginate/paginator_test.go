package paginate

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
)

func pageIDs(pages []Page) [][]int {
	ids := make([][]int, len(pages))
	for i, p := range pages {
		ids[i] = blockIDs(p.Blocks)
	}
	return ids
}

func TestPaginator_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		heights    []float64
		wantPages  [][]int
		wantStable bool
		wantRedis  int
	}{
		{
			name:       "single page fits",
			heights:    []float64{20, 30},
			wantPages:  [][]int{{0, 1}},
			wantStable: true,
		},
		{
			name:       "overflow splits into two pages",
			heights:    []float64{30, 40, 25, 60, 10},
			wantPages:  [][]int{{0, 1, 2}, {3, 4}},
			wantStable: true,
			wantRedis:  1,
		},
		{
			name:       "cascade over three pages",
			heights:    []float64{60, 60, 60},
			wantPages:  [][]int{{0}, {1}, {2}},
			wantStable: true,
			wantRedis:  2,
		},
		{
			name:       "oversize block isolated on its own page",
			heights:    []float64{150, 20, 30},
			wantPages:  [][]int{{0}, {1, 2}},
			wantStable: false,
			wantRedis:  1,
		},
		{
			name:       "consecutive oversize blocks",
			heights:    []float64{150, 150, 150, 150},
			wantPages:  [][]int{{0}, {1}, {2}, {3}},
			wantStable: false,
			wantRedis:  3,
		},
		{
			name:       "long run of oversize blocks",
			heights:    []float64{150, 150, 150, 150, 150, 150},
			wantPages:  [][]int{{0}, {1}, {2}, {3}, {4}, {5}},
			wantStable: false,
			wantRedis:  5,
		},
		{
			name:       "oversize blocks then a short one",
			heights:    []float64{120, 120, 120, 40},
			wantPages:  [][]int{{0}, {1}, {2}, {3}},
			wantStable: false,
			wantRedis:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newStackSurface(100, tt.heights...)
			p := New(s)
			p.SetContent(leaves(len(tt.heights)))

			res, err := p.Run(context.Background())
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			got := pageIDs(res.Pages)
			if !slices.EqualFunc(got, tt.wantPages, slices.Equal[[]int]) {
				t.Errorf("pages = %v, want %v", got, tt.wantPages)
			}
			if res.Stable != tt.wantStable {
				t.Errorf("Stable = %v, want %v", res.Stable, tt.wantStable)
			}
			if res.Unresolved {
				t.Error("Unresolved = true, want false")
			}
			if res.Redistributions != tt.wantRedis {
				t.Errorf("Redistributions = %d, want %d", res.Redistributions, tt.wantRedis)
			}
			if p.Stable() != res.Stable {
				t.Errorf("Stable() = %v, disagrees with Result", p.Stable())
			}
		})
	}
}

func TestPaginator_EmptyContent(t *testing.T) {
	t.Parallel()

	p := New(newStackSurface(100))
	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.Stable || len(res.Pages) != 1 || len(res.Pages[0].Blocks) != 0 {
		t.Errorf("empty content: Stable = %v, pages = %v", res.Stable, pageIDs(res.Pages))
	}
}

func TestPaginator_ConservationAndFit(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(7, 11))
	for trial := range 50 {
		n := r.IntN(30) + 1
		heights := make([]float64, n)
		for i := range heights {
			heights[i] = 5 + r.Float64()*90
		}

		t.Run(fmt.Sprintf("trial_%d", trial), func(t *testing.T) {
			s := newStackSurface(100, heights...)
			p := New(s)
			p.SetContent(leaves(n))

			res, err := p.Run(context.Background())
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !res.Stable || res.Unresolved {
				t.Fatalf("Stable = %v, Unresolved = %v, heights %v", res.Stable, res.Unresolved, heights)
			}

			var all []int
			for _, page := range res.Pages {
				if len(page.Blocks) == 0 {
					t.Errorf("page %d is empty", page.Number)
				}
				sum := 0.0
				for _, b := range page.Blocks {
					sum += heights[b.ID]
					all = append(all, b.ID)
				}
				if sum > 100 {
					t.Errorf("page %d holds %v, over the page height", page.Number, sum)
				}
				if page.Overflow || !page.Measured {
					t.Errorf("page %d: Overflow = %v, Measured = %v", page.Number, page.Overflow, page.Measured)
				}
			}
			if want := blockIDs(p.Blocks()); !slices.Equal(all, want) {
				t.Errorf("concatenated pages = %v, want %v", all, want)
			}
			if res.Redistributions > n {
				t.Errorf("Redistributions = %d exceeds block count %d", res.Redistributions, n)
			}
		})
	}
}

func TestPaginator_RunIsIdempotentWhenStable(t *testing.T) {
	t.Parallel()

	s := newStackSurface(100, 30, 40, 25, 60, 10)
	p := New(s)
	p.SetContent(leaves(5))

	first, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	second, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if second.Redistributions != first.Redistributions {
		t.Errorf("second Run redistributed: %d -> %d", first.Redistributions, second.Redistributions)
	}
	if second.Passes != 1 || !second.Stable {
		t.Errorf("second Run: Passes = %d, Stable = %v, want 1 pass and stable", second.Passes, second.Stable)
	}
	if second.Generation != first.Generation {
		t.Error("generation changed without SetContent")
	}
}

func TestPaginator_RunawayGuard(t *testing.T) {
	t.Parallel()

	// The trailing block of any page holding more than one block is always
	// too tall, so every page keeps handing its last block on.
	s := newStackSurface(100)
	s.blockHeight = func(id, _, page int) float64 {
		blocks := s.views[page].Blocks
		if len(blocks) > 1 && blocks[len(blocks)-1].ID == id {
			return 150
		}
		return 30
	}
	p := New(s)
	p.SetContent(leaves(4))

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.Unresolved {
		t.Fatal("Unresolved = false, want true")
	}
	if res.Stable {
		t.Error("Stable = true for an unresolved partition")
	}
	if res.Redistributions != 4 {
		t.Errorf("Redistributions = %d, want 4", res.Redistributions)
	}
	if res.Passes != 5 {
		t.Errorf("Passes = %d, want 5", res.Passes)
	}
	want := [][]int{{0}, {1, 2}, {3}}
	if got := pageIDs(res.Pages); !slices.EqualFunc(got, want, slices.Equal[[]int]) {
		t.Errorf("frozen pages = %v, want %v", got, want)
	}
	// The frozen partition is rendered once more after the abort.
	if s.renders != 6 {
		t.Errorf("renders = %d, want 6", s.renders)
	}

	// Once aborted, Run does nothing until new content arrives.
	again, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() after abort error = %v", err)
	}
	if again.Passes != 0 || !again.Unresolved {
		t.Errorf("Run() after abort: Passes = %d, Unresolved = %v", again.Passes, again.Unresolved)
	}
}

func TestPaginator_Unmeasurable(t *testing.T) {
	t.Parallel()

	t.Run("gives up after idle passes", func(t *testing.T) {
		t.Parallel()

		s := newStackSurface(100, 30, 90)
		s.attachAfter = 1000
		p := New(s, WithMaxIdlePasses(2))
		p.SetContent(leaves(2))

		res, err := p.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.Stable || res.Passes != 2 || res.Redistributions != 0 {
			t.Errorf("Stable = %v, Passes = %d, Redistributions = %d", res.Stable, res.Passes, res.Redistributions)
		}
		if res.Pages[0].Measured {
			t.Error("page reported as measured")
		}
	})

	t.Run("attaches late and converges", func(t *testing.T) {
		t.Parallel()

		s := newStackSurface(100, 30, 40, 25, 60, 10)
		s.attachAfter = 2
		p := New(s)
		p.SetContent(leaves(5))

		res, err := p.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !res.Stable {
			t.Fatal("Stable = false after the surface attached")
		}
		if got := pageIDs(res.Pages); !slices.EqualFunc(got, [][]int{{0, 1, 2}, {3, 4}}, slices.Equal[[]int]) {
			t.Errorf("pages = %v", got)
		}
	})
}

func TestPaginator_SetContentResets(t *testing.T) {
	t.Parallel()

	s := newStackSurface(100, 60, 60, 60)
	p := New(s)
	p.SetContent(leaves(3))
	first, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	p.SetContent(leaves(2))
	if p.Stable() {
		t.Error("Stable() = true right after SetContent")
	}
	if pages := p.Pages(); len(pages) != 1 || len(pages[0].Blocks) != 2 {
		t.Errorf("pages after SetContent = %v, want one page of 2 blocks", pageIDs(pages))
	}

	second, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if second.Generation == first.Generation {
		t.Error("SetContent did not start a new generation")
	}
	if second.Redistributions != 1 {
		t.Errorf("Redistributions = %d, want 1 (counter reset)", second.Redistributions)
	}
}

func TestPaginator_Decorations(t *testing.T) {
	t.Parallel()

	s := newStackSurface(100, 60, 60)
	footer := DecorationFunc(func(i PageInfo) string { return fmt.Sprintf("%d/%d", i.Number, i.Count) })
	p := New(s, WithHeader(Static("<h>")), WithFooter(footer))
	p.SetContent(leaves(2))

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(s.views) != 2 {
		t.Fatalf("last render had %d pages, want 2", len(s.views))
	}
	for i, want := range []string{"1/2", "2/2"} {
		if s.views[i].Footer != want {
			t.Errorf("page %d footer = %q, want %q", i+1, s.views[i].Footer, want)
		}
		if s.views[i].Header != "<h>" {
			t.Errorf("page %d header = %q", i+1, s.views[i].Header)
		}
	}
}

func TestPaginator_Errors(t *testing.T) {
	t.Parallel()

	t.Run("render error", func(t *testing.T) {
		t.Parallel()

		s := newStackSurface(100, 10)
		s.renderErr = errBoom
		p := New(s)
		p.SetContent(leaves(1))
		if _, err := p.Run(context.Background()); !errors.Is(err, ErrSurface) {
			t.Errorf("Run() error = %v, want ErrSurface", err)
		}
	})

	t.Run("layout error", func(t *testing.T) {
		t.Parallel()

		s := newStackSurface(100, 10)
		s.layoutErr = errBoom
		p := New(s)
		p.SetContent(leaves(1))
		if _, err := p.Run(context.Background()); !errors.Is(err, ErrSurface) {
			t.Errorf("Run() error = %v, want ErrSurface", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := New(newStackSurface(100, 10))
		p.SetContent(leaves(1))
		if _, err := p.Run(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	})
}
