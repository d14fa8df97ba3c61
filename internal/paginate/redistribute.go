package paginate

// Split is the outcome of redistributing one overflowing page.
type Split struct {
	Keep       []Block
	Overflowed []Block
}

// Redistribute decides which blocks of an overflowing page stay and which
// move to the next page. sizing.Blocks must be in the same order as blocks.
//
// The first block stays if it is at least as tall as the content area: it
// gets a page of its own and overflows visibly. Any other block stays only
// if it lies entirely within [0, height]. The first block that does not fit
// and everything after it move, so the moved blocks are always a suffix.
// A page never gives away its first block.
func Redistribute(blocks []Block, sizing Sizing, height float64) Split {
	cut := len(blocks)
	for k := range blocks {
		if k >= len(sizing.Blocks) {
			cut = k
			break
		}
		r := sizing.Blocks[k]
		if k == 0 && r.Height >= height {
			continue
		}
		if r.Top <= height && r.Bottom() <= height {
			continue
		}
		cut = k
		break
	}
	if cut == 0 && len(blocks) > 0 {
		cut = 1
	}

	return Split{
		Keep:       blocks[:cut:cut],
		Overflowed: blocks[cut:],
	}
}

// Apply returns a new partition where page i holds split.Keep and
// split.Overflowed is prepended to page i+1. Page i+1 is created if it does
// not exist and something moved. pages is not modified.
func Apply(pages [][]Block, i int, split Split) [][]Block {
	next := make([][]Block, len(pages), len(pages)+1)
	copy(next, pages)

	next[i] = append([]Block(nil), split.Keep...)
	if len(split.Overflowed) == 0 {
		return next
	}

	if i+1 == len(next) {
		next = append(next, nil)
	}
	merged := make([]Block, 0, len(split.Overflowed)+len(next[i+1]))
	merged = append(merged, split.Overflowed...)
	merged = append(merged, next[i+1]...)
	next[i+1] = merged
	return next
}
