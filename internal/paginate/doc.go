// Package paginate partitions an ordered sequence of content blocks across
// fixed-height pages.
//
// Block sizes are not known until a host surface has rendered them, so the
// engine does not compute layout. It renders, measures, and corrects:
//
//  1. The Paginator starts with every block on page 1.
//  2. Each pass hands an immutable snapshot of the partition to the Surface,
//     which renders it and reports post-render geometry per page.
//  3. A page whose content extends past its content area reports overflow
//     with the geometry of its blocks.
//  4. Redistribute moves the suffix of blocks that do not fit to the front of
//     the next page.
//
// The loop ends when a pass observes no overflowing page (Stable), when no
// page has anything left to report (an oversize block alone on its page), or
// when the number of redistributions exceeds the number of blocks. A split
// that moves nothing is not a redistribution. When the limit is hit the
// partition is frozen and the Result is marked Unresolved.
//
// # Content
//
// Content arrives as a tree of Leaf and Group nodes. Groups are spliced
// inline by Flatten before measurement; a block's identity is its position
// in the flattened sequence.
//
// # Surfaces
//
// A Surface renders all pages of a snapshot and returns a Layout per page:
// the content container rect and one rect per block, keyed by block ID, in
// the surface's own coordinate space. The rod-backed surface in the root
// package is the production implementation.
package paginate
