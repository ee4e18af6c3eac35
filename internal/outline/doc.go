// Package outline maps heading positions to pages and writes a bookmark
// tree directly into a rendered PDF's object graph.
//
// The bookmark nodes are built as raw indirect objects (dictionaries with
// Title/Dest/Parent/Prev/Next entries) rather than through a heading-aware
// convenience API, because each destination must reference a page object
// of the already-rendered page array, which only exists after
// rasterization.
package outline
