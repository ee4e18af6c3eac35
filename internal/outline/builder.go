package outline

import (
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ErrBuild indicates an internal consistency violation while wiring the
// outline object graph. The document is never emitted with a dangling
// reference; any inconsistency fails the whole build.
var ErrBuild = errors.New("outline build failed")

// Entry is one bookmark to attach: a title, the heading's nesting level,
// and the destination page plus in-page Y in PDF bottom-up coordinates.
type Entry struct {
	Title     string
	Level     int
	PageIndex int // 0-based page of the rendered document
	Y         float64
}

// Builder accumulates bookmark nodes on a document's cross-reference
// table. All indirect references are allocated in AddEntry, before any
// sibling links exist, so Finish can wire Prev/Next/Parent across objects
// that already have resolvable object numbers.
//
// The hierarchy is flat: every node becomes a direct child of the outline
// root regardless of Entry.Level. The level is carried on Entry so a
// nested tree stays a local change, but flat is the given behavior.
type Builder struct {
	xref     *model.XRefTable
	refs     []*types.IndirectRef
	dicts    []types.Dict
	finished bool
}

// NewBuilder creates a Builder for the given cross-reference table.
func NewBuilder(xref *model.XRefTable) *Builder {
	return &Builder{xref: xref}
}

// AddEntry allocates one outline node object for the entry and returns
// its indirect reference. The node carries Title and Dest immediately;
// Parent/Prev/Next are wired by Finish.
func (b *Builder) AddEntry(e Entry) (*types.IndirectRef, error) {
	if b.finished {
		return nil, fmt.Errorf("%w: AddEntry after Finish", ErrBuild)
	}

	// Destination pages are 1-based in pdfcpu.
	pageRef, err := b.xref.PageDictIndRef(e.PageIndex + 1)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving page %d: %v", ErrBuild, e.PageIndex+1, err)
	}

	// Titles must survive the PDF string encoding; non-ASCII goes out as
	// UTF-16BE with BOM, not raw bytes.
	title, err := types.EscapedUTF16String(e.Title)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding title %q: %v", ErrBuild, e.Title, err)
	}

	dict := types.Dict{
		"Title": types.StringLiteral(*title),
		// [page /XYZ left top zoom]; null left/zoom mean "unchanged".
		"Dest": types.Array{*pageRef, types.Name("XYZ"), nil, types.Float(e.Y), nil},
	}

	ref, err := b.xref.IndRefForNewObject(dict)
	if err != nil {
		return nil, fmt.Errorf("%w: allocating node: %v", ErrBuild, err)
	}

	b.refs = append(b.refs, ref)
	b.dicts = append(b.dicts, dict)
	return ref, nil
}

// Finish creates the outline root, wires the sibling chain and parent
// pointers, and registers the root as the catalog's Outlines entry.
// For N entries, node i gets Prev=node[i-1] (absent for i=0),
// Next=node[i+1] (absent for i=N-1), Parent=root; the root gets
// First=node[0], Last=node[N-1] and Count=N (positive count means open
// by default in viewers that respect it).
func (b *Builder) Finish() (*types.IndirectRef, error) {
	if b.finished {
		return nil, fmt.Errorf("%w: Finish called twice", ErrBuild)
	}
	b.finished = true

	n := len(b.refs)
	if n == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrBuild)
	}
	if n != len(b.dicts) {
		return nil, fmt.Errorf("%w: %d refs for %d nodes", ErrBuild, n, len(b.dicts))
	}

	rootDict := types.Dict{
		"Type":  types.Name("Outlines"),
		"First": *b.refs[0],
		"Last":  *b.refs[n-1],
		"Count": types.Integer(n),
	}
	rootRef, err := b.xref.IndRefForNewObject(rootDict)
	if err != nil {
		return nil, fmt.Errorf("%w: allocating root: %v", ErrBuild, err)
	}

	for i, dict := range b.dicts {
		dict["Parent"] = *rootRef
		if i > 0 {
			dict["Prev"] = *b.refs[i-1]
		}
		if i < n-1 {
			dict["Next"] = *b.refs[i+1]
		}
	}

	catalog, err := b.xref.Catalog()
	if err != nil {
		return nil, fmt.Errorf("%w: resolving catalog: %v", ErrBuild, err)
	}
	catalog["Outlines"] = *rootRef

	return rootRef, nil
}
