package outline

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// readConfiguration parses leniently: the input is whatever the layout
// engine produced, we only support that one producer and do not attempt
// repair of arbitrary PDFs.
func readConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Attach writes the bookmark tree for entries into the document's object
// graph and serializes the result. With no entries the input bytes are
// returned unchanged: no outline object, no Outlines key in the catalog.
func Attach(pdf []byte, entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return pdf, nil
	}

	ctx, err := api.ReadContext(bytes.NewReader(pdf), readConfiguration())
	if err != nil {
		return nil, fmt.Errorf("%w: reading document: %v", ErrBuild, err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: validating document: %v", ErrBuild, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%w: resolving page count: %v", ErrBuild, err)
	}

	builder := NewBuilder(ctx.XRefTable)
	for _, e := range entries {
		if e.PageIndex < 0 || e.PageIndex >= ctx.PageCount {
			return nil, fmt.Errorf("%w: entry %q targets page %d of %d", ErrBuild, e.Title, e.PageIndex, ctx.PageCount)
		}
		if _, err := builder.AddEntry(e); err != nil {
			return nil, err
		}
	}
	if _, err := builder.Finish(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, fmt.Errorf("%w: serializing document: %v", ErrBuild, err)
	}
	return buf.Bytes(), nil
}

// PageCount returns the number of pages of a rendered document.
func PageCount(pdf []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(pdf), readConfiguration())
	if err != nil {
		return 0, fmt.Errorf("reading page count: %w", err)
	}
	return count, nil
}
