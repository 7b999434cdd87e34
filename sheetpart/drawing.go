package sheetpart

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

var anchorKinds = map[string]string{
	"oneCellAnchor":  "oneCell",
	"twoCellAnchor":  "twoCell",
	"absoluteAnchor": "absolute",
}

// parseDrawing walks a drawing part and returns its picture anchors in
// document order. Anchors holding shapes or charts instead of a picture are
// skipped.
func (p *Package) parseDrawing(part string) ([]Anchor, error) {
	data, err := p.readPart(part)
	if err != nil {
		return nil, err
	}
	rels, err := p.readRels(relsPartFor(part))
	if err != nil && !errors.Is(err, ErrPartNotFound) {
		return nil, err
	}

	var anchors []Anchor
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", part, err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		kind, ok := anchorKinds[se.Name.Local]
		if !ok {
			continue
		}
		var a xmlAnchor
		if err := dec.DecodeElement(&a, &se); err != nil {
			return nil, fmt.Errorf("parse %q: %w", part, err)
		}
		if a.Pic == nil {
			continue
		}
		anchor := Anchor{
			Kind:   kind,
			EditAs: a.EditAs,
			Name:   a.Pic.CNvPr.Name,
			Descr:  a.Pic.CNvPr.Descr,
		}
		if a.From != nil {
			anchor.Col = a.From.Col
			anchor.Row = a.From.Row
			anchor.ColOff = a.From.ColOff
			anchor.RowOff = a.From.RowOff
		}
		if rel, ok := rels[a.Pic.Blip.Embed]; ok {
			anchor.Media = "/" + resolveTarget(part, rel.Target)
		}
		anchors = append(anchors, anchor)
	}
	return anchors, nil
}
