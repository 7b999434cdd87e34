// Package sheetpart reads worksheet-level facts straight out of a serialized
// workbook package: explicit row heights and column widths, conditional
// formatting blocks with their real priorities, hyperlink targets and drawing
// anchors. These are the details the in-memory document model either
// normalizes away or does not expose.
package sheetpart

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrPartNotFound is returned when a part referenced by the package is missing.
var ErrPartNotFound = errors.New("part not found")

// ErrSheetNotFound is returned by Sheet for a name the workbook does not list.
var ErrSheetNotFound = errors.New("sheet not found")

const relTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"

type sheetEntry struct {
	name string
	part string // e.g. "xl/worksheets/sheet1.xml"
}

// Package is a read-only view over a zipped workbook.
type Package struct {
	zr     *zip.Reader
	sheets []sheetEntry
}

// Read opens a workbook package from r. size is the byte length of the data.
func Read(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("sheetpart: open package: %w", err)
	}
	p := &Package{zr: zr}
	if err := p.parseWorkbook(); err != nil {
		return nil, err
	}
	return p, nil
}

// ReadBytes is Read over an in-memory package.
func ReadBytes(data []byte) (*Package, error) {
	return Read(bytes.NewReader(data), int64(len(data)))
}

// SheetNames returns the worksheet names in workbook order.
func (p *Package) SheetNames() []string {
	names := make([]string, len(p.sheets))
	for i, s := range p.sheets {
		names[i] = s.name
	}
	return names
}

// Sheet parses the named worksheet together with the parts it references.
// Names match case-insensitively, as they do in the workbook.
func (p *Package) Sheet(name string) (*Sheet, error) {
	for _, s := range p.sheets {
		if strings.EqualFold(s.name, name) {
			return p.parseSheet(s)
		}
	}
	return nil, fmt.Errorf("sheetpart: %w: %q", ErrSheetNotFound, name)
}

// parseWorkbook follows the package relationships to the workbook part and
// builds the sheet list from it.
func (p *Package) parseWorkbook() error {
	rootRels, err := p.readRels("_rels/.rels")
	if err != nil {
		return fmt.Errorf("sheetpart: package rels: %w", err)
	}
	workbookPart := "xl/workbook.xml"
	for _, r := range rootRels {
		if r.Type == relTypeOfficeDocument {
			workbookPart = resolveTarget("", r.Target)
			break
		}
	}

	data, err := p.readPart(workbookPart)
	if err != nil {
		return fmt.Errorf("sheetpart: workbook: %w", err)
	}
	var wb xmlWorkbook
	if err := xml.Unmarshal(data, &wb); err != nil {
		return fmt.Errorf("sheetpart: parse workbook: %w", err)
	}

	rels, err := p.readRels(relsPartFor(workbookPart))
	if err != nil {
		return fmt.Errorf("sheetpart: workbook rels: %w", err)
	}
	for _, s := range wb.Sheets {
		rel, ok := rels[s.RID]
		if !ok {
			continue
		}
		p.sheets = append(p.sheets, sheetEntry{
			name: s.Name,
			part: resolveTarget(workbookPart, rel.Target),
		})
	}
	return nil
}

func (p *Package) parseSheet(entry sheetEntry) (*Sheet, error) {
	data, err := p.readPart(entry.part)
	if err != nil {
		return nil, fmt.Errorf("sheetpart: sheet %q: %w", entry.name, err)
	}
	var ws xmlWorksheet
	if err := xml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("sheetpart: parse sheet %q: %w", entry.name, err)
	}

	// A sheet without relationships is common; a missing rels part is not an error.
	rels, err := p.readRels(relsPartFor(entry.part))
	if err != nil && !errors.Is(err, ErrPartNotFound) {
		return nil, fmt.Errorf("sheetpart: sheet %q rels: %w", entry.name, err)
	}

	sheet := &Sheet{
		Name:        entry.name,
		Part:        entry.part,
		Rows:        ws.Rows,
		Cols:        ws.Cols,
		CondFormats: ws.CondFormats,
	}
	for _, h := range ws.Hyperlinks {
		link := Hyperlink{
			Ref:      h.Ref,
			Location: h.Location,
			Display:  h.Display,
			Tooltip:  h.Tooltip,
		}
		if rel, ok := rels[h.RID]; ok && h.RID != "" {
			link.Target = rel.Target
			link.External = strings.EqualFold(rel.TargetMode, "External")
		}
		sheet.Hyperlinks = append(sheet.Hyperlinks, link)
	}
	if ws.Drawing != nil && ws.Drawing.RID != "" {
		if rel, ok := rels[ws.Drawing.RID]; ok {
			anchors, err := p.parseDrawing(resolveTarget(entry.part, rel.Target))
			if err != nil {
				return nil, fmt.Errorf("sheetpart: sheet %q drawing: %w", entry.name, err)
			}
			sheet.Anchors = anchors
		}
	}
	return sheet, nil
}

// readPart reads the full contents of a named entry from the archive.
func (p *Package) readPart(name string) ([]byte, error) {
	for _, f := range p.zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, readErr := io.ReadAll(rc)
		closeErr := rc.Close()
		if readErr != nil {
			return nil, readErr
		}
		if closeErr != nil {
			return nil, closeErr
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrPartNotFound, name)
}

// readRels parses a relationships part into an Id → relationship map.
func (p *Package) readRels(name string) (map[string]xmlRelationship, error) {
	data, err := p.readPart(name)
	if err != nil {
		return nil, err
	}
	var rels xmlRelationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("parse %q: %w", name, err)
	}
	m := make(map[string]xmlRelationship, len(rels.Relationships))
	for _, r := range rels.Relationships {
		m[r.ID] = r
	}
	return m, nil
}

// relsPartFor returns the relationships part that belongs to part:
// "xl/workbook.xml" → "xl/_rels/workbook.xml.rels".
func relsPartFor(part string) string {
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

// resolveTarget resolves a relationship target against the part that owns
// the relationship. Absolute targets start at the package root.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(source), target)
}
