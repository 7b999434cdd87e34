package xlcodec

import (
	"errors"
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"math"
	"os"

	"github.com/xuri/excelize/v2"
)

// emuPerPixel is the drawing units per pixel at 96 DPI.
const emuPerPixel = 9525

// Anchor kinds of an Image.
const (
	AnchorOneCell = "oneCell"
	AnchorTwoCell = "twoCell"
)

var anchorKinds = []string{AnchorOneCell, AnchorTwoCell}

// Image is a picture placed over the grid. Path is a file path when adding
// and the package media path ("/xl/media/image1.png") when read. Offset is
// [x, y] in pixels from the anchor cell's top-left corner.
type Image struct {
	Cell   string `yaml:"cell" json:"cell" validate:"required"`
	Path   string `yaml:"path" json:"path" validate:"required"`
	Anchor string `yaml:"anchor,omitempty" json:"anchor,omitempty"`
	Offset []int  `yaml:"offset,omitempty" json:"offset,omitempty" validate:"omitempty,len=2"`
}

// Images lists the pictures of a sheet in drawing order. The offset is left
// out when both components are zero.
func (w *Workbook) Images(sheet string) ([]Image, error) {
	if err := w.checkSheet(sheet); err != nil {
		return nil, err
	}
	part, err := w.sheetPart(sheet)
	if err != nil {
		return nil, err
	}
	images := make([]Image, 0, len(part.Anchors))
	for _, a := range part.Anchors {
		img := Image{
			Cell:   NewCellRef("", a.Row, a.Col).CellName(),
			Path:   a.Media,
			Anchor: a.Kind,
		}
		x, y := int(a.ColOff/emuPerPixel), int(a.RowOff/emuPerPixel)
		if x != 0 || y != 0 {
			img.Offset = []int{x, y}
		}
		images = append(images, img)
	}
	return images, nil
}

// AddImage embeds the picture file at img.Path over img.Cell. The anchor
// defaults to oneCell. The workbook's image scale options apply.
func (w *Workbook) AddImage(sheet string, img Image) error {
	if err := w.checkSheet(sheet); err != nil {
		return err
	}
	if err := checkRecord(img); err != nil {
		return err
	}
	cell, err := cellName(img.Cell)
	if err != nil {
		return err
	}
	anchor := AnchorOneCell
	if img.Anchor != "" {
		var ok bool
		if anchor, ok = normalizeEnum(anchorKinds, img.Anchor); !ok {
			return invalidEnum("anchor", img.Anchor)
		}
	}
	opts := &excelize.GraphicOptions{
		ScaleX: w.opts.imageScaleX,
		ScaleY: w.opts.imageScaleY,
	}
	if anchor == AnchorOneCell {
		opts.Positioning = "oneCell"
	}
	if len(img.Offset) == 2 {
		if _, err := pixelsToEMU(img.Offset[0]); err != nil {
			return fmt.Errorf("image x offset: %w", err)
		}
		if _, err := pixelsToEMU(img.Offset[1]); err != nil {
			return fmt.Errorf("image y offset: %w", err)
		}
		opts.OffsetX, opts.OffsetY = img.Offset[0], img.Offset[1]
	}

	if _, err := os.Stat(img.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: image file not found: %q", ErrResourceNotFound, img.Path)
		}
		return fmt.Errorf("stat image %q: %w: %v", img.Path, ErrUnderlyingIO, err)
	}
	if err := w.file.AddPicture(sheet, cell, img.Path, opts); err != nil {
		if errors.Is(err, excelize.ErrImgExt) {
			return fmt.Errorf("add image %q: %w: %v", img.Path, ErrUnsupportedValueType, err)
		}
		return documentError("add image", err)
	}
	return nil
}

// pixelsToEMU converts a pixel offset to drawing units, failing when the
// result does not fit the 32-bit field the document stores.
func pixelsToEMU(px int) (int32, error) {
	if px > math.MaxInt32/emuPerPixel || px < math.MinInt32/emuPerPixel {
		return 0, fmt.Errorf("%w: %d px does not fit in 32-bit EMU", ErrNumericOverflow, px)
	}
	return int32(px * emuPerPixel), nil
}
