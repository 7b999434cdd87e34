package sheetpart

// Sheet holds the worksheet facts read from one sheet part.
type Sheet struct {
	Name        string
	Part        string
	Rows        []Row
	Cols        []Col
	CondFormats []CondFormat
	Hyperlinks  []Hyperlink
	Anchors     []Anchor
}

// Row is a row element's attributes; cells are not decoded.
type Row struct {
	R            int     `xml:"r,attr"`
	Ht           float64 `xml:"ht,attr"`
	CustomHeight bool    `xml:"customHeight,attr"`
	Hidden       bool    `xml:"hidden,attr"`
}

// Col describes the width of the 1-based column span Min..Max.
type Col struct {
	Min         int     `xml:"min,attr"`
	Max         int     `xml:"max,attr"`
	Width       float64 `xml:"width,attr"`
	CustomWidth bool    `xml:"customWidth,attr"`
	Hidden      bool    `xml:"hidden,attr"`
}

// CondFormat is a conditionalFormatting block: a range and its rules.
type CondFormat struct {
	SQRef string   `xml:"sqref,attr"`
	Rules []CfRule `xml:"cfRule"`
}

// CfRule is one conditional formatting rule as stored.
type CfRule struct {
	Type         string   `xml:"type,attr"`
	DxfID        *int     `xml:"dxfId,attr"`
	Priority     int      `xml:"priority,attr"`
	StopIfTrue   bool     `xml:"stopIfTrue,attr"`
	AboveAverage *bool    `xml:"aboveAverage,attr"`
	Percent      bool     `xml:"percent,attr"`
	Bottom       bool     `xml:"bottom,attr"`
	Operator     string   `xml:"operator,attr"`
	Text         string   `xml:"text,attr"`
	TimePeriod   string   `xml:"timePeriod,attr"`
	Rank         int      `xml:"rank,attr"`
	Formulas     []string `xml:"formula"`
	ColorScale   *Scale   `xml:"colorScale"`
	DataBar      *Scale   `xml:"dataBar"`
	IconSet      *IconSet `xml:"iconSet"`
}

// Scale carries the value objects and colours of a data bar or colour scale.
type Scale struct {
	Cfvo   []Cfvo  `xml:"cfvo"`
	Colors []Color `xml:"color"`
}

// IconSet is the icon set of an iconSet rule.
type IconSet struct {
	Style   string `xml:"iconSet,attr"`
	Reverse bool   `xml:"reverse,attr"`
	Cfvo    []Cfvo `xml:"cfvo"`
}

// Cfvo is a conditional format value object.
type Cfvo struct {
	Type string `xml:"type,attr"`
	Val  string `xml:"val,attr"`
}

// Color is an ARGB colour reference; theme and indexed colours are not resolved.
type Color struct {
	RGB string `xml:"rgb,attr"`
}

// Hyperlink is a sheet hyperlink with its relationship target resolved.
type Hyperlink struct {
	Ref      string
	Target   string
	Location string
	Display  string
	Tooltip  string
	External bool
}

// Anchor is a picture anchored in the sheet drawing. Offsets are in EMU.
type Anchor struct {
	Kind   string // "oneCell", "twoCell" or "absolute"
	EditAs string
	Col    int // 0-based
	Row    int // 0-based
	ColOff int64
	RowOff int64
	Media  string // package path of the embedded image, e.g. "/xl/media/image1.png"
	Name   string
	Descr  string
}

type xmlRelationships struct {
	Relationships []xmlRelationship `xml:"Relationship"`
}

type xmlRelationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type xmlWorkbook struct {
	Sheets []xmlSheet `xml:"sheets>sheet"`
}

type xmlSheet struct {
	Name string `xml:"name,attr"`
	RID  string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type xmlWorksheet struct {
	Cols        []Col          `xml:"cols>col"`
	Rows        []Row          `xml:"sheetData>row"`
	CondFormats []CondFormat   `xml:"conditionalFormatting"`
	Hyperlinks  []xmlHyperlink `xml:"hyperlinks>hyperlink"`
	Drawing     *xmlDrawingRef `xml:"drawing"`
}

type xmlHyperlink struct {
	Ref      string `xml:"ref,attr"`
	Location string `xml:"location,attr"`
	Display  string `xml:"display,attr"`
	Tooltip  string `xml:"tooltip,attr"`
	RID      string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type xmlDrawingRef struct {
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type xmlAnchor struct {
	EditAs string     `xml:"editAs,attr"`
	From   *xmlMarker `xml:"from"`
	Pic    *xmlPic    `xml:"pic"`
}

type xmlMarker struct {
	Col    int   `xml:"col"`
	ColOff int64 `xml:"colOff"`
	Row    int   `xml:"row"`
	RowOff int64 `xml:"rowOff"`
}

type xmlPic struct {
	CNvPr struct {
		Name  string `xml:"name,attr"`
		Descr string `xml:"descr,attr"`
	} `xml:"nvPicPr>cNvPr"`
	Blip struct {
		Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
	} `xml:"blipFill>blip"`
}
