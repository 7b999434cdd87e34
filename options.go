package xlcodec

// Options holds configuration for a Workbook session.
type Options struct {
	firstSheet     string
	dateFormat     string
	dateTimeFormat string
	imageScaleX    float64
	imageScaleY    float64
	strictRanges   bool
}

func defaultOptions() *Options {
	return &Options{
		dateFormat:     "yyyy-mm-dd",
		dateTimeFormat: "yyyy-mm-dd h:mm:ss",
		imageScaleX:    1.0,
		imageScaleY:    1.0,
	}
}

// Option configures a Workbook.
type Option func(*Options)

// WithFirstSheet renames the sheet a new workbook starts with (default: "Sheet1").
func WithFirstSheet(name string) Option {
	return func(o *Options) { o.firstSheet = name }
}

// WithDateFormat sets the number format stamped on cells written as dates
// (default: "yyyy-mm-dd"). The code must still carry a year and a day token
// for the cell to read back as a date.
func WithDateFormat(code string) Option {
	return func(o *Options) { o.dateFormat = code }
}

// WithDateTimeFormat sets the number format stamped on cells written as
// date-times (default: "yyyy-mm-dd h:mm:ss").
func WithDateTimeFormat(code string) Option {
	return func(o *Options) { o.dateTimeFormat = code }
}

// WithImageScale sets the scale factors applied to embedded images (default: 1.0).
func WithImageScale(x, y float64) Option {
	return func(o *Options) {
		o.imageScaleX = x
		o.imageScaleY = y
	}
}

// WithStrictRanges rejects range strings that are not already canonical
// ("A1:B2") instead of canonicalizing them.
func WithStrictRanges(strict bool) Option {
	return func(o *Options) { o.strictRanges = strict }
}
