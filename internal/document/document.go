// Package document defines the capability interfaces the translation walker
// needs from a presentation document: iterate slides and shapes, read and
// write run text and font sizes, and read shape widths. Any concrete document
// library satisfying these interfaces can back the walker.
package document

// Document is an opened, mutable presentation.
type Document interface {
	// Slides returns the slides in presentation order.
	Slides() []Slide
	// Save writes the (possibly mutated) document to path.
	Save(path string) error
	// Close releases resources held by the document.
	Close() error
}

// Slide is an ordered collection of shapes.
type Slide interface {
	Shapes() []Shape
}

// Shape is a single element on a slide. A shape may carry a text frame, a
// table, both accessors returning nil for shapes that carry neither.
type Shape interface {
	// TextFrame returns the shape's text frame, or nil.
	TextFrame() TextFrame
	// Table returns the shape's table, or nil.
	Table() Table
	// WidthPoints returns the shape's width in points and whether the shape
	// has a known width.
	WidthPoints() (float64, bool)
}

// TextFrame is an ordered sequence of paragraphs within a shape or table cell.
type TextFrame interface {
	Paragraphs() []Paragraph
	// EnableAutoFit turns on word-wrap and shrink-text-to-fit for the frame.
	// Best-effort; implementations may ignore it.
	EnableAutoFit()
}

// Paragraph is an ordered sequence of runs.
type Paragraph interface {
	Runs() []Run
}

// Run is the atomic unit of translatable text plus its font attributes.
type Run interface {
	Text() string
	SetText(text string)
	// SizePoints returns the run's font size in points and whether the run
	// has an explicit size.
	SizePoints() (float64, bool)
	SetSizePoints(size float64)
}

// Table is a grid of text-bearing cells.
type Table interface {
	// Cells returns every cell's text frame in row-major order.
	Cells() []TextFrame
}
