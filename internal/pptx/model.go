package pptx

import (
	"math"

	"github.com/MuazAshraf/ppt-translator/internal/document"
)

// emuPerPoint converts OOXML English Metric Units to points (914400 EMU per
// inch, 72 points per inch).
const emuPerPoint = 12700

// slide holds the parsed text structure of one slide plus the raw XML it was
// parsed from. Mutations are recorded on runs and frames and applied to the
// raw XML on save.
type slide struct {
	entryName string
	raw       []byte
	shapes    []*shape
	// runs and bodies in document order; ordinals key the write-back pass.
	runs   []*run
	bodies []*textFrame
}

func (s *slide) Shapes() []document.Shape {
	out := make([]document.Shape, len(s.shapes))
	for i, sh := range s.shapes {
		out[i] = sh
	}
	return out
}

// dirty reports whether any mutation must be written back to this slide.
func (s *slide) dirty() bool {
	for _, r := range s.runs {
		if r.textDirty || r.sizeDirty {
			return true
		}
	}
	for _, b := range s.bodies {
		if b.autoFitWanted && !b.hadAutoFit {
			return true
		}
	}
	return false
}

type shape struct {
	frame    *textFrame
	table    *table
	widthEMU int64
	hasWidth bool
}

func (sh *shape) TextFrame() document.TextFrame {
	if sh.frame == nil {
		return nil
	}
	return sh.frame
}

func (sh *shape) Table() document.Table {
	if sh.table == nil {
		return nil
	}
	return sh.table
}

func (sh *shape) WidthPoints() (float64, bool) {
	if !sh.hasWidth {
		return 0, false
	}
	return float64(sh.widthEMU) / emuPerPoint, true
}

type textFrame struct {
	paragraphs []*paragraph
	// hasBodyPr and hadAutoFit come from parsing; autoFitWanted is set by
	// EnableAutoFit and applied best-effort on save.
	hasBodyPr     bool
	hadAutoFit    bool
	autoFitWanted bool
}

func (f *textFrame) Paragraphs() []document.Paragraph {
	out := make([]document.Paragraph, len(f.paragraphs))
	for i, p := range f.paragraphs {
		out[i] = p
	}
	return out
}

func (f *textFrame) EnableAutoFit() {
	f.autoFitWanted = true
}

type paragraph struct {
	runs []*run
}

func (p *paragraph) Runs() []document.Run {
	out := make([]document.Run, len(p.runs))
	for i, r := range p.runs {
		out[i] = r
	}
	return out
}

type run struct {
	text      string
	textDirty bool
	// szHundredths is the font size in hundredths of a point, as stored in
	// the sz attribute of a:rPr.
	szHundredths int
	hasSize      bool
	sizeDirty    bool
	hasRPr       bool
}

func (r *run) Text() string { return r.text }

func (r *run) SetText(text string) {
	if text == r.text {
		return
	}
	r.text = text
	r.textDirty = true
}

func (r *run) SizePoints() (float64, bool) {
	if !r.hasSize {
		return 0, false
	}
	return float64(r.szHundredths) / 100, true
}

func (r *run) SetSizePoints(size float64) {
	hundredths := int(math.Round(size * 100))
	if r.hasSize && hundredths == r.szHundredths {
		return
	}
	r.szHundredths = hundredths
	r.hasSize = true
	r.sizeDirty = true
}

type table struct {
	cells []*textFrame
}

func (t *table) Cells() []document.TextFrame {
	out := make([]document.TextFrame, len(t.cells))
	for i, c := range t.cells {
		out[i] = c
	}
	return out
}
