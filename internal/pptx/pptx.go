// Package pptx opens PowerPoint (.pptx) files, exposes their slide text
// through the document interfaces, and writes mutated presentations back out.
//
// A pptx file is a zip archive of OOXML parts. Only the slide parts
// (ppt/slides/slideN.xml) are parsed; every other part is copied through
// byte-for-byte on save, so themes, media and layouts survive untouched.
package pptx

import (
	"archive/zip"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"

	"github.com/MuazAshraf/ppt-translator/internal/document"
	"github.com/MuazAshraf/ppt-translator/internal/types"
)

var slideEntryRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// zipEntry is one archive member held in memory.
type zipEntry struct {
	name string
	data []byte
}

// File is an opened presentation. It implements document.Document.
type File struct {
	path    string
	entries []zipEntry
	slides  []*slide
}

// Open reads the presentation at path into memory and parses its slides.
func Open(path string) (*File, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, types.NewAppError(types.ErrDocument, "failed to open presentation", err)
	}
	defer r.Close()

	f := &File{path: path}
	byName := make(map[string]int)
	for _, zf := range r.File {
		rc, err := zf.Open()
		if err != nil {
			return nil, types.NewAppErrorWithDetails(types.ErrDocument,
				"failed to read presentation part", zf.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, types.NewAppErrorWithDetails(types.ErrDocument,
				"failed to read presentation part", zf.Name, err)
		}
		f.entries = append(f.entries, zipEntry{name: zf.Name, data: data})
		byName[zf.Name] = len(f.entries) - 1
	}

	names := slideEntryNames(f.entries)
	if len(names) == 0 {
		return nil, types.NewAppError(types.ErrDocument, "presentation contains no slides", nil)
	}
	for _, name := range names {
		entry := f.entries[byName[name]]
		sl, err := parseSlide(entry.name, entry.data)
		if err != nil {
			return nil, types.NewAppErrorWithDetails(types.ErrDocument,
				"failed to parse slide", name, err)
		}
		f.slides = append(f.slides, sl)
	}
	return f, nil
}

// slideEntryNames returns the slide part names in presentation order.
func slideEntryNames(entries []zipEntry) []string {
	type numbered struct {
		name string
		n    int
	}
	var found []numbered
	for _, e := range entries {
		m := slideEntryRe.FindStringSubmatch(e.name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		found = append(found, numbered{name: e.name, n: n})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })
	names := make([]string, len(found))
	for i, f := range found {
		names[i] = f.name
	}
	return names
}

// Slides returns the parsed slides in presentation order.
func (f *File) Slides() []document.Slide {
	out := make([]document.Slide, len(f.slides))
	for i, s := range f.slides {
		out[i] = s
	}
	return out
}

// Save writes the presentation to path. Slides with recorded mutations are
// rewritten; all other archive members are copied unchanged.
func (f *File) Save(path string) error {
	rewritten := make(map[string][]byte)
	for _, sl := range f.slides {
		if !sl.dirty() {
			continue
		}
		data, err := rewriteSlide(sl)
		if err != nil {
			return types.NewAppErrorWithDetails(types.ErrDocument,
				"failed to rewrite slide", sl.entryName, err)
		}
		rewritten[sl.entryName] = data
	}

	out, err := os.Create(path)
	if err != nil {
		return types.NewAppError(types.ErrDocument, "failed to create output presentation", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, entry := range f.entries {
		w, err := zw.Create(entry.name)
		if err != nil {
			zw.Close()
			return types.NewAppErrorWithDetails(types.ErrDocument,
				"failed to write presentation part", entry.name, err)
		}
		data := entry.data
		if d, ok := rewritten[entry.name]; ok {
			data = d
		}
		if _, err := w.Write(data); err != nil {
			zw.Close()
			return types.NewAppErrorWithDetails(types.ErrDocument,
				"failed to write presentation part", entry.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return types.NewAppError(types.ErrDocument, "failed to finalize output presentation", err)
	}
	if err := out.Close(); err != nil {
		return types.NewAppError(types.ErrDocument, "failed to close output presentation", err)
	}
	return nil
}

// Close releases the file. The archive is fully read at Open, so Close only
// exists to satisfy document.Document.
func (f *File) Close() error {
	f.entries = nil
	f.slides = nil
	return nil
}

// Path returns the path the presentation was opened from.
func (f *File) Path() string { return f.path }

// SlideCount returns the number of slides.
func (f *File) SlideCount() int { return len(f.slides) }

var _ document.Document = (*File)(nil)

// OpenDocument adapts Open to the document.Document interface for callers
// that must not depend on the concrete type.
func OpenDocument(path string) (document.Document, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}
