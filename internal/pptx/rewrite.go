package pptx

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
)

// rewriteSlide replays the slide's original token stream and re-serializes
// it, substituting mutated run text and font sizes by ordinal. Untouched
// tokens are written back as-is, so formatting the parser never modeled
// (colors, effects, hyperlinks) survives. Self-closing tags come out as an
// open/close pair, which is equivalent XML.
func rewriteSlide(sl *slide) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(sl.raw))
	var buf bytes.Buffer

	var (
		runIdx   int
		bodyIdx  int
		curRun   *run
		curFrame *textFrame
		inRunT   bool
	)

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := rawName(t.Name)
			switch name {
			case "p:txBody", "a:txBody":
				if bodyIdx < len(sl.bodies) {
					curFrame = sl.bodies[bodyIdx]
				}
				bodyIdx++
			case "a:bodyPr":
				if curFrame != nil && curFrame.autoFitWanted && !curFrame.hadAutoFit {
					writeStart(&buf, name, setAttr(t.Attr, "wrap", "square"))
					buf.WriteString("<a:normAutofit/>")
					continue
				}
			case "a:r":
				if runIdx < len(sl.runs) {
					curRun = sl.runs[runIdx]
				}
				runIdx++
			case "a:rPr":
				if curRun != nil && curRun.sizeDirty {
					sz := strconv.Itoa(curRun.szHundredths)
					writeStart(&buf, name, setAttr(t.Attr, "sz", sz))
					continue
				}
			case "a:t":
				if curRun != nil {
					// A run that needs a size but had no run properties
					// gets a minimal a:rPr, which must precede a:t.
					if curRun.sizeDirty && !curRun.hasRPr {
						buf.WriteString(`<a:rPr sz="`)
						buf.WriteString(strconv.Itoa(curRun.szHundredths))
						buf.WriteString(`"/>`)
					}
					inRunT = true
					if curRun.textDirty {
						writeStart(&buf, name, t.Attr)
						if err := xml.EscapeText(&buf, []byte(curRun.text)); err != nil {
							return nil, err
						}
						continue
					}
				}
			}
			writeStart(&buf, name, t.Attr)

		case xml.EndElement:
			name := rawName(t.Name)
			switch name {
			case "p:txBody", "a:txBody":
				curFrame = nil
			case "a:r":
				curRun = nil
			case "a:t":
				inRunT = false
			}
			buf.WriteString("</")
			buf.WriteString(name)
			buf.WriteByte('>')

		case xml.CharData:
			// Original text of rewritten runs is dropped; the replacement
			// was emitted with the a:t start tag.
			if inRunT && curRun != nil && curRun.textDirty {
				continue
			}
			if err := xml.EscapeText(&buf, []byte(t)); err != nil {
				return nil, err
			}

		case xml.ProcInst:
			buf.WriteString("<?")
			buf.WriteString(t.Target)
			buf.WriteByte(' ')
			buf.Write(t.Inst)
			buf.WriteString("?>")

		case xml.Comment:
			buf.WriteString("<!--")
			buf.Write(t)
			buf.WriteString("-->")

		case xml.Directive:
			buf.WriteString("<!")
			buf.Write(t)
			buf.WriteByte('>')
		}
	}
	return buf.Bytes(), nil
}

// writeStart serializes a start tag with its attributes, prefixes intact.
func writeStart(buf *bytes.Buffer, name string, attrs []xml.Attr) {
	buf.WriteByte('<')
	buf.WriteString(name)
	for _, a := range attrs {
		buf.WriteByte(' ')
		buf.WriteString(rawName(a.Name))
		buf.WriteString(`="`)
		xml.EscapeText(buf, []byte(a.Value))
		buf.WriteByte('"')
	}
	buf.WriteByte('>')
}

// setAttr returns attrs with the named unprefixed attribute set to value,
// replacing an existing one or appending.
func setAttr(attrs []xml.Attr, local, value string) []xml.Attr {
	out := make([]xml.Attr, len(attrs))
	copy(out, attrs)
	for i, a := range out {
		if a.Name.Space == "" && a.Name.Local == local {
			out[i].Value = value
			return out
		}
	}
	return append(out, xml.Attr{Name: xml.Name{Local: local}, Value: value})
}
