package pptx

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
)

// parseSlide extracts the text structure from one slide part. RawToken is
// used instead of Token so DrawingML namespace prefixes (a:, p:) stay as
// written; the same token stream is replayed by rewriteSlide on save.
func parseSlide(entryName string, raw []byte) (*slide, error) {
	sl := &slide{entryName: entryName, raw: raw}
	dec := xml.NewDecoder(bytes.NewReader(raw))

	var (
		shapeStack []*shape
		curFrame   *textFrame
		curPara    *paragraph
		curRun     *run
		xfrmDepth  int
		tcDepth    int
		inBodyPr   bool
		inRunT     bool
	)

	currentShape := func() *shape {
		if len(shapeStack) == 0 {
			return nil
		}
		return shapeStack[len(shapeStack)-1]
	}

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
			switch rawName(t.Name) {
			case "p:sp", "p:graphicFrame", "p:pic", "p:cxnSp":
				sh := &shape{}
				shapeStack = append(shapeStack, sh)
				sl.shapes = append(sl.shapes, sh)
			case "a:xfrm", "p:xfrm":
				xfrmDepth++
			case "a:ext":
				sh := currentShape()
				if sh != nil && xfrmDepth > 0 && !sh.hasWidth {
					if cx, ok := attrValue(t, "cx"); ok {
						if v, err := strconv.ParseInt(cx, 10, 64); err == nil {
							sh.widthEMU = v
							sh.hasWidth = true
						}
					}
				}
			case "p:txBody", "a:txBody":
				f := &textFrame{}
				sl.bodies = append(sl.bodies, f)
				curFrame = f
				sh := currentShape()
				if sh == nil {
					break
				}
				if tcDepth > 0 && sh.table != nil {
					sh.table.cells = append(sh.table.cells, f)
				} else {
					sh.frame = f
				}
			case "a:bodyPr":
				if curFrame != nil {
					curFrame.hasBodyPr = true
					inBodyPr = true
				}
			case "a:normAutofit", "a:spAutoFit", "a:noAutofit":
				if inBodyPr && curFrame != nil {
					curFrame.hadAutoFit = true
				}
			case "a:tbl":
				if sh := currentShape(); sh != nil {
					sh.table = &table{}
				}
			case "a:tc":
				tcDepth++
			case "a:p":
				if curFrame != nil {
					curPara = &paragraph{}
					curFrame.paragraphs = append(curFrame.paragraphs, curPara)
				}
			case "a:r":
				if curPara != nil {
					curRun = &run{}
					curPara.runs = append(curPara.runs, curRun)
					sl.runs = append(sl.runs, curRun)
				}
			case "a:rPr":
				if curRun != nil {
					curRun.hasRPr = true
					if sz, ok := attrValue(t, "sz"); ok {
						if v, err := strconv.Atoi(sz); err == nil {
							curRun.szHundredths = v
							curRun.hasSize = true
						}
					}
				}
			case "a:t":
				if curRun != nil {
					inRunT = true
				}
			}

		case xml.EndElement:
			switch rawName(t.Name) {
			case "p:sp", "p:graphicFrame", "p:pic", "p:cxnSp":
				if len(shapeStack) > 0 {
					shapeStack = shapeStack[:len(shapeStack)-1]
				}
			case "a:xfrm", "p:xfrm":
				if xfrmDepth > 0 {
					xfrmDepth--
				}
			case "p:txBody", "a:txBody":
				curFrame = nil
				curPara = nil
			case "a:bodyPr":
				inBodyPr = false
			case "a:tc":
				if tcDepth > 0 {
					tcDepth--
				}
			case "a:p":
				curPara = nil
			case "a:r":
				curRun = nil
			case "a:t":
				inRunT = false
			}

		case xml.CharData:
			if inRunT && curRun != nil {
				curRun.text += string(t)
			}
		}
	}

	dropEmptyShapes(sl)
	return sl, nil
}

// dropEmptyShapes removes shapes that carry neither text nor a table, such
// as pictures and connectors. They were tracked during parsing only so their
// geometry would not leak into sibling shapes.
func dropEmptyShapes(sl *slide) {
	kept := sl.shapes[:0]
	for _, sh := range sl.shapes {
		if sh.frame != nil || sh.table != nil {
			kept = append(kept, sh)
		}
	}
	sl.shapes = kept
}

// rawName renders an un-resolved element name the way it appears in the
// source, prefix included.
func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func attrValue(t xml.StartElement, local string) (string, bool) {
	for _, a := range t.Attr {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}
