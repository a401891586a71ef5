// Package ingest flattens raw source documents into verse tuples.
//
// A source may arrive as JSON or XML text, as already-decoded JSON values or
// as a parsed XML tree. Its layout is sniffed from the top two levels of
// nesting by an ordered set of predicates (see Detect); the first match wins.
// Book names are passed through untouched: resolving them against the canon
// happens downstream.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/antchfx/xmlquery"

	apperrors "github.com/FocuswithJustin/juniper-corpus/core/errors"
	"github.com/FocuswithJustin/juniper-corpus/core/ir"
)

// ErrIngestFailed is returned when a source cannot be read or its shape is
// not recognized. Callers treat the source as contributing no verses.
var ErrIngestFailed = errors.New("ingest failed")

// Result is the outcome of ingesting one source.
type Result struct {
	Shape  ir.Shape
	Verses []ir.RawVerse

	// Dropped counts records of a recognized shape that were unusable:
	// missing book, non-positive or unparsable numbers, blank text.
	Dropped int
}

// Ingest reads one raw source and returns its verse tuples and shape.
func Ingest(raw any) ([]ir.RawVerse, ir.Shape, error) {
	res, err := Parse(raw)
	if err != nil {
		return nil, ir.ShapeUnrecognized, err
	}
	return res.Verses, res.Shape, nil
}

// Parse is Ingest with drop accounting.
func Parse(raw any) (*Result, error) {
	doc, err := decode(raw)
	if err != nil {
		return nil, err
	}

	res := &Result{Shape: doc.shape()}
	switch res.Shape {
	case ir.ShapeFlatRecords:
		res.Verses, res.Dropped = extractFlat(flatList(doc.value))
	case ir.ShapeBookList:
		res.Verses, res.Dropped = extractBookList(bookList(doc.value))
	case ir.ShapeChapterLists, ir.ShapeChapterMaps:
		res.Verses, res.Dropped = extractBookMap(bookMap(doc.value))
	case ir.ShapeOSIS:
		res.Verses, res.Dropped = extractOSIS(doc.xml)
	case ir.ShapeZefania:
		res.Verses, res.Dropped = extractZefania(doc.xml)
	default:
		return nil, &apperrors.UnsupportedError{
			Feature: "source shape",
			Reason:  "no recognized layout",
			Err:     ErrIngestFailed,
		}
	}
	return res, nil
}

// Detect reports the shape of a raw source without extracting it.
// Undecodable input is ShapeUnrecognized.
func Detect(raw any) ir.Shape {
	doc, err := decode(raw)
	if err != nil {
		return ir.ShapeUnrecognized
	}
	return doc.shape()
}

// document is a decoded source: either a JSON value or an XML tree.
type document struct {
	value any
	xml   *xmlquery.Node
}

func (d document) shape() ir.Shape {
	if d.xml != nil {
		return detectXML(d.xml)
	}
	return detectValue(d.value)
}

func decode(raw any) (document, error) {
	switch t := raw.(type) {
	case nil:
		return document{}, unsupported("nil source")
	case *xmlquery.Node:
		if t == nil {
			return document{}, unsupported("nil xml document")
		}
		return document{xml: t}, nil
	case []any, map[string]any:
		return document{value: t}, nil
	case json.RawMessage:
		return decodeText(t)
	case []byte:
		return decodeText(t)
	case string:
		return decodeText([]byte(t))
	case io.Reader:
		data, err := io.ReadAll(t)
		if err != nil {
			return document{}, &apperrors.IOError{Operation: "read", Path: "source", Err: errors.Join(ErrIngestFailed, err)}
		}
		return decodeText(data)
	default:
		// Typed Go values ([]map[string]string, structs with json tags, ...)
		// are normalized through a JSON round trip.
		data, err := json.Marshal(t)
		if err != nil {
			return document{}, unsupported("value of type %T", t)
		}
		return decodeText(data)
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func decodeText(data []byte) (document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return document{}, unsupported("empty document")
	}
	if !utf8.Valid(data) {
		return document{}, &apperrors.ParseError{Format: "text", Message: "not valid UTF-8", Err: ErrIngestFailed}
	}

	if data[0] == '<' {
		root, err := xmlquery.Parse(bytes.NewReader(data))
		if err != nil {
			return document{}, &apperrors.ParseError{Format: "XML", Message: err.Error(), Err: ErrIngestFailed}
		}
		return document{xml: root}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return document{}, &apperrors.ParseError{Format: "JSON", Message: err.Error(), Err: ErrIngestFailed}
	}
	return document{value: v}, nil
}

func unsupported(format string, args ...any) error {
	return &apperrors.UnsupportedError{
		Feature: "source",
		Reason:  fmt.Sprintf(format, args...),
		Err:     ErrIngestFailed,
	}
}
