// Package source supplies raw scripture documents to the engine from files,
// directories, bundles and memory.
package source

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	apperrors "github.com/FocuswithJustin/juniper-corpus/core/errors"
	"github.com/FocuswithJustin/juniper-corpus/internal/validation"
)

// documentExts are the raw document extensions, after any compression
// suffix is removed.
var documentExts = []string{".json", ".xml", ".osis", ".zefania"}

// compressionExts are the single-file compression suffixes.
var compressionExts = []string{".xz", ".gz"}

// maxDocumentSize caps every document, after decompression.
var maxDocumentSize int64 = validation.MaxDocumentSize

// IsDocument reports whether name looks like a raw source document,
// optionally compressed.
func IsDocument(name string) bool {
	base := strings.ToLower(filepath.Base(name))
	for _, ext := range compressionExts {
		base = strings.TrimSuffix(base, ext)
	}
	for _, ext := range documentExts {
		if strings.HasSuffix(base, ext) && len(base) > len(ext) {
			return true
		}
	}
	return false
}

// VersionFromName derives a version id and display name from a file name:
// "kjv.json.xz" gives "kjv" and "KJV".
func VersionFromName(name string) (id, display string) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	lower := strings.ToLower(base)
	for _, ext := range compressionExts {
		if strings.HasSuffix(lower, ext) {
			base, lower = base[:len(base)-len(ext)], lower[:len(lower)-len(ext)]
		}
	}
	for _, ext := range documentExts {
		if strings.HasSuffix(lower, ext) {
			base = base[:len(base)-len(ext)]
			break
		}
	}
	id = strings.ToLower(base)
	return id, strings.ToUpper(base)
}

// File is a source read from one file on disk.
type File struct {
	path string
	id   string
	name string
}

// NewFile returns a source for path. Empty id or name are derived from the
// file name.
func NewFile(path, id, name string) *File {
	did, dname := VersionFromName(path)
	if id == "" {
		id = did
	}
	if name == "" {
		name = dname
	}
	return &File{path: path, id: id, name: name}
}

// Name returns the file path.
func (f *File) Name() string { return f.path }

// Version returns the version stamped on the file's verses.
func (f *File) Version() (id, name string) { return f.id, f.name }

// Fetch reads and decompresses the file.
func (f *File) Fetch(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFound("source", f.path)
		}
		return nil, apperrors.NewIO("stat", f.path, err)
	}
	if err := validation.CheckSizeLimit(f.path, info.Size(), maxDocumentSize); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, apperrors.NewIO("read", f.path, err)
	}
	return Decompress(f.path, data)
}

// Decompress inflates data according to name's compression suffix. Data
// without a known suffix is returned as is. Either way the result is held
// to the document size cap.
func Decompress(name string, data []byte) ([]byte, error) {
	var r io.Reader
	switch lower := strings.ToLower(name); {
	case strings.HasSuffix(lower, ".xz"):
		xzr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, apperrors.NewIO("xz decode", name, err)
		}
		r = xzr
	case strings.HasSuffix(lower, ".gz"):
		gzr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, apperrors.NewIO("gzip decode", name, err)
		}
		defer gzr.Close()
		r = gzr
	default:
		if err := validation.CheckSizeLimit(name, int64(len(data)), maxDocumentSize); err != nil {
			return nil, err
		}
		return data, nil
	}
	return readDocument("decompress", name, r)
}

// readDocument reads r whole, failing once it passes the size cap.
func readDocument(op, name string, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, apperrors.NewIO(op, name, err)
	}
	if err := validation.CheckSizeLimit(name, int64(len(data)), maxDocumentSize); err != nil {
		return nil, err
	}
	return data, nil
}

// Static is a source over a document already in memory.
type Static struct {
	name string
	id   string
	vn   string
	doc  any
}

// NewStatic returns a source yielding doc, which may be anything the
// ingestor accepts.
func NewStatic(id, name string, doc any) *Static {
	return &Static{name: "static:" + id, id: id, vn: name, doc: doc}
}

// Name identifies the source in logs.
func (s *Static) Name() string { return s.name }

// Version returns the version stamped on the document's verses.
func (s *Static) Version() (id, name string) { return s.id, s.vn }

// Fetch returns the document.
func (s *Static) Fetch(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.doc, nil
}
