// Package archive reads and writes source bundles: tar archives, optionally
// gzip or xz compressed, holding one raw scripture document per entry and an
// optional manifest.json naming the versions.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/juniper-corpus/internal/validation"
)

// Bundle formats.
const (
	FormatTarXZ   = "tar.xz"
	FormatTarGZ   = "tar.gz"
	FormatTar     = "tar"
	FormatUnknown = "unknown"
)

// DetectFormat detects the bundle format from the file extension.
func DetectFormat(name string) string {
	switch {
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		return FormatTarXZ
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return FormatTarGZ
	case strings.HasSuffix(name, ".tar"):
		return FormatTar
	default:
		return FormatUnknown
	}
}

// IsBundle reports whether name has a supported bundle extension.
func IsBundle(name string) bool {
	return DetectFormat(name) != FormatUnknown
}

// BundleID strips the bundle extension from a file name.
func BundleID(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	for _, ext := range []string{".tar.xz", ".tar.gz", ".txz", ".tgz", ".tar"} {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext)
		}
	}
	return base
}

// Reader wraps a tar.Reader with automatic decompression handling.
type Reader struct {
	*tar.Reader
	file         *os.File
	decompressor io.Closer
}

// NewReader opens the bundle at path.
func NewReader(path string) (*Reader, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unsupported bundle format: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}

	var reader io.Reader = f
	var decompressor io.Closer

	switch format {
	case FormatTarXZ:
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		reader = xzr
	case FormatTarGZ:
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		reader = gzr
		decompressor = gzr
	}

	return &Reader{
		Reader:       tar.NewReader(reader),
		file:         f,
		decompressor: decompressor,
	}, nil
}

// Close closes the reader and any underlying decompressor.
func (r *Reader) Close() error {
	var first error
	if r.decompressor != nil {
		first = r.decompressor.Close()
	}
	if err := r.file.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// Visitor is called for each regular file in a bundle. name has any leading
// bundle directory removed. Return true to stop iteration.
type Visitor func(name string, content io.Reader) (stop bool, err error)

// Iterate walks the regular files of the bundle in archive order.
func (r *Reader) Iterate(visitor Visitor) error {
	for {
		header, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if errors.Is(err, tar.ErrInsecurePath) {
			return fmt.Errorf("%w: entry %q", validation.ErrPathTraversal, header.Name)
		}
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		if err := validation.ValidateEntryName(header.Name); err != nil {
			return err
		}

		stop, err := visitor(EntryName(header.Name), r)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// Walk opens the bundle at path and iterates its files.
func Walk(path string, visitor Visitor) error {
	r, err := NewReader(path)
	if err != nil {
		return err
	}
	defer r.Close()
	return r.Iterate(visitor)
}

// ReadFile reads one file from the bundle.
func ReadFile(bundlePath, filename string) ([]byte, error) {
	var content []byte
	err := Walk(bundlePath, func(name string, r io.Reader) (bool, error) {
		if name != filename {
			return false, nil
		}
		var err error
		content, err = io.ReadAll(r)
		return true, err
	})
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, fmt.Errorf("file not found: %s", filename)
	}
	return content, nil
}

// EntryName removes the leading bundle directory from an entry name.
func EntryName(name string) string {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if idx := strings.Index(name, "/"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
