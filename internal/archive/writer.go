package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ulikunitz/xz"
)

// modTime is stamped on every entry so equal inputs give equal bundles.
var modTime = time.Unix(0, 0).UTC()

// Pack writes the regular files directly under srcDir into a bundle at
// dstPath. The compression follows dstPath's extension and entries are
// placed under a directory named after the bundle.
func Pack(srcDir, dstPath string) error {
	format := DetectFormat(dstPath)
	if format == FormatUnknown {
		return fmt.Errorf("unsupported bundle format: %s", dstPath)
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return fmt.Errorf("read source directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}
	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}

	if err := writeBundle(out, format, BundleID(dstPath), srcDir, names); err != nil {
		out.Close()
		os.Remove(dstPath)
		return err
	}
	return out.Close()
}

func writeBundle(w io.Writer, format, baseDir, srcDir string, names []string) error {
	var compressor io.WriteCloser
	switch format {
	case FormatTarGZ:
		compressor = gzip.NewWriter(w)
	case FormatTarXZ:
		xzw, err := xz.NewWriter(w)
		if err != nil {
			return fmt.Errorf("xz writer: %w", err)
		}
		compressor = xzw
	}
	if compressor != nil {
		w = compressor
	}

	tw := tar.NewWriter(w)
	for _, name := range names {
		if err := addFile(tw, baseDir+"/"+name, filepath.Join(srcDir, name)); err != nil {
			return err
		}
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("close tar: %w", err)
	}
	if compressor != nil {
		if err := compressor.Close(); err != nil {
			return fmt.Errorf("close compressor: %w", err)
		}
	}
	return nil
}

func addFile(tw *tar.Writer, entry, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	header := &tar.Header{
		Name:     entry,
		Mode:     0o644,
		Size:     info.Size(),
		ModTime:  modTime,
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("write header %s: %w", entry, err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("write %s: %w", entry, err)
	}
	return nil
}
