package source

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	apperrors "github.com/FocuswithJustin/juniper-corpus/core/errors"
	"github.com/FocuswithJustin/juniper-corpus/core/engine"
	"github.com/FocuswithJustin/juniper-corpus/internal/archive"
	"github.com/FocuswithJustin/juniper-corpus/internal/validation"
)

// Dir returns a source for every document and bundle directly inside dir,
// in name order. Other files are ignored.
func Dir(dir string) ([]engine.Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.NewIO("read directory", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var out []engine.Source
	for _, name := range names {
		path := filepath.Join(dir, name)
		switch {
		case archive.IsBundle(name):
			srcs, err := Bundle(path)
			if err != nil {
				return nil, err
			}
			out = append(out, srcs...)
		case IsDocument(name):
			out = append(out, NewFile(path, "", ""))
		}
	}
	return out, nil
}

// Bundle reads every document in a source bundle into memory. Versions come
// from the bundle manifest when it names the file, otherwise from the file
// name.
func Bundle(path string) ([]engine.Source, error) {
	manifest, err := archive.ReadManifest(path)
	if err != nil {
		return nil, apperrors.NewIO("read manifest", path, err)
	}

	var out []engine.Source
	err = archive.Walk(path, func(name string, r io.Reader) (bool, error) {
		if name == archive.ManifestName || !IsDocument(name) {
			return false, nil
		}
		data, err := readDocument("read", name, r)
		if err != nil {
			return true, err
		}
		data, err = Decompress(name, data)
		if err != nil {
			return true, err
		}

		id, vn := VersionFromName(name)
		if entry, ok := manifest.Lookup(name); ok {
			if entry.ID != "" {
				id = entry.ID
			}
			if entry.Name != "" {
				vn = entry.Name
			}
		}
		s := NewStatic(id, vn, data)
		s.name = path + "#" + name
		out = append(out, s)
		return false, nil
	})
	if err != nil {
		return nil, apperrors.NewIO("read bundle", path, err)
	}
	return out, nil
}

// Expand turns paths naming files, bundles or directories into sources.
func Expand(paths []string) ([]engine.Source, error) {
	var out []engine.Source
	for _, p := range paths {
		if err := validation.ValidatePath(p); err != nil {
			return nil, apperrors.NewValidation("source", err.Error())
		}
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, apperrors.NewNotFound("source", p)
			}
			return nil, apperrors.NewIO("stat", p, err)
		}
		switch {
		case info.IsDir():
			srcs, err := Dir(p)
			if err != nil {
				return nil, err
			}
			out = append(out, srcs...)
		case archive.IsBundle(p):
			srcs, err := Bundle(p)
			if err != nil {
				return nil, err
			}
			out = append(out, srcs...)
		default:
			out = append(out, NewFile(p, "", ""))
		}
	}
	return out, nil
}
