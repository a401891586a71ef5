package archive

import (
	"archive/tar"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/FocuswithJustin/juniper-corpus/internal/validation"
)

func writeDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"bibles.tar.xz", FormatTarXZ},
		{"bibles.txz", FormatTarXZ},
		{"bibles.tar.gz", FormatTarGZ},
		{"bibles.tgz", FormatTarGZ},
		{"bibles.tar", FormatTar},
		{"kjv.json", FormatUnknown},
		{"kjv.json.xz", FormatUnknown},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.name); got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestBundleID(t *testing.T) {
	tests := map[string]string{
		"/data/bibles.tar.xz": "bibles",
		"bibles.tgz":          "bibles",
		"plain":               "plain",
	}
	for in, want := range tests {
		if got := BundleID(in); got != want {
			t.Errorf("BundleID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEntryName(t *testing.T) {
	tests := map[string]string{
		"bibles/kjv.json":   "kjv.json",
		"./bibles/kjv.json": "kjv.json",
		"kjv.json":          "kjv.json",
		"a/b/c.xml":         "b/c.xml",
	}
	for in, want := range tests {
		if got := EntryName(in); got != want {
			t.Errorf("EntryName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPackAndWalk(t *testing.T) {
	src := writeDir(t, map[string]string{
		"kjv.json":      `[{"book":"John","chapter":3,"verse":16,"text":"For God so loved the world"}]`,
		"web.xml":       `<osis><verse osisID="John.3.16">For God so loved the world.</verse></osis>`,
		"manifest.json": `{"title":"Test","sources":[{"path":"kjv.json","id":"kjv","name":"King James Version"}]}`,
	})

	for _, ext := range []string{".tar.xz", ".tar.gz", ".tar"} {
		t.Run(ext, func(t *testing.T) {
			dst := filepath.Join(t.TempDir(), "out", "bibles"+ext)
			if err := Pack(src, dst); err != nil {
				t.Fatalf("Pack() error: %v", err)
			}

			var names []string
			err := Walk(dst, func(name string, r io.Reader) (bool, error) {
				names = append(names, name)
				_, err := io.ReadAll(r)
				return false, err
			})
			if err != nil {
				t.Fatalf("Walk() error: %v", err)
			}
			if diff := cmp.Diff([]string{"kjv.json", "manifest.json", "web.xml"}, names); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}

			got, err := ReadFile(dst, "web.xml")
			if err != nil {
				t.Fatalf("ReadFile() error: %v", err)
			}
			if string(got) != `<osis><verse osisID="John.3.16">For God so loved the world.</verse></osis>` {
				t.Errorf("ReadFile() = %q", got)
			}
			if _, err := ReadFile(dst, "missing.json"); err == nil {
				t.Error("ReadFile(missing) succeeded")
			}

			m, err := ReadManifest(dst)
			if err != nil {
				t.Fatalf("ReadManifest() error: %v", err)
			}
			entry, ok := m.Lookup("kjv.json")
			if !ok || entry.ID != "kjv" || entry.Name != "King James Version" {
				t.Errorf("Lookup(kjv.json) = %+v, %v", entry, ok)
			}
			if _, ok := m.Lookup("web.xml"); ok {
				t.Error("Lookup(web.xml) found an entry")
			}
		})
	}
}

func TestPackDeterministic(t *testing.T) {
	src := writeDir(t, map[string]string{"a.json": "[]", "b.json": "{}"})
	one := filepath.Join(t.TempDir(), "b.tar.gz")
	two := filepath.Join(t.TempDir(), "b.tar.gz")
	if err := Pack(src, one); err != nil {
		t.Fatal(err)
	}
	if err := Pack(src, two); err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(one)
	second, _ := os.ReadFile(two)
	if len(first) == 0 || !cmp.Equal(first, second) {
		t.Error("packing the same directory twice gave different bundles")
	}
	if err := Pack(src, filepath.Join(t.TempDir(), "bad.zip")); err == nil {
		t.Error("Pack(.zip) succeeded")
	}
}

func TestManifestAbsent(t *testing.T) {
	src := writeDir(t, map[string]string{"kjv.json": "[]"})
	dst := filepath.Join(t.TempDir(), "b.tgz")
	if err := Pack(src, dst); err != nil {
		t.Fatal(err)
	}
	m, err := ReadManifest(dst)
	if err != nil || m != nil {
		t.Errorf("ReadManifest() = %v, %v; want nil, nil", m, err)
	}
	if _, ok := m.Lookup("kjv.json"); ok {
		t.Error("nil manifest Lookup found an entry")
	}
}

func TestNewReaderErrors(t *testing.T) {
	if _, err := NewReader("bundle.zip"); err == nil {
		t.Error("NewReader(.zip) succeeded")
	}
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.tar.gz")); err == nil {
		t.Error("NewReader(missing) succeeded")
	}
	bad := filepath.Join(t.TempDir(), "bad.tar.xz")
	if err := os.WriteFile(bad, []byte("not xz"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewReader(bad); err == nil {
		t.Error("NewReader(corrupt xz) succeeded")
	}
}

func TestWalkRejectsEscapingEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evil.tar")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	tw := tar.NewWriter(f)
	content := []byte("[]")
	if err := tw.WriteHeader(&tar.Header{Name: "../evil.json", Mode: 0o644, Size: int64(len(content)), Typeflag: tar.TypeReg}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatal(err)
	}
	tw.Close()
	f.Close()

	err = Walk(path, func(string, io.Reader) (bool, error) { return false, nil })
	if !errors.Is(err, validation.ErrPathTraversal) {
		t.Errorf("Walk() error = %v, want ErrPathTraversal", err)
	}
}
