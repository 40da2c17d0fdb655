package installer

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Louisamayh/browseragentB-HInd/internal/runner/runnertest"
)

func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "requirements.txt")
	if err := os.WriteFile(path, []byte("fastapi==0.110.0\nuvicorn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestInstallOnline(t *testing.T) {
	manifest := writeManifest(t)
	fake := runnertest.New().On("venv/bin/python -m pip", runnertest.Result{})

	if err := Install(context.Background(), fake, "venv/bin/python", manifest, Options{}); err != nil {
		t.Fatalf("install: %v", err)
	}

	calls := fake.Calls()
	if len(calls) != 2 {
		t.Fatalf("calls = %v", calls)
	}
	if calls[0] != "venv/bin/python -m pip install --upgrade pip" {
		t.Fatalf("first call = %q", calls[0])
	}
	if calls[1] != "venv/bin/python -m pip install -r "+manifest {
		t.Fatalf("second call = %q", calls[1])
	}
}

func TestInstallMissingManifest(t *testing.T) {
	fake := runnertest.New()
	err := Install(context.Background(), fake, "py", filepath.Join(t.TempDir(), "requirements.txt"), Options{})
	if !errors.Is(err, ErrManifestMissing) {
		t.Fatalf("err = %v, want ErrManifestMissing", err)
	}
	if len(fake.Calls()) != 0 {
		t.Fatalf("pip ran without a manifest: %v", fake.Calls())
	}
}

func TestInstallPipUpgradeFailureIsFatal(t *testing.T) {
	manifest := writeManifest(t)
	fake := runnertest.New().
		On("py -m pip install --upgrade", runnertest.Result{Code: 1}).
		On("py -m pip install -r", runnertest.Result{})

	if err := Install(context.Background(), fake, "py", manifest, Options{}); err == nil {
		t.Fatal("expected error")
	}
	if fake.Called("py -m pip install -r") {
		t.Fatal("requirements installed after pip upgrade failed")
	}
}

func TestInstallRequirementsFailure(t *testing.T) {
	manifest := writeManifest(t)
	fake := runnertest.New().
		On("py -m pip install --upgrade", runnertest.Result{}).
		On("py -m pip install -r", runnertest.Result{Output: []byte("No matching distribution"), Code: 1})

	err := Install(context.Background(), fake, "py", manifest, Options{})
	if err == nil || !strings.Contains(err.Error(), "No matching distribution") {
		t.Fatalf("err = %v", err)
	}
}

func TestInstallWheelhouseDirectory(t *testing.T) {
	manifest := writeManifest(t)
	wheels := t.TempDir()
	fake := runnertest.New().On("py -m pip", runnertest.Result{})

	if err := Install(context.Background(), fake, "py", manifest, Options{Wheelhouse: wheels}); err != nil {
		t.Fatalf("install: %v", err)
	}
	calls := fake.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %v", calls)
	}
	want := "py -m pip install --no-index --find-links " + wheels + " -r " + manifest
	if calls[0] != want {
		t.Fatalf("call = %q, want %q", calls[0], want)
	}
}

func TestInstallWheelhouseZip(t *testing.T) {
	manifest := writeManifest(t)
	archive := filepath.Join(t.TempDir(), "wheels.zip")
	data := zipBytes(t, map[string]string{"wheels/fastapi-0.110.0-py3-none-any.whl": "whl"})
	if err := os.WriteFile(archive, data, 0o644); err != nil {
		t.Fatal(err)
	}

	var seen string
	fake := runnertest.New().On("py -m pip install --no-index", runnertest.Result{
		Hook: func(_ string, args []string) {
			for i, a := range args {
				if a == "--find-links" {
					seen = args[i+1]
				}
			}
			if _, err := os.Stat(filepath.Join(seen, "fastapi-0.110.0-py3-none-any.whl")); err != nil {
				t.Errorf("wheel not extracted: %v", err)
			}
		},
	})

	if err := Install(context.Background(), fake, "py", manifest, Options{Wheelhouse: archive}); err != nil {
		t.Fatalf("install: %v", err)
	}
	if seen == "" {
		t.Fatal("pip not pointed at the wheelhouse")
	}
	if _, err := os.Stat(seen); !os.IsNotExist(err) {
		t.Fatalf("temporary wheelhouse not cleaned up: %v", err)
	}
}

func TestInstallWheelhouseURL(t *testing.T) {
	data := zipBytes(t, map[string]string{"uvicorn-0.29.0-py3-none-any.whl": "whl"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wheels.zip" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	manifest := writeManifest(t)
	extracted := false
	fake := runnertest.New().On("py -m pip install --no-index", runnertest.Result{
		Hook: func(_ string, args []string) {
			for i, a := range args {
				if a == "--find-links" {
					_, err := os.Stat(filepath.Join(args[i+1], "uvicorn-0.29.0-py3-none-any.whl"))
					extracted = err == nil
				}
			}
		},
	})

	if err := Install(context.Background(), fake, "py", manifest, Options{Wheelhouse: srv.URL + "/wheels.zip"}); err != nil {
		t.Fatalf("install: %v", err)
	}
	if !extracted {
		t.Fatal("downloaded wheelhouse was not extracted before pip ran")
	}

	err := Install(context.Background(), fake, "py", manifest, Options{Wheelhouse: srv.URL + "/missing.zip"})
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("err = %v, want HTTP 404", err)
	}
}

func TestInstallWheelhouseRejectsPlainFile(t *testing.T) {
	manifest := writeManifest(t)
	notArchive := filepath.Join(t.TempDir(), "wheels.txt")
	if err := os.WriteFile(notArchive, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Install(context.Background(), runnertest.New(), "py", manifest, Options{Wheelhouse: notArchive}); err == nil {
		t.Fatal("expected error")
	}
}

func TestExtractTarGz(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	body := []byte("whl")
	for _, hdr := range []*tar.Header{
		{Name: "a/", Typeflag: tar.TypeDir, Mode: 0o755},
		{Name: "a/pkg.whl", Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(body))},
	} {
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write(body); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	src := filepath.Join(t.TempDir(), "wheels.tar.gz")
	if err := os.WriteFile(src, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(t.TempDir(), "out")
	dir, err := ExtractArchive(src, dest)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if dir != filepath.Join(dest, "a") {
		t.Fatalf("dir = %q, want single top-level folder", dir)
	}
	if got, err := os.ReadFile(filepath.Join(dir, "pkg.whl")); err != nil || string(got) != "whl" {
		t.Fatalf("pkg.whl = %q, %v", got, err)
	}
}

func TestExtractRejectsEscapingEntries(t *testing.T) {
	src := filepath.Join(t.TempDir(), "evil.zip")
	if err := os.WriteFile(src, zipBytes(t, map[string]string{"../../evil.whl": "x"}), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ExtractArchive(src, filepath.Join(t.TempDir(), "out")); err == nil {
		t.Fatal("expected escaping entry to be rejected")
	}
}

func TestExtractUnsupported(t *testing.T) {
	if _, err := ExtractArchive("wheels.rar", t.TempDir()); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestIsArchive(t *testing.T) {
	for _, p := range []string{"w.zip", "w.7z", "w.tar", "w.TAR.GZ", "w.tgz", "w.tar.bz2", "w.tar.xz"} {
		if !IsArchive(p) {
			t.Fatalf("IsArchive(%q) = false", p)
		}
	}
	if IsArchive("w.whl") {
		t.Fatal("IsArchive(w.whl) = true")
	}
}
