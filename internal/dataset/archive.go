package dataset

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var ErrUnsafeArchive = errors.New("archive entry escapes destination")

// Prepare makes sure every file exists in dir, extracting archive into dir when
// one is missing. An empty archive only checks the files.
func Prepare(dir, archive string, files ...string) error {
	missing := false
	for _, name := range files {
		_, err := os.Stat(filepath.Join(dir, name))
		if err == nil {
			continue
		}
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, "unable to stat %s", name)
		}
		missing = true
	}
	if !missing {
		return nil
	}
	if archive == "" {
		return errors.Wrapf(os.ErrNotExist, "input files missing from %s and no archive configured", dir)
	}

	err := Extract(archive, dir)
	if err != nil {
		return err
	}
	for _, name := range files {
		_, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			return errors.Wrapf(err, "%s not found in %s", name, archive)
		}
	}

	return nil
}

// Extract writes the files of the zip archive src into dest.
func Extract(src, dest string) error {
	r, err := zip.OpenReader(src)
	if errors.Is(err, zip.ErrInsecurePath) {
		r.Close()

		return errors.Wrapf(ErrUnsafeArchive, "archive %s", src)
	}
	if err != nil {
		return errors.Wrapf(err, "unable to open archive %s", src)
	}
	defer r.Close()

	err = os.MkdirAll(dest, 0o755)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", dest)
	}

	for _, f := range r.File {
		path := filepath.Join(dest, f.Name) //nolint:gosec // checked below
		rel, err := filepath.Rel(dest, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return errors.Wrapf(ErrUnsafeArchive, "entry %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			err = os.MkdirAll(path, 0o755)
			if err != nil {
				return errors.Wrapf(err, "unable to create %s", path)
			}

			continue
		}

		err = extractFile(f, path)
		if err != nil {
			return err
		}
	}

	return nil
}

func extractFile(f *zip.File, path string) error {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", filepath.Dir(path))
	}

	rc, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, "unable to open entry %s", f.Name)
	}
	defer rc.Close()

	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", path)
	}

	_, err = io.Copy(out, rc) //nolint:gosec // archive is a trusted input
	if err != nil {
		out.Close()

		return errors.Wrapf(err, "unable to extract %s", f.Name)
	}

	return errors.Wrapf(out.Close(), "unable to close %s", path)
}
