package orchestrator

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MuazAshraf/ppt-translator/internal/types"
)

// BundleZip packs every file under root into root.zip, written next to root.
// Entry names are relative to root with forward slashes, so the archive
// unpacks into the same per-language layout.
func BundleZip(root string) (string, error) {
	zipPath := root + ".zip"
	out, err := os.Create(zipPath)
	if err != nil {
		return "", types.NewAppError(types.ErrArchive, "failed to create zip archive", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		zw.Close()
		return "", types.NewAppError(types.ErrArchive, "failed to bundle outputs", err)
	}
	if err := zw.Close(); err != nil {
		return "", types.NewAppError(types.ErrArchive, "failed to finalize zip archive", err)
	}
	return zipPath, nil
}
