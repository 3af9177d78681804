package util

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nvr-ai/go-resample/codec"
	"github.com/pkg/errors"
)

// ImageFile represents an image file.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Data is the raw bytes of the image file.
	Data []byte
	// Format is the container format implied by the file extension.
	Format codec.Format
}

// Name returns the file name without its directory or extension.
func (f ImageFile) Name() string {
	base := filepath.Base(f.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadDirectoryImageFiles reads all image files from a directory. Files whose
// extension is not a supported image format, and subdirectories, are skipped.
//
// Arguments:
//   - dir: Directory path containing image files.
//
// Returns:
//   - []ImageFile: The image files sorted by file name.
//   - error: Error if the directory or a file cannot be read.
func LoadDirectoryImageFiles(dir string) ([]ImageFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read image directory")
	}

	var files []ImageFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		f, err := codec.FormatFromPath(entry.Name())
		if err != nil {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		files = append(files, ImageFile{Path: path, Data: data, Format: f})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}
