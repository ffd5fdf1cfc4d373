package paths

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ListSpriteFiles walks root and returns every sprite document under it
// (.ase and .aseprite extensions), sorted, as paths relative to root.
func ListSpriteFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".ase", ".aseprite":
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not walk %q", root)
	}
	sort.Strings(out)
	return out, nil
}
