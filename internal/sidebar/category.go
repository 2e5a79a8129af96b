package sidebar

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"
)

// CategoryFiles lists the metadata file names recognised in a doc directory,
// in lookup order.
var CategoryFiles = []string{"_category_.yml", "_category_.yaml", "_category_.json"}

// Category carries optional metadata for a directory.
type Category struct {
	Label       string   `yaml:"label" json:"label"`
	Position    *float64 `yaml:"position" json:"position"`
	Collapsed   *bool    `yaml:"collapsed" json:"collapsed"`
	Collapsible *bool    `yaml:"collapsible" json:"collapsible"`
	ClassName   string   `yaml:"className" json:"className"`
	Description string   `yaml:"description" json:"description"`
}

// LoadCategories reads category metadata for every directory below the root
// of fsys. Keys are slash separated directory paths relative to the root.
func LoadCategories(fsys fs.FS) (map[string]Category, error) {
	categories := map[string]Category{}
	err := fs.WalkDir(fsys, ".", func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() {
			return nil
		}
		category, ok, err := readCategory(fsys, current)
		if err != nil {
			return err
		}
		if ok {
			categories[current] = category
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func readCategory(fsys fs.FS, dir string) (Category, bool, error) {
	for _, name := range CategoryFiles {
		file := path.Join(dir, name)
		data, err := fs.ReadFile(fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Category{}, false, fmt.Errorf("sidebar: read %s: %w", file, err)
		}

		var category Category
		if path.Ext(name) == ".json" {
			err = json.Unmarshal(data, &category)
		} else {
			err = yaml.Unmarshal(data, &category)
		}
		if err != nil {
			return Category{}, false, fmt.Errorf("sidebar: decode %s: %w", file, err)
		}
		return category, true, nil
	}
	return Category{}, false, nil
}
