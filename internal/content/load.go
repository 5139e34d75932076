package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// dataFS contains the content tables bundled with the binary.
//
//go:embed data/*.yaml
var dataFS embed.FS

// Files lists the content table file names, in load order.
var Files = []string{"profile.yaml", "services.yaml", "projects.yaml", "blog.yaml", "reviews.yaml"}

type profileFile struct {
	Profile Profile `yaml:"profile"`
	Contact Contact `yaml:"contact"`
}

// Embedded loads and validates the bundled content.
func Embedded() (*Site, error) {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// LoadDir loads and validates the content tables found in dir.
func LoadDir(dir string) (*Site, error) {
	return Load(os.DirFS(dir))
}

// Load parses the content tables in fsys, indexes them and validates the
// result. reviews.yaml is optional; every other file is required.
func Load(fsys fs.FS) (*Site, error) {
	var (
		site    Site
		profile profileFile
	)
	targets := map[string]any{
		"profile.yaml":  &profile,
		"services.yaml": &site.Services,
		"projects.yaml": &site.Projects,
		"blog.yaml":     &site.Posts,
		"reviews.yaml":  &site.Reviews,
	}
	for _, name := range Files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			if name == "reviews.yaml" && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if err := decodeStrict(data, targets[name]); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	site.Profile = profile.Profile
	site.Contact = profile.Contact
	return Build(site)
}

// decodeStrict rejects keys the content model does not know, so a typo or a
// stale field fails the load instead of being dropped.
func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Build indexes site and validates it.
func Build(site Site) (*Site, error) {
	site.index()
	if err := Validate(&site); err != nil {
		return nil, err
	}
	return &site, nil
}
