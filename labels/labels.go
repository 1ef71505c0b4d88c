// Package labels provides the localized display strings of the simulator.
package labels

import (
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/siliconsim/binding"
	"github.com/ByLCY/siliconsim/design"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "ENG"

// ErrUnknownLocale is returned for a locale without a table.
var ErrUnknownLocale = errors.New("unknown locale")

//go:embed locales/*.yaml
var localeFS embed.FS

// Tutorial holds the TUTORIAL screen copy.
type Tutorial struct {
	Title string   `yaml:"title"`
	Steps []string `yaml:"steps"`
}

// Table is one locale's label set.
type Table struct {
	Locale          string            `yaml:"locale"`
	Title           string            `yaml:"title"`
	Tutorial        Tutorial          `yaml:"tutorial"`
	StartDesign     string            `yaml:"start_design"`
	Tools           string            `yaml:"tools"`
	GridSize        string            `yaml:"grid_size"`
	GridUnit        string            `yaml:"grid_unit"`
	Package         string            `yaml:"package"`
	PackageSubtitle string            `yaml:"package_subtitle"`
	Engraving       string            `yaml:"engraving"`
	Download        string            `yaml:"download"`
	Back            string            `yaml:"back"`
	Components      map[string]string `yaml:"components"`
}

// Locales lists the embedded locale codes.
func Locales() []string {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".yaml")
		out = append(out, strings.ToUpper(name))
	}
	sort.Strings(out)
	return out
}

// Load returns the embedded table for locale (case-insensitive).
func Load(locale string) (Table, error) {
	code := strings.ToUpper(strings.TrimSpace(locale))
	if code == "" {
		code = DefaultLocale
	}
	data, err := localeFS.ReadFile("locales/" + strings.ToLower(code) + ".yaml")
	if err != nil {
		return Table{}, fmt.Errorf("%w: %s", ErrUnknownLocale, locale)
	}
	t, err := Parse(data)
	if err != nil {
		return Table{}, fmt.Errorf("locale %s: %w", code, err)
	}
	return t, nil
}

// MustLoad is Load for the embedded locales, which are known to be valid.
func MustLoad(locale string) Table {
	t, err := Load(locale)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse decodes a YAML label table and checks it is complete.
func Parse(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("decode label table: %w", err)
	}
	if err := t.validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

func (t Table) validate() error {
	var missing []string
	check := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	check("title", t.Title)
	check("tutorial.title", t.Tutorial.Title)
	check("start_design", t.StartDesign)
	check("tools", t.Tools)
	check("grid_size", t.GridSize)
	check("grid_unit", t.GridUnit)
	check("package", t.Package)
	check("package_subtitle", t.PackageSubtitle)
	check("engraving", t.Engraving)
	check("download", t.Download)
	check("back", t.Back)
	if len(t.Tutorial.Steps) != 3 {
		missing = append(missing, "tutorial.steps[3]")
	}
	for _, info := range design.Catalog() {
		check("components."+info.LabelKey, t.Components[info.LabelKey])
	}
	if len(missing) > 0 {
		return fmt.Errorf("label table is missing: %s", strings.Join(missing, ", "))
	}
	if err := binding.Check(t.GridUnit, "size"); err != nil {
		return fmt.Errorf("grid_unit: %w", err)
	}
	return nil
}

// Component returns the display name of k.
func (t Table) Component(k design.ComponentKind) string {
	return t.Components[design.Info(k).LabelKey]
}

// GridUnitFor renders the die-size caption for an n×n grid, e.g. "7 x 7 nm".
func (t Table) GridUnitFor(n int) string {
	return binding.Interpolate(t.GridUnit, binding.Vars{"size": n})
}
