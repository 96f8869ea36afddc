package data

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed abilities.yaml
var builtinAbilities []byte

// AbilityTable - глобальный registry всех ability specs, keyed by name.
// Загружается через LoadAbilities() при старте сервера.
var AbilityTable map[string]*AbilitySpec

type abilityCatalog struct {
	Abilities []AbilitySpec `yaml:"abilities"`
}

// GetAbility returns the shared spec by name, or nil if not loaded.
func GetAbility(name string) *AbilitySpec {
	if AbilityTable == nil {
		return nil
	}
	return AbilityTable[name]
}

// LoadAbilities builds AbilityTable from the embedded catalog.
func LoadAbilities() error {
	table, err := decodeCatalog(builtinAbilities)
	if err != nil {
		return fmt.Errorf("loading builtin abilities: %w", err)
	}
	AbilityTable = table
	slog.Info("loaded abilities", "count", len(AbilityTable))
	return nil
}

// LoadAbilitiesFile merges an external catalog over the loaded table.
// Entries with the same name replace built-in ones.
func LoadAbilitiesFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening ability catalog %s: %w", path, err)
	}
	defer f.Close()

	table, err := LoadAbilitiesFrom(f)
	if err != nil {
		return fmt.Errorf("loading ability catalog %s: %w", path, err)
	}
	if AbilityTable == nil {
		AbilityTable = make(map[string]*AbilitySpec, len(table))
	}
	for name, spec := range table {
		AbilityTable[name] = spec
	}
	slog.Info("loaded ability overrides", "path", path, "count", len(table))
	return nil
}

// LoadAbilitiesFrom decodes and validates a catalog without touching AbilityTable.
func LoadAbilitiesFrom(r io.Reader) (map[string]*AbilitySpec, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return decodeCatalog(raw)
}

func decodeCatalog(raw []byte) (map[string]*AbilitySpec, error) {
	var cat abilityCatalog
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	table := make(map[string]*AbilitySpec, len(cat.Abilities))
	for i := range cat.Abilities {
		spec := &cat.Abilities[i]
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		if _, dup := table[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate ability %q", spec.Name)
		}
		table[spec.Name] = spec
	}
	return table, nil
}
