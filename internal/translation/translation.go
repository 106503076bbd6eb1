// Package translation resolves OpenXcom string keys (STR_*) to display text
// from explicitly configured language files.
package translation

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// rankKeys are the soldier rank keys indexed by rank number.
var rankKeys = []string{
	"STR_ROOKIE",
	"STR_SQUADDIE",
	"STR_SERGEANT",
	"STR_CAPTAIN",
	"STR_COLONEL",
	"STR_COMMANDER",
}

// Translator holds the merged strings of one language.
type Translator struct {
	lang    string
	logger  *slog.Logger
	strings map[string]string
}

// New returns an empty translator for lang.
func New(lang string, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{
		lang:    lang,
		logger:  logger,
		strings: make(map[string]string),
	}
}

// Language returns the language code the translator reads from files.
func (t *Translator) Language() string {
	return t.lang
}

// Len returns the number of loaded keys.
func (t *Translator) Len() int {
	return len(t.strings)
}

// LoadFiles loads each file in order. A file that fails to load is logged and
// skipped; the number of files that loaded is returned.
func (t *Translator) LoadFiles(paths []string) int {
	loaded := 0
	for _, path := range paths {
		if err := t.LoadFile(path); err != nil {
			t.logger.Warn("Failed to load language file", "path", path, "error", err)
			continue
		}
		loaded++
	}
	return loaded
}

// LoadFile merges the strings of the translator's language from one file.
// Later files override earlier ones. A file without the language is a no-op.
func (t *Translator) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read language file: %w", err)
	}

	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse language file %s: %w", path, err)
	}

	section, ok := doc[t.lang]
	if !ok {
		t.logger.Debug("Language not present in file", "path", path, "language", t.lang)
		return nil
	}
	if section.Kind != yaml.MappingNode {
		return fmt.Errorf("language file %s: %q is not a mapping", path, t.lang)
	}

	added := 0
	for i := 0; i+1 < len(section.Content); i += 2 {
		key, val := section.Content[i], section.Content[i+1]
		text, ok := scalarOrFirst(val)
		if !ok {
			continue
		}
		t.strings[key.Value] = text
		added++
	}

	t.logger.Debug("Loaded language file", "path", path, "language", t.lang, "keys", added)
	return nil
}

// scalarOrFirst returns a scalar value, or the first variant of a list.
func scalarOrFirst(n *yaml.Node) (string, bool) {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value, true
	case yaml.SequenceNode:
		if len(n.Content) > 0 && n.Content[0].Kind == yaml.ScalarNode {
			return n.Content[0].Value, true
		}
	case yaml.AliasNode:
		if n.Alias != nil {
			return scalarOrFirst(n.Alias)
		}
	}
	return "", false
}

// Get returns the text for key, or the key itself when it is unknown. An empty
// key yields "".
func (t *Translator) Get(key string) string {
	if key == "" {
		return ""
	}
	if t == nil {
		return key
	}
	if text, ok := t.strings[key]; ok {
		return text
	}
	return key
}

// RankKey returns the string key of a soldier rank. Ranks outside the known
// range map to STR_RANK_<n>.
func RankKey(rank int) string {
	if rank >= 0 && rank < len(rankKeys) {
		return rankKeys[rank]
	}
	return "STR_RANK_" + strconv.Itoa(rank)
}

// RankString returns the translated rank of a soldier.
func (t *Translator) RankString(rank int) string {
	return t.Get(RankKey(rank))
}
