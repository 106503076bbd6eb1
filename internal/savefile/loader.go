// Package savefile reads OpenXcom save streams: a metadata document followed
// by the game state document, told apart by their keys rather than position.
package savefile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const documentCount = 2

// Load opens path and returns the document matching section.
func Load(path string, section Section) (*Document, error) {
	if section.Key() == "" {
		return nil, fmt.Errorf("unknown section %q", section)
	}
	game, meta, err := loadClassified(path)
	if err != nil {
		return nil, err
	}
	var doc *Document
	switch section {
	case SectionGame:
		doc = game
	case SectionMeta:
		doc = meta
	}
	if doc == nil {
		return nil, &SectionNotFoundError{Path: path, Section: section, Key: section.Key()}
	}
	return doc, nil
}

// LoadBoth opens path once and returns both documents.
func LoadBoth(path string) (game, meta *Document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open save %s: %w", path, err)
	}
	defer f.Close()
	return ReadBoth(f, path)
}

// ReadBoth is LoadBoth over an already open stream.
func ReadBoth(r io.Reader, path string) (game, meta *Document, err error) {
	roots, err := ReadStream(r, path)
	if err != nil {
		return nil, nil, err
	}
	game, meta = classify(roots)
	if game == nil {
		return nil, nil, &SectionNotFoundError{Path: path, Section: SectionGame, Key: SectionGame.Key()}
	}
	if meta == nil {
		return nil, nil, &SectionNotFoundError{Path: path, Section: SectionMeta, Key: SectionMeta.Key()}
	}
	return game, meta, nil
}

func loadClassified(path string) (game, meta *Document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open save %s: %w", path, err)
	}
	defer f.Close()

	roots, err := ReadStream(f, path)
	if err != nil {
		return nil, nil, err
	}
	game, meta = classify(roots)
	return game, meta, nil
}

// ReadStream decodes every document of r and checks the stream holds exactly
// two mappings. path is only used in error messages.
func ReadStream(r io.Reader, path string) ([]*yaml.Node, error) {
	dec := yaml.NewDecoder(r)
	var roots []*yaml.Node
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode save %s: %w", path, err)
		}
		if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
			return nil, &FormatError{
				Path:   path,
				Count:  len(roots) + 1,
				Reason: fmt.Sprintf("document %d is not a mapping", len(roots)+1),
			}
		}
		roots = append(roots, doc.Content[0])
	}
	if len(roots) != documentCount {
		return nil, &FormatError{Path: path, Count: len(roots)}
	}
	return roots, nil
}

// classify assigns each root to a section by its discriminator key. The game
// document wins a tie, so a game state that also has a "name" is never
// mistaken for the metadata.
func classify(roots []*yaml.Node) (game, meta *Document) {
	for _, root := range roots {
		doc := &Document{root: root}
		if game == nil && doc.Has(SectionGame.Key()) {
			doc.Section = SectionGame
			game = doc
			continue
		}
		if meta == nil && doc.Has(SectionMeta.Key()) {
			doc.Section = SectionMeta
			meta = doc
		}
	}
	return game, meta
}
