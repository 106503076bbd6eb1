package parser

import (
	"fmt"

	"github.com/oxcstats/soldierstats/pkg/core"
	"gopkg.in/yaml.v3"
)

// ParseStats converts an ability block into Stats. The node kind decides the
// constructor: sequences are positional, mappings are keyed.
func (p *Parser) ParseStats(node *yaml.Node) (core.Stats, error) {
	if node == nil || node.Kind == 0 {
		return core.Stats{}, &core.SchemaError{Field: "stats", Reason: "missing"}
	}

	switch node.Kind {
	case yaml.SequenceNode:
		var values []int
		if err := node.Decode(&values); err != nil {
			return core.Stats{}, &core.SchemaError{Field: "stats", Reason: fmt.Sprintf("non-integer value: %v", err)}
		}
		return core.StatsFromSequence(values)
	case yaml.MappingNode:
		var values map[string]int
		if err := node.Decode(&values); err != nil {
			return core.Stats{}, &core.SchemaError{Field: "stats", Reason: fmt.Sprintf("non-integer value: %v", err)}
		}
		return core.StatsFromMapping(values)
	default:
		return core.Stats{}, &core.SchemaError{Field: "stats", Reason: fmt.Sprintf("expected sequence or mapping at line %d", node.Line)}
	}
}
