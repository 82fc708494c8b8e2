package document

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/yesoreyeram/osai/pkg/engine"
	"github.com/yesoreyeram/osai/pkg/types"
)

// Reserved document IDs bound to the graph pseudo-nodes.
const (
	GraphInID  = "in"
	GraphOutID = "out"
)

// documentSchema validates the document shape before unmarshalling.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["nodes"],
  "additionalProperties": false,
  "properties": {
    "graph_id": {"type": "string"},
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "type"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "type": {"type": "string", "minLength": 1},
          "num_inputs": {"type": "integer", "minimum": 0, "maximum": 64},
          "num_outputs": {"type": "integer", "minimum": 0, "maximum": 64},
          "params": {"type": "object"}
        }
      }
    },
    "edges": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["source", "target"],
        "additionalProperties": false,
        "properties": {
          "source": {"type": "string", "minLength": 1},
          "source_port": {"type": "integer", "minimum": 0},
          "target": {"type": "string", "minLength": 1},
          "target_port": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`

// NodeSpec declares one node in a document.
type NodeSpec struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	NumInputs  types.ChannelCount `json:"num_inputs,omitempty"`
	NumOutputs types.ChannelCount `json:"num_outputs,omitempty"`
	Params     json.RawMessage    `json:"params,omitempty"`
}

// EdgeSpec declares one connection in a document.
type EdgeSpec struct {
	Source     string           `json:"source"`
	SourcePort types.OutPortIdx `json:"source_port,omitempty"`
	Target     string           `json:"target"`
	TargetPort types.InPortIdx  `json:"target_port,omitempty"`
}

// Document is a parsed graph document.
type Document struct {
	GraphID string     `json:"graph_id,omitempty"`
	Nodes   []NodeSpec `json:"nodes"`
	Edges   []EdgeSpec `json:"edges,omitempty"`
}

// Parse validates data against the document schema and unmarshals it.
func Parse(data []byte) (*Document, error) {
	schemaLoader := gojsonschema.NewStringLoader(documentSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if !result.Valid() {
		descriptions := make([]string, 0, len(result.Errors()))
		for _, resultErr := range result.Errors() {
			descriptions = append(descriptions, resultErr.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(descriptions, "; "))
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// Build materializes a document into the engine's graph using the given
// factory registry. It returns the mapping from document node IDs to graph
// handles, with the reserved "in"/"out" IDs bound to the pseudo-nodes.
//
// Build is transactional: on any error every node it added is removed
// again, leaving the graph as it was.
func Build[C any](eng *engine.Engine[C], doc *Document, reg *Registry[C]) (map[string]types.NodeID, error) {
	ids := map[string]types.NodeID{
		GraphInID:  eng.GraphInNode(),
		GraphOutID: eng.GraphOutNode(),
	}
	var added []types.NodeID
	var addedEdges []types.EdgeID

	rollback := func() {
		for _, id := range addedEdges {
			eng.RemoveEdge(id)
		}
		for _, id := range added {
			eng.RemoveNode(id)
		}
	}

	for _, spec := range doc.Nodes {
		if spec.ID == GraphInID || spec.ID == GraphOutID {
			rollback()
			return nil, fmt.Errorf("node %q: %w", spec.ID, ErrReservedNodeID)
		}
		if _, dup := ids[spec.ID]; dup {
			rollback()
			return nil, fmt.Errorf("node %q: %w", spec.ID, ErrDuplicateNodeID)
		}

		factory, ok := reg.Lookup(spec.Type)
		if !ok {
			rollback()
			return nil, fmt.Errorf("node %q type %q: %w", spec.ID, spec.Type, ErrUnknownNodeType)
		}

		node, err := factory(spec.Params)
		if err != nil {
			rollback()
			return nil, fmt.Errorf("node %q: %w", spec.ID, err)
		}

		id, err := eng.AddNode(node, types.ChannelConfig{
			NumInputs:  spec.NumInputs,
			NumOutputs: spec.NumOutputs,
		})
		if err != nil {
			rollback()
			return nil, fmt.Errorf("node %q: %w", spec.ID, err)
		}
		ids[spec.ID] = id
		added = append(added, id)
	}

	for _, spec := range doc.Edges {
		src, ok := ids[spec.Source]
		if !ok {
			rollback()
			return nil, fmt.Errorf("edge source %q: %w", spec.Source, ErrUnknownNodeRef)
		}
		dst, ok := ids[spec.Target]
		if !ok {
			rollback()
			return nil, fmt.Errorf("edge target %q: %w", spec.Target, ErrUnknownNodeRef)
		}
		edgeID, err := eng.AddEdge(src, spec.SourcePort, dst, spec.TargetPort)
		if err != nil {
			rollback()
			return nil, err
		}
		addedEdges = append(addedEdges, edgeID)
	}

	return ids, nil
}
