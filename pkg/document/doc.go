// Package document provides declarative JSON graph documents: a node and
// edge listing that is validated against a JSON Schema and materialized
// into a live engine graph through a node factory registry.
//
// # Overview
//
// A document looks like:
//
//	{
//	  "graph_id": "demo",
//	  "nodes": [
//	    {"id": "tone", "type": "beep", "num_outputs": 1,
//	     "params": {"freq_hz": 440, "gain_db": -6, "enabled": false}}
//	  ],
//	  "edges": [
//	    {"source": "tone", "source_port": 0, "target": "out", "target_port": 0}
//	  ]
//	}
//
// The reserved node IDs "in" and "out" refer to the graph's external input
// and output pseudo-nodes and cannot be declared.
//
// # Validation
//
// Parse validates the raw payload against an embedded JSON Schema before
// unmarshalling, so shape errors surface with field-level descriptions
// rather than as zero values. Build then performs the semantic checks the
// schema cannot express: duplicate IDs, unknown node types, and unknown
// edge endpoints.
//
// # Factories
//
// The Registry maps a node type string to a factory that builds the
// AudioNode from the node's params object. DefaultRegistry covers the
// built-in node library; applications register their own types alongside.
package document
