// Package mapping loads mapping documents and merges them into a snapshot.
//
// A mapping document binds CSV files to the tags and edges of a space:
//
//	vertices:
//	  - path: players.csv
//	    withHeader: true
//	    vid: {column: 0}
//	    tags:
//	      - name: player
//	        properties:
//	          - {name: name, type: string, column: 1}
//	          - {name: age, type: int64, column: 2}
//	edges:
//	  - path: follows.csv
//	    edge:
//	      type: follow
//	      src: {column: 0}
//	      dst: {column: 1}
//	      properties:
//	        - {name: degree, type: int64, column: 2}
package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/rlch/ngspec"
)

// Document is one parsed mapping file.
type Document struct {
	// Path is the absolute path of the document. Empty for parsed bytes.
	Path string `yaml:"-"`

	ngspec.Snapshot `yaml:",inline"`
}

// ParseDocument decodes a mapping document. Unknown keys are rejected and an
// empty document yields an empty snapshot.
func ParseDocument(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	return &doc, nil
}
