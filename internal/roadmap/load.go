package roadmap

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/elektrokombinacija/ccbs/internal/geom"
)

// jsonDoc is the on-disk shape of the roadmap file §6 calls out: a graph
// format supplying vertex ids, (x,y) coordinates, and an edge list. The
// core only needs a constructor — load(path) → Roadmap — so this is a
// minimal stand-in for whatever map format a deployment actually uses.
type jsonDoc struct {
	Vertices []struct {
		ID int64   `json:"id"`
		X  float64 `json:"x"`
		Y  float64 `json:"y"`
	} `json:"vertices"`
	Edges []struct {
		From int64 `json:"from"`
		To   int64 `json:"to"`
	} `json:"edges"`
}

// LoadJSON reads a roadmap file and returns a finalized, validated
// Roadmap ready for planning.
func LoadJSON(path string) (*Roadmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("roadmap: reading %s: %w", path, err)
	}
	var doc jsonDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("roadmap: parsing %s: %w", path, err)
	}

	rm := New()
	for _, v := range doc.Vertices {
		rm.AddVertex(Vertex{ID: VertexID(v.ID), Pos: geom.Point{X: v.X, Y: v.Y}})
	}
	for _, e := range doc.Edges {
		if err := rm.AddEdge(VertexID(e.From), VertexID(e.To)); err != nil {
			return nil, fmt.Errorf("roadmap: %s: %w", path, err)
		}
	}
	rm.Finalize()
	if err := rm.Validate(); err != nil {
		return nil, fmt.Errorf("roadmap: %s: %w", path, err)
	}
	return rm, nil
}
