// File: internal/signal/graph.go
// ============================================
package signal

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"

	"github.com/gatiella/alpha-core/pkg/types"
)

const graphOrigin = "origin"

// graphConfluence implements decision mode 3 (spec.md §4.5): a weighted
// digraph over structured facts (market structure, order flow, Wyckoff
// phase, VSA signal), each edge weighted by that fact's confidence times
// its directional sign. The strongest path out of origin determines the
// emitted action and its magnitude.
func graphConfluence(in Inputs, cfg types.SignalConfig) Decision {
	g := core.NewGraph(core.WithDirected(true), core.WithWeighted())

	if err := g.AddVertex(graphOrigin); err != nil {
		return Decision{Produced: false, Reason: fmt.Sprintf("graph build failed: %v", err), DecisionMode: "graph"}
	}

	facts := confluenceFacts(in)
	for _, f := range facts {
		if f.weight == 0 {
			continue
		}
		if err := g.AddVertex(f.node); err != nil {
			return Decision{Produced: false, Reason: fmt.Sprintf("graph build failed: %v", err), DecisionMode: "graph"}
		}
		if _, err := g.AddEdge(graphOrigin, f.node, f.weight); err != nil {
			return Decision{Produced: false, Reason: fmt.Sprintf("graph build failed: %v", err), DecisionMode: "graph"}
		}
	}

	order, err := dfs.TopologicalSort(g)
	if err != nil {
		return Decision{Produced: false, Reason: fmt.Sprintf("graph has no valid ordering: %v", err), DecisionMode: "graph"}
	}

	best, err := strongestPath(g, order)
	if err != nil {
		return Decision{Produced: false, Reason: fmt.Sprintf("graph traversal failed: %v", err), DecisionMode: "graph"}
	}
	if best == nil {
		return Decision{Produced: false, Reason: "no confluent facts reached a directional node", DecisionMode: "graph"}
	}

	score := math.Abs(float64(best.weight)) / 10
	if score > 10 {
		score = 10
	}
	action := "buy"
	if best.weight < 0 {
		action = "sell"
	}
	return buildDecision(in, cfg, action, score, "graph")
}

type confluenceFact struct {
	node   string
	weight int64 // signed: positive bullish, negative bearish
}

// confluenceFacts maps C3/C4/Wyckoff/VSA evidence into signed graph
// weights scaled to tenths of a point, matching structure_score/flow_score
// precision.
func confluenceFacts(in Inputs) []confluenceFact {
	facts := make([]confluenceFact, 0, 4)

	if w := directionalWeight(in.MSDirection, in.MSScore); w != 0 {
		facts = append(facts, confluenceFact{node: "market_structure", weight: w})
	}
	if w := directionalWeight(in.OFDirection, in.OFScore); w != 0 {
		facts = append(facts, confluenceFact{node: "order_flow", weight: w})
	}
	if w := wyckoffWeight(in.WyckoffPhase); w != 0 {
		facts = append(facts, confluenceFact{node: "wyckoff", weight: w})
	}
	if w := vsaWeight(in.VSASignal, in.VSAConfidence); w != 0 {
		facts = append(facts, confluenceFact{node: "vsa", weight: w})
	}
	return facts
}

func directionalWeight(direction string, score float64) int64 {
	switch {
	case isBullish(direction):
		return int64(math.Round(score * 10))
	case isBearish(direction):
		return -int64(math.Round(score * 10))
	default:
		return 0
	}
}

func wyckoffWeight(phase string) int64 {
	switch phase {
	case "accumulation", "spring", "markup":
		return 50
	case "distribution", "upthrust", "markdown":
		return -50
	default:
		return 0
	}
}

func vsaWeight(signal string, confidence float64) int64 {
	w := int64(math.Round(confidence * 100))
	switch signal {
	case "NoSupply":
		return w
	case "NoDemand", "UpthrustPotential":
		return -w
	default:
		return 0
	}
}

// strongestPath runs a longest-path pass over the DAG in topological
// order (edges only fan out one hop from origin in this model, but the
// traversal generalizes to deeper confluence chains added later).
func strongestPath(g *core.Graph, order []string) (*confluenceFact, error) {
	dist := make(map[string]int64, len(order))
	for _, v := range order {
		dist[v] = 0
	}

	var best *confluenceFact
	for _, v := range order {
		edges, err := g.Neighbors(v)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			candidate := dist[v] + e.Weight
			if candidate > dist[e.To] {
				dist[e.To] = candidate
			}
			if best == nil || abs64(candidate) > abs64(best.weight) {
				best = &confluenceFact{node: e.To, weight: candidate}
			}
		}
	}
	return best, nil
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
