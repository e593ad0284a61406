package index

import (
	"math"
	"math/rand"
	"sort"
)

// HNSW parameter defaults. They trade recall for speed and are tunable
// without changing the correctness contract.
const (
	// DefaultM is the neighbor fan-out per node and layer.
	DefaultM = 32

	// DefaultEfConstruction is the search breadth while inserting.
	DefaultEfConstruction = 40

	// DefaultEfSearch is the search breadth while querying.
	DefaultEfSearch = 16
)

// HNSW is a hierarchical proximity graph for approximate k-nearest-
// neighbor search over normalized vectors. Each node lives on a
// geometrically distributed stack of layers; upper layers are sparse
// long-range shortcuts, layer 0 holds every node.
//
// Not safe for concurrent mutation; build fully, then query freely.
type HNSW struct {
	m              int
	efConstruction int
	efSearch       int
	levelFactor    float64

	rng   *rand.Rand
	nodes []hnswNode

	// entry is the node index search descends from; -1 while empty.
	entry    int
	maxLevel int
}

type hnswNode struct {
	vec   []float32
	level int
	// neighbors[l] are the node's connections on layer l, 0 <= l <= level.
	neighbors [][]int
}

// HNSWOption configures an HNSW graph.
type HNSWOption func(*HNSW)

// WithM sets the neighbor fan-out per node.
func WithM(m int) HNSWOption {
	return func(g *HNSW) {
		g.m = m
	}
}

// WithEfConstruction sets the construction-time search breadth.
func WithEfConstruction(ef int) HNSWOption {
	return func(g *HNSW) {
		g.efConstruction = ef
	}
}

// WithEfSearch sets the query-time search breadth.
func WithEfSearch(ef int) HNSWOption {
	return func(g *HNSW) {
		g.efSearch = ef
	}
}

// NewHNSW creates an empty graph with the default parameters.
// The level RNG is seeded deterministically so a build over the same
// vectors produces the same graph.
func NewHNSW(opts ...HNSWOption) *HNSW {
	g := &HNSW{
		m:              DefaultM,
		efConstruction: DefaultEfConstruction,
		efSearch:       DefaultEfSearch,
		rng:            rand.New(rand.NewSource(1)),
		entry:          -1,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.levelFactor = 1.0 / math.Log(float64(g.m))
	return g
}

// Size returns the number of indexed vectors.
func (g *HNSW) Size() int {
	return len(g.nodes)
}

// Add inserts vec into the graph. Vectors are addressed by insertion
// order in Search results.
func (g *HNSW) Add(vec []float32) {
	level := g.randomLevel()

	node := hnswNode{
		vec:       vec,
		level:     level,
		neighbors: make([][]int, level+1),
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, node)

	if g.entry < 0 {
		g.entry = idx
		g.maxLevel = level
		return
	}

	// Greedy descent through layers above the new node's level.
	ep := g.entry
	for l := g.maxLevel; l > level; l-- {
		ep = g.greedyClosest(vec, ep, l)
	}

	// From the node's top layer down, connect to the best candidates
	// found with construction-time breadth.
	top := level
	if top > g.maxLevel {
		top = g.maxLevel
	}
	for l := top; l >= 0; l-- {
		candidates := g.searchLayer(vec, ep, g.efConstruction, l)

		maxConn := g.maxConnections(l)
		n := len(candidates)
		if n > maxConn {
			n = maxConn
		}

		for _, hit := range candidates[:n] {
			g.nodes[idx].neighbors[l] = append(g.nodes[idx].neighbors[l], hit.Index)
			g.nodes[hit.Index].neighbors[l] = append(g.nodes[hit.Index].neighbors[l], idx)
			g.trimNeighbors(hit.Index, l)
		}

		if len(candidates) > 0 {
			ep = candidates[0].Index
		}
	}

	if level > g.maxLevel {
		g.maxLevel = level
		g.entry = idx
	}
}

// Search returns the k approximate nearest neighbors of query, best
// first. k is clamped to the graph size. The query vector itself, if
// indexed, counts among the results.
func (g *HNSW) Search(query []float32, k int) []Hit {
	if g.entry < 0 || k < 1 {
		return nil
	}
	if k > len(g.nodes) {
		k = len(g.nodes)
	}

	ep := g.entry
	for l := g.maxLevel; l > 0; l-- {
		ep = g.greedyClosest(query, ep, l)
	}

	ef := g.efSearch
	if ef < k {
		ef = k
	}

	hits := g.searchLayer(query, ep, ef, 0)
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// randomLevel draws a node level from the geometric distribution that
// gives HNSW its hierarchy.
func (g *HNSW) randomLevel() int {
	r := g.rng.Float64()
	for r == 0 {
		r = g.rng.Float64()
	}
	return int(-math.Log(r) * g.levelFactor)
}

// maxConnections is the fan-out cap for a layer. Layer 0 allows twice
// the fan-out, as in the reference construction.
func (g *HNSW) maxConnections(level int) int {
	if level == 0 {
		return 2 * g.m
	}
	return g.m
}

// greedyClosest walks layer l from ep toward query until no neighbor
// improves similarity.
func (g *HNSW) greedyClosest(query []float32, ep int, l int) int {
	cur := ep
	curSim := dot(query, g.nodes[cur].vec)

	for {
		improved := false
		for _, nb := range g.nodes[cur].neighbors[l] {
			if sim := dot(query, g.nodes[nb].vec); sim > curSim {
				cur, curSim = nb, sim
				improved = true
			}
		}
		if !improved {
			return cur
		}
	}
}

// searchLayer is the beam search at one layer: best-first expansion of
// up to ef candidates, returning them in descending similarity.
func (g *HNSW) searchLayer(query []float32, ep int, ef int, l int) []Hit {
	visited := map[int]bool{ep: true}

	start := Hit{Index: ep, Similarity: dot(query, g.nodes[ep].vec)}
	candidates := []Hit{start}
	results := []Hit{start}

	for len(candidates) > 0 {
		// Pop the most promising candidate.
		best := 0
		for i := 1; i < len(candidates); i++ {
			if candidates[i].Similarity > candidates[best].Similarity {
				best = i
			}
		}
		current := candidates[best]
		candidates[best] = candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]

		if len(results) >= ef && current.Similarity < worstSimilarity(results) {
			break
		}

		for _, nb := range g.nodes[current.Index].neighbors[l] {
			if visited[nb] {
				continue
			}
			visited[nb] = true

			sim := dot(query, g.nodes[nb].vec)
			if len(results) < ef || sim > worstSimilarity(results) {
				hit := Hit{Index: nb, Similarity: sim}
				candidates = append(candidates, hit)
				results = append(results, hit)
				if len(results) > ef {
					dropWorst(&results)
				}
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	return results
}

// trimNeighbors caps a node's connection list on layer l, keeping the
// connections most similar to the node itself.
func (g *HNSW) trimNeighbors(idx int, l int) {
	maxConn := g.maxConnections(l)
	neighbors := g.nodes[idx].neighbors[l]
	if len(neighbors) <= maxConn {
		return
	}

	vec := g.nodes[idx].vec
	sort.SliceStable(neighbors, func(i, j int) bool {
		return dot(vec, g.nodes[neighbors[i]].vec) > dot(vec, g.nodes[neighbors[j]].vec)
	})
	g.nodes[idx].neighbors[l] = neighbors[:maxConn]
}

func worstSimilarity(hits []Hit) float32 {
	worst := hits[0].Similarity
	for i := 1; i < len(hits); i++ {
		if hits[i].Similarity < worst {
			worst = hits[i].Similarity
		}
	}
	return worst
}

func dropWorst(hits *[]Hit) {
	hs := *hits
	worst := 0
	for i := 1; i < len(hs); i++ {
		if hs[i].Similarity < hs[worst].Similarity {
			worst = i
		}
	}
	hs[worst] = hs[len(hs)-1]
	*hits = hs[:len(hs)-1]
}
