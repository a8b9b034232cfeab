package domain

import "sort"

// Edge is one directed relation between two members, keyed by their IDs.
type Edge struct {
	From string `json:"from" db:"from_id"`
	To   string `json:"to" db:"to_id"`
}

// adjacency keeps a directed graph together with its inverse so both
// directions are always answered from memory.
type adjacency struct {
	out map[string]map[string]struct{}
	in  map[string]map[string]struct{}
}

func newAdjacency() adjacency {
	return adjacency{
		out: make(map[string]map[string]struct{}),
		in:  make(map[string]map[string]struct{}),
	}
}

func (a adjacency) link(from, to string) {
	if a.out[from] == nil {
		a.out[from] = make(map[string]struct{})
	}
	if a.in[to] == nil {
		a.in[to] = make(map[string]struct{})
	}
	a.out[from][to] = struct{}{}
	a.in[to][from] = struct{}{}
}

func (a adjacency) unlink(from, to string) {
	if set, ok := a.out[from]; ok {
		delete(set, to)
		if len(set) == 0 {
			delete(a.out, from)
		}
	}
	if set, ok := a.in[to]; ok {
		delete(set, from)
		if len(set) == 0 {
			delete(a.in, to)
		}
	}
}

func (a adjacency) forget(id string) {
	for to := range a.out[id] {
		a.unlink(id, to)
	}
	for from := range a.in[id] {
		a.unlink(from, id)
	}
}

func (a adjacency) has(from, to string) bool {
	_, ok := a.out[from][to]
	return ok
}

func (a adjacency) edges() []Edge {
	var res []Edge
	for from, set := range a.out {
		for to := range set {
			res = append(res, Edge{From: from, To: to})
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].From != res[j].From {
			return res[i].From < res[j].From
		}
		return res[i].To < res[j].To
	})
	return res
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RelationIndex holds the predator/prey and pollinator/plant graphs of one
// ecosystem. Every mutation updates the forward and inverse direction together.
type RelationIndex struct {
	predation   adjacency // predator -> prey
	pollination adjacency // pollinator -> plant
}

func NewRelationIndex() *RelationIndex {
	return &RelationIndex{
		predation:   newAdjacency(),
		pollination: newAdjacency(),
	}
}

// --- Predation ---

func (r *RelationIndex) LinkPredation(predatorID, preyID string) {
	r.predation.link(predatorID, preyID)
}

func (r *RelationIndex) UnlinkPredation(predatorID, preyID string) {
	r.predation.unlink(predatorID, preyID)
}

func (r *RelationIndex) Hunts(predatorID, preyID string) bool {
	return r.predation.has(predatorID, preyID)
}

// PreyOf returns the IDs the organism hunts, sorted for stable iteration.
func (r *RelationIndex) PreyOf(predatorID string) []string {
	return sortedKeys(r.predation.out[predatorID])
}

func (r *RelationIndex) PredatorsOf(preyID string) []string {
	return sortedKeys(r.predation.in[preyID])
}

func (r *RelationIndex) PredationEdges() []Edge {
	return r.predation.edges()
}

// --- Pollination ---

func (r *RelationIndex) LinkPollination(pollinatorID, plantID string) {
	r.pollination.link(pollinatorID, plantID)
}

func (r *RelationIndex) UnlinkPollination(pollinatorID, plantID string) {
	r.pollination.unlink(pollinatorID, plantID)
}

func (r *RelationIndex) Pollinates(pollinatorID, plantID string) bool {
	return r.pollination.has(pollinatorID, plantID)
}

func (r *RelationIndex) PollinationTargetsOf(pollinatorID string) []string {
	return sortedKeys(r.pollination.out[pollinatorID])
}

func (r *RelationIndex) PollinatorsOf(plantID string) []string {
	return sortedKeys(r.pollination.in[plantID])
}

func (r *RelationIndex) PollinationEdges() []Edge {
	return r.pollination.edges()
}

// --- Lifecycle ---

// Forget drops every edge touching id, in both graphs.
func (r *RelationIndex) Forget(id string) {
	r.predation.forget(id)
	r.pollination.forget(id)
}

// Inherit copies all relations of parent onto child: the child hunts what the
// parent hunts, is hunted by the parent's predators, and pollinates (or is
// pollinated by) the same partners.
func (r *RelationIndex) Inherit(parentID, childID string) {
	for _, prey := range r.PreyOf(parentID) {
		r.predation.link(childID, prey)
	}
	for _, predator := range r.PredatorsOf(parentID) {
		r.predation.link(predator, childID)
	}
	for _, plant := range r.PollinationTargetsOf(parentID) {
		r.pollination.link(childID, plant)
	}
	for _, pollinator := range r.PollinatorsOf(parentID) {
		r.pollination.link(pollinator, childID)
	}
}
