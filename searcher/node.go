package searcher

import (
	"math"

	"github.com/jrirei/chain-reaction-game-sub001/game"
)

// The tree is an arena of nodes addressed by integer handles: children
// hold a parent index instead of a pointer, so there are no reference
// cycles and teardown is dropping the slice. The whole tree lives for
// exactly one decideMove invocation.

type nodeID = int32

const (
	rootID nodeID = 0
	noNode nodeID = -1
)

const explorationC = math.Sqrt2

type node struct {
	move     game.Move
	player   int // Mover who entered this node; 0 for the root
	parent   nodeID
	children []nodeID
	untried  []game.Move

	visits float64
	wins   float64

	// Extras used only by the optimized engine.
	raveVisits float64
	raveWins   float64
	order      float64
	pruned     bool
}

type tree struct {
	nodes []node
}

func newTree(rootMoves []game.Move) *tree {
	t := &tree{nodes: make([]node, 0, 4*len(rootMoves)+1)}
	t.nodes = append(t.nodes, node{
		parent:  noNode,
		untried: append([]game.Move(nil), rootMoves...),
	})
	return t
}

func (t *tree) at(id nodeID) *node {
	return &t.nodes[id]
}

// add creates a child of parent for the given move, with the child
// position's own legal moves as its untried set.
func (t *tree) add(parent nodeID, m game.Move, untried []game.Move) nodeID {
	id := nodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{
		move:    m,
		player:  m.Player,
		parent:  parent,
		untried: untried,
	})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id
}

// popUntried removes and returns the untried move at index i.
func (t *tree) popUntried(id nodeID, i int) game.Move {
	n := t.at(id)
	m := n.untried[i]
	last := len(n.untried) - 1
	n.untried[i] = n.untried[last]
	n.untried = n.untried[:last]
	return m
}

// ucb1 is the UCB1 selection value: exploitation plus an exploration
// bonus that shrinks as a child accumulates visits.
func ucb1(wins, visits, parentVisits float64) float64 {
	if visits == 0 {
		return math.Inf(1)
	}
	return wins/visits + explorationC*math.Sqrt(math.Log(parentVisits)/visits)
}

// bestMove applies the robust-child rule: the child with the most
// visits, not the highest win rate. An empty child list is a contract
// violation — it means no legal move was ever expanded.
func (t *tree) bestMove(id nodeID) game.Move {
	n := t.at(id)
	if len(n.children) == 0 {
		panic("search tree has no expanded children to choose from")
	}
	best := n.children[0]
	for _, child := range n.children[1:] {
		if t.at(child).visits > t.at(best).visits {
			best = child
		}
	}
	return t.at(best).move
}

// backup walks parent indices from id to the root, crediting each node
// with the simulated outcome from its own mover's perspective.
func (t *tree) backup(id nodeID, mover int, outcome float64) {
	for id != noNode {
		n := t.at(id)
		n.visits++
		if n.player == mover {
			n.wins += outcome
		} else if n.player != game.NoOwner {
			n.wins += 1 - outcome
		}
		id = n.parent
	}
}
