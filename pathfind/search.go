package pathfind

import (
	"container/heap"
	"math"

	"github.com/hoshinonyaruko/snake-arena/grid"
)

// Dijkstra is uniform-cost search: the frontier is ordered by distance from start.
func Dijkstra(g *grid.Grid, start, goal grid.Cell, obstacles grid.Set) []grid.Cell {
	return bestFirst(g, start, goal, obstacles, func(grid.Cell) int { return 0 })
}

// AStar orders the frontier by distance plus the Manhattan distance to goal.
func AStar(g *grid.Grid, start, goal grid.Cell, obstacles grid.Set) []grid.Cell {
	return bestFirst(g, start, goal, obstacles, func(c grid.Cell) int { return c.Manhattan(goal) })
}

// BreadthFirst is level-order search over unit edges.
func BreadthFirst(g *grid.Grid, start, goal grid.Cell, obstacles grid.Set) []grid.Cell {
	if path, done := trivial(g, start, goal); done {
		return path
	}
	prev := newPrev(g.Area())
	visited := make([]bool, g.Area())
	visited[g.Index(start)] = true
	queue := []grid.Cell{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == goal {
			return walkBack(g, prev, start, goal)
		}
		for _, d := range grid.NeighborOrder {
			next := cur.Add(d)
			if !g.Passable(next, obstacles) || visited[g.Index(next)] {
				continue
			}
			visited[g.Index(next)] = true
			prev[g.Index(next)] = g.Index(cur)
			queue = append(queue, next)
		}
	}
	return nil
}

func bestFirst(g *grid.Grid, start, goal grid.Cell, obstacles grid.Set, h func(grid.Cell) int) []grid.Cell {
	if path, done := trivial(g, start, goal); done {
		return path
	}
	dist := make([]int, g.Area())
	for i := range dist {
		dist[i] = math.MaxInt
	}
	prev := newPrev(g.Area())
	dist[g.Index(start)] = 0

	pq := &frontier{{cell: start, priority: h(start)}}
	for pq.Len() > 0 {
		item := heap.Pop(pq).(node)
		cur := item.cell
		// stale entry: a shorter route to cur was already expanded
		if item.priority-h(cur) > dist[g.Index(cur)] {
			continue
		}
		if cur == goal {
			return walkBack(g, prev, start, goal)
		}
		step := dist[g.Index(cur)] + 1
		for _, d := range grid.NeighborOrder {
			next := cur.Add(d)
			if !g.Passable(next, obstacles) {
				continue
			}
			if step < dist[g.Index(next)] {
				dist[g.Index(next)] = step
				prev[g.Index(next)] = g.Index(cur)
				heap.Push(pq, node{cell: next, priority: step + h(next)})
			}
		}
	}
	return nil
}

// trivial handles goals that need no search.
func trivial(g *grid.Grid, start, goal grid.Cell) ([]grid.Cell, bool) {
	if !g.Open(goal) || !g.InBounds(start) {
		return nil, true
	}
	if start == goal {
		return []grid.Cell{start}, true
	}
	return nil, false
}

func newPrev(n int) []int {
	prev := make([]int, n)
	for i := range prev {
		prev[i] = -1
	}
	return prev
}

func walkBack(g *grid.Grid, prev []int, start, goal grid.Cell) []grid.Cell {
	var rev []grid.Cell
	for i := g.Index(goal); i != -1; i = prev[i] {
		rev = append(rev, g.CellAt(i))
		if i == g.Index(start) {
			break
		}
	}
	path := make([]grid.Cell, len(rev))
	for i, c := range rev {
		path[len(rev)-1-i] = c
	}
	return path
}

type node struct {
	cell     grid.Cell
	priority int
}

// frontier is a min-heap on priority.
type frontier []node

func (f frontier) Len() int           { return len(f) }
func (f frontier) Less(i, j int) bool { return f[i].priority < f[j].priority }
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any)        { *f = append(*f, x.(node)) }
func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	it := old[n-1]
	*f = old[:n-1]
	return it
}
