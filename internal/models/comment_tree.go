package models

import "sort"

// MaxDisplayDepth is how deep clients render reply threads. The tree itself is never truncated.
const MaxDisplayDepth = 5

// SortCommentsForDisplay orders comments accepted answer first, then by votes and
// then newest first. The sort is stable so equal comments keep their input order.
func SortCommentsForDisplay(comments []*CommentWithAuthor) {
	sort.SliceStable(comments, func(i, j int) bool {
		a, b := comments[i], comments[j]
		if a.IsAcceptedAnswer != b.IsAcceptedAnswer {
			return a.IsAcceptedAnswer
		}
		if a.VoteCount != b.VoteCount {
			return a.VoteCount > b.VoteCount
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

// BuildCommentTree turns the flat comment list of one post into a forest.
//
// Every input comment appears exactly once in the output. Comments whose parent is
// not in the input become roots, as do comments caught in a parent cycle. Siblings
// keep display order at every level and each node records its depth.
func BuildCommentTree(comments []CommentWithAuthor) []*CommentWithAuthor {
	nodes := make([]*CommentWithAuthor, len(comments))
	for i := range comments {
		node := comments[i]
		node.Depth = 0
		node.Replies = []*CommentWithAuthor{}
		nodes[i] = &node
	}
	SortCommentsForDisplay(nodes)

	index := make(map[uint]int, len(nodes))
	for i, n := range nodes {
		if _, seen := index[n.ID]; !seen {
			index[n.ID] = i
		}
	}

	children := make([][]int, len(nodes))
	rootIdx := make([]int, 0, len(nodes))
	for i, n := range nodes {
		if n.ParentID != nil {
			if p, ok := index[*n.ParentID]; ok && p != i {
				children[p] = append(children[p], i)
				continue
			}
		}
		rootIdx = append(rootIdx, i)
	}

	placed := make([]bool, len(nodes))
	isRoot := make([]bool, len(nodes))
	attach := func(start int) {
		placed[start] = true
		isRoot[start] = true
		stack := []int{start}
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, c := range children[i] {
				if placed[c] {
					continue
				}
				placed[c] = true
				nodes[c].Depth = nodes[i].Depth + 1
				nodes[i].Replies = append(nodes[i].Replies, nodes[c])
				stack = append(stack, c)
			}
		}
	}

	for _, i := range rootIdx {
		attach(i)
	}
	// Anything left is only reachable through a cycle.
	for i := range nodes {
		if !placed[i] {
			attach(i)
		}
	}

	// Roots keep display order even when some were recovered from cycles.
	roots := make([]*CommentWithAuthor, 0, len(rootIdx))
	for i, n := range nodes {
		if isRoot[i] {
			roots = append(roots, n)
		}
	}
	return roots
}

// CountTree returns the number of nodes in a forest.
func CountTree(roots []*CommentWithAuthor) int {
	n := 0
	stack := append([]*CommentWithAuthor(nil), roots...)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, node.Replies...)
	}
	return n
}
