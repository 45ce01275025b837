package ru

import "github.com/landscape-sim/forestsim/tree"

// treeRef holds a tree and its links in a treeList, generalized directly
// from the teacher's cellRef/cellList (list.go) from "grid cell" to "tree":
// a doubly linked list with an index map, so a tree can be looked up,
// added, or deleted in O(1) while still supporting an ordered array() walk.
type treeRef struct {
	*tree.Tree
	next, previous *treeRef
}

// treeList is the ResourceUnit's owned, compactable vector of live trees.
// Dead trees remain in the list (flagged, per tree.Tree.IsDead) until
// Compact removes them, matching spec.md's Tree invariant.
type treeList struct {
	first *treeRef
	len   int
	index map[*tree.Tree]*treeRef
}

// array returns every tree currently in the list, live or dead, in
// insertion order.
func (l *treeList) array() []*tree.Tree {
	o := make([]*tree.Tree, l.len)
	c := l.first
	for i := 0; i < l.len; i++ {
		o[i] = c.Tree
		c = c.next
	}
	return o
}

// add inserts t at the head of the list.
func (l *treeList) add(t *tree.Tree) *treeRef {
	tr := &treeRef{Tree: t}
	tr.next = l.first
	if l.first != nil {
		l.first.previous = tr
	}
	l.first = tr
	l.len++
	if l.index == nil {
		l.index = make(map[*tree.Tree]*treeRef)
	}
	l.index[t] = tr
	return tr
}

// delete removes tr from the list.
func (l *treeList) delete(tr *treeRef) {
	if tr.previous != nil && tr.next != nil {
		tr.previous.next, tr.next.previous = tr.next, tr.previous
	} else if tr.previous != nil {
		tr.previous.next = nil
	} else if tr.next != nil {
		tr.next.previous = nil
	}
	if tr == l.first {
		l.first = tr.next
	}
	tr.previous, tr.next = nil, nil
	l.len--
	delete(l.index, tr.Tree)
}

// deleteTree removes t from the list. It panics if t is not present, the
// same contract as the teacher's cellList.deleteCell.
func (l *treeList) deleteTree(t *tree.Tree) {
	tr, ok := l.index[t]
	if !ok {
		panic("ru: tried to delete tree that is not in list")
	}
	l.delete(tr)
}

// compact removes every tree for which keep returns false, invalidating any
// references callers may be holding to removed trees — the same exclusive-
// ownership/invalidation contract spec.md §9 describes for tree addresses
// after compaction.
func (l *treeList) compact(keep func(*tree.Tree) bool) {
	for tr := l.first; tr != nil; {
		next := tr.next
		if !keep(tr.Tree) {
			l.delete(tr)
		}
		tr = next
	}
}
