package simulator

import (
	"github.com/fwojciec/parley"
)

// replyQueue is a min-heap of pending replies ordered by FireAt, then Seq.
// It implements heap.Interface.
type replyQueue []parley.PendingReply

func (q replyQueue) Len() int { return len(q) }

func (q replyQueue) Less(i, j int) bool {
	return lessReply(q[i], q[j])
}

func (q replyQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *replyQueue) Push(x any) {
	*q = append(*q, x.(parley.PendingReply))
}

func (q *replyQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

func lessReply(a, b parley.PendingReply) bool {
	if !a.FireAt.Equal(b.FireAt) {
		return a.FireAt.Before(b.FireAt)
	}
	return a.Seq < b.Seq
}

func compareReply(a, b parley.PendingReply) int {
	switch {
	case lessReply(a, b):
		return -1
	case lessReply(b, a):
		return 1
	default:
		return 0
	}
}
