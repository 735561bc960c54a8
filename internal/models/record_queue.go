package models

import (
	"container/heap"
)

// RecordQueue is a priority queue of service records ordered by simulated start time.
// Agents are replayed one after another, so records arrive grouped by agent; the
// queue hands them back in clock order.
type RecordQueue struct {
	records []*ServiceRecord
}

// recordHeap implements heap.Interface and holds ServiceRecords
type recordHeap []*ServiceRecord

func (h recordHeap) Len() int { return len(h) }
func (h recordHeap) Less(i, j int) bool {
	if h[i].StartMinute != h[j].StartMinute {
		return h[i].StartMinute < h[j].StartMinute
	}
	return h[i].AgentID < h[j].AgentID
}
func (h recordHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *recordHeap) Push(x interface{}) {
	*h = append(*h, x.(*ServiceRecord))
}

func (h *recordHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// NewRecordQueue creates a new RecordQueue
func NewRecordQueue() *RecordQueue {
	return &RecordQueue{records: make([]*ServiceRecord, 0)}
}

// Enqueue adds a record to the queue
func (rq *RecordQueue) Enqueue(record *ServiceRecord) {
	heap.Push((*recordHeap)(&rq.records), record)
}

// Dequeue removes and returns the earliest record from the queue
func (rq *RecordQueue) Dequeue() *ServiceRecord {
	if len(rq.records) == 0 {
		return nil
	}
	return heap.Pop((*recordHeap)(&rq.records)).(*ServiceRecord)
}

// Peek returns the earliest record without removing it
func (rq *RecordQueue) Peek() *ServiceRecord {
	if len(rq.records) == 0 {
		return nil
	}
	return rq.records[0]
}

// IsEmpty returns true if the queue is empty
func (rq *RecordQueue) IsEmpty() bool {
	return len(rq.records) == 0
}

// Len returns the number of records in the queue
func (rq *RecordQueue) Len() int {
	return len(rq.records)
}

func (rq *RecordQueue) DequeueBatch(maxBatchSize int) []*ServiceRecord {
	batchSize := min(maxBatchSize, len(rq.records))
	batch := make([]*ServiceRecord, 0, batchSize)

	for i := 0; i < batchSize; i++ {
		record := heap.Pop((*recordHeap)(&rq.records)).(*ServiceRecord)
		batch = append(batch, record)
	}

	return batch
}
