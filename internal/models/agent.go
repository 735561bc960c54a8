package models

// Agent is a customs agent together with the line of groups waiting for it.
type Agent struct {
	ID       int
	Timecard int // minutes worked once the line has drained

	queue []*Group
	head  int
}

func NewAgent(id int) *Agent {
	return &Agent{ID: id, queue: make([]*Group, 0)}
}

// Enqueue adds a group to the back of the line
func (a *Agent) Enqueue(group *Group) {
	a.queue = append(a.queue, group)
}

// Dequeue removes and returns the group at the front of the line, or nil if the line is empty
func (a *Agent) Dequeue() *Group {
	if a.head == len(a.queue) {
		return nil
	}
	group := a.queue[a.head]
	a.queue[a.head] = nil
	a.head++

	// reset once drained so the backing array can be reused
	if a.head == len(a.queue) {
		a.queue = a.queue[:0]
		a.head = 0
	}
	return group
}

// Peek returns the group at the front of the line without removing it
func (a *Agent) Peek() *Group {
	if a.head == len(a.queue) {
		return nil
	}
	return a.queue[a.head]
}

func (a *Agent) Len() int {
	return len(a.queue) - a.head
}

func (a *Agent) IsEmpty() bool {
	return a.Len() == 0
}
