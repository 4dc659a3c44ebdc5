package util

type Node[T any] struct {
	Data T
	Prev *Node[T]
	Next *Node[T]
}

func (n *Node[T]) InsertAfter(data T) *Node[T] {
	newNode := Node[T]{
		Data: data,
		Next: n.Next,
		Prev: n,
	}

	if n.Next != nil {
		n.Next.Prev = &newNode
	}

	n.Next = &newNode

	return &newNode
}

// DoublyLinkedList is a FIFO-friendly list: cheap append at the back and
// removal at the front, with snapshotting for broadcasts.
type DoublyLinkedList[T any] struct {
	first *Node[T]
	last  *Node[T]
	size  int
}

func (l *DoublyLinkedList[T]) Size() int {
	return l.size
}

func (l *DoublyLinkedList[T]) PeekFirst() *T {
	if l.first == nil {
		return nil
	}
	return &l.first.Data
}

func (l *DoublyLinkedList[T]) PopFirst() *T {
	if l.first == nil {
		return nil
	}

	first := l.first.Data
	if l.first.Next != nil {
		l.first.Next.Prev = nil
		l.first = l.first.Next
	} else {
		l.first = nil
		l.last = nil
	}

	l.size--
	return &first
}

func (l *DoublyLinkedList[T]) PushEnd(data T) {
	l.size++
	if l.last != nil {
		l.last = l.last.InsertAfter(data)
	} else {
		newNode := Node[T]{Data: data}
		l.first = &newNode
		l.last = &newNode
	}
}

func (l *DoublyLinkedList[T]) ToSlice() []T {
	slice := make([]T, 0, l.size)
	current := l.first
	for current != nil {
		slice = append(slice, current.Data)
		current = current.Next
	}
	return slice
}

func DoublyLinkedListFromSlice[T any](slice []T) *DoublyLinkedList[T] {
	list := DoublyLinkedList[T]{}
	for _, data := range slice {
		list.PushEnd(data)
	}
	return &list
}
