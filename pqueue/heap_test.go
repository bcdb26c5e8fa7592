package pqueue

import "testing"

func TestMinHeapOrder(t *testing.T) {
	h := New(false)
	vals := []float32{5, 1, 9, 3, 3, 0}
	for i, p := range vals {
		h.Insert(int32(i), p)
	}
	var last float32 = -1
	for h.Len() > 0 {
		item, ok := h.Pop()
		if !ok {
			t.Fatal("Pop reported empty while Len > 0")
		}
		if item.Priority < last {
			t.Log("ERROR: min-heap returned", item.Priority, "after", last)
			t.Fail()
		}
		last = item.Priority
	}
}

func TestMaxHeapOrder(t *testing.T) {
	h := New(true)
	vals := []float32{5, 1, 9, 3, 3, 0}
	for i, p := range vals {
		h.Insert(int32(i), p)
	}
	last := float32(1e30)
	for h.Len() > 0 {
		item, _ := h.Pop()
		if item.Priority > last {
			t.Log("ERROR: max-heap returned", item.Priority, "after", last)
			t.Fail()
		}
		last = item.Priority
	}
}

func TestPeekDoesNotRemove(t *testing.T) {
	h := New(false)
	h.Insert(1, 2)
	h.Insert(2, 1)
	top, ok := h.Peek()
	if !ok || top.Priority != 1 {
		t.Fatalf("Peek: got %+v, want priority 1", top)
	}
	if h.Len() != 2 {
		t.Fatal("Peek must not remove the item")
	}
}

func TestSetOrderReheapifies(t *testing.T) {
	h := New(false)
	for _, p := range []float32{4, 2, 8, 1, 9, 3} {
		h.Insert(0, p)
	}
	h.SetOrder(true) // flip to max-heap
	top, ok := h.Peek()
	if !ok || top.Priority != 9 {
		t.Fatalf("after SetOrder(true): top priority = %v, want 9", top.Priority)
	}
	last := float32(1e30)
	for h.Len() > 0 {
		item, _ := h.Pop()
		if item.Priority > last {
			t.Log("ERROR: heap not in descending order after SetOrder")
			t.Fail()
		}
		last = item.Priority
	}
}

func TestEmptyHeap(t *testing.T) {
	h := New(false)
	if _, ok := h.Pop(); ok {
		t.Fatal("Pop on empty heap should report ok=false")
	}
	if _, ok := h.Peek(); ok {
		t.Fatal("Peek on empty heap should report ok=false")
	}
}
