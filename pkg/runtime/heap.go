package runtime

// Heap is the append-only store behind ReferenceValue. Slots live for the
// lifetime of the owning interpreter; there is no reclamation.
type Heap struct {
	objects []Value
}

func NewHeap() *Heap {
	return &Heap{}
}

// Alloc stores a value and returns its address.
func (h *Heap) Alloc(value Value) int {
	address := len(h.objects)
	h.objects = append(h.objects, value)
	return address
}

// Get loads the value at address.
func (h *Heap) Get(address int) (Value, error) {
	if address < 0 || address >= len(h.objects) {
		return nil, Errorf(ErrInvalidReference, "dangling reference @%d", address)
	}
	return h.objects[address], nil
}

// Len reports how many slots have been allocated.
func (h *Heap) Len() int {
	return len(h.objects)
}
