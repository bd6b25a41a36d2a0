package board

// Registry maps row ids to rows so a drop handler in one row can reach the
// row the dragged event came from.
type Registry struct {
	rows  map[string]*Row
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rows: make(map[string]*Row)}
}

// Register adds row under its id. An existing mapping is replaced.
func (r *Registry) Register(row *Row) {
	if row == nil {
		return
	}
	if _, exists := r.rows[row.ID()]; !exists {
		r.order = append(r.order, row.ID())
	}
	r.rows[row.ID()] = row
}

// Unregister removes the mapping for id, if any.
func (r *Registry) Unregister(id string) {
	if _, exists := r.rows[id]; !exists {
		return
	}
	delete(r.rows, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns the row registered under id.
func (r *Registry) Get(id string) (*Row, bool) {
	row, ok := r.rows[id]
	return row, ok
}

// Len returns the number of registered rows.
func (r *Registry) Len() int {
	return len(r.rows)
}

// Rows returns registered rows in registration order.
func (r *Registry) Rows() []*Row {
	result := make([]*Row, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.rows[id])
	}
	return result
}

// FindEventOwner returns the row currently holding eventID.
// Used when the row recorded in a drag payload is no longer registered.
func (r *Registry) FindEventOwner(eventID string) (*Row, bool) {
	for _, id := range r.order {
		row := r.rows[id]
		if row.hasEvent(eventID) {
			return row, true
		}
	}
	return nil, false
}
