package view

// MimeType identifies a todone drag payload.
const MimeType = "application/vnd.todone.tree"

// Transfer is the drag payload: the ids of the dragged todo records.
type Transfer struct {
	MimeType string
	IDs      []string
}

// Reorderer is the part of the list model a drop needs.
type Reorderer interface {
	Reorder(draggedID, targetID string) bool
}

// Drag packs the dragged nodes. Only item nodes can be dragged.
func Drag(nodes []Node) (Transfer, bool) {
	tr := Transfer{MimeType: MimeType}
	for _, n := range nodes {
		if it, ok := n.(*Item); ok {
			tr.IDs = append(tr.IDs, it.Todo.ID)
		}
	}
	return tr, len(tr.IDs) > 0
}

// Drop moves the first dragged todo onto target. A nil target is a drop
// below the end of a section. Drops on the add button or a section header
// are ignored.
func Drop(r Reorderer, tr Transfer, target Node) bool {
	if tr.MimeType != MimeType || len(tr.IDs) == 0 {
		return false
	}
	targetID := ""
	switch t := target.(type) {
	case nil:
	case *Item:
		targetID = t.Todo.ID
	default:
		return false
	}
	return r.Reorder(tr.IDs[0], targetID)
}
