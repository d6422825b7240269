package model

import "encoding/json"

// Todo is the domain model for a todo entry.
type Todo struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Done      bool   `json:"done"`
	CreatedAt int64  `json:"createdAt"` // ms since epoch
	Order     int    `json:"order"`

	// hasOrder is false only for records decoded from a document that
	// carried no "order" key.
	hasOrder bool
}

// New returns an active todo with an explicit order.
func New(id, text string, createdAt int64, order int) Todo {
	return Todo{ID: id, Text: text, CreatedAt: createdAt, Order: order, hasOrder: true}
}

// HasOrder reports whether Order was set, either in code or in the stored document.
func (t Todo) HasOrder() bool { return t.hasOrder }

// SetOrder assigns the rank and marks it as present.
func (t *Todo) SetOrder(order int) {
	t.Order = order
	t.hasOrder = true
}

func (t *Todo) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		Done      bool   `json:"done"`
		CreatedAt int64  `json:"createdAt"`
		Order     *int   `json:"order"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*t = Todo{ID: raw.ID, Text: raw.Text, Done: raw.Done, CreatedAt: raw.CreatedAt}
	if raw.Order != nil {
		t.SetOrder(*raw.Order)
	}
	return nil
}
