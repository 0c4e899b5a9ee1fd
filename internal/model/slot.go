package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TimeWindow is a half-open interval [Start, End).
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w TimeWindow) Overlaps(o TimeWindow) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

type Slot struct {
	ID    string    `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (s Slot) Window() TimeWindow {
	return TimeWindow{Start: s.Start, End: s.End}
}

// ProposedSlots is stored as a jsonb array on the interview row.
type ProposedSlots []Slot

func (p ProposedSlots) Find(id string) (Slot, bool) {
	for _, s := range p {
		if s.ID == id {
			return s, true
		}
	}
	return Slot{}, false
}

func (p ProposedSlots) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal proposed slots: %w", err)
	}
	return string(b), nil
}

func (p *ProposedSlots) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported proposed slots type %T", src)
	}
	return json.Unmarshal(raw, p)
}
