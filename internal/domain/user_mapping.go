package domain

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// UserMapping is an immutable snapshot of the MappedThing assignments a user
// has made so far. With returns a new snapshot.
type UserMapping struct {
	vals map[MappedThing]MappingVal
}

func NewUserMapping(vals map[MappedThing]MappingVal) UserMapping {
	m := UserMapping{vals: make(map[MappedThing]MappingVal, len(vals))}
	for k, v := range vals {
		m.vals[k] = v
	}
	return m
}

func (m UserMapping) Get(thing MappedThing) (MappingVal, bool) {
	v, ok := m.vals[thing]
	return v, ok
}

func (m UserMapping) Len() int {
	return len(m.vals)
}

func (m UserMapping) With(thing MappedThing, val MappingVal) UserMapping {
	next := UserMapping{vals: make(map[MappedThing]MappingVal, len(m.vals)+1)}
	for k, v := range m.vals {
		next.vals[k] = v
	}
	next.vals[thing] = val
	return next
}

func (m UserMapping) Equal(o UserMapping) bool {
	if len(m.vals) != len(o.vals) {
		return false
	}
	for k, v := range m.vals {
		ov, ok := o.vals[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

func (m UserMapping) MarshalJSON() ([]byte, error) {
	if m.vals == nil {
		return []byte("{}"), nil
	}
	return sonic.ConfigStd.Marshal(m.vals)
}

func (m *UserMapping) UnmarshalJSON(data []byte) error {
	raw := make(map[string]MappingVal)
	if err := sonic.ConfigStd.Unmarshal(data, &raw); err != nil {
		return err
	}

	vals := make(map[MappedThing]MappingVal, len(raw))
	for k, v := range raw {
		thing, err := ParseMappedThing(k)
		if err != nil {
			return fmt.Errorf("user mapping: %w", err)
		}
		vals[thing] = v
	}
	m.vals = vals
	return nil
}
