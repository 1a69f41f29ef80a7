package thing

import (
	"bytes"
	"encoding/json"

	"github.com/thingorm/thing/schema"
)

// each serializable values in declaration order: non hidden schema
// attributes present on the instance, then loaded relations
func (inst *Instance) each(fn func(name string, value interface{})) {
	m := inst.model
	if m.schemaless {
		for _, name := range inst.attributes {
			if !m.isHidden(name) {
				fn(name, inst.values[name])
			}
		}
		return
	}

	m.schema.EachAttribute(func(attr *schema.Attribute) {
		name := attr.Name()
		if m.isHidden(name) {
			return
		}

		switch {
		case attr.IsVirtual():
			if getter := attr.GetterFunc(); getter != nil {
				fn(name, getter(inst))
			}
		case attr.IsRelated():
			if v, ok := inst.relations[name]; ok {
				fn(name, v)
			}
		default:
			if v, ok := inst.values[name]; ok {
				fn(name, v)
			}
		}
	})

	m.relations.Each(func(rel *schema.Relation) {
		if _, inSchema := m.schema.Lookup(rel.Name); inSchema || m.isHidden(rel.Name) {
			return
		}
		if v, ok := inst.relations[rel.Name]; ok {
			fn(rel.Name, v)
		}
	})
}

// ToJSON serializable projection of the instance
func (inst *Instance) ToJSON() map[string]interface{} {
	results := map[string]interface{}{}
	inst.each(func(name string, value interface{}) {
		switch v := value.(type) {
		case *Instance:
			if v == nil {
				results[name] = nil
			} else {
				results[name] = v.ToJSON()
			}
		case []*Instance:
			items := make([]map[string]interface{}, len(v))
			for idx, item := range v {
				items[idx] = item.ToJSON()
			}
			results[name] = items
		default:
			results[name] = v
		}
	})
	return results
}

// MarshalJSON the ToJSON projection, keys in declaration order
func (inst *Instance) MarshalJSON() ([]byte, error) {
	var (
		buf   bytes.Buffer
		err   error
		first = true
	)

	buf.WriteByte('{')
	inst.each(func(name string, value interface{}) {
		if err != nil {
			return
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		var key, data []byte
		if key, err = json.Marshal(name); err != nil {
			return
		}
		if data, err = json.Marshal(value); err != nil {
			return
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(data)
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
