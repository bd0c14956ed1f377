package schema

import (
	"bytes"
	"encoding/json"
	"iter"

	"gopkg.in/yaml.v3"
)

// Collection is an insertion ordered map keyed by field, relation or table name.
// Putting an existing key replaces the value and keeps the original position.
// The zero value is ready to use.
type Collection[T any] struct {
	keys  []string
	items map[string]T
}

// NewCollection returns an empty collection.
func NewCollection[T any]() *Collection[T] {
	return &Collection[T]{}
}

// Put stores value under key.
func (c *Collection[T]) Put(key string, value T) {
	if c.items == nil {
		c.items = make(map[string]T)
	}
	if _, ok := c.items[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.items[key] = value
}

// Get returns the value stored under key.
func (c *Collection[T]) Get(key string) (T, bool) {
	v, ok := c.items[key]
	return v, ok
}

// Has reports whether key is present.
func (c *Collection[T]) Has(key string) bool {
	_, ok := c.items[key]
	return ok
}

// Len returns the number of entries.
func (c *Collection[T]) Len() int { return len(c.keys) }

// IsEmpty reports whether the collection has no entries.
func (c *Collection[T]) IsEmpty() bool { return len(c.keys) == 0 }

// Keys returns the keys in insertion order.
func (c *Collection[T]) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Values returns the values in insertion order.
func (c *Collection[T]) Values() []T {
	values := make([]T, 0, len(c.keys))
	for _, k := range c.keys {
		values = append(values, c.items[k])
	}
	return values
}

// All iterates entries in insertion order.
func (c *Collection[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, k := range c.keys {
			if !yield(k, c.items[k]) {
				return
			}
		}
	}
}

// MarshalJSON writes the entries as a JSON object in insertion order.
func (c Collection[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(c.items[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the entries as a YAML mapping in insertion order.
func (c Collection[T]) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range c.keys {
		value := &yaml.Node{}
		if err := value.Encode(c.items[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, value)
	}
	return node, nil
}
