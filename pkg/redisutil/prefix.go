package redisutil

import "path"

// Prefix builds hierarchical Redis keys with a fixed leading element.
type Prefix string

func (p Prefix) Key(elem ...string) string {
	elem = append([]string{string(p)}, elem...)
	return path.Join(elem...)
}

func (p Prefix) Add(elem ...string) Prefix {
	return Prefix(p.Key(elem...))
}

func (p Prefix) Keys(list []string) []string {
	result := make([]string, len(list))
	for i, el := range list {
		result[i] = p.Key(el)
	}

	return result
}
