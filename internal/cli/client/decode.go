package client

import (
	"encoding/json"
	"fmt"

	"moltbook/internal/cli/clierr"
	"moltbook/internal/models"
)

// DecodeList extracts a collection from raw. The collection may sit under the
// first of keys that is present, optionally wrapped as {"items": [...]}, or
// raw may be a bare array. Without any of the keys, an object holding exactly
// one array uses that array; otherwise the list is empty. When the elements
// do not fit T the untyped objects are returned.
func DecodeList[T any](raw json.RawMessage, keys ...string) (models.List[T], error) {
	var out models.List[T]
	var root any
	if err := json.Unmarshal(raw, &root); err != nil {
		return out, clierr.Wrap(clierr.KindAPI, err, "decode response")
	}
	node := root
	if m, ok := root.(map[string]any); ok {
		node = nil
		for _, k := range keys {
			if v, present := m[k]; present {
				node = v
				break
			}
		}
		if node == nil {
			node = m["items"]
		}
		if node == nil {
			node = soleList(m)
		}
	}
	if inner, ok := node.(map[string]any); ok {
		node = inner["items"]
	}
	if node == nil {
		out.Items = []T{}
		return out, nil
	}
	elems, ok := node.([]any)
	if !ok {
		return out, clierr.New(clierr.KindAPI, "unexpected response: expected a list, got %s", shape(node))
	}
	b, err := json.Marshal(elems)
	if err != nil {
		return out, clierr.Wrap(clierr.KindAPI, err, "decode response")
	}
	var items []T
	if err := json.Unmarshal(b, &items); err == nil {
		out.Items = items
		return out, nil
	}
	out.Loose = make([]map[string]any, 0, len(elems))
	for _, e := range elems {
		if m, ok := e.(map[string]any); ok {
			out.Loose = append(out.Loose, m)
		}
	}
	return out, nil
}

// DecodeObject extracts a single resource stored under the first present key,
// or the whole payload when none is present.
func DecodeObject[T any](raw json.RawMessage, keys ...string) (models.Object[T], error) {
	var out models.Object[T]
	var root map[string]any
	if err := json.Unmarshal(raw, &root); err != nil {
		return out, clierr.Wrap(clierr.KindAPI, err, "decode response")
	}
	node := root
	for _, k := range keys {
		if m, ok := root[k].(map[string]any); ok {
			node = m
			break
		}
	}
	b, err := json.Marshal(node)
	if err != nil {
		return out, clierr.Wrap(clierr.KindAPI, err, "decode response")
	}
	if err := json.Unmarshal(b, &out.Value); err != nil {
		out.Loose = node
		if out.Loose == nil {
			out.Loose = map[string]any{}
		}
	}
	return out, nil
}

func soleList(m map[string]any) any {
	var found any
	for _, v := range m {
		if _, ok := v.([]any); ok {
			if found != nil {
				return nil
			}
			found = v
		}
	}
	return found
}

func shape(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
