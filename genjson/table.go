package genjson

import (
	"encoding/json"

	"github.com/Invicton-Labs/go-hashtable/hashtable"
	"github.com/Invicton-Labs/go-hashtable/keys"
	"github.com/Invicton-Labs/go-stackerr"
)

// LoadTable decodes a JSON object and inserts each of its members into a new
// string-keyed table. If input has no hash or compare function, the djb2
// string policy is used.
func LoadTable[V any](data []byte, input hashtable.NewInput[string, V]) (hashtable.Table[string, V], stackerr.Error) {
	members, err := Unmarshal[map[string]V](data)
	if err != nil {
		return nil, err
	}
	if input.Policy == nil {
		input.Policy = keys.String()
	}
	if input.InitialCapacity == 0 {
		input.InitialCapacity = capacityFor(len(members))
	}
	t, err := hashtable.New(input)
	if err != nil {
		return nil, err
	}
	for k, v := range members {
		if err := t.Insert(k, v); err != nil {
			t.Destroy()
			return nil, err
		}
	}
	return t, nil
}

// capacityFor returns the smallest power-of-two bucket count, at least
// hashtable.DefaultCapacity, that holds n entries without a resize.
func capacityFor(n int) int {
	capacity := hashtable.DefaultCapacity
	for float64(n) > float64(capacity)*hashtable.LoadFactorThreshold {
		capacity *= hashtable.GrowthFactor
	}
	return capacity
}

// MarshalTable encodes a string-keyed table as a JSON object. Members are
// written in ascending key order.
func MarshalTable[V any](t hashtable.Table[string, V]) ([]byte, stackerr.Error) {
	members := make(map[string]V, t.Len())
	if _, err := t.Range(func(key string, value V) hashtable.Signal {
		members[key] = value
		return hashtable.Continue
	}); err != nil {
		return nil, err
	}
	data, err := json.Marshal(members)
	if err != nil {
		return nil, stackerr.Wrap(err)
	}
	return data, nil
}
