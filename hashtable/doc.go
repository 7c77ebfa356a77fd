/*
Package hashtable provides a generic hash table with separate chaining.

Keys and values can be of any type. The table relies on a hash function and a
comparison function for the key type, supplied directly or through a
keys.Policy. Equal keys (Compare returns 0) must have equal hashes.

	t, err := hashtable.New(hashtable.NewInput[string, int]{
		Policy: keys.String(),
	})
	if err != nil {
		return err
	}
	defer t.Destroy()

	if err := t.Insert("apple", 10); err != nil {
		return err
	}
	v, ok := t.Get("apple")

Each bucket holds a singly linked chain of entries and new entries are linked
at the head of their chain. Before an insert that would raise the load factor
above 0.75, the bucket array is doubled and every entry is relinked at
hash(key) mod capacity. The capacity never shrinks.

Ownership:

By default the table only stores the keys and values it is given. Registering
a KeyDestructor or ValueDestructor makes the table the owner of that slot: the
destructor runs when an entry is deleted, cleared or destroyed, when a value
is replaced, and when a key is replaced by a different handle of an equal key.
Swap and Take hand superseded or removed entries back to the caller without
running any destructor.

A table is not safe for concurrent use; see gensync.Table for a serialized
wrapper.
*/
package hashtable
