// internal/app/system/docstore/memstore.go
package docstore

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Op names a store operation for fault injection.
type Op string

const (
	OpGet        Op = "get"
	OpFind       Op = "find"
	OpCount      Op = "count"
	OpInsert     Op = "insert"
	OpUpdate     Op = "update"
	OpDelete     Op = "delete"
	OpDeleteMany Op = "delete_many"
)

// FaultFunc is consulted before every operation. A non-nil return fails
// the operation with that error.
type FaultFunc func(op Op, coll string) error

// MemStore is an in-process Store.
//
// Documents are kept in their bson form so filters compare the same values
// Mongo would. A transaction works on a private copy of the whole state and
// replaces the committed state only when fn succeeds; transactions are
// serialized, and operations outside a transaction wait for them.
type MemStore struct {
	mu    sync.Mutex
	state memState

	fmu   sync.RWMutex
	fault FaultFunc

	mutations atomic.Int64
}

type memColl struct {
	order []string
	docs  map[string]bson.M
}

type memState map[string]*memColl

type txKey struct{ s *MemStore }

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{state: memState{}}
}

// SetFault installs (or with nil, clears) a fault injector.
func (s *MemStore) SetFault(f FaultFunc) {
	s.fmu.Lock()
	s.fault = f
	s.fmu.Unlock()
}

// FailOn is a FaultFunc that fails op on coll with err.
func FailOn(op Op, coll string, err error) FaultFunc {
	return func(o Op, c string) error {
		if o == op && c == coll {
			return err
		}
		return nil
	}
}

// Mutations returns how many mutating operations have been applied,
// including ones later discarded by an aborted transaction.
func (s *MemStore) Mutations() int64 { return s.mutations.Load() }

func (s *MemStore) check(op Op, coll string) error {
	s.fmu.RLock()
	f := s.fault
	s.fmu.RUnlock()
	if f == nil {
		return nil
	}
	return f(op, coll)
}

// acquire returns the state an operation should see: the transaction's
// working copy if ctx carries one, otherwise the committed state under lock.
func (s *MemStore) acquire(ctx context.Context) (memState, func()) {
	if st, ok := ctx.Value(txKey{s}).(memState); ok {
		return st, func() {}
	}
	s.mu.Lock()
	return s.state, s.mu.Unlock
}

func (st memState) coll(name string) *memColl {
	c, ok := st[name]
	if !ok {
		c = &memColl{docs: map[string]bson.M{}}
		st[name] = c
	}
	return c
}

func (st memState) clone() memState {
	out := make(memState, len(st))
	for name, c := range st {
		nc := &memColl{
			order: append([]string(nil), c.order...),
			docs:  make(map[string]bson.M, len(c.docs)),
		}
		for k, d := range c.docs {
			nc.docs[k] = d
		}
		out[name] = nc
	}
	return out
}

func (c *memColl) each(fn func(bson.M) bool) {
	for _, k := range c.order {
		if !fn(c.docs[k]) {
			return
		}
	}
}

func (c *memColl) remove(k string) bool {
	if _, ok := c.docs[k]; !ok {
		return false
	}
	delete(c.docs, k)
	for i, o := range c.order {
		if o == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *MemStore) Get(ctx context.Context, coll string, key any, out any) error {
	if err := s.check(OpGet, coll); err != nil {
		return err
	}
	k, err := keyString(key)
	if err != nil {
		return err
	}
	st, release := s.acquire(ctx)
	defer release()
	doc, ok := st.coll(coll).docs[k]
	if !ok {
		return ErrNotFound
	}
	return decode(doc, out)
}

func (s *MemStore) FindOne(ctx context.Context, coll string, f Filter, out any) error {
	if err := s.check(OpFind, coll); err != nil {
		return err
	}
	m, err := compile(f)
	if err != nil {
		return err
	}
	st, release := s.acquire(ctx)
	defer release()
	var found bson.M
	st.coll(coll).each(func(d bson.M) bool {
		if m.matches(d) {
			found = d
			return false
		}
		return true
	})
	if found == nil {
		return ErrNotFound
	}
	return decode(found, out)
}

func (s *MemStore) Find(ctx context.Context, coll string, f Filter, out any) error {
	if err := s.check(OpFind, coll); err != nil {
		return err
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("docstore: Find needs a pointer to a slice, got %T", out)
	}
	m, err := compile(f)
	if err != nil {
		return err
	}
	st, release := s.acquire(ctx)
	defer release()

	sliceType := rv.Elem().Type()
	result := reflect.MakeSlice(sliceType, 0, 0)
	var decodeErr error
	st.coll(coll).each(func(d bson.M) bool {
		if !m.matches(d) {
			return true
		}
		ep := reflect.New(sliceType.Elem())
		if decodeErr = decode(d, ep.Interface()); decodeErr != nil {
			return false
		}
		result = reflect.Append(result, ep.Elem())
		return true
	})
	if decodeErr != nil {
		return decodeErr
	}
	rv.Elem().Set(result)
	return nil
}

func (s *MemStore) Keys(ctx context.Context, coll string, f Filter) ([]any, error) {
	if err := s.check(OpFind, coll); err != nil {
		return nil, err
	}
	m, err := compile(f)
	if err != nil {
		return nil, err
	}
	st, release := s.acquire(ctx)
	defer release()
	var keys []any
	st.coll(coll).each(func(d bson.M) bool {
		if m.matches(d) {
			keys = append(keys, d["_id"])
		}
		return true
	})
	return keys, nil
}

func (s *MemStore) Count(ctx context.Context, coll string, f Filter) (int64, error) {
	if err := s.check(OpCount, coll); err != nil {
		return 0, err
	}
	m, err := compile(f)
	if err != nil {
		return 0, err
	}
	st, release := s.acquire(ctx)
	defer release()
	var n int64
	st.coll(coll).each(func(d bson.M) bool {
		if m.matches(d) {
			n++
		}
		return true
	})
	return n, nil
}

func (s *MemStore) Insert(ctx context.Context, coll string, doc any) error {
	if err := s.check(OpInsert, coll); err != nil {
		return err
	}
	d, err := toDoc(doc)
	if err != nil {
		return err
	}
	if _, ok := d["_id"]; !ok {
		d["_id"] = primitive.NewObjectID()
	}
	k, err := keyString(d["_id"])
	if err != nil {
		return err
	}
	st, release := s.acquire(ctx)
	defer release()
	c := st.coll(coll)
	if _, dup := c.docs[k]; dup {
		return ErrDuplicate
	}
	c.docs[k] = d
	c.order = append(c.order, k)
	s.mutations.Add(1)
	return nil
}

func (s *MemStore) Update(ctx context.Context, coll string, key any, set Set, out any) error {
	if err := s.check(OpUpdate, coll); err != nil {
		return err
	}
	k, err := keyString(key)
	if err != nil {
		return err
	}
	fields, err := toDoc(bson.M(set))
	if err != nil {
		return err
	}
	st, release := s.acquire(ctx)
	defer release()
	c := st.coll(coll)
	cur, ok := c.docs[k]
	if !ok {
		return ErrNotFound
	}
	next := make(bson.M, len(cur)+len(fields))
	for f, v := range cur {
		next[f] = v
	}
	for f, v := range fields {
		if f == "_id" {
			continue
		}
		next[f] = v
	}
	c.docs[k] = next
	s.mutations.Add(1)
	if out == nil {
		return nil
	}
	return decode(next, out)
}

func (s *MemStore) Delete(ctx context.Context, coll string, key any) (bool, error) {
	if err := s.check(OpDelete, coll); err != nil {
		return false, err
	}
	k, err := keyString(key)
	if err != nil {
		return false, err
	}
	st, release := s.acquire(ctx)
	defer release()
	if !st.coll(coll).remove(k) {
		return false, nil
	}
	s.mutations.Add(1)
	return true, nil
}

func (s *MemStore) DeleteMany(ctx context.Context, coll string, keys []any) (int64, error) {
	if err := s.check(OpDeleteMany, coll); err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	ks := make([]string, 0, len(keys))
	for _, key := range keys {
		k, err := keyString(key)
		if err != nil {
			return 0, err
		}
		ks = append(ks, k)
	}
	st, release := s.acquire(ctx)
	defer release()
	c := st.coll(coll)
	var n int64
	for _, k := range ks {
		if c.remove(k) {
			n++
		}
	}
	if n > 0 {
		s.mutations.Add(1)
	}
	return n, nil
}

func (s *MemStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{s}).(memState); ok {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.state.clone()
	if err := fn(context.WithValue(ctx, txKey{s}, work)); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *MemStore) Ping(ctx context.Context) error { return ctx.Err() }

/*─────────────────────────────────────────────────────────────────────────────*
| bson normalization                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func toDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("docstore: marshal: %w", err)
	}
	var d bson.M
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("docstore: unmarshal: %w", err)
	}
	return d, nil
}

func decode(d bson.M, out any) error {
	raw, err := bson.Marshal(d)
	if err != nil {
		return fmt.Errorf("docstore: marshal: %w", err)
	}
	return bson.Unmarshal(raw, out)
}

// normValue runs a single value through bson so that, for example, a
// *primitive.ObjectID compares equal to the stored primitive.ObjectID.
func normValue(v any) (any, error) {
	d, err := toDoc(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return d["v"], nil
}

func keyString(key any) (string, error) {
	v, err := normValue(key)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", fmt.Errorf("docstore: nil key")
	}
	return fmt.Sprintf("%T:%v", v, v), nil
}

type matcher []clause

type clause struct {
	field string
	any   []any
	set   bool
}

func compile(f Filter) (matcher, error) {
	m := make(matcher, 0, len(f))
	for field, want := range f {
		cl := clause{field: field}
		if in, ok := want.(In); ok {
			cl.set = true
			for _, member := range in {
				v, err := normValue(member)
				if err != nil {
					return nil, err
				}
				cl.any = append(cl.any, v)
			}
		} else {
			v, err := normValue(want)
			if err != nil {
				return nil, err
			}
			cl.any = []any{v}
		}
		m = append(m, cl)
	}
	return m, nil
}

func (m matcher) matches(d bson.M) bool {
	for _, cl := range m {
		got, present := d[cl.field]
		hit := false
		for _, want := range cl.any {
			if want == nil && !cl.set {
				hit = !present || got == nil
			} else if present && reflect.DeepEqual(got, want) {
				hit = true
			}
			if hit {
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}
