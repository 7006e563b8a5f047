package diamond

import (
	"bytes"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"go.uber.org/zap"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
)

// receiveSignature is the handler run when value is sent to a diamond
// without calldata.
const receiveSignature = "receive()"

// execution is the state of one transaction: the arena transaction, the
// write journal used to unwind failed sub-calls, and the pending logs.
type execution struct {
	host     *Host
	tx       arena.Tx
	txID     chainhash.Hash
	now      uint64
	logger   *zap.Logger
	journal  []journalEntry
	logs     []Log
	spaces   map[string]*journaledSpace
	readOnly bool
}

type journalEntry struct {
	space   arena.Space
	key     []byte
	old     []byte
	existed bool
}

type checkpoint struct {
	journal int
	logs    int
}

func (e *execution) checkpoint() checkpoint {
	return checkpoint{journal: len(e.journal), logs: len(e.logs)}
}

// revert undoes every write and log recorded after cp, newest first.
func (e *execution) revert(cp checkpoint) error {
	for i := len(e.journal) - 1; i >= cp.journal; i-- {
		j := e.journal[i]
		var err error
		if j.existed {
			err = j.space.Put(j.key, j.old)
		} else {
			err = j.space.Delete(j.key)
		}
		if err != nil {
			return fmt.Errorf("diamond: revert journal: %w", err)
		}
	}
	e.journal = e.journal[:cp.journal]
	e.logs = e.logs[:cp.logs]
	return nil
}

// space returns the journaled space (owner, namespace).
func (e *execution) space(owner account.Address, namespace string) (arena.Space, error) {
	id := string(owner[:]) + "/" + namespace
	if s, ok := e.spaces[id]; ok {
		return s, nil
	}
	inner, err := e.tx.Space(owner, namespace)
	if err != nil {
		return nil, err
	}
	s := &journaledSpace{inner: inner, exec: e}
	e.spaces[id] = s
	return s, nil
}

// journaledSpace records the previous value of every key it overwrites.
type journaledSpace struct {
	inner arena.Space
	exec  *execution
}

func (s *journaledSpace) Get(key []byte) []byte { return s.inner.Get(key) }

func (s *journaledSpace) Put(key, value []byte) error {
	if s.exec.readOnly {
		return ErrReadOnly
	}
	s.record(key)
	return s.inner.Put(key, value)
}

func (s *journaledSpace) Delete(key []byte) error {
	if s.exec.readOnly {
		return ErrReadOnly
	}
	s.record(key)
	return s.inner.Delete(key)
}

func (s *journaledSpace) Scan(prefix []byte, fn func(key, value []byte) error) error {
	return s.inner.Scan(prefix, fn)
}

func (s *journaledSpace) record(key []byte) {
	old := s.inner.Get(key)
	s.exec.journal = append(s.exec.journal, journalEntry{
		space:   s.inner,
		key:     bytes.Clone(key),
		old:     bytes.Clone(old),
		existed: old != nil,
	})
}

// isDiamond reports whether addr was created by CreateDiamond.
func (e *execution) isDiamond(addr account.Address) (bool, error) {
	s, err := e.space(addr, nsCore)
	if err != nil {
		return false, err
	}
	return s.Get(keyCreated) != nil, nil
}

// call moves value from caller to target and dispatches c on target.
// A failure unwinds everything the call did and is returned unchanged.
func (e *execution) call(caller, target account.Address, value uint64, c Call, depth int) (any, error) {
	if depth > e.host.maxDepth {
		return nil, ErrCallDepth
	}
	cp := e.checkpoint()
	result, err := e.dispatch(caller, target, value, c, depth)
	if err != nil {
		if rerr := e.revert(cp); rerr != nil {
			return nil, rerr
		}
		return nil, err
	}
	return result, nil
}

func (e *execution) dispatch(caller, target account.Address, value uint64, c Call, depth int) (any, error) {
	if value > 0 {
		if e.readOnly {
			return nil, ErrValueInQuery
		}
		native, err := e.space(account.Zero, nsHostNative)
		if err != nil {
			return nil, err
		}
		if err := moveNative(native, caller, target, value); err != nil {
			return nil, err
		}
	}

	isDiamond, err := e.isDiamond(target)
	if err != nil {
		return nil, err
	}
	if c.IsTransfer() {
		if !isDiamond {
			return nil, nil
		}
		c = Call{Selector: SelectorOf(receiveSignature)}
	} else if !isDiamond {
		return nil, fmt.Errorf("%w: %s", ErrNotDiamond, target)
	}

	table, err := e.space(target, nsSelectors)
	if err != nil {
		return nil, err
	}
	facetAddr, routed, err := lookupSelector(table, c.Selector)
	if err != nil {
		return nil, err
	}
	if !routed {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnknownSelector, c.Selector, target)
	}
	df, err := e.host.facet(facetAddr)
	if err != nil {
		return nil, err
	}
	m, ok := df.methods[c.Selector]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrSelectorNotInFacet, c.Selector, df.name)
	}

	e.logger.Debug("dispatch",
		zap.Stringer("diamond", target),
		zap.String("facet", df.name),
		zap.String("method", m.Signature),
		zap.Stringer("caller", caller),
		zap.Uint64("value", value),
		zap.Int("depth", depth))

	f := &Frame{exec: e, self: target, caller: caller, value: value, depth: depth, facet: df.name}
	return m.Handler(f, c.Args)
}

// Frame is what a facet handler sees: the calling context and the storage
// of the diamond it runs on behalf of.
type Frame struct {
	exec   *execution
	self   account.Address
	caller account.Address
	value  uint64
	depth  int
	facet  string
}

// Self returns the diamond the handler executes on.
func (f *Frame) Self() account.Address { return f.self }

// Caller returns the immediate caller identity.
func (f *Frame) Caller() account.Address { return f.caller }

// Value returns the native value attached to the call.
func (f *Frame) Value() uint64 { return f.value }

// Now returns the block timestamp in Unix seconds.
func (f *Frame) Now() uint64 { return f.exec.now }

// TxID returns the current transaction ID.
func (f *Frame) TxID() chainhash.Hash { return f.exec.txID }

// ReadOnly reports whether the frame belongs to a query.
func (f *Frame) ReadOnly() bool { return f.exec.readOnly }

// Logger returns a logger annotated with the diamond and facet.
func (f *Frame) Logger() *zap.Logger {
	return f.exec.logger.With(zap.Stringer("diamond", f.self), zap.String("facet", f.facet))
}

// Space returns the diamond's keyspace for namespace.
func (f *Frame) Space(namespace string) (arena.Space, error) {
	return f.exec.space(f.self, namespace)
}

// Balance returns the native balance of addr.
func (f *Frame) Balance(addr account.Address) (uint64, error) {
	s, err := f.exec.space(account.Zero, nsHostNative)
	if err != nil {
		return 0, err
	}
	return nativeBalance(s, addr)
}

// Call invokes c on target with this diamond as the caller. If the callee
// fails, its effects are unwound and the error is returned unchanged.
func (f *Frame) Call(target account.Address, value uint64, c Call) (any, error) {
	return f.exec.call(f.self, target, value, c, f.depth+1)
}

// Transfer sends native value from this diamond to addr. When addr is a
// diamond its receive() handler runs, so callers must finish all bookkeeping
// before transferring.
func (f *Frame) Transfer(to account.Address, amount uint64) error {
	if f.exec.readOnly {
		return ErrReadOnly
	}
	if amount == 0 {
		return nil
	}
	_, err := f.exec.call(f.self, to, amount, Call{}, f.depth+1)
	return err
}

// Emit records a log for this diamond.
func (f *Frame) Emit(name string, attrs ...Attr) {
	if f.exec.readOnly {
		return
	}
	f.exec.logs = append(f.exec.logs, Log{
		TxID:      f.exec.txID,
		Emitter:   f.self,
		Name:      name,
		Attrs:     attrs,
		Timestamp: f.exec.now,
	})
}

// delegate runs facet method c in this frame's context: same diamond, caller
// and value. Used for diamondCut initializers.
func (f *Frame) delegate(facetAddr account.Address, c Call) (any, error) {
	if f.depth+1 > f.exec.host.maxDepth {
		return nil, ErrCallDepth
	}
	df, err := f.exec.host.facet(facetAddr)
	if err != nil {
		return nil, err
	}
	m, ok := df.methods[c.Selector]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrSelectorNotInFacet, c.Selector, df.name)
	}
	cp := f.exec.checkpoint()
	sub := &Frame{exec: f.exec, self: f.self, caller: f.caller, value: f.value, depth: f.depth + 1, facet: df.name}
	result, err := m.Handler(sub, c.Args)
	if err != nil {
		if rerr := f.exec.revert(cp); rerr != nil {
			return nil, rerr
		}
		return nil, err
	}
	return result, nil
}
