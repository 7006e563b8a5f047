// Package diamond implements the selector router: diamonds that route each
// call by selector to a facet, share one storage arena, and are upgraded
// atomically with diamondCut.
//
// A Host executes transactions one at a time. Each transaction runs inside a
// single arena update, so a failure anywhere, including inside nested
// facet-to-facet calls, leaves no trace.
package diamond

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"go.uber.org/zap"

	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
)

// DefaultMaxDepth bounds nested calls within one transaction.
const DefaultMaxDepth = 64

// Message is an externally submitted call.
type Message struct {
	From  account.Address
	To    account.Address
	Value uint64
	Call  Call
}

// Receipt describes a committed transaction.
type Receipt struct {
	TxID      chainhash.Hash
	Result    any
	Logs      []Log
	Timestamp uint64
}

// Option configures a Host.
type Option func(*Host)

// WithClock sets the block timestamp source.
func WithClock(c Clock) Option { return func(h *Host) { h.clock = c } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(h *Host) { h.logger = l } }

// WithMaxDepth sets the nested call limit.
func WithMaxDepth(n int) Option { return func(h *Host) { h.maxDepth = n } }

// Host owns the arena, the deployed facet code and the execution order.
type Host struct {
	mu          sync.Mutex
	arena       arena.Arena
	clock       Clock
	logger      *zap.Logger
	maxDepth    int
	facets      map[account.Address]*deployedFacet
	subscribers []func(Log)
}

// NewHost creates a host over a and deploys the built-in facets.
func NewHost(a arena.Arena, opts ...Option) *Host {
	h := &Host{
		arena:    a,
		clock:    SystemClock{},
		logger:   zap.NewNop(),
		maxDepth: DefaultMaxDepth,
		facets:   make(map[account.Address]*deployedFacet),
	}
	for _, opt := range opts {
		opt(h)
	}
	for _, f := range builtinFacets() {
		if _, err := h.Deploy(f); err != nil {
			panic("diamond: deploy built-in facet: " + err.Error())
		}
	}
	return h
}

// Now returns the current block time.
func (h *Host) Now() time.Time { return h.clock.Now() }

// Arena returns the underlying storage arena.
func (h *Host) Arena() arena.Arena { return h.arena }

// Deploy registers facet code and returns its address. The address depends
// only on the facet name, so every host agrees on it.
func (h *Host) Deploy(f Facet) (account.Address, error) {
	addr := FacetAddress(f.Name())
	df := &deployedFacet{name: f.Name(), address: addr, methods: make(map[Selector]Method)}
	for _, m := range f.Methods() {
		sel := SelectorOf(m.Signature)
		if _, dup := df.methods[sel]; dup {
			return account.Zero, fmt.Errorf("%w: %s (%s) in facet %s", ErrDuplicateSelector, m.Signature, sel, f.Name())
		}
		df.methods[sel] = m
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.facets[addr]; exists {
		return account.Zero, fmt.Errorf("%w: %s", ErrFacetExists, f.Name())
	}
	h.facets[addr] = df
	h.logger.Debug("facet deployed", zap.String("facet", f.Name()), zap.Stringer("address", addr))
	return addr, nil
}

// facet resolves deployed code. Callers hold h.mu.
func (h *Host) facet(addr account.Address) (*deployedFacet, error) {
	df, ok := h.facets[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFacetNotDeployed, addr)
	}
	return df, nil
}

// Subscribe registers fn to receive every committed log, in order. fn runs
// with the host locked and must not submit transactions.
func (h *Host) Subscribe(fn func(Log)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers = append(h.subscribers, fn)
}

// CreateDiamond creates a diamond owned by owner, routes the built-in cut,
// loupe and ownership selectors, and returns its address.
func (h *Host) CreateDiamond(ctx context.Context, owner account.Address) (account.Address, error) {
	if err := account.Validate(owner); err != nil {
		return account.Zero, fmt.Errorf("diamond: create: owner: %w", err)
	}
	var addr account.Address
	_, err := h.transact(ctx, "createDiamond", owner, func(e *execution) (any, error) {
		nonces, err := e.space(account.Zero, nsHostNonce)
		if err != nil {
			return nil, err
		}
		nonce, err := arena.GetUint64(nonces, owner[:])
		if err != nil {
			return nil, err
		}
		if err := arena.PutUint64(nonces, owner[:], nonce+1); err != nil {
			return nil, err
		}
		addr = account.Derive(owner, nonce)

		core, err := e.space(addr, nsCore)
		if err != nil {
			return nil, err
		}
		if err := arena.PutUint64(core, keyCreated, e.now); err != nil {
			return nil, err
		}

		f := &Frame{exec: e, self: addr, caller: owner, facet: "host"}
		if err := setOwner(f, owner); err != nil {
			return nil, err
		}
		table, err := f.Space(nsSelectors)
		if err != nil {
			return nil, err
		}
		var cuts []FacetCut
		for _, bf := range builtinFacets() {
			cuts = append(cuts, FacetCut{FacetAddress: FacetAddress(bf.Name()), Action: Add, Selectors: Selectors(bf)})
		}
		if err := applyCuts(f, table, cuts); err != nil {
			return nil, err
		}
		f.Emit("DiamondCreated", AddrAttr("owner", owner))
		f.Emit("OwnershipTransferred", AddrAttr("previousOwner", account.Zero), AddrAttr("newOwner", owner))
		return nil, nil
	})
	if err != nil {
		return account.Zero, err
	}
	return addr, nil
}

// Execute runs msg as one transaction and commits it if it succeeds.
func (h *Host) Execute(ctx context.Context, msg Message) (*Receipt, error) {
	return h.transact(ctx, msg.Call.Selector.String(), msg.From, func(e *execution) (any, error) {
		return e.call(msg.From, msg.To, msg.Value, msg.Call, 0)
	}, msg.To[:], msg.Call.Selector[:], binary.BigEndian.AppendUint64(nil, msg.Value))
}

// Query runs msg read-only and returns the handler result.
func (h *Host) Query(ctx context.Context, msg Message) (any, error) {
	if msg.Value != 0 {
		return nil, ErrValueInQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	var result any
	err := h.arena.View(func(tx arena.Tx) error {
		e := h.newExecution(tx, chainhash.Hash{}, true)
		var err error
		result, err = e.call(msg.From, msg.To, 0, msg.Call, 0)
		return err
	})
	return result, err
}

// Deposit credits native value to addr. It stands in for an external funding
// source such as a faucet or a bridge.
func (h *Host) Deposit(ctx context.Context, to account.Address, amount uint64) (*Receipt, error) {
	if err := account.Validate(to); err != nil {
		return nil, err
	}
	return h.transact(ctx, "deposit", to, func(e *execution) (any, error) {
		native, err := e.space(account.Zero, nsHostNative)
		if err != nil {
			return nil, err
		}
		return nil, creditNative(native, to, amount)
	}, binary.BigEndian.AppendUint64(nil, amount))
}

// Balance returns the native balance of addr.
func (h *Host) Balance(ctx context.Context, addr account.Address) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var bal uint64
	err := h.arena.View(func(tx arena.Tx) error {
		s, err := tx.Space(account.Zero, nsHostNative)
		if err != nil {
			return err
		}
		bal, err = nativeBalance(s, addr)
		return err
	})
	return bal, err
}

// IsDiamond reports whether addr is a diamond.
func (h *Host) IsDiamond(ctx context.Context, addr account.Address) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var ok bool
	err := h.arena.View(func(tx arena.Tx) error {
		s, err := tx.Space(addr, nsCore)
		if err != nil {
			return err
		}
		ok = s.Get(keyCreated) != nil
		return nil
	})
	return ok, err
}

// Logs returns up to limit committed logs starting at offset.
func (h *Host) Logs(ctx context.Context, offset, limit uint64) ([]Log, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit == 0 || limit > arena.MaxPageSize {
		limit = arena.MaxPageSize
	}
	var out []Log
	err := h.arena.View(func(tx arena.Tx) error {
		s, err := tx.Space(account.Zero, nsHostLogs)
		if err != nil {
			return err
		}
		for i := offset; i < offset+limit; i++ {
			var l Log
			ok, err := arena.GetGob(s, arena.U64Key(i), &l)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			out = append(out, l)
		}
		return nil
	})
	return out, err
}

func (h *Host) newExecution(tx arena.Tx, txID chainhash.Hash, readOnly bool) *execution {
	return &execution{
		host:     h,
		tx:       tx,
		txID:     txID,
		now:      uint64(h.clock.Now().Unix()),
		logger:   h.logger,
		spaces:   make(map[string]*journaledSpace),
		readOnly: readOnly,
	}
}

// Update runs fn in an arena update serialized with every transaction. It is
// for host-side records that live outside any diamond, such as a deployment
// record. No logs are produced and no transaction ID is consumed.
func (h *Host) Update(ctx context.Context, fn func(arena.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.arena.Update(fn)
}

// transact runs fn in one serialized arena update, persists its logs, and
// notifies subscribers after commit. ctx is honoured only before the
// transaction starts.
func (h *Host) transact(ctx context.Context, op string, from account.Address, fn func(*execution) (any, error), salt ...[]byte) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	var receipt *Receipt
	err := h.arena.Update(func(tx arena.Tx) error {
		e := h.newExecution(tx, chainhash.Hash{}, false)

		meta, err := e.space(account.Zero, nsHostMeta)
		if err != nil {
			return err
		}
		seq, err := arena.GetUint64(meta, keySeq)
		if err != nil {
			return err
		}
		if err := arena.PutUint64(meta, keySeq, seq+1); err != nil {
			return err
		}
		e.txID = transactionID(seq, e.now, from, salt...)

		result, err := fn(e)
		if err != nil {
			return err
		}

		if err := h.persistLogs(e, meta); err != nil {
			return err
		}
		receipt = &Receipt{TxID: e.txID, Result: result, Logs: e.logs, Timestamp: e.now}
		return nil
	})
	if err != nil {
		transactionsTotal.WithLabelValues("reverted").Inc()
		h.logger.Warn("transaction reverted", zap.String("op", op), zap.Stringer("from", from), zap.Error(err))
		return nil, err
	}

	transactionsTotal.WithLabelValues("committed").Inc()
	h.logger.Info("transaction committed",
		zap.String("op", op),
		zap.Stringer("from", from),
		zap.String("txid", receipt.TxID.String()),
		zap.Int("logs", len(receipt.Logs)))
	for _, l := range receipt.Logs {
		observeLog(l)
		for _, sub := range h.subscribers {
			sub(l)
		}
	}
	return receipt, nil
}

// persistLogs appends the transaction's logs to the host journal.
func (h *Host) persistLogs(e *execution, meta arena.Space) error {
	if len(e.logs) == 0 {
		return nil
	}
	logs, err := e.space(account.Zero, nsHostLogs)
	if err != nil {
		return err
	}
	n, err := arena.GetUint64(meta, keyLogCount)
	if err != nil {
		return err
	}
	for i := range e.logs {
		e.logs[i].Index = n
		if err := arena.PutGob(logs, arena.U64Key(n), e.logs[i]); err != nil {
			return err
		}
		n++
	}
	return arena.PutUint64(meta, keyLogCount, n)
}

// transactionID is DoubleSHA256(seq || time || from || salt...).
func transactionID(seq, now uint64, from account.Address, salt ...[]byte) chainhash.Hash {
	buf := binary.BigEndian.AppendUint64(nil, seq)
	buf = binary.BigEndian.AppendUint64(buf, now)
	buf = append(buf, from[:]...)
	for _, s := range salt {
		buf = append(buf, s...)
	}
	return chainhash.DoubleHashH(buf)
}
