package sale

import (
	"github.com/bitfsorg/libissuance-go/account"
	"github.com/bitfsorg/libissuance-go/arena"
	"github.com/bitfsorg/libissuance-go/diamond"
)

const prefixInvestors = "inv/"

// InvestorRecord aggregates one participant's activity. Records are created
// on first activity and never deleted.
type InvestorRecord struct {
	Address                account.Address
	TotalBondInvestment    uint64
	TotalWarrantInvestment uint64
	BondRedemptions        uint64
	WarrantsExercised      uint64
	HasBonds               bool
	HasWarrants            bool
	FirstActivity          uint64
	LastActivity           uint64
}

func recordKey(a account.Address) []byte { return arena.Key("rec/", a[:]) }

func (st *state) investors() *arena.Set { return arena.NewSet(st.s, prefixInvestors) }

// record returns the investor's record, zero-valued if unknown.
func (st *state) record(a account.Address) (InvestorRecord, error) {
	rec := InvestorRecord{Address: a}
	if _, err := arena.GetGob(st.s, recordKey(a), &rec); err != nil {
		return InvestorRecord{}, err
	}
	return rec, nil
}

// touch registers a on first sight, applies fn to its record and stamps the
// activity time.
func (st *state) touch(a account.Address, fn func(*InvestorRecord) error) error {
	added, err := st.investors().Add(a)
	if err != nil {
		return err
	}
	rec, err := st.record(a)
	if err != nil {
		return err
	}
	now := st.f.Now()
	if added {
		rec.FirstActivity = now
		st.f.Emit("InvestorRegistered", diamond.AddrAttr("investor", a))
	}
	if err := fn(&rec); err != nil {
		return err
	}
	rec.LastActivity = now
	return arena.PutGob(st.s, recordKey(a), rec)
}
