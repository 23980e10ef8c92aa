package roster

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/bitfsorg/tiershare/revshare"
)

// collationTag selects the name ordering rules.
var collationTag = language.English

// SortByName orders contributors by name using locale-aware collation,
// breaking ties by id so the order is stable across stores.
func SortByName(cs []revshare.Contributor) {
	// Collators keep internal buffers and are not safe to share.
	col := collate.New(collationTag)
	sort.SliceStable(cs, func(i, j int) bool {
		if c := col.CompareString(cs[i].Name, cs[j].Name); c != 0 {
			return c < 0
		}
		return cs[i].ID < cs[j].ID
	})
}

// SortMembersByName orders frozen member payouts the same way.
func SortMembersByName(ms []revshare.MemberPayout) {
	col := collate.New(collationTag)
	sort.SliceStable(ms, func(i, j int) bool {
		if c := col.CompareString(ms[i].Name, ms[j].Name); c != 0 {
			return c < 0
		}
		return ms[i].MemberID < ms[j].MemberID
	})
}
