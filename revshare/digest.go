package revshare

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"golang.org/x/crypto/blake2b"
)

// Digest returns the BLAKE2b-256 fingerprint of a record's committed
// content. The Digest field itself is excluded.
func Digest(r *PayoutRecord) [32]byte {
	var buf []byte
	buf = appendString(buf, r.ID)
	buf = appendString(buf, r.Date)
	buf = appendFloat(buf, r.Revenue)
	buf = appendString(buf, r.Notes)
	buf = binary.BigEndian.AppendUint64(buf, uint64(r.MainCount))
	buf = binary.BigEndian.AppendUint64(buf, uint64(r.AssistantCount))
	buf = binary.BigEndian.AppendUint64(buf, uint64(r.ThanksCount))
	buf = appendFloat(buf, r.MainShare)
	buf = appendFloat(buf, r.AssistantShare)
	buf = appendFloat(buf, r.ThanksShare)
	if r.AdjustmentApplied {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(r.Members)))
	for _, m := range r.Members {
		buf = appendString(buf, m.MemberID)
		buf = appendString(buf, m.Name)
		buf = appendString(buf, string(m.Tier))
		buf = appendFloat(buf, m.Amount)
	}
	buf = binary.BigEndian.AppendUint64(buf, uint64(r.CommittedAt.UnixNano()))
	return blake2b.Sum256(buf)
}

// DigestHex returns Digest as a lowercase hex string.
func DigestHex(r *PayoutRecord) string {
	d := Digest(r)
	return hex.EncodeToString(d[:])
}

// VerifyRecord checks the record digest. Records committed without a
// digest are accepted as-is.
func VerifyRecord(r *PayoutRecord) error {
	if r.Digest == "" {
		return nil
	}
	if want := DigestHex(r); r.Digest != want {
		return fmt.Errorf("%w: record %s", ErrDigestMismatch, r.ID)
	}
	return nil
}

// appendString writes a length-prefixed string so adjacent fields cannot
// run into each other.
func appendString(buf []byte, s string) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func appendFloat(buf []byte, f float64) []byte {
	return binary.BigEndian.AppendUint64(buf, math.Float64bits(f))
}
