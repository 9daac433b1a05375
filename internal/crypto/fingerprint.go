// Package crypto derives the identifiers counterparties exchange to confirm
// they computed the same CET plan.
package crypto

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/alanyoungcy/dlcplan/internal/domain"
)

// encodingVersion prefixes the canonical encoding. Bump it whenever the
// layout below changes.
const encodingVersion = 1

// planNamespace is the UUIDv5 namespace of plan IDs.
var planNamespace = uuid.MustParse("5f0c1d7e-3b8a-4c21-9e64-a1d2b7f04c93")

// Fingerprint returns the blake2b-256 digest of the canonical encoding of p.
// The encoding covers the oracle parameters, the collateral, and every range
// and prefix in order. ID and Fingerprint fields are not part of it.
func Fingerprint(p *domain.CETPlan) [32]byte {
	return blake2b.Sum256(encode(p))
}

// PlanID derives a stable UUID from a fingerprint.
func PlanID(fingerprint [32]byte) uuid.UUID {
	return uuid.NewSHA1(planNamespace, fingerprint[:])
}

// Stamp sets p.Fingerprint and p.ID.
func Stamp(p *domain.CETPlan) {
	fp := Fingerprint(p)
	p.Fingerprint = hex.EncodeToString(fp[:])
	p.ID = PlanID(fp).String()
}

// encode writes every field as a big-endian uint64, each list preceded by its
// length.
func encode(p *domain.CETPlan) []byte {
	size := 5
	for _, o := range p.Outcomes {
		size += 4
		for _, pre := range o.Prefixes {
			size += 1 + len(pre)
		}
	}

	buf := make([]byte, 0, size*8)
	buf = binary.BigEndian.AppendUint64(buf, encodingVersion)
	buf = binary.BigEndian.AppendUint64(buf, uint64(p.Base))
	buf = binary.BigEndian.AppendUint64(buf, uint64(p.NumDigits))
	buf = binary.BigEndian.AppendUint64(buf, p.TotalCollateral)
	buf = binary.BigEndian.AppendUint64(buf, uint64(len(p.Outcomes)))
	for _, o := range p.Outcomes {
		buf = binary.BigEndian.AppendUint64(buf, o.Range.From)
		buf = binary.BigEndian.AppendUint64(buf, o.Range.To)
		buf = binary.BigEndian.AppendUint64(buf, o.Range.Payout)
		buf = binary.BigEndian.AppendUint64(buf, uint64(len(o.Prefixes)))
		for _, pre := range o.Prefixes {
			buf = binary.BigEndian.AppendUint64(buf, uint64(len(pre)))
			for _, d := range pre {
				buf = binary.BigEndian.AppendUint64(buf, uint64(d))
			}
		}
	}
	return buf
}
