package contract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load decodes the contract at path. Unknown keys are rejected so a typo in a
// coefficient name cannot silently default it to zero. The result has not
// been validated.
func Load(path string) (*Descriptor, error) {
	var d Descriptor
	md, err := toml.DecodeFile(path, &d)
	if err != nil {
		return nil, fmt.Errorf("contract: decode %s: %w", path, err)
	}
	if err := rejectUndecoded(md); err != nil {
		return nil, fmt.Errorf("contract: %s: %w", path, err)
	}
	return &d, nil
}

// Parse decodes a contract from TOML text.
func Parse(text string) (*Descriptor, error) {
	var d Descriptor
	md, err := toml.Decode(text, &d)
	if err != nil {
		return nil, fmt.Errorf("contract: decode: %w", err)
	}
	if err := rejectUndecoded(md); err != nil {
		return nil, fmt.Errorf("contract: %w", err)
	}
	return &d, nil
}

func rejectUndecoded(md toml.MetaData) error {
	var keys []string
	for _, k := range md.Undecoded() {
		if isCoefficientField(k) {
			continue
		}
		keys = append(keys, k.String())
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)
	return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
}

var coefficientNames = map[string]bool{
	"translate_outcome": true,
	"translate_payout":  true,
	"a":                 true,
	"b":                 true,
	"c":                 true,
	"d":                 true,
}

// isCoefficientField reports whether k names a field of a wire coefficient
// table, which Number.UnmarshalTOML consumes and validates itself.
func isCoefficientField(k toml.Key) bool {
	return len(k) >= 2 && coefficientNames[k[len(k)-2]]
}
