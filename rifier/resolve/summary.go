// Copyright 2026 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resolve

import (
	"fmt"
	"io"
	"math/big"
	"net/netip"
	"strings"

	"github.com/fatih/color"
	"go4.org/netipx"

	"github.com/rifier/rifier/pkg/registry"
)

// Summary describes the address space covered by a prefix-list.
type Summary struct {
	// IPv4 is the smallest set of prefixes covering the same IPv4 addresses.
	IPv4 []string `json:"ipv4" yaml:"ipv4"`
	// IPv6 is the smallest set of prefixes covering the same IPv6 addresses.
	IPv6 []string `json:"ipv6" yaml:"ipv6"`
	// IPv4Addresses is the number of covered IPv4 addresses.
	IPv4Addresses uint64 `json:"ipv4_addresses" yaml:"ipv4_addresses"`
	// IPv6Slash48s is the number of covered /48 networks, rounded down.
	IPv6Slash48s string `json:"ipv6_slash48s" yaml:"ipv6_slash48s"`
	// Invalid are the prefixes that could not be parsed. The registry does
	// not guarantee well formed values.
	Invalid []string `json:"invalid,omitempty" yaml:"invalid,omitempty"`
	// NotMasked are the prefixes with host bits set.
	NotMasked []string `json:"not_masked,omitempty" yaml:"not_masked,omitempty"`
}

// Summarize aggregates the prefixes.
func Summarize(prefixes []registry.Prefix) Summary {
	var s Summary
	var v4, v6 netipx.IPSetBuilder
	for _, raw := range prefixes {
		p, err := netip.ParsePrefix(string(raw))
		if err != nil {
			s.Invalid = append(s.Invalid, string(raw))
			continue
		}
		if m := p.Masked(); m != p {
			s.NotMasked = append(s.NotMasked, string(raw))
			p = m
		}
		if p.Addr().Is4() {
			v4.AddPrefix(p)
		} else {
			v6.AddPrefix(p)
		}
	}
	// The builders only fail for invalid prefixes, which are filtered above.
	set4, _ := v4.IPSet()
	set6, _ := v6.IPSet()

	s.IPv4 = []string{}
	for _, p := range set4.Prefixes() {
		s.IPv4 = append(s.IPv4, p.String())
		s.IPv4Addresses += 1 << (32 - p.Bits())
	}
	s.IPv6 = []string{}
	slash48s := new(big.Int)
	for _, p := range set6.Prefixes() {
		s.IPv6 = append(s.IPv6, p.String())
		if p.Bits() <= 48 {
			slash48s.Add(slash48s, new(big.Int).Lsh(big.NewInt(1), uint(48-p.Bits())))
		}
	}
	s.IPv6Slash48s = slash48s.String()
	return s
}

func (s Summary) human(w io.Writer, keys *color.Color) {
	fmt.Fprintf(w, "%s %d IPv4 addresses in %d aggregates", keys.Sprint("Summary:"),
		s.IPv4Addresses, len(s.IPv4))
	if len(s.IPv6) > 0 {
		fmt.Fprintf(w, ", %s IPv6 /48s in %d aggregates", s.IPv6Slash48s, len(s.IPv6))
	}
	fmt.Fprintln(w)
	for _, p := range append(append([]string{}, s.IPv4...), s.IPv6...) {
		fmt.Fprintf(w, "  %s\n", p)
	}
	if len(s.NotMasked) > 0 {
		fmt.Fprintf(w, "%s %s\n", keys.Sprint("Host bits set:"), strings.Join(s.NotMasked, " "))
	}
	if len(s.Invalid) > 0 {
		fmt.Fprintf(w, "%s %s\n", keys.Sprint("Invalid:"), strings.Join(s.Invalid, " "))
	}
}
