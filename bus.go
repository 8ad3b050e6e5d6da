// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwconv

import (
	"strconv"
	"strings"
)

// BusPinName returns the name of the i-th pin of bus base:
//
//	BusPinName("a", 3) // "a[3]"
//
func BusPinName(base string, i int) string {
	return base + "[" + strconv.Itoa(i) + "]"
}

// SplitBusName splits a bus pin name into its base name and index. ok is
// false if name does not end with a bracketed decimal index.
//
//	SplitBusName("a[3]") // "a", 3, true
//	SplitBusName("a")    // "a", 0, false
//
func SplitBusName(name string) (base string, index int, ok bool) {
	if !strings.HasSuffix(name, "]") {
		return name, 0, false
	}
	i := strings.LastIndexByte(name, '[')
	if i < 0 {
		return name, 0, false
	}
	digits := name[i+1 : len(name)-1]
	if digits == "" {
		return name, 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return name, 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return name, 0, false
	}
	return name[:i], n, true
}
