// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"regexp"

	"github.com/harta55/entap/internal/entaperr"
)

var buscoVersionRe = regexp.MustCompile(`BUSCO\s+(\d+)\.(\d+)\.(\d+)`)

// ParseBuscoVersion extracts the major.minor.rev triple from the output of
// "busco --version" and rejects anything but major version 4 ("Only BUSCO
// major version 4 is supported").
func ParseBuscoVersion(output string) (major, minor, rev int, err error) {
	m := buscoVersionRe.FindStringSubmatch(output)
	if m == nil {
		return 0, 0, 0, &entaperr.ErrVersionUnsupported{Tool: "busco", Version: output}
	}
	major = atoiOrZero(m[1])
	minor = atoiOrZero(m[2])
	rev = atoiOrZero(m[3])
	if major != 4 {
		return major, minor, rev, &entaperr.ErrVersionUnsupported{Tool: "busco", Version: m[0]}
	}
	return major, minor, rev, nil
}

func atoiOrZero(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return n
		}
		n = n*10 + int(c-'0')
	}
	return n
}
