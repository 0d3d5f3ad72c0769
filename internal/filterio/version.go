// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filterio

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// versionRe matches a dotted pandoc version number like 1.17.0.2 or 3.1.
var versionRe = regexp.MustCompile(`^\d+(?:\.\d+)+$`)

// prober abstracts command execution so version detection is testable
// without a pandoc binary.
type prober interface {
	Output(name string, args ...string) ([]byte, error)
}

// osProber is the production prober backed by os/exec.
type osProber struct{}

func (osProber) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

var defaultProber prober = osProber{}

// Version identifies the pandoc release driving the filter. Element shapes
// in the JSON changed across releases, so passes that rebuild elements need
// to know which side of a boundary they are on.
type Version string

// DetectVersion asks the pandoc binary for its version. An explicit
// non-empty override skips the probe; it must still look like a version
// number.
func DetectVersion(override string) (Version, error) {
	return detectVersion(override, defaultProber)
}

func detectVersion(override string, p prober) (Version, error) {
	if override != "" {
		if !versionRe.MatchString(override) {
			return "", fmt.Errorf("cannot understand pandoc version %q", override)
		}
		return Version(override), nil
	}

	out, err := p.Output("pandoc", "-v")
	if err != nil {
		return "", fmt.Errorf("probing pandoc version: %w", err)
	}
	line, _, _ := strings.Cut(string(out), "\n")
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", fmt.Errorf("cannot determine pandoc version from %q", line)
	}
	v := fields[len(fields)-1]
	if !versionRe.MatchString(v) {
		return "", fmt.Errorf("cannot determine pandoc version from %q", line)
	}
	return Version(v), nil
}

// AtLeast reports whether the version is min or newer, comparing dotted
// components numerically.
func (v Version) AtLeast(min string) bool {
	have := splitVersion(string(v))
	want := splitVersion(min)
	for i := 0; i < len(have) || i < len(want); i++ {
		h, w := 0, 0
		if i < len(have) {
			h = have[i]
		}
		if i < len(want) {
			w = want[i]
		}
		if h != w {
			return h > w
		}
	}
	return true
}

// LinkHasAttr reports whether Link elements carry an attribute triple,
// introduced in pandoc 1.16.
func (v Version) LinkHasAttr() bool {
	return v.AtLeast("1.16")
}

func splitVersion(s string) []int {
	parts := strings.Split(s, ".")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			break
		}
		out = append(out, n)
	}
	return out
}
