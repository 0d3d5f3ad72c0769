// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filterio

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProber returns canned pandoc -v output.
type fakeProber struct {
	out string
	err error
}

func (f fakeProber) Output(name string, args ...string) ([]byte, error) {
	return []byte(f.out), f.err
}

func TestDetectVersionFromProbe(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    Version
		wantErr bool
	}{
		{
			name: "current release",
			out:  "pandoc 3.1.11\nFeatures: +server +lua\n",
			want: "3.1.11",
		},
		{
			name: "old release with extra words",
			out:  "pandoc.exe 1.17.0.2\n",
			want: "1.17.0.2",
		},
		{
			name:    "empty output",
			out:     "",
			wantErr: true,
		},
		{
			name:    "no version on first line",
			out:     "pandoc development build\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := detectVersion("", fakeProber{out: tt.out})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestDetectVersionProbeFailure(t *testing.T) {
	_, err := detectVersion("", fakeProber{err: fmt.Errorf("exec: pandoc not found")})
	assert.Error(t, err)
}

func TestDetectVersionOverride(t *testing.T) {
	// An override never touches the prober.
	v, err := detectVersion("2.19.2", fakeProber{err: fmt.Errorf("should not be called")})
	require.NoError(t, err)
	assert.Equal(t, Version("2.19.2"), v)

	_, err = detectVersion("latest", fakeProber{})
	assert.Error(t, err)
}

func TestVersionAtLeast(t *testing.T) {
	tests := []struct {
		have string
		min  string
		want bool
	}{
		{"1.16", "1.16", true},
		{"1.16.0.2", "1.16", true},
		{"1.15.2", "1.16", false},
		{"2.0", "1.16", true},
		{"1.16", "1.16.0.1", false},
		{"3.1.11", "2.19", true},
	}

	for _, tt := range tests {
		t.Run(tt.have+" vs "+tt.min, func(t *testing.T) {
			assert.Equal(t, tt.want, Version(tt.have).AtLeast(tt.min))
		})
	}
}

func TestLinkHasAttr(t *testing.T) {
	assert.False(t, Version("1.15.2").LinkHasAttr())
	assert.True(t, Version("1.16").LinkHasAttr())
	assert.True(t, Version("3.1.11").LinkHasAttr())
}
