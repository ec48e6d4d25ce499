package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	origVersion, origDirty := Version, Dirty
	defer func() { Version, Dirty = origVersion, origDirty }()

	Version, Dirty = "1.2.3", "false"
	if got := String(); got != "1.2.3" {
		t.Errorf("String() = %q, want 1.2.3", got)
	}

	Dirty = "true"
	if got := String(); got != "1.2.3-dirty" {
		t.Errorf("String() = %q, want 1.2.3-dirty", got)
	}
}

func TestFull(t *testing.T) {
	out := Full()
	for _, want := range []string{"galleryfetch", "Commit:", "Go version:", "OS/Arch:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Full() missing %q:\n%s", want, out)
		}
	}
}
