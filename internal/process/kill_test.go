package process

import (
	"errors"
	"testing"
)

func TestKillProcessGroup_RejectsNonPositivePID(t *testing.T) {
	t.Parallel()

	// 0 and negative pids would signal the test's own group.
	for _, pid := range []int{0, -1} {
		if err := KillProcessGroup(pid); !errors.Is(err, ErrInvalidPID) {
			t.Errorf("KillProcessGroup(%d) = %v, want ErrInvalidPID", pid, err)
		}
	}
}

func TestKillProcessGroup_MissingProcess(t *testing.T) {
	t.Parallel()

	// Must not panic; on unix an absent group is not an error.
	_ = KillProcessGroup(999999999)
}
