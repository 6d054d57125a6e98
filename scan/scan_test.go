package scan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/djschnei21/btcseek/wallet"
)

func testMaster(t *testing.T) *wallet.Key {
	t.Helper()
	master, err := wallet.NewMaster(wallet.DeriveSeed("flame property favorite scheme guilt proud remove device room coach matter mind"))
	require.NoError(t, err)
	return master
}

// targetAt derives the address sitting at the given ordinal so tests can
// plant a reachable target anywhere in the space.
func targetAt(t *testing.T, master *wallet.Key, ordinal int) (wallet.Address, Path) {
	t.Helper()
	cursor := NewCursor()
	for {
		ord, path, ok := cursor.Next()
		require.True(t, ok, "ordinal %d outside the space", ordinal)
		if ord != ordinal {
			continue
		}
		node, err := master.DerivePath(path)
		require.NoError(t, err)
		return node.Address(), path
	}
}

// unreachableTarget builds a syntactically valid address that no
// candidate can produce.
func unreachableTarget() wallet.Address {
	return wallet.NewAddress([]byte("not a point on any curve"))
}

func TestScanFindsPlantedTarget(t *testing.T) {
	master := testMaster(t)

	testCases := []struct {
		name    string
		ordinal int
	}{
		{"first candidate", 0},
		{"inside first account block", 27},
		{"bip49 family", 900},
		{"bip84 family", 1700},
		{"legacy family", 2410},
		{"last candidate", 2439},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			target, wantPath := targetAt(t, master, tc.ordinal)

			scanner := &Scanner{}
			result, err := scanner.Scan(master, target)
			require.NoError(t, err)
			require.True(t, result.Found)
			require.Equal(t, wantPath, result.Path)

			// Sequential scans must not look past the match.
			require.Equal(t, tc.ordinal+1, result.Checked)
		})
	}
}

func TestScanExhaustsUnreachableTarget(t *testing.T) {
	master := testMaster(t)

	scanner := &Scanner{}
	result, err := scanner.Scan(master, unreachableTarget())
	require.NoError(t, err)
	require.False(t, result.Found)
	require.Equal(t, SpaceSize(), result.Checked)
}

func TestScanShardedMatchesSequential(t *testing.T) {
	master := testMaster(t)

	t.Run("found", func(t *testing.T) {
		// Plant a target mid-space and scan with several worker counts;
		// every configuration must report the same path.
		target, wantPath := targetAt(t, master, 1234)

		for _, workers := range []int{1, 2, 8, 61} {
			scanner := &Scanner{Workers: workers}
			result, err := scanner.Scan(master, target)
			require.NoError(t, err, "workers=%d", workers)
			require.True(t, result.Found, "workers=%d", workers)
			require.Equal(t, wantPath, result.Path, "workers=%d", workers)
		}
	})

	t.Run("exhausted", func(t *testing.T) {
		scanner := &Scanner{Workers: 8}
		result, err := scanner.Scan(master, unreachableTarget())
		require.NoError(t, err)
		require.False(t, result.Found)
		require.Equal(t, SpaceSize(), result.Checked)
	})
}

func TestScanLegacyAsymmetry(t *testing.T) {
	// The legacy family derives change/index directly under the master,
	// so a target planted at m/1/7 must be found with a two-step path.
	master := testMaster(t)

	node, err := master.DerivePath([]uint32{1, 7})
	require.NoError(t, err)

	scanner := &Scanner{}
	result, err := scanner.Scan(master, node.Address())
	require.NoError(t, err)
	require.True(t, result.Found)
	require.Equal(t, "m/1/7", result.Path.String())
	require.Len(t, result.Path, 2)
}

func TestScanDeterminism(t *testing.T) {
	master := testMaster(t)
	target, _ := targetAt(t, master, 345)

	scanner := &Scanner{}
	first, err := scanner.Scan(master, target)
	require.NoError(t, err)
	second, err := scanner.Scan(master, target)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
