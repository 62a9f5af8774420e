package zone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanNameRelativeAppendsOrigin(t *testing.T) {
	origin, err := scanName([]byte("example.com."), rootName)
	require.NoError(t, err)

	name, err := scanName([]byte("www"), origin)
	require.NoError(t, err)

	want, err := scanName([]byte("www.example.com."), rootName)
	require.NoError(t, err)
	require.Equal(t, want.Octets, name.Octets)
}

func TestScanNameAbsoluteIgnoresOrigin(t *testing.T) {
	origin, err := scanName([]byte("example.com."), rootName)
	require.NoError(t, err)

	name, err := scanName([]byte("other.net."), origin)
	require.NoError(t, err)

	want, err := scanName([]byte("other.net."), rootName)
	require.NoError(t, err)
	require.Equal(t, want.Octets, name.Octets)
}

func TestScanNameDecimalEscape(t *testing.T) {
	// \046 is a literal '.' that must not split the label.
	name, err := scanName([]byte(`a\046b.example.com.`), rootName)
	require.NoError(t, err)

	want, err := scanName([]byte("example.com."), rootName)
	require.NoError(t, err)
	// First label is "a.b" (4 octets: length byte + 3 chars).
	require.Equal(t, byte(3), name.Octets[0])
	require.Equal(t, "a.b", string(name.Octets[1:4]))
	require.Equal(t, want.Octets, name.Octets[4:])
}

func TestScanNameCharacterEscape(t *testing.T) {
	name, err := scanName([]byte(`a\.b.`), rootName)
	require.NoError(t, err)
	require.Equal(t, byte(3), name.Octets[0])
	require.Equal(t, "a.b", string(name.Octets[1:4]))
	require.Equal(t, byte(0), name.Octets[4])
}

func TestScanNameRoot(t *testing.T) {
	name, err := scanName([]byte("."), rootName)
	require.NoError(t, err)
	require.Equal(t, []byte{0}, name.Octets)
}

func TestScanNameLabelTooLongIsError(t *testing.T) {
	long := make([]byte, maxLabelLen+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err := scanName(long, rootName)
	require.Error(t, err)
}

func TestScanNameTrailingBackslashIsError(t *testing.T) {
	_, err := scanName([]byte(`a\`), rootName)
	require.Error(t, err)
}

func TestScanNameBadDecimalEscapeIsError(t *testing.T) {
	_, err := scanName([]byte(`a\999b`), rootName)
	require.Error(t, err)
}
