package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafeText(t *testing.T) {
	assert.Equal(t, "a b c", SafeText("  a\n\tb   c \r"))
	assert.Equal(t, "ok", SafeText("o\xffk"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd...", Truncate("abcdefghij", 7))
	assert.Equal(t, "₹₹", Truncate("₹₹₹₹", 2))
	assert.Equal(t, "unchanged", Truncate("unchanged", 0))
}

func TestToPointer(t *testing.T) {
	p := ToPointer(1.5)
	assert.Equal(t, 1.5, *p)
}

func TestTimeNowIST(t *testing.T) {
	_, offset := TimeNowIST().Zone()
	assert.Equal(t, 5*60*60+30*60, offset)
}

func TestGetISTTimeLocation(t *testing.T) {
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, GetISTTimeLocation()).Zone()
	assert.Equal(t, 5*60*60+30*60, offset)
}
