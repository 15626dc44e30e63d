package safeconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustUintToInt(t *testing.T) {
	t.Parallel()

	t.Run("normal_value", func(t *testing.T) {
		t.Parallel()

		got := MustUintToInt(42)
		assert.Equal(t, 42, got)
	})

	t.Run("zero", func(t *testing.T) {
		t.Parallel()

		got := MustUintToInt(0)
		assert.Equal(t, 0, got)
	})

	t.Run("max_int", func(t *testing.T) {
		t.Parallel()

		got := MustUintToInt(uint(MaxInt))
		assert.Equal(t, MaxInt, got)
	})

	t.Run("overflow_panics", func(t *testing.T) {
		t.Parallel()

		assert.PanicsWithValue(t, "safeconv: uint to int overflow", func() {
			MustUintToInt(uint(MaxInt) + 1)
		})
	})
}

func TestMustIntToUint(t *testing.T) {
	t.Parallel()

	t.Run("normal_value", func(t *testing.T) {
		t.Parallel()

		got := MustIntToUint(7)
		assert.Equal(t, uint(7), got)
	})

	t.Run("negative_panics", func(t *testing.T) {
		t.Parallel()

		assert.PanicsWithValue(t, "safeconv: negative int to uint conversion", func() {
			MustIntToUint(-1)
		})
	})
}

func TestMustUint32ToInt(t *testing.T) {
	t.Parallel()

	t.Run("normal_value", func(t *testing.T) {
		t.Parallel()

		got := MustUint32ToInt(1024)
		assert.Equal(t, 1024, got)
	})

	t.Run("zero", func(t *testing.T) {
		t.Parallel()

		got := MustUint32ToInt(0)
		assert.Equal(t, 0, got)
	})

	t.Run("max_uint32", func(t *testing.T) {
		t.Parallel()

		if uint64(MaxUint32) > uint64(MaxInt) {
			t.Skip("32-bit int platform")
		}

		got := MustUint32ToInt(MaxUint32)
		assert.Equal(t, int(MaxUint32), got)
	})
}

func TestMustIntToUint32(t *testing.T) {
	t.Parallel()

	t.Run("normal_value", func(t *testing.T) {
		t.Parallel()

		got := MustIntToUint32(1024)
		assert.Equal(t, uint32(1024), got)
	})

	t.Run("negative_panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			MustIntToUint32(-5)
		})
	})
}
