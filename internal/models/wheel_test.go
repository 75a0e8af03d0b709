// internal/models/wheel_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWheelLayout(t *testing.T) {
	assert.Len(t, AllSlices, 8)

	var points, bankrupts, extras int
	for _, s := range AllSlices {
		switch s.Kind {
		case SlicePoints:
			points++
		case SliceBankrupt:
			bankrupts++
		case SliceExtraTurn:
			extras++
		}
	}
	assert.Equal(t, 6, points)
	assert.Equal(t, 1, bankrupts)
	assert.Equal(t, 1, extras)

	// The index-to-slice mapping is part of the room contract; clients
	// only ever share the index.
	assert.Equal(t, SliceBankrupt, AllSlices[3].Kind)
	assert.Equal(t, SliceExtraTurn, AllSlices[7].Kind)
	assert.Equal(t, 100, AllSlices[0].Value)
	assert.Equal(t, 300, AllSlices[6].Value)
}

func TestSliceAtWraps(t *testing.T) {
	assert.Equal(t, AllSlices[0], SliceAt(0))
	assert.Equal(t, AllSlices[0], SliceAt(8))
	assert.Equal(t, AllSlices[3], SliceAt(11))
}

func TestSliceDisplayText(t *testing.T) {
	assert.Equal(t, "200", WheelSlice{Kind: SlicePoints, Value: 200}.DisplayText())
	assert.Equal(t, "BANKRUPT", WheelSlice{Kind: SliceBankrupt}.DisplayText())
	assert.Equal(t, "EXTRA TURN", WheelSlice{Kind: SliceExtraTurn}.DisplayText())
}
