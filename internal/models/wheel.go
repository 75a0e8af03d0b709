// internal/models/wheel.go
package models

import "strconv"

// SliceKind discriminates the three wheel outcomes.
type SliceKind int

const (
	SlicePoints SliceKind = iota
	SliceBankrupt
	SliceExtraTurn
)

// WheelSlice is one of the 8 fixed outcomes on the wheel. Value is only
// meaningful for SlicePoints.
type WheelSlice struct {
	Kind  SliceKind
	Value int
}

// AllSlices is the fixed wheel layout: 2x100, 2x200, 2x300, 1 Bankrupt,
// 1 Extra Turn. The order is part of the room contract because only the
// slice index is shared between clients.
var AllSlices = []WheelSlice{
	{Kind: SlicePoints, Value: 100},
	{Kind: SlicePoints, Value: 200},
	{Kind: SlicePoints, Value: 300},
	{Kind: SliceBankrupt},
	{Kind: SlicePoints, Value: 100},
	{Kind: SlicePoints, Value: 200},
	{Kind: SlicePoints, Value: 300},
	{Kind: SliceExtraTurn},
}

// SliceAt returns the slice at a wheel index, wrapping modulo the wheel size.
func SliceAt(index int) WheelSlice {
	if index < 0 {
		index = -index
	}
	return AllSlices[index%len(AllSlices)]
}

// DisplayText renders the slice label shown on the wheel.
func (s WheelSlice) DisplayText() string {
	switch s.Kind {
	case SlicePoints:
		return strconv.Itoa(s.Value)
	case SliceBankrupt:
		return "BANKRUPT"
	case SliceExtraTurn:
		return "EXTRA TURN"
	}
	return ""
}
