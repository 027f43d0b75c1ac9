// Package progress computes pick/pack completion figures for orders. These
// helpers feed UI progress displays; correctness checks live in the order
// lifecycle service and the repository's guarded updates.
package progress

import (
	"github.com/angelmondragon/pickpackz-backend/pkg/db/models"
)

// RemainingToPick returns how many units may still be picked on the line.
func RemainingToPick(line models.OrderLine) int {
	remaining := line.OrderedQty - line.PickedQty
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingToPack returns how many picked units have not been packed yet.
func RemainingToPack(line models.OrderLine) int {
	remaining := line.PickedQty - line.PackedQty
	if remaining < 0 {
		return 0
	}
	return remaining
}

// LineFullyPicked reports whether the line reached its ordered quantity.
func LineFullyPicked(line models.OrderLine) bool {
	return line.PickedQty >= line.OrderedQty
}

// LineFullyPacked reports whether every picked unit has been packed.
func LineFullyPacked(line models.OrderLine) bool {
	return line.PackedQty >= line.PickedQty
}

// OrderFullyPicked reports whether all lines reached their ordered quantity.
func OrderFullyPicked(lines []models.OrderLine) bool {
	for _, line := range lines {
		if !LineFullyPicked(line) {
			return false
		}
	}
	return true
}

// OrderFullyPacked reports whether all picked units across lines are packed.
func OrderFullyPacked(lines []models.OrderLine) bool {
	for _, line := range lines {
		if !LineFullyPacked(line) {
			return false
		}
	}
	return true
}

// OrderPercent returns completed units over total ordered units as 0-100.
// Packed units count once; a unit that is picked but not packed counts as
// half done so the bar moves during both phases.
func OrderPercent(lines []models.OrderLine) int {
	totalOrdered := 0
	progressUnits := 0.0
	for _, line := range lines {
		totalOrdered += line.OrderedQty
		picked := line.PickedQty
		if picked > line.OrderedQty {
			picked = line.OrderedQty
		}
		packed := line.PackedQty
		if packed > picked {
			packed = picked
		}
		progressUnits += float64(packed) + float64(picked-packed)*0.5
	}
	if totalOrdered == 0 {
		return 0
	}
	percent := int(progressUnits / float64(totalOrdered) * 100)
	if percent > 100 {
		percent = 100
	}
	return percent
}
