package progress

import (
	"testing"

	"github.com/angelmondragon/pickpackz-backend/pkg/db/models"
)

func line(ordered, picked, packed int) models.OrderLine {
	return models.OrderLine{OrderedQty: ordered, PickedQty: picked, PackedQty: packed}
}

func TestRemainingQuantities(t *testing.T) {
	l := line(10, 4, 2)

	if got := RemainingToPick(l); got != 6 {
		t.Fatalf("expected remaining to pick 6, got %d", got)
	}
	if got := RemainingToPack(l); got != 2 {
		t.Fatalf("expected remaining to pack 2, got %d", got)
	}

	over := line(5, 7, 9)
	if got := RemainingToPick(over); got != 0 {
		t.Fatalf("expected clamped remaining to pick 0, got %d", got)
	}
	if got := RemainingToPack(over); got != 0 {
		t.Fatalf("expected clamped remaining to pack 0, got %d", got)
	}
}

func TestLineCompletion(t *testing.T) {
	if LineFullyPicked(line(3, 2, 0)) {
		t.Fatal("line with remaining units should not be fully picked")
	}
	if !LineFullyPicked(line(3, 3, 0)) {
		t.Fatal("line at ordered quantity should be fully picked")
	}
	if LineFullyPacked(line(3, 3, 2)) {
		t.Fatal("line with unpacked picks should not be fully packed")
	}
	if !LineFullyPacked(line(3, 3, 3)) {
		t.Fatal("line with all picks packed should be fully packed")
	}
}

func TestOrderCompletion(t *testing.T) {
	lines := []models.OrderLine{line(2, 2, 2), line(4, 4, 1)}

	if !OrderFullyPicked(lines) {
		t.Fatal("expected order fully picked")
	}
	if OrderFullyPacked(lines) {
		t.Fatal("expected order not fully packed")
	}

	lines[1].PackedQty = 4
	if !OrderFullyPacked(lines) {
		t.Fatal("expected order fully packed")
	}
}

func TestOrderPercent(t *testing.T) {
	cases := []struct {
		name  string
		lines []models.OrderLine
		want  int
	}{
		{"no lines", nil, 0},
		{"untouched", []models.OrderLine{line(4, 0, 0)}, 0},
		{"all picked none packed", []models.OrderLine{line(4, 4, 0)}, 50},
		{"all packed", []models.OrderLine{line(4, 4, 4)}, 100},
		{"half picked", []models.OrderLine{line(4, 2, 0)}, 25},
		{"mixed lines", []models.OrderLine{line(2, 2, 2), line(2, 2, 0)}, 75},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := OrderPercent(tc.lines); got != tc.want {
				t.Fatalf("expected %d%%, got %d%%", tc.want, got)
			}
		})
	}
}
