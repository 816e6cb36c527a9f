package concurrency

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestEvenOdd(t *testing.T) {
	var out bytes.Buffer
	EvenOdd(&out, 10)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d:\n%s", len(lines), out.String())
	}
	got := make(map[string]bool)
	for _, line := range lines {
		got[line] = true
	}
	for i := range 10 {
		label := "Even"
		if i%2 == 1 {
			label = "Odd"
		}
		want := fmt.Sprintf("%s worker: %d", label, i)
		if !got[want] {
			t.Fatalf("missing line %q", want)
		}
	}

	// each worker prints its own numbers in ascending order
	var evens, odds []string
	for _, line := range lines {
		if strings.HasPrefix(line, "Even") {
			evens = append(evens, line)
		} else {
			odds = append(odds, line)
		}
	}
	if evens[0] != "Even worker: 0" || evens[len(evens)-1] != "Even worker: 8" {
		t.Fatalf("even worker out of order: %v", evens)
	}
	if odds[0] != "Odd worker: 1" || odds[len(odds)-1] != "Odd worker: 9" {
		t.Fatalf("odd worker out of order: %v", odds)
	}
}
