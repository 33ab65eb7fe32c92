package book

import "testing"

func TestTradeTapeWrapsAndKeepsOrder(t *testing.T) {
	tape := NewTradeTape(3)
	for i := int64(1); i <= 5; i++ {
		tape.Append(Trade{Price: PriceTicks(i), Time: i})
	}

	if got := tape.Count(); got != 3 {
		t.Fatalf("Count() = %d, want 3", got)
	}

	last := tape.Last(3)
	want := []PriceTicks{3, 4, 5}
	for i, tr := range last {
		if tr.Price != want[i] {
			t.Errorf("Last(3)[%d].Price = %d, want %d", i, tr.Price, want[i])
		}
	}

	if got := tape.Last(2); len(got) != 2 || got[1].Price != 5 {
		t.Errorf("Last(2) = %v, want the two newest trades", got)
	}
	if got := tape.Last(10); len(got) != 3 {
		t.Errorf("Last(10) returned %d trades, want 3", len(got))
	}
	if got := tape.Last(0); got != nil {
		t.Errorf("Last(0) = %v, want nil", got)
	}
}
