package item

import "testing"

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses() {
		got, err := ParseStatus(string(s))
		if err != nil {
			t.Errorf("ParseStatus(%q): %v", s, err)
		}
		if got != s {
			t.Errorf("ParseStatus(%q) = %q", s, got)
		}
	}

	for _, bad := range []string{"", "Created", "lost", "returned"} {
		if _, err := ParseStatus(bad); err == nil {
			t.Errorf("ParseStatus(%q): expected error", bad)
		}
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    ID
		wantErr bool
	}{
		{"1", 1, false},
		{"18446744073709551615", ID(^uint64(0)), false},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err: got %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
			if !tt.wantErr && got.String() != tt.in {
				t.Errorf("String: got %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := &Item{ID: 1, Name: "Widget", Price: 100, Quantity: 50, Status: StatusCreated}
	c := orig.Clone()
	c.Quantity = 1
	c.Status = StatusCanceled

	if orig.Quantity != 50 || orig.Status != StatusCreated {
		t.Errorf("mutating the clone changed the original: %+v", orig)
	}
	if (*Item)(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestSortKeyOrdersNumerically(t *testing.T) {
	ids := []ID{0, 9, 10, 99, 1 << 40, 1<<63 - 1, 1 << 63, ^ID(0)}
	for k := 1; k < len(ids); k++ {
		if ids[k-1].SortKey() >= ids[k].SortKey() {
			t.Errorf("SortKey(%d) >= SortKey(%d)", ids[k-1], ids[k])
		}
	}
	for _, want := range ids {
		got, err := ParseID(want.SortKey())
		if err != nil || got != want {
			t.Errorf("ParseID(%q) = %d, %v", want.SortKey(), got, err)
		}
	}
}
