package model

import "testing"

func TestMany_EmptyIsAbsent(t *testing.T) {
	t.Parallel()

	for _, in := range [][]Record{nil, {}} {
		got := Many(in)
		if !got.IsAbsent() || got.Kind() != KindAbsent {
			t.Fatalf("Many(%#v): expected Absent, got %v", in, got.Kind())
		}
		if got.Len() != 0 || got.Records() != nil {
			t.Fatalf("Many(%#v): expected no records", in)
		}
	}
}

func TestMany_CopiesInput(t *testing.T) {
	t.Parallel()

	in := []Record{{ID: 3}, {ID: 1}}
	got := Many(in)
	in[0].ID = 99
	recs := got.Records()
	if recs[0].ID != 3 || recs[1].ID != 1 {
		t.Fatalf("expected input order and values, got %+v", recs)
	}
	recs[1].ID = 42
	if r := got.Records(); r[1].ID != 1 {
		t.Fatalf("Records must return a copy")
	}
}

func TestOne(t *testing.T) {
	t.Parallel()

	got := One(Record{ID: 5, Entry: Entry{Name: "Anna"}})
	if got.Kind() != KindSingle || got.Len() != 1 {
		t.Fatalf("unexpected result: %v len=%d", got.Kind(), got.Len())
	}
	r, ok := got.First()
	if !ok || r.ID != 5 || r.Name != "Anna" {
		t.Fatalf("unexpected first record: %+v ok=%v", r, ok)
	}
	if _, ok := Absent().First(); ok {
		t.Fatalf("Absent has no first record")
	}
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	for _, c := range Categories {
		got, err := ParseCategory(" " + c.String() + " ")
		if err != nil || got != c {
			t.Fatalf("ParseCategory(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseCategory("edit"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
	if Category(7).Valid() {
		t.Fatalf("Category(7) must be invalid")
	}
}
