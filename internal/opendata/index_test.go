package opendata

import "testing"

func TestMergeRanges(t *testing.T) {
	tests := []struct {
		name string
		in   []byteRange
		want []byteRange
	}{
		{
			name: "adjacent merges",
			in:   []byteRange{{0, 99}, {100, 199}},
			want: []byteRange{{0, 199}},
		},
		{
			name: "overlapping merges",
			in:   []byteRange{{0, 150}, {100, 199}},
			want: []byteRange{{0, 199}},
		},
		{
			name: "disjoint stays separate",
			in:   []byteRange{{0, 99}, {200, 299}},
			want: []byteRange{{0, 99}, {200, 299}},
		},
		{
			name: "unsorted input sorts first",
			in:   []byteRange{{200, 299}, {0, 99}},
			want: []byteRange{{0, 99}, {200, 299}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeRanges(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("mergeRanges(%v) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("mergeRanges(%v)[%d] = %v, want %v", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEncodeAndSplitURLRanges(t *testing.T) {
	u := "https://data.ecmwf.int/forecasts/x.grib2"
	ranges := []byteRange{{0, 99}, {200, 299}}

	encoded := encodeRangedURL(u, ranges)
	want := "https://data.ecmwf.int/forecasts/x.grib2|0-99;200-299"
	if encoded != want {
		t.Fatalf("encodeRangedURL = %q, want %q", encoded, want)
	}

	gotURL, gotRanges, err := splitURLRanges(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotURL != u {
		t.Errorf("splitURLRanges url = %q, want %q", gotURL, u)
	}
	if len(gotRanges) != len(ranges) {
		t.Fatalf("splitURLRanges ranges = %v, want %v", gotRanges, ranges)
	}
	for i := range ranges {
		if gotRanges[i] != ranges[i] {
			t.Errorf("splitURLRanges ranges[%d] = %v, want %v", i, gotRanges[i], ranges[i])
		}
	}
}

func TestSplitURLRangesWholeFile(t *testing.T) {
	u := "https://data.ecmwf.int/forecasts/x.grib2"
	gotURL, gotRanges, err := splitURLRanges(u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotURL != u || gotRanges != nil {
		t.Errorf("splitURLRanges(%q) = (%q, %v), want (%q, nil)", u, gotURL, gotRanges, u)
	}
}

func TestDeriveIndexURL(t *testing.T) {
	got := deriveIndexURL("https://data.ecmwf.int/forecasts/x.grib2")
	want := "https://data.ecmwf.int/forecasts/x.index"
	if got != want {
		t.Errorf("deriveIndexURL = %q, want %q", got, want)
	}
}

func TestParseIndexLine(t *testing.T) {
	e, err := parseIndexLine(`{"_offset": 1024, "_length": 256, "param": "msl", "step": "0"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.offset != 1024 || e.length != 256 {
		t.Errorf("offset/length = %d/%d, want 1024/256", e.offset, e.length)
	}
	if e.fields["param"] != "msl" || e.fields["step"] != "0" {
		t.Errorf("fields = %v", e.fields)
	}
}
