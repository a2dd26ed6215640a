package opendata

import "testing"

func TestUserToURLValue(t *testing.T) {
	tests := []struct {
		name  string
		model string
		key   string
		value string
		all   []string
		want  string
	}{
		{"cf aliases to ef", "ifs", "type", "cf", nil, "ef"},
		{"pf aliases to ef", "ifs", "type", "pf", nil, "ef"},
		{"aifs-ens passes cf through", "aifs-ens", "type", "cf", nil, "cf"},
		{"em aliases to ep", "ifs", "type", "em", nil, "ep"},
		{"fcmean aliases to fc", "ifs", "type", "fcmean", nil, "fc"},
		{"mmsa aliases to mmsf", "ifs", "stream", "mmsa", nil, "mmsf"},
		{"step bucket low", "ifs", "step", "120", []string{"ep"}, "240"},
		{"step bucket high", "ifs", "step", "300", []string{"ep"}, "360"},
		{"step untouched when not sole ep type", "ifs", "step", "300", []string{"ep", "fc"}, "300"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := userToURLValue(tt.model, tt.key, tt.value, tt.all)
			if got != tt.want {
				t.Errorf("userToURLValue(%q,%q,%q,%v) = %q, want %q", tt.model, tt.key, tt.value, tt.all, got, tt.want)
			}
		})
	}
}

func TestPatchStream(t *testing.T) {
	tests := []struct {
		name   string
		infer  bool
		model  string
		stream string
		hour   string
		typ    string
		want   string
	}{
		{"oper 06 becomes scda", true, "ifs", "oper", "06", "fc", "scda"},
		{"oper 00 untouched", true, "ifs", "oper", "00", "fc", "oper"},
		{"oper ef becomes enfo", true, "ifs", "oper", "00", "ef", "enfo"},
		{"wave 18 becomes scwv", true, "ifs", "wave", "18", "fc", "scwv"},
		{"scda ep becomes enfo", true, "ifs", "oper", "06", "ep", "enfo"},
		{"inference disabled", false, "ifs", "oper", "06", "ef", "oper"},
		{"aifs-single bypasses inference", true, "aifs-single", "oper", "06", "ef", "oper"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := patchStream(tt.infer, tt.model, tt.stream, tt.hour, tt.typ)
			if got != tt.want {
				t.Errorf("patchStream(...) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatURLHourly(t *testing.T) {
	got, err := formatURL(hourlyPattern, urlFields{
		baseURL: "https://data.ecmwf.int/forecasts",
		date:    "20260729",
		hour2d:  "00",
		model:   "ifs",
		resol:   "0p25",
		stream:  "oper",
		typ:     "fc",
		step:    "240",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://data.ecmwf.int/forecasts/20260729/00z/ifs/0p25/oper/20260729000000-240h-oper-fc.grib2"
	if got != want {
		t.Errorf("formatURL hourly = %q, want %q", got, want)
	}
}

func TestFormatURLMonthly(t *testing.T) {
	got, err := formatURL(monthlyPattern, urlFields{
		baseURL: "https://data.ecmwf.int/forecasts",
		date:    "20260729",
		hour2d:  "00",
		model:   "ifs",
		resol:   "0p25",
		stream:  "mmsf",
		typ:     "fc",
		fcmonth: "1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://data.ecmwf.int/forecasts/20260729/00z/ifs/0p25/mmsf/20260729000000-1m-mmsf-fc.grib2"
	if got != want {
		t.Errorf("formatURL monthly = %q, want %q", got, want)
	}
}

func TestFix0p4Beta(t *testing.T) {
	got := fix0p4Beta("https://data.ecmwf.int/forecasts/20260729/00z/ifs/0p4-beta/oper/x.grib2", "0p4-beta")
	want := "https://data.ecmwf.int/forecasts/20260729/00z/0p4-beta/oper/x.grib2"
	if got != want {
		t.Errorf("fix0p4Beta = %q, want %q", got, want)
	}
	unchanged := fix0p4Beta("https://data.ecmwf.int/forecasts/20260729/00z/ifs/0p25/oper/x.grib2", "0p25")
	if unchanged != "https://data.ecmwf.int/forecasts/20260729/00z/ifs/0p25/oper/x.grib2" {
		t.Errorf("fix0p4Beta should be a no-op for other resolutions, got %q", unchanged)
	}
}
