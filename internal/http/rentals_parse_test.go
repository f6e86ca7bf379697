package httpserver

import (
	"net/url"
	"strings"
	"testing"
)

func TestParseQuoteQuery(t *testing.T) {
	tests := []struct {
		name      string
		rawQuery  string
		wantIDs   []string
		wantWeeks []int
		wantErr   bool
	}{
		{
			name:      "single pair",
			rawQuery:  "movieIds=m1&weeks=2",
			wantIDs:   []string{"m1"},
			wantWeeks: []int{2},
		},
		{
			name:      "multiple pairs",
			rawQuery:  "movieIds=m1,m2,m3&weeks=1,2,3",
			wantIDs:   []string{"m1", "m2", "m3"},
			wantWeeks: []int{1, 2, 3},
		},
		{
			name:      "spaces trimmed",
			rawQuery:  "movieIds=m1,%20m2&weeks=1,%202",
			wantIDs:   []string{"m1", "m2"},
			wantWeeks: []int{1, 2},
		},
		{
			name:     "missing weeks leaves pairing to the service",
			rawQuery: "movieIds=m1,m2",
			wantIDs:  []string{"m1", "m2"},
		},
		{
			name:     "missing movieIds",
			rawQuery: "weeks=1",
			wantErr:  true,
		},
		{
			name:     "empty id in list",
			rawQuery: "movieIds=m1,,m2&weeks=1,2,3",
			wantErr:  true,
		},
		{
			name:     "non-numeric week",
			rawQuery: "movieIds=m1&weeks=two",
			wantErr:  true,
		},
		{
			name:      "negative week passes through",
			rawQuery:  "movieIds=m1&weeks=-1",
			wantIDs:   []string{"m1"},
			wantWeeks: []int{-1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.rawQuery)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			ids, weeks, err := parseQuoteQuery(query)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseQuoteQuery(%q) = %v, %v, want error", tt.rawQuery, ids, weeks)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseQuoteQuery(%q): %v", tt.rawQuery, err)
			}
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("ids = %v, want %v", ids, tt.wantIDs)
			}
			for i := range ids {
				if ids[i] != tt.wantIDs[i] {
					t.Fatalf("ids = %v, want %v", ids, tt.wantIDs)
				}
			}
			if len(weeks) != len(tt.wantWeeks) {
				t.Fatalf("weeks = %v, want %v", weeks, tt.wantWeeks)
			}
			for i := range weeks {
				if weeks[i] != tt.wantWeeks[i] {
					t.Fatalf("weeks = %v, want %v", weeks, tt.wantWeeks)
				}
			}
		})
	}
}

func FuzzParseQuoteQuery(f *testing.F) {
	f.Add("movieIds=m1&weeks=1")
	f.Add("movieIds=m1,m2&weeks=1,2")
	f.Add("movieIds=&weeks=")
	f.Add("movieIds=,,&weeks=0,0")
	f.Add("weeks=9999999999999999999")

	f.Fuzz(func(t *testing.T, rawQuery string) {
		query, err := url.ParseQuery(rawQuery)
		if err != nil {
			t.Skip()
		}
		ids, weeks, err := parseQuoteQuery(query)
		if err != nil {
			return
		}
		if len(ids) == 0 {
			t.Fatal("successful parse returned no movie ids")
		}
		for _, id := range ids {
			if strings.TrimSpace(id) == "" {
				t.Fatalf("successful parse kept blank id in %v", ids)
			}
		}
		if strings.TrimSpace(query.Get("weeks")) == "" && weeks != nil {
			t.Fatalf("absent weeks parameter produced %v", weeks)
		}
	})
}
