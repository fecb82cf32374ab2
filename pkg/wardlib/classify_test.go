package wardlib

import (
	"reflect"
	"testing"
)

func TestClassifyKeywordTable(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		value  string
		want   []Category
	}{
		{
			name:   "at sign implies email",
			cookie: "user_contact",
			value:  "foo@bar.com",
			want:   []Category{CategoryEmail},
		},
		{
			name:   "session id",
			cookie: "session_id",
			value:  "abc123",
			want:   []Category{CategorySession},
		},
		{
			name:   "analytics id has no category match",
			cookie: "_ga",
			value:  "123456789.987654321",
			want:   nil,
		},
		{
			name:   "location keywords",
			cookie: "geo_country",
			value:  "DE",
			want:   []Category{CategoryLocation},
		},
		{
			name:   "shopping cart",
			cookie: "cart_items",
			value:  "3",
			want:   []Category{CategoryShopping},
		},
		{
			name:   "no word boundary: ip matches inside ship",
			cookie: "shipping",
			value:  "standard",
			want:   []Category{CategoryIPAddress},
		},
		{
			name:   "empty input",
			cookie: "",
			value:  "",
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.cookie, tt.value)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify(%q, %q) = %v, want %v", tt.cookie, tt.value, got, tt.want)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	name, value := "user_email_pref", "foo@bar.com"
	first := Classify(name, value)
	for i := 0; i < 10; i++ {
		if got := Classify(name, value); !reflect.DeepEqual(got, first) {
			t.Fatalf("call %d returned %v, first call returned %v", i, got, first)
		}
	}
}

func TestClassifyNoDuplicates(t *testing.T) {
	// "email" and "mail" and "@" all hit the email category; it must
	// still appear only once.
	got := Classify("email", "mail@example.com")
	seen := make(map[Category]bool)
	for _, c := range got {
		if seen[c] {
			t.Fatalf("duplicate category %q in %v", c, got)
		}
		seen[c] = true
	}
	if !HasCategory(got, CategoryEmail) {
		t.Fatalf("expected email category in %v", got)
	}
}

func TestClassifyCanonicalOrder(t *testing.T) {
	got := Classify("username_email_session", "")
	want := []Category{CategoryEmail, CategoryName, CategorySession}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Classify returned %v, want canonical order %v", got, want)
	}
}
