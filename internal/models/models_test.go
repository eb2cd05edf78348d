package models

import (
	"encoding/json"
	"errors"
	"iter"
	"math"
	"slices"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidCodeword(t *testing.T) {
	tests := []struct {
		in   float64
		want bool
	}{
		{1, true},
		{42, true},
		{float64(MaxCodeword), true},
		{0, false},
		{-1, false},
		{3.1415, false},
		{math.Inf(1), false},
		{math.NaN(), false},
		{float64(MaxCodeword) + 2, false},
	}
	for _, tt := range tests {
		if got := ValidCodeword(tt.in); got != tt.want {
			t.Errorf("ValidCodeword(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if ValidActionID("") {
		t.Error("ValidActionID(\"\") = true")
	}
	if !ValidActionID("needle") {
		t.Error("ValidActionID(needle) = false")
	}
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want ActionMapping
		ok   bool
	}{
		{"json number", map[string]any{"codeword": json.Number("42"), "actionId": "needle"}, ActionMapping{42, "needle"}, true},
		{"json float number", map[string]any{"codeword": json.Number("42.0"), "actionId": "needle"}, ActionMapping{42, "needle"}, true},
		{"float64", map[string]any{"codeword": 7.0, "actionId": "a"}, ActionMapping{7, "a"}, true},
		{"int", map[string]any{"codeword": 7, "actionId": "a"}, ActionMapping{7, "a"}, true},
		{"uint64", map[string]any{"codeword": uint64(7), "actionId": "a"}, ActionMapping{7, "a"}, true},
		{"nil", nil, ActionMapping{}, false},
		{"not a map", []any{42, "needle"}, ActionMapping{}, false},
		{"extra key", map[string]any{"codeword": 1, "actionId": "a", "x": 1}, ActionMapping{}, false},
		{"missing actionId", map[string]any{"codeword": 1, "id": "a"}, ActionMapping{}, false},
		{"missing codeword", map[string]any{"code": 1, "actionId": "a"}, ActionMapping{}, false},
		{"string codeword", map[string]any{"codeword": "42", "actionId": "a"}, ActionMapping{}, false},
		{"fractional codeword", map[string]any{"codeword": json.Number("3.1415"), "actionId": "a"}, ActionMapping{}, false},
		{"zero codeword", map[string]any{"codeword": json.Number("0"), "actionId": "a"}, ActionMapping{}, false},
		{"negative int", map[string]any{"codeword": -3, "actionId": "a"}, ActionMapping{}, false},
		{"huge codeword", map[string]any{"codeword": json.Number("9007199254740993"), "actionId": "a"}, ActionMapping{}, false},
		{"empty actionId", map[string]any{"codeword": 1, "actionId": ""}, ActionMapping{}, false},
		{"numeric actionId", map[string]any{"codeword": 1, "actionId": 2}, ActionMapping{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord(tt.raw)
			if (err == nil) != tt.ok {
				t.Fatalf("ParseRecord() error = %v, want ok=%v", err, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseRecord() = %+v, want %+v", got, tt.want)
			}
			if ValidateRecord(tt.raw) != tt.ok {
				t.Errorf("ValidateRecord() = %v, want %v", !tt.ok, tt.ok)
			}
		})
	}
}

func TestActionMappingValidate(t *testing.T) {
	m := ActionMapping{Codeword: 1, ActionID: "a"}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	var fe *FieldError
	m = ActionMapping{ActionID: "a"}
	if err := m.Validate(); !errors.As(err, &fe) || fe.Field != FieldCodeword {
		t.Errorf("Validate() = %v, want codeword error", err)
	}
	m = ActionMapping{Codeword: 1}
	if err := m.Validate(); !errors.As(err, &fe) || fe.Field != FieldActionID {
		t.Errorf("Validate() = %v, want actionId error", err)
	}
}

func TestParseCodeword(t *testing.T) {
	valid := map[string]Codeword{"42": 42, " 7 ": 7, "42.0": 42, "1e3": 1000}
	for in, want := range valid {
		got, err := ParseCodeword(in)
		if err != nil || got != want {
			t.Errorf("ParseCodeword(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	for _, in := range []string{"", "  ", "abc", "-1", "0", "3.1415", "Inf", "NaN", "1e300"} {
		if got, err := ParseCodeword(in); err == nil {
			t.Errorf("ParseCodeword(%q) = %v, want error", in, got)
		}
	}
}

// fields returns a sequence over pairs in the given order.
func fields(kv ...any) iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for i := 0; i < len(kv); i += 2 {
			var v []string
			switch x := kv[i+1].(type) {
			case string:
				v = []string{x}
			case []string:
				v = x
			}
			if !yield(kv[i].(string), v) {
				return
			}
		}
	}
}

func TestParseFilterRoundTrip(t *testing.T) {
	for _, m := range []ActionMapping{{1, "a"}, {42, "needle"}, {MaxCodeword, "x y"}} {
		got, err := ParseFilter(fields("codeword", strconv.FormatInt(int64(m.Codeword), 10), "actionId", m.ActionID))
		if err != nil {
			t.Fatalf("ParseFilter(%+v) failed: %v", m, err)
		}
		if want := (Filter{Codeword: m.Codeword, ActionID: m.ActionID}); got != want {
			t.Errorf("ParseFilter() = %+v, want %+v", got, want)
		}
	}
	got, err := ParseFilter(fields())
	if err != nil || !got.IsEmpty() {
		t.Errorf("ParseFilter(empty) = %+v, %v", got, err)
	}
}

func TestParseFilterRejects(t *testing.T) {
	tests := []struct {
		name  string
		in    iter.Seq2[string, []string]
		field string
	}{
		{"unknown field", fields("foo", "bar"), "foo"},
		{"non numeric codeword", fields("codeword", "not a number"), "codeword"},
		{"fractional codeword", fields("codeword", "3.1415"), "codeword"},
		{"repeated actionId", fields("actionId", []string{"a", "b"}), "actionId"},
		{"empty actionId", fields("actionId", ""), "actionId"},
		{"valid then invalid", fields("actionId", "hay", "bogus", "1"), "bogus"},
		{"first invalid wins", fields("codeword", "x", "bogus", "1"), "codeword"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilter(tt.in)
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("ParseFilter() = %+v, %v; want *FieldError", got, err)
			}
			if fe.Field != tt.field {
				t.Errorf("FieldError.Field = %q, want %q", fe.Field, tt.field)
			}
			if !got.IsEmpty() {
				t.Errorf("ParseFilter() returned partial filter %+v", got)
			}
		})
	}
	if _, err := ParseFilter(nil); !errors.Is(err, ErrNoFilter) {
		t.Errorf("ParseFilter(nil) = %v, want ErrNoFilter", err)
	}
}

var seed = []ActionMapping{{31415, "hay"}, {27182, "hay"}, {42, "needle"}, {16180, "hay"}}

func rawSeq(rows ...any) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for _, r := range rows {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func seedSeq() iter.Seq2[any, error] {
	rows := make([]any, 0, len(seed))
	for _, m := range seed {
		rows = append(rows, map[string]any{"codeword": json.Number(m.Codeword.String()), "actionId": m.ActionID})
	}
	return rawSeq(rows...)
}

func drain(seq iter.Seq2[ActionMapping, error]) ([]ActionMapping, error) {
	var out []ActionMapping
	for m, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, m)
	}
	return out, nil
}

func TestFilterMappings(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []ActionMapping
	}{
		{"empty", Filter{}, seed},
		{"actionId", Filter{ActionID: "hay"}, []ActionMapping{{31415, "hay"}, {27182, "hay"}, {16180, "hay"}}},
		{"codeword", Filter{Codeword: 42}, []ActionMapping{{42, "needle"}}},
		{"both", Filter{Codeword: 42, ActionID: "hay"}, nil},
		{"absent", Filter{ActionID: "diamond"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := drain(FilterMappings(Mappings(seedSeq(), "mem"), tt.filter))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterMappings() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFirstWithCodeword(t *testing.T) {
	dup := rawSeq(
		map[string]any{"codeword": json.Number("5"), "actionId": "first"},
		map[string]any{"codeword": json.Number("5"), "actionId": "second"},
	)
	m, ok, err := FirstWithCodeword(Mappings(dup, "mem"), 5)
	if err != nil || !ok || m.ActionID != "first" {
		t.Errorf("FirstWithCodeword() = %+v, %v, %v; want first", m, ok, err)
	}
	m, ok, err = FirstWithCodeword(Mappings(seedSeq(), "mem"), 42)
	if err != nil || !ok || m != (ActionMapping{42, "needle"}) {
		t.Errorf("FirstWithCodeword(42) = %+v, %v, %v", m, ok, err)
	}
	if _, ok, err := FirstWithCodeword(Mappings(seedSeq(), "mem"), 1234); ok || err != nil {
		t.Errorf("FirstWithCodeword(1234) = %v, %v; want not found", ok, err)
	}
}

func TestFirstWithCodewordStopsEarly(t *testing.T) {
	// The bad record after the match is never reached.
	seq := rawSeq(map[string]any{"codeword": json.Number("5"), "actionId": "a"}, "garbage")
	if _, ok, err := FirstWithCodeword(Mappings(seq, "mem"), 5); !ok || err != nil {
		t.Errorf("FirstWithCodeword() = %v, %v", ok, err)
	}
}

func TestMappingsIntegrity(t *testing.T) {
	seq := rawSeq(
		map[string]any{"codeword": json.Number("1"), "actionId": "good1"},
		map[string]any{"codeword": json.Number("2"), "actionId": "good2"},
		map[string]any{"codeword": json.Number("3"), "actionId": ""},
		map[string]any{"codeword": json.Number("4"), "actionId": "never"},
	)
	got, err := drain(Mappings(seq, "data/actions.json"))
	if diff := cmp.Diff([]ActionMapping{{1, "good1"}, {2, "good2"}}, got); diff != "" {
		t.Errorf("prefix mismatch (-want +got):\n%s", diff)
	}
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("error = %v, want *IntegrityError", err)
	}
	if ie.Index != 2 || ie.Database != "data/actions.json" {
		t.Errorf("IntegrityError = %+v", ie)
	}
	if want := "ActionMapping database entry #2 is invalid (database: data/actions.json)"; ie.Error() != want {
		t.Errorf("Error() = %q, want %q", ie.Error(), want)
	}
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != FieldActionID {
		t.Errorf("cause = %v, want actionId FieldError", ie.Err)
	}
}

func TestMappingsPropagatesReadError(t *testing.T) {
	boom := errors.New("boom")
	seq := func(yield func(any, error) bool) {
		if !yield(map[string]any{"codeword": json.Number("1"), "actionId": "a"}, nil) {
			return
		}
		yield(nil, boom)
	}
	got, err := drain(Mappings(seq, "mem"))
	if !errors.Is(err, boom) || len(got) != 1 {
		t.Errorf("Mappings() = %v, %v", got, err)
	}
}

func TestStoreSchema(t *testing.T) {
	s := StoreSchema("actionMappings")
	if s.Type != "object" || !slices.Equal(s.Required, []string{"actionMappings"}) {
		t.Fatalf("unexpected schema %+v", s)
	}
	table, ok := s.Properties.Get("actionMappings")
	if !ok || table.Type != "array" || table.Items == nil {
		t.Fatalf("table schema = %+v", table)
	}
	var names []string
	for p := table.Items.Properties.Oldest(); p != nil; p = p.Next() {
		names = append(names, p.Key)
	}
	if diff := cmp.Diff([]string{"codeword", "actionId"}, names); diff != "" {
		t.Errorf("item properties mismatch (-want +got):\n%s", diff)
	}
	if got := slices.Sorted(slices.Values(table.Items.Required)); !slices.Equal(got, []string{"actionId", "codeword"}) {
		t.Errorf("Required = %v", table.Items.Required)
	}
	if _, err := json.Marshal(s); err != nil {
		t.Errorf("schema does not marshal: %v", err)
	}
}
