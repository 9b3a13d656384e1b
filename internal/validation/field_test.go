package validation

import (
	"encoding/json"
	"testing"
)

type fieldSample struct {
	Name  Field[string] `json:"name"`
	Flag  Field[bool]   `json:"flag"`
	Count Field[int]    `json:"count"`
}

func TestFieldUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantName  Field[string]
		wantFlag  Field[bool]
		wantCount Field[int]
	}{
		{
			name:      "all present",
			body:      `{"name":"x","flag":true,"count":3}`,
			wantName:  Set("x"),
			wantFlag:  Set(true),
			wantCount: Set(3),
		},
		{
			name:     "zero values are present",
			body:     `{"name":"","flag":false,"count":0}`,
			wantName: Set(""), wantFlag: Set(false), wantCount: Set(0),
		},
		{
			name: "missing keys",
			body: `{}`,
		},
		{
			name: "null",
			body: `{"name":null,"flag":null,"count":null}`,
		},
		{
			name: "wrong types",
			body: `{"name":1,"flag":"true","count":"3"}`,
		},
		{
			name:     "mixed",
			body:     `{"name":"x","flag":1,"count":[1]}`,
			wantName: Set("x"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var p fieldSample
			if err := json.Unmarshal([]byte(tc.body), &p); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if p.Name != tc.wantName {
				t.Errorf("name = %#v, want %#v", p.Name, tc.wantName)
			}
			if p.Flag != tc.wantFlag {
				t.Errorf("flag = %#v, want %#v", p.Flag, tc.wantFlag)
			}
			if p.Count != tc.wantCount {
				t.Errorf("count = %#v, want %#v", p.Count, tc.wantCount)
			}
		})
	}
}

func TestFieldMarshal(t *testing.T) {
	data, err := json.Marshal(fieldSample{Name: Set("x")})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{"name":"x","flag":null,"count":null}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestFieldRequired(t *testing.T) {
	type payload struct {
		Name Field[string] `json:"name" validate:"required"`
		Flag Field[bool]   `json:"flag" validate:"required"`
	}

	if err := Struct(payload{Name: Set(""), Flag: Set(false)}); err != nil {
		t.Fatalf("present zero values must satisfy required: %v", err)
	}

	err := Struct(payload{Name: Set("x")})
	if err == nil {
		t.Fatal("absent flag must fail required")
	}

	fieldErrors := FieldErrors(err)
	if len(fieldErrors) != 1 || fieldErrors[0].Field != "flag" || fieldErrors[0].Error != "is required" {
		t.Fatalf("unexpected field errors: %#v", fieldErrors)
	}
}
