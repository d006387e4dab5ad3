package config

import (
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

// TestParseSelector tests the CLI selector syntax.
func TestParseSelector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    string
		want    Selector
		wantErr bool
	}{
		{
			name: "bare tag",
			spec: "h1",
			want: Selector{Tag: "h1"},
		},
		{
			name: "tag with class",
			spec: "p.intro",
			want: Selector{Tag: "p", Class: "intro"},
		},
		{
			name: "surrounding whitespace is trimmed",
			spec: "  h2  ",
			want: Selector{Tag: "h2"},
		},
		{
			name:    "empty spec",
			spec:    "",
			wantErr: true,
		},
		{
			name:    "missing tag before dot",
			spec:    ".intro",
			wantErr: true,
		},
		{
			name:    "class with second dot",
			spec:    "p.a.b",
			wantErr: true,
		},
		{
			name:    "whitespace inside tag",
			spec:    "h 1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseSelector(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

// TestParseSelectors tests that the parsed selector list preserves order.
func TestParseSelectors(t *testing.T) {
	t.Parallel()

	t.Run("preserves argument order", func(t *testing.T) {
		t.Parallel()

		got, err := ParseSelectors([]string{"h1", "p.intro", "a"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := Selectors{{Tag: "h1"}, {Tag: "p", Class: "intro"}, {Tag: "a"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("one bad spec fails the whole list", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseSelectors([]string{"h1", ""}); err == nil {
			t.Fatal("expected error")
		}
	})
}

// TestSelectors_UnmarshalYAML tests ordered decoding of the selector mapping.
func TestSelectors_UnmarshalYAML(t *testing.T) {
	t.Parallel()

	t.Run("preserves mapping order", func(t *testing.T) {
		t.Parallel()

		src := "z:\nh1:\np: intro\na:\n"
		var got Selectors
		if err := yaml.Unmarshal([]byte(src), &got); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := Selectors{{Tag: "z"}, {Tag: "h1"}, {Tag: "p", Class: "intro"}, {Tag: "a"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("rejects non-mapping nodes", func(t *testing.T) {
		t.Parallel()

		var got Selectors
		if err := yaml.Unmarshal([]byte("- h1\n- p\n"), &got); err == nil {
			t.Fatal("expected error for sequence node")
		}
	})

	t.Run("round-trips through MarshalYAML", func(t *testing.T) {
		t.Parallel()

		orig := Selectors{{Tag: "h1"}, {Tag: "p", Class: "intro"}}
		data, err := yaml.Marshal(orig)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got Selectors
		if err := yaml.Unmarshal(data, &got); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(got, orig) {
			t.Errorf("expected %v, got %v", orig, got)
		}
	})
}

// TestSelector_String tests the CSS rendering of selectors.
func TestSelector_String(t *testing.T) {
	t.Parallel()

	if got := (Selector{Tag: "h1"}).String(); got != "h1" {
		t.Errorf("expected h1, got %q", got)
	}
	if got := (Selector{Tag: "p", Class: "intro"}).String(); got != "p.intro" {
		t.Errorf("expected p.intro, got %q", got)
	}
}
