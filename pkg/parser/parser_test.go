package parser

import (
	"reflect"
	"testing"

	"github.com/dtnitsch/reserve-fetch/models"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.Content
	}{
		{
			name: "empty input",
			raw:  "",
			want: models.Content{},
		},
		{
			name: "last write wins, quotes stripped, colon-less line ignored",
			raw:  "a: 1\nb: 'two'\nnoColonHere\na: 2",
			want: models.Content{"a": "2", "b": "two"},
		},
		{
			name: "split on first colon only",
			raw:  "k: value: with: colons",
			want: models.Content{"k": "value: with: colons"},
		},
		{
			name: "unbalanced quote kept",
			raw:  "k: 'x",
			want: models.Content{"k": "'x"},
		},
		{
			name: "single quote character is not unquoted",
			raw:  "k: '",
			want: models.Content{"k": "'"},
		},
		{
			name: "only one layer of quotes removed",
			raw:  "k: ''nested''",
			want: models.Content{"k": "'nested'"},
		},
		{
			name: "empty quoted value",
			raw:  "k: ''",
			want: models.Content{"k": ""},
		},
		{
			name: "crlf line endings and surrounding whitespace",
			raw:  "  title :  'Hello'  \r\ndate-from: 1609459200\r\n",
			want: models.Content{"title": "Hello", "date-from": "1609459200"},
		},
		{
			name: "blank lines skipped",
			raw:  "\n\na: 1\n\n",
			want: models.Content{"a": "1"},
		},
		{
			name: "double quotes untouched",
			raw:  `k: "x"`,
			want: models.Content{"k": `"x"`},
		},
		{
			name: "empty key is kept",
			raw:  ": orphan",
			want: models.Content{"": "orphan"},
		},
		{
			name: "non-ascii values",
			raw:  "标题: '预约'",
			want: models.Content{"标题": "预约"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParser_ParseMatchesPackageFunc(t *testing.T) {
	p := &Parser{}
	raw := "a: 1\nb: 2"

	if got, want := p.Parse(raw), Parse(raw); !reflect.DeepEqual(got, want) {
		t.Errorf("Parser.Parse = %v, want %v", got, want)
	}
}

func TestParse_EmptyIsNotNil(t *testing.T) {
	if got := Parse(""); got == nil {
		t.Error("Parse(\"\") returned nil map, want empty map")
	}
}
