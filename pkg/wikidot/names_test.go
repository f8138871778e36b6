package wikidot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToUnix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"reserve:rpc-055", "reserve:rpc-055"},
		{"Reserve:RPC 055", "reserve:rpc-055"},
		{"Café Olé", "cafe-ole"},
		{"--a--b--", "a-b"},
		{"cat::page", "cat:page"},
		{" a - : - b ", "a:b"},
		{"_template", "_template"},
		{"fragment:_x", "fragment:_x"},
		{"a_b", "a-b"},
		{":page:", "page"},
		{"预约", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToUnix(tt.in))
		})
	}
}
