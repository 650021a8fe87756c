package competition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArrID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain", "https://www.snwktavling.se/?page=showres&arr=1234", "1234"},
		{"trailing params", "https://www.snwktavling.se/?page=showres&arr=1234&tab=2", "1234"},
		{"arr first", "https://www.snwktavling.se/?arr=99&page=showres", "99"},
		{"no arr", "https://www.snwktavling.se/?page=showres", ""},
		{"empty url", "", ""},
		{"empty value", "https://www.snwktavling.se/?arr=&page=x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ArrID(tt.url))
		})
	}
}

func TestSameArr(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{
			"same id, different params",
			"https://www.snwktavling.se/?page=showres&arr=1234",
			"https://www.snwktavling.se/?page=showres&arr=1234&klass=NW1&tab=2",
			true,
		},
		{
			"different ids",
			"https://www.snwktavling.se/?arr=1234",
			"https://www.snwktavling.se/?arr=5678",
			false,
		},
		{
			"no arr on one side",
			"https://www.snwktavling.se/?page=showres",
			"https://www.snwktavling.se/?arr=1234",
			false,
		},
		{
			"no arr on either side never matches",
			"https://www.snwktavling.se/?page=showres",
			"https://www.snwktavling.se/?page=showres",
			false,
		},
		{
			"exact string comparison, no case folding",
			"https://www.snwktavling.se/?arr=AB12",
			"https://www.snwktavling.se/?arr=ab12",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameArr(tt.a, tt.b))
		})
	}
}
