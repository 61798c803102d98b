package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Ingeniería", "ingenieria"},
		{"INGENIERÍA", "ingenieria"},
		{"Educación Física", "educacion fisica"},
		{"A Distancia", "a distancia"},
		{"año", "ano"},
		{"", ""},
		{"plain ascii", "plain ascii"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Fold(tc.in), "Fold(%q)", tc.in)
	}
}
