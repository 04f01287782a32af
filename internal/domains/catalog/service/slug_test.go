package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Satyanarayan Puja", "satyanarayan-puja"},
		{"  Griha Pravesh  ", "griha-pravesh"},
		{"Rudrabhishek (Special)", "rudrabhishek-special"},
		{"Navagraha   Shanti", "navagraha-shanti"},
		{"Lakshmi-Ganesh Puja", "lakshmi-ganesh-puja"},
		{"!!!", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.name), "input %q", tc.name)
	}
}
