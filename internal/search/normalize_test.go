package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"  Berlin,  Germany ", "berlin germany"},
		{"Remote / EU", "remote eu"},
		{"C++ Engineer (m/f/d)!", "c engineer m f d"},
		{"São   Paulo", "são paulo"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.in), tc.in)
	}
}

func TestCanonicalTitle(t *testing.T) {
	same := []string{
		"Senior Backend Developer",
		"Sr. Back-End Dev",
		"senior back end developer",
		"SNR backend dev",
	}
	want := "senior backend developer"
	for _, in := range same {
		assert.Equal(t, want, CanonicalTitle(in), in)
	}

	assert.Equal(t, "machine learning engineer", CanonicalTitle("ML Engineer"))
	assert.Equal(t, "machine learning engineer", CanonicalTitle("MachineLearning Eng"))
	assert.Equal(t, "fullstack developer", CanonicalTitle("Full-Stack Developer"))
	assert.Equal(t, "qa lead", CanonicalTitle("Quality Assurance Lead"))
	assert.NotEqual(t, CanonicalTitle("Frontend Developer"), CanonicalTitle("Backend Developer"))
	assert.Empty(t, CanonicalTitle("  --  "))
}
