package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"/", ""},
		{"/courses/0/name", "courses[0].name"},
		{"#/courses/1/phases/2/tasks/3/id", "courses[1].phases[2].tasks[3].id"},
		{"/a~1b/c~0d", "a/b.c~d"},
		{"/0", "[0]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JSONPointerToPath(tt.in), tt.in)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/home/me/.propath/courses.json", "home-me-propath-courses-json"},
		{"DSA Mastery", "dsa-mastery"},
		{"--", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.in), tt.in)
	}
}
