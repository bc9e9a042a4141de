package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDriverCodeFormat(t *testing.T) {
	re := regexp.MustCompile(`^D\d{2}-34-[A-Z]{3}$`)
	for range 200 {
		code := NewDriverCode()
		assert.Regexp(t, re, code)
	}
}

func TestNewPackageCodeFormat(t *testing.T) {
	re := regexp.MustCompile(`^P[A-Z]{2}-JT-\d{3}$`)
	for range 200 {
		code := NewPackageCode()
		assert.Regexp(t, re, code)
	}
}
