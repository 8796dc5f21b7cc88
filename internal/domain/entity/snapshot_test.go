package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSnapshot(t *testing.T) {
	a := NewSnapshot("<body><p>hello</p></body>")
	b := NewSnapshot("<body><p>hello</p></body>")
	c := NewSnapshot("<body><p>bye</p></body>")

	assert.Equal(t, a.Fingerprint, b.Fingerprint, "same content, same fingerprint")
	assert.NotEqual(t, a.Fingerprint, c.Fingerprint, "different content, different fingerprint")
	assert.Len(t, a.Fingerprint, fingerprintLen)
	assert.Equal(t, "<body><p>hello</p></body>", a.Content)
}

func TestNewSnapshot_EmptyContent(t *testing.T) {
	s := NewSnapshot("")
	assert.Len(t, s.Fingerprint, fingerprintLen)
	assert.Empty(t, s.Content)
}
