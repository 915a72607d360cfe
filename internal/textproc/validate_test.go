package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTOCLike(t *testing.T) {
	toc := "1.1 Scope ............ 3\n1.2 Definitions ............ 4\nSome heading text"
	assert.True(t, IsTOCLike(toc))

	assert.True(t, IsTOCLike("Table of Contents"))

	prose := "The diver shall verify the bailout cylinder pressure before entering the water.\nA minimum of 40 bar reserve is required."
	assert.False(t, IsTOCLike(prose))

	assert.False(t, IsTOCLike(""))
}

func TestHasRealContent(t *testing.T) {
	assert.True(t, HasRealContent("The maximum depth for surface supplied air diving is 50 meters.", MinContentChars))

	// Bullet skeletons reduce to nothing.
	assert.False(t, HasRealContent("• x\n• x\n- -\n* *", MinContentChars))

	// Noise-only sections reduce to nothing.
	assert.False(t, HasRealContent("Document No: DOM-001\nRev No: 4", MinContentChars))

	assert.False(t, HasRealContent("Too short.", MinContentChars))
}

func TestValidate(t *testing.T) {
	sections := []Section{
		{Heading: "1 SCOPE", Text: "The manual applies to all surface supplied air diving operations."},
		{Heading: "2 CONTENTS", Text: "2.1 Scope ............ 3\n2.2 Limits ............ 5"},
		{Heading: "3 BLANK", Text: "   "},
		{Heading: "4 STUB", Text: "Short."},
	}

	kept := Validate(sections)
	require.Len(t, kept, 1)
	assert.Equal(t, "1 SCOPE", kept[0].Heading)
}
