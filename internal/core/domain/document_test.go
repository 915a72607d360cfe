package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocTypeValid(t *testing.T) {
	for _, dt := range DocTypePriority {
		assert.True(t, dt.Valid(), "type %q", dt)
	}

	assert.False(t, DocType("spreadsheet").Valid())
	assert.False(t, DocType("").Valid())
}

func TestDocTypePriorityOrder(t *testing.T) {
	// Most specific first, generic manual last.
	assert.Equal(t, DocTypeClientSpec, DocTypePriority[0])
	assert.Equal(t, DocTypeManual, DocTypePriority[len(DocTypePriority)-1])
}
