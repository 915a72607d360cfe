package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		name       string
		coverage   Coverage
		similarity float64
		want       Severity
	}{
		{"covered", Covered, 0.9, SeverityNone},
		{"partially covered", PartiallyCovered, 0.6, SeverityMedium},
		{"not covered with related content", NotCovered, 0.45, SeverityHigh},
		{"not covered at boundary", NotCovered, 0.25, SeverityHigh},
		{"not covered nothing related", NotCovered, 0.1, SeverityCritical},
		{"unknown verdict", Coverage("maybe"), 0.5, SeverityUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySeverity(tt.coverage, tt.similarity))
		})
	}
}
