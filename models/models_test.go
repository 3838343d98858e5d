package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompositeLabel(t *testing.T) {
	tests := []struct {
		name      string
		authority int
		visual    int
		expected  QualityLabel
	}{
		{"both top", 100, 100, QualityHigh},
		{"exactly eighty", 80, 80, QualityHigh},
		{"visual heavy", 50, 95, QualityMedium},
		{"exactly fifty", 50, 50, QualityMedium},
		{"weak", 30, 40, QualityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompositeLabel(tt.authority, tt.visual))
		})
	}
}

func TestSourceTypeValid(t *testing.T) {
	assert.True(t, SourceTypeCourse.Valid())
	assert.False(t, SourceType("podcast").Valid())
}
