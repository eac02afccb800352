package bias

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromScore(t *testing.T) {
	tests := []struct {
		score float64
		want  Label
	}{
		{-1.0, Left},
		{-0.3, Left},
		{-0.29, Center},
		{0.0, Center},
		{0.3, Center},
		{0.31, Right},
		{1.0, Right},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromScore(tt.score), "score %v", tt.score)
	}
}

func TestClassifyTitle(t *testing.T) {
	tests := []struct {
		title string
		want  Label
	}{
		{"진보 진영의 복지 공약 분석", Left},
		{"Bernie rallies supporters", Left},
		{"보수 논객의 반론", Right},
		{"Trump holds rally in Ohio", Right},
		{"Market-driven reform proposal", Right},
		{"오늘의 주요 뉴스", Center},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyTitle(tt.title), "title %q", tt.title)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "진보", Left.DisplayName())
	assert.Equal(t, "중도", Center.DisplayName())
	assert.Equal(t, "보수", Right.DisplayName())
}
