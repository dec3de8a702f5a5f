package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecocal/pkg/contracts/domain"
)

func TestDescribeExactMatch(t *testing.T) {
	m := Describe("Initial Jobless Claims")
	assert.Equal(t, domain.CategoryEmployment, m.Category)
	assert.NotEmpty(t, m.Description)
}

func TestDescribeCaseInsensitive(t *testing.T) {
	assert.Equal(t, Describe("Consumer Price Index"), Describe("consumer price index"))
}

func TestDescribeSubstringVariants(t *testing.T) {
	// Provider title variants resolve through the table key they
	// contain, or that contains them.
	tests := []struct {
		title string
		want  domain.Category
	}{
		{"Core Consumer Price Index", domain.CategoryInflation},
		{"US Trade Balance", domain.CategoryTrade},
		{"Retail Sales", domain.CategoryGrowth},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			m := Describe(tt.title)
			assert.Equal(t, tt.want, m.Category)
			assert.NotEmpty(t, m.Description)
		})
	}
}

func TestDescribeFallbackNeverFails(t *testing.T) {
	m := Describe("Some Unknown Regional Survey")
	assert.Equal(t, domain.CategoryOther, m.Category)
	assert.Empty(t, m.Description)
}

func TestDescribeFallbackUsesClassifier(t *testing.T) {
	// Unknown titles still get a keyword-derived category.
	m := Describe("Dallas Fed Manufacturing Survey")
	assert.Equal(t, domain.CategoryManufacturing, m.Category)
	assert.Empty(t, m.Description)
}

func TestDescribeEmptyTitle(t *testing.T) {
	m := Describe("  ")
	assert.Equal(t, domain.CategoryOther, m.Category)
}
