package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExamInfo(t *testing.T) {
	text := "```json\n{\"url\": \"https://www.ncsbn.org/nclex.page\", \"requirements\": [\"Graduate from an approved program\", \" \", 2, \"Register with Pearson VUE\"]}\n```"

	info, err := ParseExamInfo(text)
	require.NoError(t, err)
	assert.Equal(t, "https://www.ncsbn.org/nclex.page", info.URL)
	assert.Equal(t, []string{"Graduate from an approved program", "2", "Register with Pearson VUE"}, info.Requirements)
}

func TestParseExamInfo_EmptyRequirements(t *testing.T) {
	info, err := ParseExamInfo(`{"url":"https://ncees.org","requirements":[]}`)
	require.NoError(t, err)
	assert.Empty(t, info.Requirements)
	assert.NotNil(t, info.Requirements)
}

func TestParseExamInfo_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"missing url", `{"requirements":["a"]}`},
		{"missing requirements", `{"url":"https://ncees.org"}`},
		{"requirements not a list", `{"url":"https://ncees.org","requirements":"apply"}`},
		{"blank url", `{"url":"  ","requirements":["a"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExamInfo(tt.text)
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}

	_, err := ParseExamInfo("The exam website is ncees.org")
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
