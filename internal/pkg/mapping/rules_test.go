package mapping

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"crmId", "crm_id"},
		{"leadScore", "lead_score"},
		{"Lead Score", "lead_score"},
		{"already_snake", "already_snake"},
		{"ABTest", "abtest"},
		{"plan2Id", "plan2_id"},
		{"  spaced out  ", "spaced_out"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, snakeCase(tt.in), tt.in)
	}
}

func TestIsoOrNil(t *testing.T) {
	assert.Nil(t, isoOrNil(nil))
	assert.Equal(t, "2020-01-04T13:50:00Z", isoOrNil(json.Number("1578145800")))
	assert.Equal(t, "2020-01-04T00:00:00Z", isoOrNil(int64(1578096000)))
	assert.Nil(t, isoOrNil("not a number"))
}

func TestItemString(t *testing.T) {
	assert.Equal(t, "", itemString(nil))
	assert.Equal(t, "addon-1", itemString("addon-1"))
	assert.Equal(t, "42", itemString(json.Number("42")))
	assert.Equal(t, "true", itemString(true))
}
