package pagination

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ClampsOutOfRange(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		perPage     int
		wantPage    int
		wantPerPage int
	}{
		{"zero values", 0, 0, 1, DefaultPerPage},
		{"explicit", 3, 12, 3, 12},
		{"negative page", -1, 20, 1, 20},
		{"max per page", 1, 100, 1, 100},
		{"over max", 1, 101, 1, DefaultPerPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.page, tt.perPage)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
		})
	}
}

func TestParams_OffsetAndLimit(t *testing.T) {
	p := New(4, 25)
	assert.Equal(t, 75, p.Offset())
	assert.Equal(t, 25, p.Limit())
	assert.Equal(t, 0, New(1, 10).Offset())
}

func TestNewResult(t *testing.T) {
	r := NewResult([]string{"saree-1", "saree-2"}, 45, New(2, 20))

	assert.Equal(t, 3, r.TotalPages)
	assert.True(t, r.HasNext)
	assert.True(t, r.HasPrev)
	assert.Len(t, r.Data, 2)
}

func TestNewResult_LastPageAndExactDivision(t *testing.T) {
	r := NewResult([]int{1}, 40, New(2, 20))
	assert.Equal(t, 2, r.TotalPages)
	assert.False(t, r.HasNext)
}

func TestNewResult_NilDataEncodesAsEmptyArray(t *testing.T) {
	r := NewResult[string](nil, 0, New(1, 20))
	assert.Equal(t, 0, r.TotalPages)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"data":[]`)
}
