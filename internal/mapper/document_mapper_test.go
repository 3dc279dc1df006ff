package mapper

import (
	"testing"

	"erp-featurestore-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestDecodeDocument(t *testing.T) {
	tests := []struct {
		name string
		raw  datatypes.JSON
		want entity.Document
	}{
		{name: "empty", raw: nil, want: entity.Document{}},
		{name: "malformed", raw: datatypes.JSON(`{"hours_7d":`), want: entity.Document{}},
		{name: "array is not a document", raw: datatypes.JSON(`[1,2,3]`), want: entity.Document{}},
		{name: "null", raw: datatypes.JSON(`null`), want: entity.Document{}},
		{name: "object", raw: datatypes.JSON(`{"hours_7d":10,"name":"Alpha"}`), want: entity.Document{"hours_7d": float64(10), "name": "Alpha"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeDocument(tt.raw))
		})
	}
}

func TestEncodeDocument(t *testing.T) {
	raw, err := EncodeDocument(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))

	raw, err = EncodeDocument(entity.Document{"windows_days": []int{7, 30}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"windows_days":[7,30]}`, string(raw))
}
