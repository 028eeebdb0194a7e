package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]string
	}{
		{
			name: "single pair",
			in:   "buildingUse=事務所",
			want: map[string]string{"buildingUse": "事務所"},
		},
		{
			name: "multiple pairs",
			in:   "buildingUse=事務所 totalFloorArea=5000",
			want: map[string]string{"buildingUse": "事務所", "totalFloorArea": "5000"},
		},
		{
			name: "malformed tokens skipped",
			in:   "noequals =emptykey emptyvalue= ok=1",
			want: map[string]string{"ok": "1"},
		},
		{
			name: "empty input",
			in:   "",
			want: map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAssignments(tt.in))
		})
	}
}
