package hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSensorLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    int
		wantErr bool
	}{
		{
			name: "valid line",
			line: "t 512",
			want: 512,
		},
		{
			name: "valid line - zero",
			line: "t 0",
			want: 0,
		},
		{
			name: "valid line - full scale",
			line: "t 1023",
			want: 1023,
		},
		{
			name: "valid line - extra whitespace",
			line: "t    37",
			want: 37,
		},
		{
			name:    "invalid - wrong tag",
			line:    "x 512",
			wantErr: true,
		},
		{
			name:    "invalid - missing count",
			line:    "t",
			wantErr: true,
		},
		{
			name:    "invalid - extra fields",
			line:    "t 512 9",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric count",
			line:    "t abc",
			wantErr: true,
		},
		{
			name:    "invalid - negative count",
			line:    "t -1",
			wantErr: true,
		},
		{
			name:    "invalid - count out of range",
			line:    "t 1024",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSensorLine(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
