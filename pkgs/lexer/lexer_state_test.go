package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndentStateMeasure(t *testing.T) {
	tests := []struct {
		name    string
		widths  []int
		want    [][]Kind
		depth   int
		wantErr bool
	}{
		{
			name:   "same level",
			widths: []int{0, 0},
			want:   [][]Kind{nil, nil},
		},
		{
			name:   "indent then dedent",
			widths: []int{4, 0},
			want:   [][]Kind{{INDENT}, {DEDENT}},
		},
		{
			name:   "dedent several levels",
			widths: []int{2, 4, 8, 2},
			want:   [][]Kind{{INDENT}, {INDENT}, {INDENT}, {DEDENT, DEDENT}},
			depth:  1,
		},
		{
			name:    "dedent between levels",
			widths:  []int{4, 2},
			want:    [][]Kind{{INDENT}, {DEDENT}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewIndentState()
			var got [][]Kind
			var err error
			for _, w := range tt.widths {
				var kinds []Kind
				kinds, err = s.Measure(w)
				got = append(got, kinds)
			}
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.depth, s.Depth())
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIndentStateFlush(t *testing.T) {
	s := NewIndentState()
	_, _ = s.Measure(2)
	_, _ = s.Measure(6)
	assert.Equal(t, 6, s.Current())
	assert.Equal(t, 2, s.Flush())
	assert.Equal(t, 0, s.Current())
	assert.Equal(t, 0, s.Flush())
}

func TestIndentStateBrackets(t *testing.T) {
	s := NewIndentState()
	assert.False(t, s.Joined())

	s.OpenBracket()
	s.OpenBracket()
	assert.True(t, s.Joined())

	s.CloseBracket()
	s.CloseBracket()
	s.CloseBracket()
	assert.False(t, s.Joined())
	assert.Equal(t, "IndentState{stack: [0], joinDepth: 0}", s.String())
}
