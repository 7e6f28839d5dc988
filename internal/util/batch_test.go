package util

import (
	"reflect"
	"testing"
)

func TestChunkIDs(t *testing.T) {
	tests := []struct {
		name string
		ids  []int64
		size int
		want [][]int64
	}{
		{
			name: "empty input",
			ids:  nil,
			size: 3,
			want: nil,
		},
		{
			name: "single partial batch",
			ids:  []int64{1, 2},
			size: 3,
			want: [][]int64{{1, 2}},
		},
		{
			name: "exact batches",
			ids:  []int64{1, 2, 3, 4},
			size: 2,
			want: [][]int64{{1, 2}, {3, 4}},
		},
		{
			name: "trailing remainder",
			ids:  []int64{1, 2, 3, 4, 5},
			size: 2,
			want: [][]int64{{1, 2}, {3, 4}, {5}},
		},
		{
			name: "non-positive size keeps one batch",
			ids:  []int64{1, 2, 3},
			size: 0,
			want: [][]int64{{1, 2, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChunkIDs(tt.ids, tt.size)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ChunkIDs(%v, %d) = %v, want %v", tt.ids, tt.size, got, tt.want)
			}
		})
	}
}
