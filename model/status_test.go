package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		input string
		want  StatusBucket
	}{
		{"pending", BucketPending},
		{"Pending", BucketPending},
		{" TODO ", BucketPending},
		{"to-do", BucketPending},
		{"new", BucketPending},
		{"", BucketPending},
		{"in progress", BucketInProgress},
		{"In-Progress", BucketInProgress},
		{"in_progress", BucketInProgress},
		{"progress", BucketInProgress},
		{"working", BucketInProgress},
		{"done", BucketDone},
		{"Completed", BucketDone},
		{"complete", BucketDone},
		{"verified", BucketDone},
		{"Confirmed--Yes", StatusBucket("confirmed--yes")},
		{"In Process", StatusBucket("in process")},
		{"Other", StatusBucket("other")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatus(tt.input))
		})
	}
}

func TestClassifyStatusIsIdempotent(t *testing.T) {
	for _, input := range []string{"todo", "working", "verified", "Confirmed--No", "whatever", ""} {
		once := ClassifyStatus(input)
		assert.Equal(t, once, ClassifyStatus(string(once)), "input %q", input)
	}
}

func TestIsQuickFilter(t *testing.T) {
	assert.True(t, BucketPending.IsQuickFilter())
	assert.True(t, BucketInProgress.IsQuickFilter())
	assert.True(t, BucketDone.IsQuickFilter())
	assert.False(t, ClassifyStatus("Other").IsQuickFilter())
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "yellow", StatusColor("Pending"))
	assert.Equal(t, "green", StatusColor("confirmed--yes"))
	assert.Equal(t, "red", StatusColor("Confirmed--No"))
	assert.Equal(t, "blue", StatusColor("In Process"))
	assert.Equal(t, "gray", StatusColor("Other"))
	assert.Equal(t, "gray", StatusColor("done"))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "confirmedyes", StatusClass("Confirmed--Yes"))
	assert.Equal(t, "inprocess", StatusClass("In Process"))
	assert.Equal(t, "pending", StatusClass(""))
	assert.Equal(t, "pending", StatusClass("--"))
}
