// Package model defines the status vocabulary and the coarse status classifier.
package model

import "strings"

// Canonical status vocabulary
const (
	StatusPending      = "Pending"
	StatusConfirmedYes = "Confirmed--Yes"
	StatusConfirmedNo  = "Confirmed--No"
	StatusInProcess    = "In Process"
	StatusOther        = "Other"
)

// StatusVocabulary lists the canonical statuses in display order
var StatusVocabulary = []string{
	StatusPending,
	StatusConfirmedYes,
	StatusConfirmedNo,
	StatusInProcess,
	StatusOther,
}

// StatusBucket is a coarse status class used by the quick filters
type StatusBucket string

const (
	// BucketPending collects not-yet-worked statuses.
	BucketPending StatusBucket = "pending"
	// BucketInProgress collects statuses being worked on.
	BucketInProgress StatusBucket = "in-progress"
	// BucketDone collects finished statuses.
	BucketDone StatusBucket = "done"
)

var bucketAliases = map[string]StatusBucket{
	"pending":     BucketPending,
	"todo":        BucketPending,
	"to-do":       BucketPending,
	"new":         BucketPending,
	"in-progress": BucketInProgress,
	"in progress": BucketInProgress,
	"in_progress": BucketInProgress,
	"progress":    BucketInProgress,
	"working":     BucketInProgress,
	"done":        BucketDone,
	"completed":   BucketDone,
	"complete":    BucketDone,
	"verified":    BucketDone,
}

// ClassifyStatus maps a free-text status to its coarse bucket.
// Unrecognized values come back trimmed and lower-cased so they match no quick filter.
// An empty status is Pending by default and classifies as pending.
func ClassifyStatus(status string) StatusBucket {
	v := strings.ToLower(strings.TrimSpace(status))
	if v == "" {
		return BucketPending
	}
	if bucket, ok := bucketAliases[v]; ok {
		return bucket
	}
	return StatusBucket(v)
}

// IsQuickFilter reports whether the bucket is one of pending, in-progress or done
func (b StatusBucket) IsQuickFilter() bool {
	return b == BucketPending || b == BucketInProgress || b == BucketDone
}

// StatusColor returns the marker color for a status; unknown statuses are gray
func StatusColor(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "pending":
		return "yellow"
	case "confirmed--yes":
		return "green"
	case "confirmed--no":
		return "red"
	case "in process":
		return "blue"
	default:
		return "gray"
	}
}

// StatusClass derives the css-friendly class of a status: letters only, lower-cased
func StatusClass(status string) string {
	var b strings.Builder
	for _, r := range status {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "pending"
	}
	return strings.ToLower(b.String())
}
