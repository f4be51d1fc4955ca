// Package form holds the book form controller: it validates form snapshots,
// decides between create and update from the edit state, and reports
// failures either inline or through a blocking notifier.
package form
