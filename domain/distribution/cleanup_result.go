package distribution

// SweepResult contains information about a retention sweep
type SweepResult struct {
	Skipped           bool // Retention not configured or below one day
	Listed            int  // Files seen in the listing
	ListingIncomplete bool // A page failed and the listing stopped early
	DeletedFiles      []DeletedFile
	FailedFiles       []DeletedFile
}

// DeletedFile represents a file that was (or failed to be) deleted
type DeletedFile struct {
	ID   string
	Name string
}
