package publish

// Exported aliases for testing internal functions from the
// publish_test package.

// HasRemovedJobsForTest exposes hasRemovedJobs.
var HasRemovedJobsForTest = hasRemovedJobs

// JobNamesForTest exposes jobNames.
var JobNamesForTest = jobNames

// CopyJobsForTest exposes copyJobs.
var CopyJobsForTest = copyJobs
