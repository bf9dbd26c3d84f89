package catalog

// sampleSubjects is the fixed vocabulary the sample fetch draws from.
// The catalog has no real popularity endpoint, so a random subject
// filtered by relevance stands in for "popular books"; the spread of
// subjects keeps repeated visits from looking identical.
var sampleSubjects = []string{
	"fiction",
	"fantasy",
	"mystery",
	"romance",
	"science",
	"history",
	"biography",
	"poetry",
}
