package core

// Topic names a category of shared portal data whose mutation triggers
// a change notification to connected clients.
type Topic string

const (
	TopicAssets        Topic = "assets"
	TopicPublications  Topic = "publications"
	TopicAnnouncements Topic = "announcements"
	TopicGrievances    Topic = "grievances"
	TopicKeyMoments    Topic = "key-moments"
)
