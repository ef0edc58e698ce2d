package models

// TopicAny is the waiting-queue key for seekers with no topic preference.
const TopicAny = ""

// Topics is the fixed set of conversation topics a room can be assigned.
// The slice order is the scan order used when pairing a topic-flexible
// seeker against specific-topic waiters, so it must stay stable.
var Topics = []string{
	"Anxiety",
	"Stress management",
	"Depression",
	"Sleep problems",
	"Loneliness",
	"Coping skills",
	"Mindfulness",
	"Work-life balance",
	"Self-esteem",
	"Motivation",
}
