package content

// PostStatus is the publication state of a blog post. Only published posts
// are visible on the public site.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
	PostArchived  PostStatus = "archived"
)

// Valid reports whether s is a known post status.
func (s PostStatus) Valid() bool {
	switch s {
	case PostDraft, PostPublished, PostArchived:
		return true
	}
	return false
}

// ProjectStatus describes how far along a project is. It is independent of
// whether the project is published.
type ProjectStatus string

const (
	ProjectCompleted  ProjectStatus = "completed"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectOnHold     ProjectStatus = "on_hold"
	ProjectPlanned    ProjectStatus = "planned"
)

// Label returns the human readable status.
func (s ProjectStatus) Label() string {
	switch s {
	case ProjectCompleted:
		return "Completed"
	case ProjectInProgress:
		return "In Progress"
	case ProjectOnHold:
		return "On Hold"
	case ProjectPlanned:
		return "Planned"
	}
	return string(s)
}

// MessageStatus is the moderation state of a contact message. Every state
// can be reached from every other one by an explicit moderator action.
type MessageStatus string

const (
	MessageNew      MessageStatus = "new"
	MessageRead     MessageStatus = "read"
	MessageReplied  MessageStatus = "replied"
	MessageSpam     MessageStatus = "spam"
	MessageArchived MessageStatus = "archived"
)

// MessageStatuses lists every moderation state in workflow order.
var MessageStatuses = []MessageStatus{MessageNew, MessageRead, MessageReplied, MessageSpam, MessageArchived}

// Valid reports whether s is a known message status.
func (s MessageStatus) Valid() bool {
	for _, known := range MessageStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// MessageReason is the topic a visitor picked on the contact form.
type MessageReason string

const (
	ReasonGeneral    MessageReason = "general"
	ReasonProject    MessageReason = "project"
	ReasonJob        MessageReason = "job"
	ReasonConsulting MessageReason = "consulting"
	ReasonFeedback   MessageReason = "feedback"
	ReasonOther      MessageReason = "other"
)

var reasonLabels = map[MessageReason]string{
	ReasonGeneral:    "General Inquiry",
	ReasonProject:    "Project Collaboration",
	ReasonJob:        "Job Opportunity",
	ReasonConsulting: "Consulting",
	ReasonFeedback:   "Feedback",
	ReasonOther:      "Other",
}

// MessageReasons lists the reasons in the order the form shows them.
var MessageReasons = []MessageReason{ReasonGeneral, ReasonProject, ReasonJob, ReasonConsulting, ReasonFeedback, ReasonOther}

// Label returns the display text of the reason.
func (r MessageReason) Label() string {
	if l, ok := reasonLabels[r]; ok {
		return l
	}
	return string(r)
}

// Valid reports whether r is a known reason.
func (r MessageReason) Valid() bool {
	_, ok := reasonLabels[r]
	return ok
}

var platformIcons = map[string]string{
	"github":        "fab fa-github",
	"linkedin":      "fab fa-linkedin-in",
	"twitter":       "fab fa-twitter",
	"facebook":      "fab fa-facebook-f",
	"instagram":     "fab fa-instagram",
	"youtube":       "fab fa-youtube",
	"stackoverflow": "fab fa-stack-overflow",
	"medium":        "fab fa-medium-m",
	"dev":           "fab fa-dev",
	"dribbble":      "fab fa-dribbble",
	"behance":       "fab fa-behance",
	"other":         "fas fa-link",
}

// PlatformIcon returns the default icon class for a social platform.
func PlatformIcon(platform string) string {
	if icon, ok := platformIcons[platform]; ok {
		return icon
	}
	return "fas fa-link"
}
