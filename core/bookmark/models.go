package bookmark

import "time"

// ContentType classifies a saveable content item.
type ContentType string

const (
	TypeCourse    ContentType = "course"
	TypeWorkshop  ContentType = "workshop"
	TypeHackathon ContentType = "hackathon"
	TypeTutorial  ContentType = "tutorial"
)

// Item identifies a content item a user saved.
type Item struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Author      string      `json:"author"`
	Type        ContentType `json:"type"`
	Description string      `json:"description,omitempty"`
	SavedAt     time.Time   `json:"saved_at"`
}

// Enrollment is a joined content item. Unlike bookmarks, enrollments cannot
// be removed: joining is a commitment.
type Enrollment struct {
	Item
	EnrolledAt time.Time `json:"enrolled_at"`
	Progress   int       `json:"progress,omitempty"` // percent, 0-100
}

// State is the full persisted collection; it is what Storage loads and saves.
type State struct {
	Bookmarks   []Item       `json:"bookmarks"`
	Enrollments []Enrollment `json:"enrollments"`
}
