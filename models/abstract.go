package models

import (
	"strings"
	"time"
)

// AbstractStatus defines the set of allowed review statuses for an Abstract.
type AbstractStatus string

const (
	AbstractStatusDraft        AbstractStatus = "draft"
	AbstractStatusSubmitted    AbstractStatus = "submitted"
	AbstractStatusReviewing    AbstractStatus = "reviewing"
	AbstractStatusApproved     AbstractStatus = "approved"
	AbstractStatusRejected     AbstractStatus = "rejected"
	AbstractStatusTypeChange   AbstractStatus = "type-change"
	AbstractStatusFinalVersion AbstractStatus = "final-version"
)

// IsValidAbstractStatus checks if the provided string is a valid AbstractStatus.
func IsValidAbstractStatus(statusStr string) (AbstractStatus, bool) {
	s := AbstractStatus(strings.ToLower(statusStr))
	switch s {
	case AbstractStatusDraft, AbstractStatusSubmitted, AbstractStatusReviewing,
		AbstractStatusApproved, AbstractStatusRejected, AbstractStatusTypeChange,
		AbstractStatusFinalVersion:
		return s, true
	default:
		return "", false
	}
}

// AbstractType defines the presentation format requested for an Abstract.
type AbstractType string

const (
	AbstractTypePoster AbstractType = "poster"
	AbstractTypeOral   AbstractType = "oral"
)

// Flipped returns the opposite presentation format. Used when a reviewer
// requests a type change and the flip is executed.
func (t AbstractType) Flipped() AbstractType {
	if t == AbstractTypePoster {
		return AbstractTypeOral
	}
	return AbstractTypePoster
}

// IsValidAbstractType checks if the provided string is a valid AbstractType.
func IsValidAbstractType(typeStr string) (AbstractType, bool) {
	t := AbstractType(strings.ToLower(typeStr))
	switch t {
	case AbstractTypePoster, AbstractTypeOral:
		return t, true
	default:
		return "", false
	}
}

// AbstractTheme defines the enumerated topic classification for an Abstract.
type AbstractTheme string

const (
	AbstractThemeClinicalResearch AbstractTheme = "clinical-research"
	AbstractThemeBasicScience     AbstractTheme = "basic-science"
	AbstractThemeCaseReport       AbstractTheme = "case-report"
	AbstractThemePublicHealth     AbstractTheme = "public-health"
	AbstractThemeEducation        AbstractTheme = "education"
)

// IsValidAbstractTheme checks if the provided string is a valid AbstractTheme.
func IsValidAbstractTheme(themeStr string) (AbstractTheme, bool) {
	th := AbstractTheme(strings.ToLower(themeStr))
	switch th {
	case AbstractThemeClinicalResearch, AbstractThemeBasicScience,
		AbstractThemeCaseReport, AbstractThemePublicHealth, AbstractThemeEducation:
		return th, true
	default:
		return "", false
	}
}

// Abstract represents one submitted conference abstract moving through
// the review lifecycle.
type Abstract struct {
	ID            string         `json:"id"`
	AccountID     string         `json:"account_id"`
	Title         string         `json:"title"`
	Introduction  string         `json:"introduction"`
	Materials     string         `json:"materials"`
	Results       string         `json:"results"`
	Discussion    string         `json:"discussion"`
	Conclusion    string         `json:"conclusion"`
	Observations  string         `json:"observations,omitempty"`
	Type          AbstractType   `json:"type"`
	Theme         AbstractTheme  `json:"theme"`
	AuthorName    string         `json:"author_name"`
	AuthorSurname string         `json:"author_surname"`
	AuthorEmail   string         `json:"author_email"`
	AuthorPhone   string         `json:"author_phone,omitempty"`
	CoAuthors     []string       `json:"co_authors"`
	Status        AbstractStatus `json:"status"`
	AdminNotes    string         `json:"admin_notes,omitempty"`
	FinalFilePath string         `json:"final_file_path,omitempty"`
	FinalFileHash string         `json:"final_file_hash,omitempty"`
	Version       int            `json:"version"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NormalizeCoAuthors splits a raw comma-separated co-author string into an
// ordered list of trimmed names. Empty and whitespace-only entries are dropped.
func NormalizeCoAuthors(raw string) []string {
	parts := strings.Split(raw, ",")
	coAuthors := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			continue
		}
		coAuthors = append(coAuthors, name)
	}
	return coAuthors
}
