// Package profile holds the résumé model and turns it into paginated
// content blocks.
package profile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-cvpager/internal/dateutil"
	"github.com/alnah/go-cvpager/internal/decode"
)

// Sentinel errors for profile operations.
var (
	ErrProfileParse = errors.New("failed to parse profile")
	ErrMissingName  = errors.New("profile name is required")
	ErrInvalidDate  = errors.New("invalid profile date")
	ErrDateOrder    = errors.New("end date is before start date")
	ErrMissingField = errors.New("required profile field is empty")
)

// presentValues are endDate values meaning "ongoing", besides empty.
var presentValues = map[string]bool{"present": true, "false": true, "now": true}

// Profile is a personal profile.
type Profile struct {
	Name        Name         `yaml:"name" toml:"name" json:"name"`
	Lang        string       `yaml:"lang" toml:"lang" json:"lang"`
	Site        *Site        `yaml:"site" toml:"site" json:"site"`
	Email       string       `yaml:"email" toml:"email" json:"email"`
	Phone       string       `yaml:"phone" toml:"phone" json:"phone"`
	Summary     string       `yaml:"summary" toml:"summary" json:"summary"` // Markdown
	Skills      Skills       `yaml:"skills" toml:"skills" json:"skills"`
	Experiences []Experience `yaml:"experiences" toml:"experiences" json:"experiences"`
	Education   []Education  `yaml:"education" toml:"education" json:"education"`
	Sections    []Section    `yaml:"sections" toml:"sections" json:"sections"`
}

// Name is split so styles can address each part.
type Name struct {
	First  string `yaml:"first" toml:"first" json:"first"`
	Middle string `yaml:"middle" toml:"middle" json:"middle"`
	Last   string `yaml:"last" toml:"last" json:"last"`
}

// Full joins the non-empty parts with spaces.
func (n Name) Full() string {
	return strings.Join(strings.Fields(n.First+" "+n.Middle+" "+n.Last), " ")
}

// Site is a personal website link.
type Site struct {
	Text string `yaml:"text" toml:"text" json:"text"`
	URL  string `yaml:"url" toml:"url" json:"url"`
}

// Skills lists skill groups in display order, followed by remarks.
type Skills struct {
	Title   string       `yaml:"title" toml:"title" json:"title"`
	Groups  []SkillGroup `yaml:"groups" toml:"groups" json:"groups"`
	Remarks []string     `yaml:"remarks" toml:"remarks" json:"remarks"` // Markdown
}

// SkillGroup is a named set of skills, such as "Web" or "Databases".
type SkillGroup struct {
	Name   string  `yaml:"name" toml:"name" json:"name"`
	Skills []Skill `yaml:"skills" toml:"skills" json:"skills"`
}

// Skill is one skill with an optional level ("Proficient").
type Skill struct {
	Name  string `yaml:"name" toml:"name" json:"name"`
	Level string `yaml:"level" toml:"level" json:"level"`
}

// Experience is one position. Dates are YYYY-MM; see DateValue for how an
// ongoing position is marked.
type Experience struct {
	Title       string    `yaml:"title" toml:"title" json:"title"`
	Employer    string    `yaml:"employer" toml:"employer" json:"employer"`
	Location    string    `yaml:"location" toml:"location" json:"location"`
	StartDate   string    `yaml:"startDate" toml:"startDate" json:"startDate"`
	EndDate     DateValue `yaml:"endDate" toml:"endDate" json:"endDate"`
	DutyRemarks string    `yaml:"dutyRemarks" toml:"dutyRemarks" json:"dutyRemarks"` // Markdown
}

// Education is one degree or course of study.
type Education struct {
	Degree      string    `yaml:"degree" toml:"degree" json:"degree"`
	Institution string    `yaml:"institution" toml:"institution" json:"institution"`
	Location    string    `yaml:"location" toml:"location" json:"location"`
	StartDate   string    `yaml:"startDate" toml:"startDate" json:"startDate"`
	EndDate     DateValue `yaml:"endDate" toml:"endDate" json:"endDate"`
	Remarks     string    `yaml:"remarks" toml:"remarks" json:"remarks"` // Markdown
}

// Section is a free-form titled section.
type Section struct {
	Title    string `yaml:"title" toml:"title" json:"title"`
	Markdown string `yaml:"markdown" toml:"markdown" json:"markdown"`
}

// Load reads a profile file. The format follows the extension.
func Load(path string) (*Profile, error) {
	format, err := decode.FormatFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileParse, err)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- profile path is user-provided
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	return Parse(format, data)
}

// Parse decodes and validates a profile. Unknown fields are rejected so
// typos do not silently drop content.
func Parse(format decode.Format, data []byte) (*Profile, error) {
	var p Profile
	if err := decode.UnmarshalStrict(format, data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileParse, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks required fields and dates.
func (p *Profile) Validate() error {
	if p.Name.Full() == "" {
		return ErrMissingName
	}
	if p.Site != nil && p.Site.URL == "" && p.Site.Text == "" {
		return fmt.Errorf("%w: site needs a text or url", ErrMissingField)
	}

	for i, g := range p.Skills.Groups {
		if g.Name == "" {
			return fmt.Errorf("%w: skills.groups[%d].name", ErrMissingField, i)
		}
		for j, s := range g.Skills {
			if s.Name == "" {
				return fmt.Errorf("%w: skills.groups[%d].skills[%d].name", ErrMissingField, i, j)
			}
		}
	}

	for i, e := range p.Experiences {
		if e.Title == "" {
			return fmt.Errorf("%w: experiences[%d].title", ErrMissingField, i)
		}
		if _, _, err := parsePeriod(e.StartDate, e.EndDate); err != nil {
			return fmt.Errorf("experiences[%d]: %w", i, err)
		}
	}
	for i, e := range p.Education {
		if e.Degree == "" && e.Institution == "" {
			return fmt.Errorf("%w: education[%d] needs a degree or institution", ErrMissingField, i)
		}
		if _, _, err := parsePeriod(e.StartDate, e.EndDate); err != nil {
			return fmt.Errorf("education[%d]: %w", i, err)
		}
	}
	for i, s := range p.Sections {
		if s.Title == "" {
			return fmt.Errorf("%w: sections[%d].title", ErrMissingField, i)
		}
	}
	return nil
}

// parsePeriod parses a start and end date. A zero end means ongoing.
func parsePeriod(start string, end DateValue) (dateutil.YearMonth, dateutil.YearMonth, error) {
	s, err := dateutil.ParseYearMonth(start)
	if err != nil {
		return dateutil.YearMonth{}, dateutil.YearMonth{}, fmt.Errorf("%w: startDate %q", ErrInvalidDate, start)
	}
	if end.Ongoing() {
		end = ""
	}
	e, err := dateutil.ParseYearMonth(string(end))
	if err != nil {
		return dateutil.YearMonth{}, dateutil.YearMonth{}, fmt.Errorf("%w: endDate %q", ErrInvalidDate, end)
	}
	if !s.IsZero() && !e.IsZero() && e.Before(s) {
		return dateutil.YearMonth{}, dateutil.YearMonth{}, fmt.Errorf("%w: %s to %s", ErrDateOrder, s, e)
	}
	return s, e, nil
}
