package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-cvpager/internal/decode"
)

const sampleYAML = `
name:
  first: Ada
  last: Lovelace
site:
  text: ada.dev
  url: https://ada.dev
email: ada@example.com
phone: "+44 20 0000 0000"
summary: Mathematician.
skills:
  groups:
    - name: Languages
      skills:
        - name: Go
          level: Proficient
  remarks:
    - "- 10+ years of analytical engines."
experiences:
  - title: Analyst
    employer: Analytical Engine Co
    location: London
    startDate: "1842-01"
    endDate: ""
    dutyRemarks: |
      - Wrote the first program.
      - Published notes.
sections:
  - title: Interests
    markdown: Poetry and science.
`

const sampleTOML = `
email = "ada@example.com"

[name]
first = "Ada"
last = "Lovelace"

[[experiences]]
title = "Analyst"
startDate = "1842-01"
endDate = "1843-09"
`

const sampleJSON = `{
  "name": {"first": "Ada", "last": "Lovelace"},
  "education": [{"institution": "Home", "startDate": "1830-01", "endDate": "1835-06"}]
}`

// ---------------------------------------------------------------------------
// TestParse - Decoding profiles in every format
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format decode.Format
		data   string
		check  func(t *testing.T, p *Profile)
	}{
		{
			name:   "yaml",
			format: decode.YAML,
			data:   sampleYAML,
			check: func(t *testing.T, p *Profile) {
				if p.Name.Full() != "Ada Lovelace" {
					t.Errorf("Name.Full() = %q", p.Name.Full())
				}
				if p.Site == nil || p.Site.URL != "https://ada.dev" {
					t.Errorf("Site = %+v", p.Site)
				}
				if len(p.Skills.Groups) != 1 || p.Skills.Groups[0].Skills[0].Level != "Proficient" {
					t.Errorf("Skills = %+v", p.Skills)
				}
				if len(p.Experiences) != 1 || p.Experiences[0].EndDate != "" {
					t.Errorf("Experiences = %+v", p.Experiences)
				}
				if len(p.Sections) != 1 || p.Sections[0].Title != "Interests" {
					t.Errorf("Sections = %+v", p.Sections)
				}
			},
		},
		{
			name:   "toml",
			format: decode.TOML,
			data:   sampleTOML,
			check: func(t *testing.T, p *Profile) {
				if len(p.Experiences) != 1 || p.Experiences[0].EndDate != "1843-09" {
					t.Errorf("Experiences = %+v", p.Experiences)
				}
			},
		},
		{
			name:   "json",
			format: decode.JSON,
			data:   sampleJSON,
			check: func(t *testing.T, p *Profile) {
				if len(p.Education) != 1 || p.Education[0].Institution != "Home" {
					t.Errorf("Education = %+v", p.Education)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := Parse(tt.format, []byte(tt.data))
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			tt.check(t, p)
		})
	}
}

func TestParse_EndDateFalse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format decode.Format
		data   string
	}{
		{"yaml", decode.YAML, "name: {first: Ada}\nexperiences:\n  - title: x\n    startDate: \"2020-01\"\n    endDate: false\n"},
		{"toml", decode.TOML, "[name]\nfirst = \"Ada\"\n[[experiences]]\ntitle = \"x\"\nstartDate = \"2020-01\"\nendDate = false\n"},
		{"json", decode.JSON, `{"name": {"first": "Ada"}, "experiences": [{"title": "x", "startDate": "2020-01", "endDate": false}]}`},
		{"json null", decode.JSON, `{"name": {"first": "Ada"}, "experiences": [{"title": "x", "startDate": "2020-01", "endDate": null}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := Parse(tt.format, []byte(tt.data))
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if len(p.Experiences) != 1 || !p.Experiences[0].EndDate.Ongoing() {
				t.Errorf("Experiences = %+v, want one ongoing experience", p.Experiences)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  decode.Format
		data    string
		wantErr error
	}{
		{"unknown field", decode.YAML, "name: {first: Ada}\nnickname: A\n", ErrProfileParse},
		{"malformed", decode.YAML, "name: [", ErrProfileParse},
		{"empty", decode.YAML, "", ErrProfileParse},
		{"no name", decode.JSON, `{"email": "a@b.c"}`, ErrMissingName},
		{"end date true", decode.JSON, `{"name": {"first": "A"}, "experiences": [{"title": "x", "startDate": "2020-01", "endDate": true}]}`, ErrProfileParse},
		{"end date number", decode.TOML, "[name]\nfirst = \"A\"\n[[experiences]]\ntitle = \"x\"\nstartDate = \"2020-01\"\nendDate = 2021\n", ErrProfileParse},
		{"bad date", decode.TOML, "[name]\nfirst = \"A\"\n[[experiences]]\ntitle = \"x\"\nstartDate = \"June\"\n", ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.format, []byte(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidate - Required fields and date checks
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Profile {
		return &Profile{Name: Name{First: "Ada"}}
	}

	tests := []struct {
		name    string
		mutate  func(p *Profile)
		wantErr error
	}{
		{"minimal", func(p *Profile) {}, nil},
		{"blank name", func(p *Profile) { p.Name = Name{First: "  "} }, ErrMissingName},
		{"empty site", func(p *Profile) { p.Site = &Site{} }, ErrMissingField},
		{"unnamed skill group", func(p *Profile) {
			p.Skills.Groups = []SkillGroup{{Skills: []Skill{{Name: "Go"}}}}
		}, ErrMissingField},
		{"unnamed skill", func(p *Profile) {
			p.Skills.Groups = []SkillGroup{{Name: "Web", Skills: []Skill{{Level: "x"}}}}
		}, ErrMissingField},
		{"experience without title", func(p *Profile) {
			p.Experiences = []Experience{{StartDate: "2020-01"}}
		}, ErrMissingField},
		{"ongoing experience", func(p *Profile) {
			p.Experiences = []Experience{{Title: "x", StartDate: "2020-01"}}
		}, nil},
		{"present spelled out", func(p *Profile) {
			p.Experiences = []Experience{{Title: "x", StartDate: "2020-01", EndDate: "Present"}}
		}, nil},
		{"end before start", func(p *Profile) {
			p.Experiences = []Experience{{Title: "x", StartDate: "2020-05", EndDate: "2020-04"}}
		}, ErrDateOrder},
		{"same month", func(p *Profile) {
			p.Experiences = []Experience{{Title: "x", StartDate: "2020-05", EndDate: "2020-05"}}
		}, nil},
		{"invalid end", func(p *Profile) {
			p.Experiences = []Experience{{Title: "x", StartDate: "2020-05", EndDate: "2020-13"}}
		}, ErrInvalidDate},
		{"empty education", func(p *Profile) {
			p.Education = []Education{{Location: "Paris"}}
		}, ErrMissingField},
		{"education order", func(p *Profile) {
			p.Education = []Education{{Degree: "BSc", StartDate: "2010-09", EndDate: "2009-06"}}
		}, ErrDateOrder},
		{"untitled section", func(p *Profile) {
			p.Sections = []Section{{Markdown: "x"}}
		}, ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := valid()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDateValue_Ongoing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value DateValue
		want  bool
	}{
		{"", true},
		{"present", true},
		{" Now ", true},
		{"false", true},
		{"2021-03", false},
	}

	for _, tt := range tests {
		if got := tt.value.Ongoing(); got != tt.want {
			t.Errorf("DateValue(%q).Ongoing() = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestName_Full(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name Name
		want string
	}{
		{Name{First: "Ada", Last: "Lovelace"}, "Ada Lovelace"},
		{Name{First: "Augusta", Middle: "Ada", Last: "King"}, "Augusta Ada King"},
		{Name{Last: "King"}, "King"},
		{Name{}, ""},
	}

	for _, tt := range tests {
		if got := tt.name.Full(); got != tt.want {
			t.Errorf("Full(%+v) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "ada.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if p.Email != "ada@example.com" {
		t.Errorf("Email = %q", p.Email)
	}

	if _, err := Load(filepath.Join(dir, "ada.txt")); !errors.Is(err, ErrProfileParse) {
		t.Errorf("Load(.txt) error = %v, want ErrProfileParse", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want os.ErrNotExist", err)
	}
}
