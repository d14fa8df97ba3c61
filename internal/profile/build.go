package profile

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/alnah/go-cvpager/internal/dateutil"
	"github.com/alnah/go-cvpager/internal/paginate"
	"github.com/alnah/go-cvpager/internal/pipeline"
)

// Labels are the section headings the builder emits.
type Labels struct {
	Skills     string
	Experience string
	Education  string
}

// DefaultLabels returns English section headings.
func DefaultLabels() Labels {
	return Labels{Skills: "Skills", Experience: "Experience", Education: "Education"}
}

// Builder turns a Profile into a content tree.
type Builder struct {
	converter pipeline.MarkdownConverter
	period    dateutil.Period
	labels    Labels
	sourceDir string
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithPeriod sets how experience and education dates render.
func WithPeriod(p dateutil.Period) BuilderOption {
	return func(b *Builder) { b.period = p }
}

// WithLabels sets the section headings. Empty labels keep the default.
func WithLabels(l Labels) BuilderOption {
	return func(b *Builder) {
		if l.Skills != "" {
			b.labels.Skills = l.Skills
		}
		if l.Experience != "" {
			b.labels.Experience = l.Experience
		}
		if l.Education != "" {
			b.labels.Education = l.Education
		}
	}
}

// WithSourceDir resolves relative image and link paths in Markdown fields
// against dir.
func WithSourceDir(dir string) BuilderOption {
	return func(b *Builder) { b.sourceDir = dir }
}

// NewBuilder creates a Builder that converts Markdown fields with converter.
func NewBuilder(converter pipeline.MarkdownConverter, opts ...BuilderOption) *Builder {
	period, _ := dateutil.NewPeriod(dateutil.DefaultPeriodFormat, dateutil.DefaultPresentLabel)
	b := &Builder{
		converter: converter,
		period:    period,
		labels:    DefaultLabels(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns the profile as an ordered content tree: the identity block
// and summary first, then one group per section. Section headings are
// blocks of their own and each entry is a group of its heading and the
// blocks of its remarks, so long entries can break between pages.
func (b *Builder) Build(ctx context.Context, p *Profile) ([]paginate.Node, error) {
	if p == nil {
		return nil, ErrMissingName
	}

	identity := []paginate.Node{paginate.Leaf(identityHTML(p))}
	summary, err := b.markdown(ctx, p.Summary, "profile__summary")
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	nodes := []paginate.Node{paginate.Group(append(identity, summary...)...)}

	skills, err := b.skills(ctx, p.Skills)
	if err != nil {
		return nil, fmt.Errorf("skills: %w", err)
	}
	if skills != nil {
		nodes = append(nodes, *skills)
	}

	if len(p.Experiences) > 0 {
		section := []paginate.Node{sectionTitle(b.labels.Experience)}
		for i, e := range p.Experiences {
			entry, err := b.experience(ctx, e)
			if err != nil {
				return nil, fmt.Errorf("experiences[%d]: %w", i, err)
			}
			section = append(section, entry)
		}
		nodes = append(nodes, paginate.Group(section...))
	}

	if len(p.Education) > 0 {
		section := []paginate.Node{sectionTitle(b.labels.Education)}
		for i, e := range p.Education {
			entry, err := b.education(ctx, e)
			if err != nil {
				return nil, fmt.Errorf("education[%d]: %w", i, err)
			}
			section = append(section, entry)
		}
		nodes = append(nodes, paginate.Group(section...))
	}

	for i, s := range p.Sections {
		body, err := b.markdown(ctx, s.Markdown, "section__body")
		if err != nil {
			return nil, fmt.Errorf("sections[%d]: %w", i, err)
		}
		nodes = append(nodes, paginate.Group(append([]paginate.Node{sectionTitle(s.Title)}, body...)...))
	}

	return nodes, nil
}

func identityHTML(p *Profile) string {
	var sb strings.Builder
	sb.WriteString(`<header class="profile"><h1 class="profile__name">`)
	for _, part := range []struct{ class, text string }{
		{"profile__firstname", p.Name.First},
		{"profile__middlename", p.Name.Middle},
		{"profile__lastname", p.Name.Last},
	} {
		if part.text == "" {
			continue
		}
		fmt.Fprintf(&sb, `<span class="%s">%s</span> `, part.class, html.EscapeString(part.text))
	}
	sb.WriteString(`</h1><div class="profile__contact">`)
	if p.Site != nil {
		text := p.Site.Text
		if text == "" {
			text = p.Site.URL
		}
		if p.Site.URL != "" {
			fmt.Fprintf(&sb, `<div class="profile__site"><a href="%s" target="_blank">%s</a></div>`,
				html.EscapeString(p.Site.URL), html.EscapeString(text))
		} else {
			fmt.Fprintf(&sb, `<div class="profile__site">%s</div>`, html.EscapeString(text))
		}
	}
	if p.Phone != "" {
		fmt.Fprintf(&sb, `<div class="profile__phone">%s</div>`, html.EscapeString(p.Phone))
	}
	if p.Email != "" {
		email := html.EscapeString(p.Email)
		fmt.Fprintf(&sb, `<div class="profile__email"><a href="mailto:%s">%s</a></div>`, email, email)
	}
	sb.WriteString(`</div></header>`)
	return sb.String()
}

func sectionTitle(title string) paginate.Node {
	return paginate.Leaf(`<h2 class="section__title">` + html.EscapeString(title) + `</h2>`)
}

func (b *Builder) skills(ctx context.Context, s Skills) (*paginate.Node, error) {
	if len(s.Groups) == 0 && len(s.Remarks) == 0 {
		return nil, nil
	}

	title := s.Title
	if title == "" {
		title = b.labels.Skills
	}
	section := []paginate.Node{sectionTitle(title)}

	for _, g := range s.Groups {
		var sb strings.Builder
		fmt.Fprintf(&sb, `<div class="skills__group"><span class="skills__name">%s</span>: `, html.EscapeString(g.Name))
		for i, skill := range g.Skills {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(`<span class="skill">`)
			sb.WriteString(html.EscapeString(skill.Name))
			if skill.Level != "" {
				fmt.Fprintf(&sb, ` <span class="skill__level">(%s)</span>`, html.EscapeString(skill.Level))
			}
			sb.WriteString(`</span>`)
		}
		sb.WriteString(`</div>`)
		section = append(section, paginate.Leaf(sb.String()))
	}

	for _, remark := range s.Remarks {
		body, err := b.markdown(ctx, remark, "skills__remarks")
		if err != nil {
			return nil, err
		}
		section = append(section, body...)
	}

	group := paginate.Group(section...)
	return &group, nil
}

func (b *Builder) experience(ctx context.Context, e Experience) (paginate.Node, error) {
	start, end, err := parsePeriod(e.StartDate, e.EndDate)
	if err != nil {
		return paginate.Node{}, err
	}

	head := entryHead(e.Title, b.period.Format(start, end), e.Employer, e.Location)
	body, err := b.markdown(ctx, e.DutyRemarks, "entry__body")
	if err != nil {
		return paginate.Node{}, err
	}
	return paginate.Group(append([]paginate.Node{head}, body...)...), nil
}

func (b *Builder) education(ctx context.Context, e Education) (paginate.Node, error) {
	start, end, err := parsePeriod(e.StartDate, e.EndDate)
	if err != nil {
		return paginate.Node{}, err
	}

	var period string
	if !start.IsZero() || !end.IsZero() {
		period = b.period.Format(start, end)
	}
	title := e.Degree
	org := e.Institution
	if title == "" {
		title, org = e.Institution, ""
	}

	head := entryHead(title, period, org, e.Location)
	body, err := b.markdown(ctx, e.Remarks, "entry__body")
	if err != nil {
		return paginate.Node{}, err
	}
	return paginate.Group(append([]paginate.Node{head}, body...)...), nil
}

func entryHead(title, period, org, location string) paginate.Node {
	var sb strings.Builder
	sb.WriteString(`<div class="entry"><div class="entry__head">`)
	fmt.Fprintf(&sb, `<span class="entry__title">%s</span>`, html.EscapeString(title))
	if period != "" {
		fmt.Fprintf(&sb, `<span class="entry__period">%s</span>`, html.EscapeString(period))
	}
	sb.WriteString(`</div>`)
	if org != "" || location != "" {
		sb.WriteString(`<div class="entry__head">`)
		fmt.Fprintf(&sb, `<span class="entry__org">%s</span>`, html.EscapeString(org))
		if location != "" {
			fmt.Fprintf(&sb, `<span class="entry__location">%s</span>`, html.EscapeString(location))
		}
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)
	return paginate.Leaf(sb.String())
}

// markdown converts a Markdown field and splits it into blocks, one per
// top-level element and list item, each wrapped in a div of class.
func (b *Builder) markdown(ctx context.Context, md, class string) ([]paginate.Node, error) {
	if strings.TrimSpace(md) == "" {
		return nil, nil
	}

	fragment, err := b.converter.ToFragment(ctx, md)
	if err != nil {
		return nil, err
	}
	if fragment, err = pipeline.RewriteRelativePaths(fragment, b.sourceDir); err != nil {
		return nil, err
	}
	nodes, err := pipeline.SplitBlocks(fragment, pipeline.WithListItems())
	if err != nil {
		return nil, err
	}
	return wrapLeaves(nodes, `<div class="`+class+`">`, `</div>`), nil
}

// wrapLeaves returns a copy of nodes with every leaf's markup wrapped.
func wrapLeaves(nodes []paginate.Node, opening, closing string) []paginate.Node {
	out := make([]paginate.Node, len(nodes))
	for i, n := range nodes {
		if n.IsGroup() {
			out[i] = paginate.Group(wrapLeaves(n.Children(), opening, closing)...)
			continue
		}
		out[i] = paginate.Leaf(opening + n.HTML() + closing)
	}
	return out
}
