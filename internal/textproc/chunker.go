package textproc

import "strings"

// DefaultMaxChars is the default body-size threshold for a section.
const DefaultMaxChars = 1400

// Section is a hierarchy-scoped span of body text produced by the
// assembler. Sections carry structure only; semantic tags are applied
// by the tagging package afterwards.
type Section struct {
	// Heading is the governing heading, "num title".
	Heading string

	// HeadingNum is the dotted heading number, empty if unnumbered.
	HeadingNum string

	// Level is the heading depth, 0 if unnumbered.
	Level int

	// Path is the heading stack rendered as "num title > num title > ...".
	Path string

	// Text is the accumulated body. The heading line itself is never
	// part of the body.
	Text string
}

// Chunker assembles bounded, hierarchy-scoped sections from pre-cleaned
// manual text. It maintains a stack of (number, title) pairs for the
// current hierarchy path and flushes the body buffer on every heading
// and whenever the buffer reaches MaxChars.
type Chunker struct {
	maxChars int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxChars sets the body-size flush threshold in characters.
func WithMaxChars(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxChars = n
		}
	}
}

// NewChunker creates a chunker with the given options.
func NewChunker(opts ...Option) *Chunker {
	c := &Chunker{maxChars: DefaultMaxChars}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type headingEntry struct {
	num   string
	title string
}

// Split walks the text line by line and emits sections. Front matter
// before the first heading is dropped; a mid-section flush caused by the
// size threshold starts a fresh buffer under the same heading without
// repeating the heading line.
func (c *Chunker) Split(text string) []Section {
	lines := strings.Split(text, "\n")

	var sections []Section
	var stack []headingEntry
	var buf []string
	bufLen := 0
	currentHeading := ""
	seenHeading := false

	stackPath := func() string {
		parts := make([]string, len(stack))
		for i, e := range stack {
			parts[i] = strings.TrimSpace(e.num + " " + e.title)
		}
		return strings.Join(parts, " > ")
	}

	flush := func() {
		if len(buf) == 0 {
			return
		}
		body := strings.TrimSpace(strings.Join(buf, "\n"))
		buf = nil
		bufLen = 0
		if body == "" {
			return
		}

		num, lvl := "", 0
		if n, _, ok := ParseHeading(currentHeading); ok {
			num = n
			lvl = HeadingLevel(n)
		}

		sections = append(sections, Section{
			Heading:    currentHeading,
			HeadingNum: num,
			Level:      lvl,
			Path:       stackPath(),
			Text:       body,
		})
	}

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}

		if strings.Contains(strings.ToLower(stripped), "table of contents") {
			continue
		}
		if tocLeaderRE.MatchString(stripped) {
			continue
		}

		if IsHeadingLine(line) && !IsTableish(line) {
			if num, title, ok := ParseHeading(stripped); ok {
				level := HeadingLevel(num)

				if !seenHeading {
					seenHeading = true
				} else {
					flush()
				}

				// A new heading replaces same-level or deeper ancestors.
				for len(stack) > 0 && HeadingLevel(stack[len(stack)-1].num) >= level {
					stack = stack[:len(stack)-1]
				}
				stack = append(stack, headingEntry{num: num, title: title})
				currentHeading = strings.TrimSpace(num + " " + title)

				// The heading line is not part of the section body.
				continue
			}
		}

		if !seenHeading {
			continue
		}

		buf = append(buf, strings.TrimRight(line, " \t\r"))
		bufLen += len(line) + 1

		if bufLen >= c.maxChars {
			flush()
		}
	}

	flush()
	return sections
}
