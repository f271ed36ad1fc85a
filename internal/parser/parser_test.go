package parser

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

const sampleResume = "John Smith\njohn@example.com\n555-123-4567\n" +
	"Experience: Developed a Python API, improved performance 20%.\n" +
	"Education: Bachelor of Science, MIT.\n" +
	"Skills: Python, SQL, AWS."

func TestParseSampleResume(t *testing.T) {
	fields := New(nil).Parse(sampleResume)

	if fields.Name != "John Smith" {
		t.Fatalf("unexpected name %q", fields.Name)
	}
	if fields.Email != "john@example.com" {
		t.Fatalf("unexpected email %q", fields.Email)
	}
	if fields.Phone != "555-123-4567" {
		t.Fatalf("unexpected phone %q", fields.Phone)
	}

	if want := []string{"Python", "SQL", "AWS"}; !reflect.DeepEqual(fields.Skills, want) {
		t.Fatalf("expected skills %v, got %v", want, fields.Skills)
	}

	wantEducation := []string{"Education: Bachelor of Science, MIT. Skills: Python, SQL, AWS."}
	if !reflect.DeepEqual(fields.Education, wantEducation) {
		t.Fatalf("expected education %v, got %v", wantEducation, fields.Education)
	}

	wantExperience := []string{
		"Experience: Developed a Python API, improved performance 20%. Education: Bachelor of Science, MIT. Skills: Python, SQL, AWS.",
	}
	if !reflect.DeepEqual(fields.Experience, wantExperience) {
		t.Fatalf("expected experience %v, got %v", wantExperience, fields.Experience)
	}

	// "Developed" is also a project trigger; overlapping windows are kept.
	if !reflect.DeepEqual(fields.Projects, wantExperience) {
		t.Fatalf("expected projects %v, got %v", wantExperience, fields.Projects)
	}

	if fields.Certifications == nil || len(fields.Certifications) != 0 {
		t.Fatalf("expected empty certifications, got %#v", fields.Certifications)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	p := New(nil)
	first := p.Parse(sampleResume)
	for range 5 {
		if got := p.Parse(sampleResume); !reflect.DeepEqual(first, got) {
			t.Fatalf("expected identical results, got %+v and %+v", first, got)
		}
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "first line",
			lines: []string{"  Jane Doe  ", "Engineer"},
			want:  "Jane Doe",
		},
		{
			name:  "skips single token",
			lines: []string{"RESUME", "Jane Doe"},
			want:  "Jane Doe",
		},
		{
			name:  "skips contact lines",
			lines: []string{"jane at mail.com", "call 555 0100", "jane@x.io y", "Jane Doe"},
			want:  "Jane Doe",
		},
		{
			name:  "skips long lines",
			lines: []string{strings.Repeat("word ", 12), "Jane Doe"},
			want:  "Jane Doe",
		},
		{
			name:  "only first five lines",
			lines: []string{"a", "b", "c", "d", "e", "Jane Doe"},
			want:  "",
		},
		{
			name:  "nothing",
			lines: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Name(tt.lines); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "call 555 123-4567 now", want: "555 123-4567"},
		{input: "tel: 555.123.4567", want: "555.123.4567"},
		{input: "+1 555 123 4567", want: "1 555 123 4567"},
		{input: "no number here", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := Phone(tt.input); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	if got := Email("contact: first.last+cv@mail.example.org, backup a@b.co"); got != "first.last+cv@mail.example.org" {
		t.Fatalf("unexpected email %q", got)
	}
	if got := Email("nobody at example dot com"); got != "" {
		t.Fatalf("expected no email, got %q", got)
	}
}

func TestSkillsCaseInsensitiveAndDeduplicated(t *testing.T) {
	skills := New(nil).Skills("Python scripting\nmore python\nPYTHON again")

	count := 0
	for _, s := range skills {
		if strings.EqualFold(s, "python") {
			count++
			if s != "Python" {
				t.Fatalf("expected canonical casing, got %q", s)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one Python entry, got %d in %v", count, skills)
	}
}

func TestWindowStopsAtBlankAndLongLines(t *testing.T) {
	text := strings.Join([]string{
		"University of Somewhere",
		"BSc Computer Science",
		"",
		"Graduated with honors",
		"Institute of Technology",
		strings.Repeat("x", 200),
		"after the long line",
	}, "\n")

	got := New(nil).Parse(text).Education
	want := []string{
		"University of Somewhere BSc Computer Science",
		"Institute of Technology",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestWindowTakesAtMostFollowingLines(t *testing.T) {
	text := "Work history\nl1\nl2\nl3\nl4\nl5\nl6"

	got := New(nil).Parse(text).Experience
	want := []string{"Work history l1 l2 l3 l4 l5"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestListsAreCapped(t *testing.T) {
	var lines []string
	for i := range 8 {
		lines = append(lines, fmt.Sprintf("Certified thing %d", i), "")
		lines = append(lines, fmt.Sprintf("Project number %d", i), "")
	}

	fields := New(nil).Parse(strings.Join(lines, "\n"))
	if len(fields.Certifications) != MaxEntries {
		t.Fatalf("expected %d certifications, got %d", MaxEntries, len(fields.Certifications))
	}
	if fields.Certifications[0] != "Certified thing 0" {
		t.Fatalf("expected first match first, got %q", fields.Certifications[0])
	}
	if len(fields.Projects) != MaxEntries {
		t.Fatalf("expected %d projects, got %d", MaxEntries, len(fields.Projects))
	}
}

func TestParseEmptyText(t *testing.T) {
	fields := New(nil).Parse("")
	if fields.Name != "" || fields.Email != "" || fields.Phone != "" {
		t.Fatalf("expected empty scalar fields, got %+v", fields)
	}
	if len(fields.Skills)+len(fields.Education)+len(fields.Experience)+len(fields.Projects)+len(fields.Certifications) != 0 {
		t.Fatalf("expected empty lists, got %+v", fields)
	}
}
