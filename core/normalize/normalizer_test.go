package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gaurav-prasanna/chronoform/core"
)

var (
	bold  = core.Style{BoldHeadings: true}
	plain = core.Style{}
)

func p(text string) string {
	return `<p style="margin: 2px 0;">` + text + `</p>`
}

func strong(text string) string {
	return p("<strong>" + text + "</strong>")
}

func join(blocks ...string) string {
	return strings.Join(blocks, "\n")
}

func TestNormalizeLines_Scenarios(t *testing.T) {
	t.Run("Should emit heading then prose for a label line", func(t *testing.T) {
		got := NormalizeLines([]string{"Subjective:", "Patient reports mild pain."}, bold)
		assert.Equal(t, join(strong("Subjective:"), p("Patient reports mild pain.")), got)
	})

	t.Run("Should keep a clock time unsplit", func(t *testing.T) {
		got := NormalizeLines([]string{"Appointment at 16:30 today"}, bold)
		assert.Equal(t, p("Appointment at 16:30 today"), got)
	})

	t.Run("Should keep list items as separate blocks", func(t *testing.T) {
		got := NormalizeLines([]string{"1. Take medication", "2. Rest"}, bold)
		assert.Equal(t, join(p("1. Take medication"), p("2. Rest")), got)
	})

	t.Run("Should treat a shout-case line as a heading", func(t *testing.T) {
		got := NormalizeLines([]string{"Patient stable.", "PLAN", "Continue monitoring"}, bold)
		assert.Equal(t, join(p("Patient stable."), Separator, strong("PLAN"), p("Continue monitoring")), got)
	})

	t.Run("Should break before a capitalised next line", func(t *testing.T) {
		got := NormalizeLines([]string{"Patient arrived late", "Doctor reviewed chart"}, bold)
		assert.Equal(t, join(p("Patient arrived late"), p("Doctor reviewed chart")), got)
	})
}

func TestNormalizeLines_Prose(t *testing.T) {
	t.Run("Should merge soft-wrapped lines", func(t *testing.T) {
		got := NormalizeLines([]string{"Patient arrived", "late in the evening", "and left early."}, plain)
		assert.Equal(t, p("Patient arrived late in the evening and left early."), got)
	})

	t.Run("Should flush after terminal punctuation even before lowercase", func(t *testing.T) {
		got := NormalizeLines([]string{"Is it sore?", "no, not today!", "ok."}, plain)
		assert.Equal(t, join(p("Is it sore?"), p("no, not today!"), p("ok.")), got)
	})

	t.Run("Should flush at end of input", func(t *testing.T) {
		got := NormalizeLines([]string{"still going"}, plain)
		assert.Equal(t, p("still going"), got)
	})

	t.Run("Should skip blank lines when looking ahead", func(t *testing.T) {
		got := NormalizeLines([]string{"first part", "  ", "second part."}, plain)
		assert.Equal(t, p("first part second part."), got)
	})
}

func TestNormalizeLines_Headings(t *testing.T) {
	t.Run("Should seed the buffer with the remainder", func(t *testing.T) {
		got := NormalizeLines([]string{"Objective: BP stable", "and improving."}, bold)
		assert.Equal(t, join(strong("Objective:"), p("BP stable and improving.")), got)
	})

	t.Run("Should flush open prose before a heading", func(t *testing.T) {
		got := NormalizeLines([]string{"some notes", "Assessment: improving"}, bold)
		assert.Equal(t, join(p("some notes"), Separator, strong("Assessment:"), p("improving")), got)
	})

	t.Run("Should separate consecutive headings", func(t *testing.T) {
		got := NormalizeLines([]string{"HISTORY", "Notes:"}, bold)
		assert.Equal(t, join(strong("HISTORY"), Separator, strong("Notes:")), got)
	})

	t.Run("Should not bold headings in plain style", func(t *testing.T) {
		got := NormalizeLines([]string{"Plan:", "Rest."}, plain)
		assert.Equal(t, join(p("Plan:"), p("Rest.")), got)
	})

	t.Run("Should never start output with a separator", func(t *testing.T) {
		got := NormalizeLines([]string{"Plan: rest"}, bold)
		assert.False(t, strings.HasPrefix(got, Separator))
	})

	t.Run("Should not place separators before list items", func(t *testing.T) {
		got := NormalizeLines([]string{"Medication:", "1. Paracetamol", "2) Ibuprofen"}, bold)
		assert.Equal(t, join(strong("Medication:"), p("1. Paracetamol"), p("2) Ibuprofen")), got)
	})

	t.Run("Should never merge list items with prose", func(t *testing.T) {
		got := NormalizeLines([]string{"taken with", "1. water", "and food"}, plain)
		assert.Equal(t, join(p("taken with"), p("1. water"), p("and food")), got)
	})
}

func TestNormalizeLines_Emphasis(t *testing.T) {
	t.Run("Should italicise quoted spans keeping the quotes", func(t *testing.T) {
		got := NormalizeLines([]string{`Patient said "I feel fine" and "no pain".`}, plain)
		assert.Equal(t, p(`Patient said <em>"I feel fine"</em> and <em>"no pain"</em>.`), got)
	})

	t.Run("Should italicise inside bold headings", func(t *testing.T) {
		got := NormalizeLines([]string{`"QUOTED" heading:`}, bold)
		assert.Equal(t, strong(`<em>"QUOTED"</em> heading:`), got)
	})

	t.Run("Should apply emphasis per block", func(t *testing.T) {
		got := NormalizeLines([]string{`He said "stop.`, `Later" she left.`}, plain)
		assert.Equal(t, join(p(`He said "stop.`), p(`Later" she left.`)), got)
	})

	t.Run("Should leave empty quotes alone", func(t *testing.T) {
		assert.Equal(t, `say "" twice`, Emphasize(`say "" twice`))
	})
}

func TestNormalize(t *testing.T) {
	t.Run("Should return empty output for empty input", func(t *testing.T) {
		assert.Equal(t, "", Normalize("", bold))
		assert.Equal(t, "", Normalize("<div>no paragraphs</div>", bold))
		assert.Equal(t, "", Normalize("<p> </p><p>&nbsp;</p>", bold))
	})

	t.Run("Should normalize an authored fragment", func(t *testing.T) {
		in := `<p><span>SUBJECTIVE</span></p>
<p>Patient reports <b>mild</b>
   pain</p>
<p>in the left knee.</p>
<p>Time: 16:30</p>
<p>1. Ice</p><p>2) Rest</p>`
		want := join(
			strong("SUBJECTIVE"),
			p("Patient reports mild pain in the left knee."),
			Separator,
			strong("Time:"),
			p("16:30"),
			p("1. Ice"),
			p("2) Rest"),
		)
		assert.Equal(t, want, Normalize(in, bold))
	})

	t.Run("Should escape markup characters in text", func(t *testing.T) {
		got := Normalize(`<p>A &amp; B &lt; C.</p>`, plain)
		assert.Equal(t, p("A &amp; B &lt; C."), got)
	})

	t.Run("Should tolerate malformed markup", func(t *testing.T) {
		got := Normalize(`<p>unclosed <b>bold`, plain)
		assert.Equal(t, p("unclosed bold"), got)
	})

	t.Run("Should give the same result from a shared normalizer", func(t *testing.T) {
		n := New(bold)
		in := `<p>Plan:</p><p>Rest.</p>`
		assert.Equal(t, n.Normalize(in), n.Normalize(in))
	})
}

type fixedExtractor []string

func (f fixedExtractor) Lines(string) []string { return f }

func TestWithExtractor(t *testing.T) {
	n := New(plain, WithExtractor(fixedExtractor{"ignored input."}))
	assert.Equal(t, p("ignored input."), n.Normalize("<p>anything</p>"))
}
