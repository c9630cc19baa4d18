package pitch

import (
	"fmt"
	"html"
	"strings"
)

// Email is a rendered message ready for a mail transport.
type Email struct {
	Subject string
	Text    string
	HTML    string
}

var improvementAreas = []struct {
	weak func(Score) bool
	line string
}{
	{func(s Score) bool { return s.ProblemClarity < 10 }, "• Clarify your problem statement and solution"},
	{func(s Score) bool { return s.Market < 10 }, "• Research your market size and competitors more thoroughly"},
	{func(s Score) bool { return s.FounderCommitment < 5 }, "• Increase your time commitment to the project"},
	{func(s Score) bool { return s.Traction == 0 }, "• Build some initial traction (waitlist, pilot customers, etc.)"},
	{func(s Score) bool { return s.GTMPlan < 5 }, "• Develop a detailed plan for acquiring your first 100 users"},
	{func(s Score) bool { return s.ValidationBudget == 0 }, "• Prepare a budget for market validation"},
}

const preparationPlan = `Here's a short preparation plan:

1. **Strengthen Your Pitch**: Rewrite your one-liner and problem statement with specific details
2. **Research Competition**: Identify 3-5 direct competitors and your differentiation
3. **Build Traction**: Start a waitlist, find pilot customers, or build an email list
4. **Plan Distribution**: Write a detailed strategy for finding your first 100 users
5. **Set Validation Budget**: Prepare $500+ for market testing

When you've addressed these areas, reply to this email and we'll reassess your pitch.

Best regards,
Spencer`

// DeclineEmail is the plain text reply for pitches that should prepare or
// validate before any build work. Every improvement slot keeps its blank
// line, whether or not the area is weak.
func DeclineEmail(q Questionnaire, score Score) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", q.FullName)
	b.WriteString("Thanks for your pitch. Based on your submission, we suggest focusing on validation before any build work.\n\n")
	fmt.Fprintf(&b, "Your pitch scored %d/100. Here are the key areas to strengthen:\n\n", score.Total)
	for _, area := range improvementAreas {
		if area.weak(score) {
			b.WriteString(area.line)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(preparationPlan)
	return b.String()
}

// QualifiedEmail is the plain text reply for pitches that fit the
// Validate + Build program.
func QualifiedEmail(q Questionnaire, offer Offer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", q.FullName)
	b.WriteString("Great pitch! You scored well on our assessment and are a strong fit for our Validate + Build program.\n\n")
	fmt.Fprintf(&b, "**Your Next Steps:**\n%s\n\n", offer.NextStep)

	fmt.Fprintf(&b, "**Package Summary:**\n• %s: %s\n", offer.BasePackage.Name, formatDollars(offer.BasePackage.Price))
	var lines []string
	for _, a := range offer.TriggeredAddOns() {
		lines = append(lines, fmt.Sprintf("• %s: %s", a.Name, formatDollars(a.Price)))
	}
	b.WriteString(strings.Join(lines, "\n"))
	fmt.Fprintf(&b, "\n\n**Total Investment:** %s\n\n", formatDollars(offer.TotalPrice))

	b.WriteString("**What's Included:**\n")
	b.WriteString("- Market validation study (1-2 weeks)\n")
	b.WriteString("- Prototype of key screens\n")
	b.WriteString("- Landing page and ad testing\n")
	b.WriteString("- Market insights report\n")
	b.WriteString("- Credit toward build if validation succeeds\n\n")

	if offer.CallBookingURL != "" {
		fmt.Fprintf(&b, "**Book Your Kickoff Call:** %s", offer.CallBookingURL)
	}
	b.WriteByte('\n')
	if offer.PaymentURL != "" {
		fmt.Fprintf(&b, "**Secure Your Slot:** %s", offer.PaymentURL)
	}
	b.WriteString("\n\nWe're excited to help validate and build your idea!\n\nBest regards,\nSpencer")
	return b.String()
}

// FounderEmail is the assessment sent back to the founder. High band pitches
// get the qualified text, everyone else the preparation text.
func FounderEmail(q Questionnaire, score Score, offer Offer) Email {
	e := Email{
		Subject: offer.SubjectLine(),
		HTML:    confirmationHTML(q, offer),
	}
	if offer.Band == BandHigh {
		e.Text = QualifiedEmail(q, offer)
	} else {
		e.Text = DeclineEmail(q, score)
	}
	return e
}

func confirmationHTML(q Questionnaire, offer Offer) string {
	name := html.EscapeString(q.FullName)
	var b strings.Builder

	switch offer.Band {
	case BandHigh:
		fmt.Fprintf(&b, "<h2>Great pitch, %s!</h2>\n", name)
		b.WriteString("<p>You scored well on our assessment and are a strong fit for our Validate + Build program.</p>\n")
	case BandMedium:
		fmt.Fprintf(&b, "<h2>Thanks for your pitch, %s!</h2>\n", name)
		b.WriteString("<p>Your idea has potential. We recommend starting with validation to prove market demand.</p>\n")
	default:
		fmt.Fprintf(&b, "<h2>Thanks for your pitch, %s!</h2>\n", name)
		b.WriteString("<p>We recommend strengthening your pitch before validation. Here are some preparation steps to get ready.</p>\n")
		b.WriteString("<h3>Areas to Strengthen:</h3>\n<ul>\n")
		b.WriteString("<li>Clarify your problem statement and solution</li>\n")
		b.WriteString("<li>Research your market size and competitors more thoroughly</li>\n")
		b.WriteString("<li>Build some initial traction (waitlist, pilot customers, etc.)</li>\n")
		b.WriteString("<li>Develop a detailed plan for acquiring your first 100 users</li>\n")
		b.WriteString("</ul>\n")
		b.WriteString("<p>When you've addressed these areas, reply to this email and we'll reassess your pitch.</p>\n")
		b.WriteString("<p>Best regards,<br>Spencer</p>\n")
		return b.String()
	}

	fmt.Fprintf(&b, "<h3>Your Next Steps:</h3>\n<p>%s</p>\n", html.EscapeString(offer.NextStep))
	fmt.Fprintf(&b, "<h3>Recommended Package:</h3>\n<p><strong>%s</strong> - %s</p>\n<p>%s</p>\n",
		html.EscapeString(offer.BasePackage.Name), formatDollars(offer.TotalPrice), html.EscapeString(offer.BasePackage.Description))

	if offer.CallBookingURL != "" {
		label := "Book Consultation"
		if offer.Band == BandHigh {
			label = "Book Your Kickoff Call"
		}
		fmt.Fprintf(&b, "<p><a href=\"%s\">%s</a></p>\n", html.EscapeString(offer.CallBookingURL), label)
	}
	if offer.Band == BandHigh {
		b.WriteString("<p>We're excited to help validate and build your idea!</p>\n")
	}
	b.WriteString("<p>Best regards,<br>Spencer</p>\n")
	return b.String()
}

// AdminNotification summarizes a submission for the inbox that triages
// pitches.
func AdminNotification(q Questionnaire, score Score, offer Offer) Email {
	esc := html.EscapeString
	var b strings.Builder
	b.WriteString("<h2>New Pitch Submission</h2>\n")
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>\n", esc(q.FullName))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>\n", esc(q.Email))
	fmt.Fprintf(&b, "<p><strong>Score:</strong> %d/100 (%s)</p>\n", score.Total, offer.Band)
	fmt.Fprintf(&b, "<p><strong>Idea:</strong> %s</p>\n", esc(q.IdeaSummary))
	fmt.Fprintf(&b, "<p><strong>Deal Preference:</strong> %s</p>\n", esc(string(q.DealPreference)))
	fmt.Fprintf(&b, "<p><strong>Validation Ready:</strong> %s</p>\n", esc(string(q.ValidationReady)))
	fmt.Fprintf(&b, "<p><strong>Recommended Package:</strong> %s</p>\n", esc(offer.PackageSummary()))
	if len(score.Flags) > 0 {
		fmt.Fprintf(&b, "<p><strong>Flags:</strong> %s</p>\n", esc(strings.Join(score.FlagStrings(), ", ")))
	}
	b.WriteString("<h3>Score Breakdown:</h3>\n<ul>\n")
	for _, c := range score.Breakdown() {
		fmt.Fprintf(&b, "<li>%s: %d/%d</li>\n", c.Label, c.Value, c.Max)
	}
	b.WriteString("</ul>\n")
	fmt.Fprintf(&b, "<p><strong>Next Step:</strong> %s</p>\n", esc(offer.NextStep))

	return Email{
		Subject: fmt.Sprintf("New Pitch Submission: %s (Score: %d)", q.FullName, score.Total),
		HTML:    b.String(),
	}
}
