package mailbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReportFullForm(t *testing.T) {
	body := `Namn: Anna Svensson
E-post: anna@example.com
Telefonnummer: 070-1234567
Adress: Storgatan 1
Lägenhetsnummer: 1203
Meddelande:
Kranen i köket läcker.
Vattnet rinner hela tiden.
---
Skickat från felanmälningsformuläret`

	report := ParseReport(body)

	assert.Equal(t, "Anna Svensson", report.ReporterName)
	assert.Equal(t, "anna@example.com", report.ReporterEmail)
	assert.Equal(t, "070-1234567", report.ReporterPhone)
	assert.Equal(t, "Storgatan 1", report.Address)
	assert.Equal(t, "1203", report.ApartmentNumber)
	assert.Equal(t, "Kranen i köket läcker.\nVattnet rinner hela tiden.", report.Description)
}

func TestParseReportMessageWithoutDelimiter(t *testing.T) {
	body := "Meddelande:\nElementet är kallt"

	report := ParseReport(body)

	assert.Equal(t, "Elementet är kallt", report.Description)
}

func TestParseReportBlankLinesInMessageDropped(t *testing.T) {
	body := "Meddelande:\nFörsta raden\n\n\nAndra raden\n---"

	report := ParseReport(body)

	assert.Equal(t, "Första raden\nAndra raden", report.Description)
}

func TestParseReportNoMessageFallback(t *testing.T) {
	body := "Namn: Bo Berg\nE-post: bo@example.com"

	report := ParseReport(body)

	assert.Equal(t, "Bo Berg", report.ReporterName)
	assert.Equal(t, NoDescriptionFallback, report.Description)
}

func TestParseReportEmptyBody(t *testing.T) {
	report := ParseReport("")

	assert.Empty(t, report.ReporterName)
	assert.Empty(t, report.ReporterEmail)
	assert.Equal(t, NoDescriptionFallback, report.Description)
}

func TestParseReportLabelValuesTrimmed(t *testing.T) {
	body := "Namn:   Eva Lind   \nAdress:\tLillgatan 7"

	report := ParseReport(body)

	assert.Equal(t, "Eva Lind", report.ReporterName)
	assert.Equal(t, "Lillgatan 7", report.Address)
}

func TestParseReportUnlabeledLinesIgnored(t *testing.T) {
	body := `Hej,
Namn: Karl
vänliga hälsningar
Meddelande:
Dörren kärvar
---`

	report := ParseReport(body)

	assert.Equal(t, "Karl", report.ReporterName)
	assert.Equal(t, "Dörren kärvar", report.Description)
}

func TestParseReportDelimiterEndsMessage(t *testing.T) {
	body := "Meddelande:\nProblem med hissen\n---\nDen här raden ska inte med"

	report := ParseReport(body)

	assert.Equal(t, "Problem med hissen", report.Description)
}
