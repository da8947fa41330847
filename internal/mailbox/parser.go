package mailbox

import (
	"strings"
)

// NoDescriptionFallback is stored when an email carries no
// "Meddelande:" section.
const NoDescriptionFallback = "Ingen beskrivning tillgänglig"

// FallbackTitle is used when an inbound email has no subject.
const FallbackTitle = "Felanmälan via e-post"

// Report is the structured result of parsing one incident email.
type Report struct {
	ReporterName    string
	ReporterEmail   string
	ReporterPhone   string
	Address         string
	ApartmentNumber string
	Description     string
}

// Labels the report form puts in the email body. The format is fixed:
// no case variants, no reordering of the label set itself.
const (
	labelName      = "Namn:"
	labelEmail     = "E-post:"
	labelPhone     = "Telefonnummer:"
	labelAddress   = "Adress:"
	labelApartment = "Lägenhetsnummer:"
	labelMessage   = "Meddelande:"

	messageDelimiter = "---"
)

// ParseReport scans an email body line by line. Label-prefixed lines
// fill the matching field; everything between "Meddelande:" and a lone
// "---" becomes the description. Unlabeled lines outside the message
// section are discarded.
func ParseReport(body string) Report {
	var report Report
	var messageLines []string
	inMessage := false

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)

		if inMessage {
			if line == messageDelimiter {
				inMessage = false
				continue
			}
			if line != "" {
				messageLines = append(messageLines, line)
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, labelName):
			report.ReporterName = strings.TrimSpace(strings.TrimPrefix(line, labelName))
		case strings.HasPrefix(line, labelEmail):
			report.ReporterEmail = strings.TrimSpace(strings.TrimPrefix(line, labelEmail))
		case strings.HasPrefix(line, labelPhone):
			report.ReporterPhone = strings.TrimSpace(strings.TrimPrefix(line, labelPhone))
		case strings.HasPrefix(line, labelAddress):
			report.Address = strings.TrimSpace(strings.TrimPrefix(line, labelAddress))
		case strings.HasPrefix(line, labelApartment):
			report.ApartmentNumber = strings.TrimSpace(strings.TrimPrefix(line, labelApartment))
		case strings.HasPrefix(line, labelMessage):
			inMessage = true
		}
	}

	report.Description = strings.Join(messageLines, "\n")
	if report.Description == "" {
		report.Description = NoDescriptionFallback
	}
	return report
}
