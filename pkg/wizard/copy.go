package wizard

import (
	"fmt"

	"github.com/satchelhq/satchel/pkg/domain"
)

// User-facing copy, translated per locale. Platform names are spliced
// in where the copy mentions the export source.

func selectFileText(platform string) domain.Text {
	return domain.Text{
		"en": fmt.Sprintf("Please select the %s export file you downloaded.", platform),
		"nl": fmt.Sprintf("Selecteer het %s exportbestand dat u heeft gedownload.", platform),
	}
}

func extractingText(platform string) domain.Text {
	return domain.Text{
		"en": fmt.Sprintf("Processing your %s export.", platform),
		"nl": fmt.Sprintf("Uw %s export wordt verwerkt.", platform),
	}
}

// retryText picks the confirm-prompt copy for the failure at hand. The
// empty case reads differently from the hard failures: the file was
// fine, it just held nothing worth donating.
func retryText(platform string, kind domain.OutcomeKind) domain.Text {
	switch kind {
	case domain.OutcomeEmpty:
		return domain.Text{
			"en": fmt.Sprintf("We processed this file, but it contained no data we could use. You can try again with a different %s export.", platform),
			"nl": fmt.Sprintf("We hebben dit bestand verwerkt, maar het bevatte geen bruikbare gegevens. U kunt het opnieuw proberen met een ander %s exportbestand.", platform),
		}
	case domain.OutcomeMalformed:
		return domain.Text{
			"en": fmt.Sprintf("This file looks like a %s export, but it appears to be damaged and could not be read. You can try again with a different file.", platform),
			"nl": fmt.Sprintf("Dit bestand lijkt op een %s export, maar het lijkt beschadigd en kon niet worden gelezen. U kunt het opnieuw proberen met een ander bestand.", platform),
		}
	default:
		return domain.Text{
			"en": fmt.Sprintf("We could not process this file. Are you sure you selected your %s export? You can try again with a different file.", platform),
			"nl": fmt.Sprintf("We konden dit bestand niet verwerken. Weet u zeker dat u uw %s export heeft geselecteerd? U kunt het opnieuw proberen met een ander bestand.", platform),
		}
	}
}

var retryOKText = domain.Text{
	"en": "Try again",
	"nl": "Opnieuw proberen",
}

var retryCancelText = domain.Text{
	"en": "Continue without donating",
	"nl": "Doorgaan zonder doneren",
}

var consentTitleText = domain.Text{
	"en": "Review your data",
	"nl": "Controleer uw gegevens",
}

var consentIntroText = domain.Text{
	"en": "Below you can review the data extracted from your file. Only what you see here will be donated.",
	"nl": "Hieronder kunt u de gegevens uit uw bestand controleren. Alleen wat u hier ziet wordt gedoneerd.",
}

var donateQuestionText = domain.Text{
	"en": "Do you want to donate the data above?",
	"nl": "Wilt u de bovenstaande gegevens doneren?",
}

var donateButtonText = domain.Text{
	"en": "Yes, donate",
	"nl": "Ja, doneer",
}

var logTableTitleText = domain.Text{
	"en": "Processing log",
	"nl": "Verwerkingslogboek",
}

var logTableDescriptionText = domain.Text{
	"en": "What happened while your file was being processed.",
	"nl": "Wat er gebeurde tijdens het verwerken van uw bestand.",
}
