package guidance

import (
	"fmt"
	"net/url"
	"strings"
)

// Language is a kiosk conversation language.
type Language string

const (
	LanguageFrench  Language = "fr"
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// ParseLanguage maps a language tag to a supported kiosk language.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageFrench:
		return LanguageFrench, nil
	case LanguageEnglish:
		return LanguageEnglish, nil
	case LanguageArabic:
		return LanguageArabic, nil
	default:
		return "", fmt.Errorf("unsupported language %q", s)
	}
}

// ComposeGuidance builds the instruction shown when a visitor is registered:
// a location wins over a contact person. Both empty yields "".
func ComposeGuidance(lang Language, location, contact string) string {
	location = strings.TrimSpace(location)
	contact = strings.TrimSpace(contact)

	switch {
	case location != "":
		switch lang {
		case LanguageEnglish:
			return "Go to " + location
		case LanguageArabic:
			return "اذهب إلى " + location
		default:
			return "Rendez-vous à " + location
		}
	case contact != "":
		switch lang {
		case LanguageEnglish:
			return "Meet with " + contact
		case LanguageArabic:
			return "القاء " + contact
		default:
			return "Rendez-vous avec " + contact
		}
	}
	return ""
}

// RoomSelectionMessage is the chat message sent when a visitor taps a room on the plan.
func RoomSelectionMessage(lang Language, roomLabel, guidance string) string {
	switch lang {
	case LanguageEnglish:
		if guidance == "" {
			guidance = "Follow the red path."
		}
		return fmt.Sprintf("You selected %s. %s", roomLabel, guidance)
	case LanguageArabic:
		if guidance == "" {
			guidance = "اتبع المسار الأحمر."
		}
		return fmt.Sprintf("لقد اخترت %s. %s", roomLabel, guidance)
	default:
		if guidance == "" {
			guidance = "Suivez le chemin rouge."
		}
		return fmt.Sprintf("Vous avez sélectionné %s. %s", roomLabel, guidance)
	}
}

// ShareURL is the link encoded in the kiosk QR code so a visitor can reopen the plan on a phone.
func ShareURL(baseURL, guidance string) string {
	return strings.TrimRight(baseURL, "/") + "/plans?guidance=" + url.QueryEscape(guidance)
}
