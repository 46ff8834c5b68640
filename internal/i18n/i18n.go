// Package i18n holds the user-facing message catalogs. The locale is an
// explicit value threaded from configuration into rendering; there is no
// process-wide language state.
package i18n

// Locale identifies a message catalog.
type Locale string

const (
	English Locale = "en"
	Kannada Locale = "kn"
)

// Catalog resolves message keys for one locale, falling back to English.
type Catalog struct {
	locale Locale
}

// ForLocale returns the catalog for a configured locale string.
func ForLocale(locale string) Catalog {
	switch Locale(locale) {
	case Kannada:
		return Catalog{locale: Kannada}
	default:
		return Catalog{locale: English}
	}
}

// Locale returns the catalog's locale.
func (c Catalog) Locale() Locale { return c.locale }

// T resolves a message key. Unknown keys return the key itself so missing
// translations are visible instead of silent.
func (c Catalog) T(key string) string {
	if m, ok := messages[key]; ok {
		if s, ok := m[c.locale]; ok && s != "" {
			return s
		}
		if s, ok := m[English]; ok {
			return s
		}
	}
	return key
}

// Guidelines returns the capture guidance points shown before the photo step.
func (c Catalog) Guidelines() []string {
	return []string{
		c.T("guidelines.live"),
		c.T("guidelines.mentioned"),
		c.T("guidelines.visible"),
	}
}

var messages = map[string]map[Locale]string{
	"header.subtitle": {
		English: "Crop photo verification",
		Kannada: "ಬೆಳೆ ಫೋಟೋ ಪರಿಶೀಲನೆ",
	},
	"steps.details": {
		English: "Details",
		Kannada: "ವಿವರಗಳು",
	},
	"steps.verify": {
		English: "Verify",
		Kannada: "ಪರಿಶೀಲನೆ",
	},
	"steps.profile": {
		English: "Done",
		Kannada: "ಮುಗಿಯಿತು",
	},
	"loading.farmDetails": {
		English: "Loading farm details...",
		Kannada: "ಫಾರ್ಮ್ ವಿವರಗಳನ್ನು ಲೋಡ್ ಮಾಡಲಾಗುತ್ತಿದೆ...",
	},
	"cropCard.cropDetailsTitle": {
		English: "Crop details",
		Kannada: "ಬೆಳೆ ವಿವರಗಳು",
	},
	"cropCard.quantity": {
		English: "Quantity",
		Kannada: "ಪ್ರಮಾಣ",
	},
	"cropCard.variety": {
		English: "Variety",
		Kannada: "ತಳಿ",
	},
	"cropCard.moisture": {
		English: "Moisture",
		Kannada: "ತೇವಾಂಶ",
	},
	"cropCard.willDry": {
		English: "Will dry",
		Kannada: "ಒಣಗಿಸುವಿರಾ",
	},
	"farmCard.title": {
		English: "Farmer details",
		Kannada: "ರೈತರ ವಿವರಗಳು",
	},
	"farmCard.fullName": {
		English: "Full name",
		Kannada: "ಪೂರ್ಣ ಹೆಸರು",
	},
	"farmCard.phone": {
		English: "Phone",
		Kannada: "ದೂರವಾಣಿ",
	},
	"farmCard.village": {
		English: "Village",
		Kannada: "ಗ್ರಾಮ",
	},
	"farmCard.taluk": {
		English: "Taluk",
		Kannada: "ತಾಲೂಕು",
	},
	"farmCard.district": {
		English: "District",
		Kannada: "ಜಿಲ್ಲೆ",
	},
	"guidelines.title": {
		English: "Before you start",
		Kannada: "ಪ್ರಾರಂಭಿಸುವ ಮೊದಲು",
	},
	"guidelines.live": {
		English: "Only live pictures allowed. Please make sure you are in the farm while clicking the pictures.",
		Kannada: "ನೇರ ಚಿತ್ರಗಳಿಗೆ ಮಾತ್ರ ಅವಕಾಶವಿದೆ. ಚಿತ್ರ ತೆಗೆಯುವಾಗ ನೀವು ಹೊಲದಲ್ಲಿಯೇ ಇದ್ದೀರಿ ಎಂದು ಖಚಿತಪಡಿಸಿಕೊಳ್ಳಿ.",
	},
	"guidelines.mentioned": {
		English: "Please click pictures of the mentioned crop only.",
		Kannada: "ನಮೂದಿಸಿದ ಬೆಳೆಯ ಚಿತ್ರಗಳನ್ನು ಮಾತ್ರ ತೆಗೆಯಿರಿ.",
	},
	"guidelines.visible": {
		English: "Make sure the crop is clearly visible.",
		Kannada: "ಬೆಳೆ ಸ್ಪಷ್ಟವಾಗಿ ಕಾಣುವಂತೆ ನೋಡಿಕೊಳ್ಳಿ.",
	},
	"incorrectDetails.text": {
		English: "Details incorrect?",
		Kannada: "ವಿವರಗಳು ತಪ್ಪಾಗಿವೆಯೇ?",
	},
	"incorrectDetails.callUs": {
		English: "Call Support",
		Kannada: "ಸಹಾಯಕ್ಕೆ ಕರೆ ಮಾಡಿ",
	},
	"buttons.startVerification": {
		English: "Start verification",
		Kannada: "ಪರಿಶೀಲನೆ ಪ್ರಾರಂಭಿಸಿ",
	},
	"buttons.allowCameraAccess": {
		English: "Allow camera access",
		Kannada: "ಕ್ಯಾಮೆರಾ ಪ್ರವೇಶ ಅನುಮತಿಸಿ",
	},
	"buttons.capturePhoto": {
		English: "Capture photo",
		Kannada: "ಫೋಟೋ ತೆಗೆಯಿರಿ",
	},
	"buttons.captureAnother": {
		English: "Capture another",
		Kannada: "ಇನ್ನೊಂದು ತೆಗೆಯಿರಿ",
	},
	"buttons.retake": {
		English: "Retake",
		Kannada: "ಮತ್ತೆ ತೆಗೆಯಿರಿ",
	},
	"buttons.submit": {
		English: "Submit",
		Kannada: "ಸಲ್ಲಿಸಿ",
	},
	"buttons.submitting": {
		English: "Submitting...",
		Kannada: "ಸಲ್ಲಿಸಲಾಗುತ್ತಿದೆ...",
	},
	"errors.cropIdRequired": {
		English: "Crop ID is required",
		Kannada: "ಬೆಳೆ ಗುರುತು ಅಗತ್ಯವಿದೆ",
	},
	"errors.cropNotFoundTitle": {
		English: "Crop Not Found",
		Kannada: "ಬೆಳೆ ಸಿಗಲಿಲ್ಲ",
	},
	"errors.loadCropDataFailed": {
		English: "Failed to load crop data",
		Kannada: "ಬೆಳೆ ಮಾಹಿತಿ ಲೋಡ್ ಆಗಲಿಲ್ಲ",
	},
	"errors.cameraDenied": {
		English: "Camera access denied or camera not ready",
		Kannada: "ಕ್ಯಾಮೆರಾ ಪ್ರವೇಶ ನಿರಾಕರಿಸಲಾಗಿದೆ ಅಥವಾ ಕ್ಯಾಮೆರಾ ಸಿದ್ಧವಿಲ್ಲ",
	},
	"errors.locationAccess": {
		English: "Could not read your location",
		Kannada: "ನಿಮ್ಮ ಸ್ಥಳವನ್ನು ಓದಲಾಗಲಿಲ್ಲ",
	},
	"errors.noPhotoCaptured": {
		English: "Capture at least one photo before submitting",
		Kannada: "ಸಲ್ಲಿಸುವ ಮೊದಲು ಕನಿಷ್ಠ ಒಂದು ಫೋಟೋ ತೆಗೆಯಿರಿ",
	},
	"errors.cannotSubmit": {
		English: "Cannot submit new verification request",
		Kannada: "ಹೊಸ ಪರಿಶೀಲನಾ ವಿನಂತಿ ಸಲ್ಲಿಸಲು ಸಾಧ್ಯವಿಲ್ಲ",
	},
	"errors.submissionFailed": {
		English: "Submission failed, please try again",
		Kannada: "ಸಲ್ಲಿಕೆ ವಿಫಲವಾಯಿತು, ದಯವಿಟ್ಟು ಮತ್ತೆ ಪ್ರಯತ್ನಿಸಿ",
	},
	"step3.title": {
		English: "Photos submitted",
		Kannada: "ಫೋಟೋಗಳು ಸಲ್ಲಿಕೆಯಾದವು",
	},
	"step3.message": {
		English: "Your crop photos were submitted for verification. Our team will review them shortly.",
		Kannada: "ನಿಮ್ಮ ಬೆಳೆ ಫೋಟೋಗಳನ್ನು ಪರಿಶೀಲನೆಗೆ ಸಲ್ಲಿಸಲಾಗಿದೆ. ನಮ್ಮ ತಂಡ ಶೀಘ್ರದಲ್ಲೇ ಪರಿಶೀಲಿಸುತ್ತದೆ.",
	},
	"status.pending": {
		English: "Verification Under Review",
		Kannada: "ಪರಿಶೀಲನೆ ನಡೆಯುತ್ತಿದೆ",
	},
	"status.approved": {
		English: "Already Verified",
		Kannada: "ಈಗಾಗಲೇ ಪರಿಶೀಲಿಸಲಾಗಿದೆ",
	},
	"status.resubmission": {
		English: "Ready for Resubmission",
		Kannada: "ಮರುಸಲ್ಲಿಕೆಗೆ ಸಿದ್ಧವಿದೆ",
	},
}
