package i18n

import "testing"

func TestForLocaleDefaultsToEnglish(t *testing.T) {
	if got := ForLocale("de").Locale(); got != English {
		t.Fatalf("ForLocale(de) = %v, want English fallback", got)
	}
	if got := ForLocale("kn").Locale(); got != Kannada {
		t.Fatalf("ForLocale(kn) = %v", got)
	}
}

func TestKannadaFallsBackPerKey(t *testing.T) {
	c := ForLocale("kn")
	if got := c.T("buttons.submit"); got == "" || got == "buttons.submit" {
		t.Fatalf("T(buttons.submit) = %q", got)
	}
	// Unknown keys come back verbatim so gaps are visible.
	if got := c.T("no.such.key"); got != "no.such.key" {
		t.Fatalf("T(no.such.key) = %q", got)
	}
}

func TestGuidelinesHaveBothLocales(t *testing.T) {
	en := ForLocale("en").Guidelines()
	kn := ForLocale("kn").Guidelines()
	if len(en) != 3 || len(kn) != 3 {
		t.Fatalf("guidelines = %d/%d, want 3 each", len(en), len(kn))
	}
	for i := range en {
		if en[i] == "" || kn[i] == "" || en[i] == kn[i] {
			t.Fatalf("guideline %d not translated: %q vs %q", i, en[i], kn[i])
		}
	}
}

func TestEveryMessageHasEnglish(t *testing.T) {
	for key, m := range messages {
		if m[English] == "" {
			t.Errorf("message %q has no English text", key)
		}
	}
}
