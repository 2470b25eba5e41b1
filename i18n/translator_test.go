package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("required", map[string]string{"name": "binding"}); msg != "required attribute binding missing" {
		t.Fatalf("unexpected message: %q", msg)
	}

	SetLanguage("ja")
	if msg := T("required", map[string]string{"name": "binding"}); msg == "required attribute binding missing" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownCodeAndMissingData(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("unknown codes should echo the code, got %q", msg)
	}
	if msg := T("unknown_attribute", nil); msg != "unrecognized attribute" {
		t.Fatalf("placeholders without data should be dropped, got %q", msg)
	}
}

type fixed string

func (f fixed) Message(string, map[string]string) string { return string(f) }

func TestSetTranslator(t *testing.T) {
	SetTranslator(fixed("x"))
	defer SetTranslator(nil)
	if msg := T("required", nil); msg != "x" {
		t.Fatalf("custom translator not used: %q", msg)
	}
}
