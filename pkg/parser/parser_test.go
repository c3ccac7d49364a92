package parser

import (
	"strings"
	"testing"
)

func TestGetMessage_SubstitutesParams(t *testing.T) {
	text, _ := GetMessage("start", map[string]string{"firstName": "Ada"})
	if !strings.Contains(text, "Ada") {
		t.Errorf("expected substituted name in %q", text)
	}
	if strings.Contains(text, "{firstName}") {
		t.Errorf("placeholder left unsubstituted in %q", text)
	}
}

func TestGetMessage_BuildsKeyboard(t *testing.T) {
	_, keyboard := GetMessage("start", nil)
	if keyboard == nil || len(keyboard.InlineKeyboard) == 0 {
		t.Fatal("expected an inline keyboard for start")
	}

	_, keyboard = GetMessage("code_invalid", nil)
	if keyboard != nil {
		t.Error("expected no keyboard for code_invalid")
	}
}

func TestGetMessage_UnknownKeyFallsBackToKey(t *testing.T) {
	text, keyboard := GetMessage("no_such_template", nil)
	if text != "no_such_template" || keyboard != nil {
		t.Errorf("unexpected fallback: %q, %v", text, keyboard)
	}
}
