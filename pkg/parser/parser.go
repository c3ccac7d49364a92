// Package parser loads the bot's message templates from an embedded yaml
// file and renders them into HTML text plus optional inline keyboards.
package parser

import (
	_ "embed"
	"fmt"
	"log"
	"strings"

	"github.com/go-telegram/bot/models"
	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var rawMessages []byte

type templateButton struct {
	Text         string `yaml:"text"`
	CallbackData string `yaml:"callback_data"`
	URL          string `yaml:"url"`
}

type messageTemplate struct {
	Text    string             `yaml:"text"`
	Buttons [][]templateButton `yaml:"buttons"`
}

var messages map[string]messageTemplate

func init() {
	if err := yaml.Unmarshal(rawMessages, &messages); err != nil {
		log.Fatalf("Failed to parse message templates: %v", err)
	}
}

// GetMessage renders the template for key, substituting {param} markers, and
// builds its inline keyboard when one is declared.
func GetMessage(key string, params map[string]string) (string, *models.InlineKeyboardMarkup) {
	tmpl, ok := messages[key]
	if !ok {
		log.Printf("Unknown message template: %s", key)
		return key, nil
	}

	text := strings.TrimRight(tmpl.Text, "\n")
	for name, value := range params {
		text = strings.ReplaceAll(text, fmt.Sprintf("{%s}", name), value)
	}

	if len(tmpl.Buttons) == 0 {
		return text, nil
	}

	keyboard := make([][]models.InlineKeyboardButton, 0, len(tmpl.Buttons))
	for _, row := range tmpl.Buttons {
		line := make([]models.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			line = append(line, models.InlineKeyboardButton{
				Text:         btn.Text,
				CallbackData: btn.CallbackData,
				URL:          btn.URL,
			})
		}
		keyboard = append(keyboard, line)
	}

	return text, &models.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}
