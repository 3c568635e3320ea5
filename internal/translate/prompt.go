package translate

import (
	"fmt"

	"gp-deepseek-translate/internal/numbered"
)

func singlePrompt(customPrompt, englishName, text string) string {
	return customPrompt + " " + fmt.Sprintf("Translate the following text to %s language: ", englishName) + text
}

func chunkPrompt(customPrompt, englishName string, texts []string) string {
	return fmt.Sprintf(
		"%s\n\nTranslate the following numbered texts to %s language. Keep the numbers and format:\n\n%s\n\nProvide translations in the same numbered format.",
		customPrompt,
		englishName,
		numbered.Format(texts),
	)
}
