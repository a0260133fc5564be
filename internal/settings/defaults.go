package settings

// Defaults returns a fresh copy of the built-in default settings.
func Defaults() map[string]any {
	return map[string]any{
		"BOT_NAME":         "scrapectlbot",
		"COMMANDS_MODULE":  "",
		"EDITOR":           "vi",
		"FEEDS":            map[string]any{},
		"LOG_ENABLED":      true,
		"LOG_FILE":         "",
		"LOG_LEVEL":        "DEBUG",
		"SPIDER_MODULES":   []string{},
		"NEWSPIDER_MODULE": "",
		"USER_AGENT":       "Scrapectl (+https://github.com/louisbranch/scrapectl)",
	}
}
