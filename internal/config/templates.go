package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Signal Desk Configuration

[sources]
# Each scan feed is an HTTP(S) URL or a local file path.
# If the bot writes JSON files next to the binary, the defaults just work.
am = "am_runners.json"
open = "open_confirm.json"
lunch = "lunch_patterns.json"
power = "power_hour.json"

[display]
# Ranked rows to show (50-300)
max_rows = 200
# Rows included in a push (5-50)
push_count = 20

[notifications]
enabled = false

[notifications.telegram]
enabled = false
bot_token = ""
chat_id = ""

[notifications.webhook]
enabled = false
url = ""

[server]
port = 8080
refresh_interval = "5m"
`

// createTemplateConfig writes a commented config template so a first run
// leaves something editable behind instead of failing.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0600)
}
