package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"usydrc/lib/configutil"
	"usydrc/lib/keychain"
	"usydrc/lib/snapshot"

	"github.com/titanous/json5"
)

type EmailConfig struct {
	Address string `json:"address"`
	// host:port
	Server  string `json:"server"`
	Enabled bool   `json:"enabled"`
}

type SsaConfig struct {
	LoginUrl        string `json:"login_url,omitempty"`
	CourseSelectUrl string `json:"course_select_url,omitempty"`
	ResultsUrl      string `json:"results_url,omitempty"`
	// off unless the sign-on starts serving cloudflare challenges
	BypassCloudflare bool `json:"bypass_cloudflare,omitempty"`
}

type Config struct {
	Username     string `json:"username"`
	DegreeId     int    `json:"degree_id,omitempty"`
	SnapshotFile string `json:"snapshot_file"`
	// "heading" or "styled"
	Locator     string          `json:"locator"`
	Email       EmailConfig     `json:"email"`
	Credentials keychain.Config `json:"credentials"`
	Ssa         SsaConfig       `json:"ssa"`
}

var defaultConfig = Config{
	SnapshotFile: snapshot.DefaultPath,
	Locator:      "heading",
	Credentials: keychain.Config{
		Backend: keychain.BackendFile,
		File:    "secrets.json",
	},
}

func loadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfigWithDefaults(path, defaultConfig)
	if os.IsNotExist(err) {
		return cfg, fmt.Errorf("%s not found, run `usydrc setup` first", path)
	}
	return cfg, err
}

// saveDegreeId sets degree_id in the base config file only, local overrides
// and defaults stay out of it.
func saveDegreeId(path string, degreeId int) error {
	base := map[string]any{}
	buff, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if len(buff) > 0 {
		err = json5.Unmarshal(buff, &base)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
	}
	base["degree_id"] = degreeId

	out, err := json.MarshalIndent(base, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(out, '\n'), 0600)
}

// writeConfig writes plain json, which is also valid json5.
func writeConfig(path string, cfg Config) error {
	buff, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(buff, '\n'), 0600)
}
