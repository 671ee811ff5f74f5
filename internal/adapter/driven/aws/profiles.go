package aws

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var profileRegex = regexp.MustCompile(`\[([^]]+)\]`)

// ListProfiles lê os perfis definidos em ~/.aws/credentials e ~/.aws/config.
// An empty homeDir means the current user's home. No files means no profiles.
func ListProfiles(homeDir string) []string {
	if homeDir == "" {
		var err error
		homeDir, err = os.UserHomeDir()
		if err != nil {
			return nil
		}
	}

	profiles := make(map[string]bool)
	parseFile := func(path string, isConfig bool) {
		content, err := os.ReadFile(path)
		if err != nil {
			return
		}
		for _, match := range profileRegex.FindAllStringSubmatch(string(content), -1) {
			name := strings.TrimSpace(match[1])
			if isConfig {
				if strings.HasPrefix(name, "sso-session ") {
					continue
				}
				name = strings.TrimPrefix(name, "profile ")
			}
			profiles[name] = true
		}
	}

	parseFile(filepath.Join(homeDir, ".aws", "credentials"), false)
	parseFile(filepath.Join(homeDir, ".aws", "config"), true)

	result := make([]string, 0, len(profiles))
	for profile := range profiles {
		result = append(result, profile)
	}
	sort.Strings(result)
	return result
}
