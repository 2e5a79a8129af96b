package generator

import (
	"path"
	"strings"
)

// buildOutputPath maps a permalink to the file that serves it. The output
// directory is served at baseURL, so that prefix is dropped:
// /kotlin-notes/docs/intro with base /kotlin-notes/ -> docs/intro/index.html.
func buildOutputPath(permalink string, baseURL string, file string) string {
	clean := strings.Trim(strings.TrimSpace(permalink), " \t\r\n/")
	base := strings.Trim(strings.TrimSpace(baseURL), "/")
	if base != "" {
		if clean == base {
			clean = ""
		} else if strings.HasPrefix(clean, base+"/") {
			clean = strings.TrimPrefix(clean, base+"/")
		}
	}
	if file == "" {
		file = "index.html"
	}
	if clean == "" {
		return file
	}
	return path.Join(clean, file)
}

func joinOutputPath(base string, rel string) string {
	if strings.TrimSpace(base) == "" {
		return strings.TrimLeft(rel, "/")
	}
	return path.Join(strings.Trim(base, "/"), rel)
}
