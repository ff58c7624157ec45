package build

import "strings"

var (
	Version = "dev"
	AppName = "Valet"
	Slug    = ""
)

func init() {
	if Slug == "" {
		Slug = strings.ToLower(AppName)
	}
}
