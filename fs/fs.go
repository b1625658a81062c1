// Package appfs embeds the migration scripts and mail templates.
package appfs

import (
	"embed"

	"github.com/edutrack/portal/core"
)

//go:embed migrations templates
var FS embed.FS

func init() {
	core.TemplatesFS = FS
}
