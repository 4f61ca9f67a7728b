// Package all pulls in every command package so their init registrations run.
package all

import (
	_ "github.com/FolkiDevv/partysys/commands/admin"
	_ "github.com/FolkiDevv/partysys/commands/util"
	_ "github.com/FolkiDevv/partysys/commands/voice"
)
