package registry

import (
	"github.com/FolkiDevv/partysys/internal/types"
)

// Commands holds every command registered at init time.
var Commands = make(map[string]*types.Command)

func RegisterCommand(cmd *types.Command) {
	Commands[cmd.Name] = cmd
}
