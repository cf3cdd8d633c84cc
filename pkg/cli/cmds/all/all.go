// Package all imports all command providers.
package all

import (
	_ "github.com/robotalks/orbus/pkg/cli/cmds/catalog"
)
