// Package source registers every bundled document driver. Import it for side
// effects when a program should accept xml, yaml and json alike.
package source

import (
	_ "github.com/reoring/svcconfig/source/json"
	_ "github.com/reoring/svcconfig/source/xml"
	_ "github.com/reoring/svcconfig/source/yaml"
)
