package flowfile // import "github.com/orkestr8/xflow/flowfile"

import (
	"github.com/zclconf/go-cty/cty"
)

// File is the top level of a flow file.
type File struct {
	Name        string           `hcl:"name,optional"`
	Components  []ComponentBlock `hcl:"component,block"`
	Connections []ConnectBlock   `hcl:"connect,block"`
	Seeds       []SeedBlock      `hcl:"seed,block"`
}

// ComponentBlock declares one component:
//
//	component "counter" "count" {
//	  mode    = "eager"
//	  timeout = "2s"
//	  config  = { limit = 10 }
//	}
type ComponentBlock struct {
	Kind    string     `hcl:"kind,label"`
	Name    string     `hcl:"name,label"`
	Mode    string     `hcl:"mode,optional"`
	Timeout string     `hcl:"timeout,optional"`
	Config  *cty.Value `hcl:"config,optional"`
}

// ConnectBlock connects an output port to an input port, both written as
// "component.port".
type ConnectBlock struct {
	From     string `hcl:"from"`
	To       string `hcl:"to"`
	Feedback bool   `hcl:"feedback,optional"`
}

// SeedBlock injects values into an input port before the first cycle. The
// label is the "component.port" reference.
type SeedBlock struct {
	Port   string    `hcl:"port,label"`
	Values cty.Value `hcl:"values"`
}
