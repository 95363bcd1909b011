package xflow // import "github.com/orkestr8/xflow"

import (
	"fmt"
)

// Package is the immutable unit of data travelling along a connection.
//
// Origin is the output port that first produced the package's lineage and
// Generation counts how many times the lineage crossed a feedback connection.
type Package struct {
	Value      Value
	Origin     PortRef
	Generation uint64
}

// NewPackage starts a fresh lineage at origin.
func NewPackage(origin PortRef, v Value) Package {
	return Package{Value: v, Origin: origin}
}

// Derive returns a package carrying v with the lineage of p.
func (p Package) Derive(v Value) Package {
	return Package{Value: v, Origin: p.Origin, Generation: p.Generation}
}

// reentered returns a copy of p one generation further along its lineage.
func (p Package) reentered() Package {
	p.Generation++
	return p
}

func (p Package) String() string {
	return fmt.Sprintf("%v@%v#%d", p.Value, p.Origin, p.Generation)
}

// Values strips the lineage of a batch.
func Values(packages []Package) []Value {
	out := make([]Value, len(packages))
	for i := range packages {
		out[i] = packages[i].Value
	}
	return out
}
