package registry

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// RouteTable is the opaque handle to a module's routes. The composition
// driver decides where the table attaches; the table decides what is in it.
type RouteTable func(r gin.IRouter)

// Module describes one self-contained feature unit: its unique name, the
// route prefix it mounts under (leading "/", no trailing "/"), documentation
// tags, its route table, and the collection schemas it owns.
type Module struct {
	Name    string
	Prefix  string
	Tags    []string
	Routes  RouteTable
	Schemas []*CollectionSchema
}

func (m *Module) validate() error {
	if m == nil {
		return fmt.Errorf("nil module descriptor")
	}
	if m.Name == "" {
		return fmt.Errorf("module descriptor has empty name")
	}
	if !strings.HasPrefix(m.Prefix, "/") || strings.HasSuffix(m.Prefix, "/") {
		return fmt.Errorf("module %q: prefix %q must start with %q and not end with it", m.Name, m.Prefix, "/")
	}
	if m.Routes == nil {
		return fmt.Errorf("module %q: nil route table", m.Name)
	}
	return nil
}
