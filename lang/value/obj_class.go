package value

import "fmt"

// ObjClass is a class declaration: its name and the table of methods
// declared on it, each stored as an ObjClosure. This language has no
// inheritance (see the glossary entry for "single-inheritance-free"), so a
// class's method table is exactly what its own body declared.
type ObjClass struct {
	Header
	Name    *ObjString
	Methods Table
}

// NewClass returns an empty class named name.
func NewClass(name *ObjString) *ObjClass {
	return &ObjClass{Header: Header{typ: TypeClass}, Name: name}
}

func (c *ObjClass) String() string { return c.Name.Chars }

// ObjInstance is a runtime instance of a class: a bag of fields backed by a
// Table, plus a pointer back to the class that created it for method
// lookup and the runtime type name reported in error messages.
type ObjInstance struct {
	Header
	Class  *ObjClass
	Fields Table
}

// NewInstance returns a field-less instance of class.
func NewInstance(class *ObjClass) *ObjInstance {
	return &ObjInstance{Header: Header{typ: TypeInstance}, Class: class}
}

func (i *ObjInstance) String() string { return fmt.Sprintf("%s instance", i.Class.Name.Chars) }
