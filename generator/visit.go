package generator

import (
	"github.com/teranos/bindgen/ir"
	"github.com/teranos/bindgen/logger"
)

// VisitModules calls fn for every module reachable from the library root,
// parents before children. Ignored modules are skipped with their subtree.
func VisitModules(lib *ir.Library, fn func(v *ir.Visitor, m *ir.Module) error) error {
	return visitModule(ir.NewLibraryVisitor(lib), fn)
}

func visitModule(v *ir.Visitor, fn func(v *ir.Visitor, m *ir.Module) error) error {
	m, ok := v.Value().(*ir.Module)
	if !ok {
		return nil
	}
	if m.IsIgnored() {
		logger.Tracew("Skipping ignored module", logger.FieldModule, v.Path())
		return nil
	}
	if err := fn(v, m); err != nil {
		return err
	}
	for _, child := range m.Modules {
		if err := visitModule(v.Child(child), fn); err != nil {
			return err
		}
	}
	return nil
}

// VisitObjects calls fn for every object that is not ignored, module by module
func VisitObjects(lib *ir.Library, fn func(v *ir.Visitor, obj *ir.Object) error) error {
	return VisitModules(lib, func(mv *ir.Visitor, m *ir.Module) error {
		for _, obj := range m.Objects {
			if obj.IsIgnored() {
				continue
			}
			if err := fn(mv.Child(obj), obj); err != nil {
				return err
			}
		}
		return nil
	})
}

// VisitFunctions calls fn for every free function and method that is not
// ignored. Methods of ignored objects are skipped. The visitor's parent is
// the owning module or object.
func VisitFunctions(lib *ir.Library, fn func(v *ir.Visitor, f *ir.Function) error) error {
	return VisitModules(lib, func(mv *ir.Visitor, m *ir.Module) error {
		for _, obj := range m.Objects {
			if obj.IsIgnored() {
				continue
			}
			ov := mv.Child(obj)
			for _, method := range obj.Methods() {
				if method.IsIgnored() {
					continue
				}
				logger.Tracew("Visiting method", logger.FieldObject, ov.Path(), logger.FieldFunction, method.ID.Name)
				if err := fn(ov.Child(method), method); err != nil {
					return err
				}
			}
		}
		for _, f := range m.Functions {
			if f.IsIgnored() {
				continue
			}
			if err := fn(mv.Child(f), f); err != nil {
				return err
			}
		}
		return nil
	})
}

// OwnerObject returns the object a method visitor belongs to
func OwnerObject(v *ir.Visitor) (*ir.Object, bool) {
	parent, ok := v.Parent()
	if !ok {
		return nil, false
	}
	obj, ok := parent.Value().(*ir.Object)
	return obj, ok
}

// Symbol is the exported FFI name of a function: Owner_method for methods,
// the bare name for free functions. Every backend links against it.
func Symbol(v *ir.Visitor, f *ir.Function) string {
	if obj, ok := OwnerObject(v); ok {
		return obj.Identifier().Name + "_" + f.ID.Name
	}
	return f.ID.Name
}
