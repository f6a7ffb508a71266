package toolchain

// Names returns the macro names in table order.
func (t MacroTable) Names() []string {
	names := make([]string, len(t))
	for i, m := range t {
		names[i] = m.Name
	}
	return names
}

// Lookup returns the value of the macro called name.
func (t MacroTable) Lookup(name string) (string, bool) {
	for _, m := range t {
		if m.Name == name {
			return m.Value, true
		}
	}
	return "", false
}

// MacrosToOptions returns one compiler option per macro in t, in table
// order. With suppress set every macro becomes "-UNAME"; otherwise it
// becomes "-DNAME=VALUE", or "-DNAME" when the value is empty.
//
// Suppression is by name only: a consumer that already defines a macro
// with a differently formatted value is still undefined.
func MacrosToOptions(t MacroTable, suppress bool) []string {
	opts := make([]string, 0, len(t))
	for _, m := range t {
		switch {
		case suppress:
			opts = append(opts, "-U"+m.Name)
		case m.Value == "":
			opts = append(opts, "-D"+m.Name)
		default:
			opts = append(opts, "-D"+m.Name+"="+m.Value)
		}
	}
	return opts
}
