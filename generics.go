package cddl

// genericFrame binds one instantiation of a generic rule's parameters to
// concrete Type1 arguments. Modeled as a slice-based stack searched in
// reverse, so nested instantiations of the same generic rule shadow
// outer ones correctly; each instantiation pushes a fresh frame rather
// than merging into an existing one, since disjoint branches may have
// independent live instantiations of the same rule at once.
type genericFrame struct {
	ruleName string
	params   []string
	args     []Type1
}

type genericStack struct {
	frames []genericFrame
}

func (s genericStack) push(ruleName string, params []string, args []Type1) genericStack {
	frames := make([]genericFrame, len(s.frames), len(s.frames)+1)
	copy(frames, s.frames)
	frames = append(frames, genericFrame{ruleName: ruleName, params: params, args: args})
	return genericStack{frames: frames}
}

// resolveParam looks up ident as a generic parameter name in the most
// recently pushed frame that declares it, returning the bound Type1
// argument. Search is in reverse (innermost/most-recent first) so nested
// instantiations of the same generic rule shadow outer ones correctly.
func (s genericStack) resolveParam(ident string) (Type1, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		for j, p := range f.params {
			if p == ident && j < len(f.args) {
				return f.args[j], true
			}
		}
	}
	return Type1{}, false
}
