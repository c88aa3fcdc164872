package scope

// resolveReason returns the exclusion reason for name given this
// function's accumulated analysis, or "" if name is a rename candidate.
// Checked in the priority order spec §4.3 lists the exclusion rules.
func resolveReason(fa *functionAnalysis, name string) string {
	switch {
	case name == "_":
		return ReasonSingleUnderscore
	case IsDunder(name):
		return ReasonDunder
	case Keywords[name]:
		return ReasonKeyword
	case Builtins[name]:
		return ReasonBuiltin
	}
	if reason, ok := fa.globalNonlocal[name]; ok {
		return reason
	}
	if fa.dottedImport[name] {
		return ReasonDottedImport
	}
	return ""
}

// attributeSyncHazard reports whether any binding in the function is also
// read as the right-hand side of an attribute-write assignment (e.g.
// `self.foo = foo`), which would desynchronize the attribute name from its
// local source if the local were renamed.
func attributeSyncHazard(fa *functionAnalysis) bool {
	for _, name := range fa.bindingOrder {
		if fa.attributeSyncRHS[name] {
			return true
		}
	}
	return false
}

// fstringHazard reports whether any candidate rename name is also
// referenced inside an f-string interpolation, where a textual token
// rewrite could corrupt the expression.
func fstringHazard(fa *functionAnalysis, candidates []string) bool {
	for _, name := range candidates {
		if fa.fstringIdents[name] {
			return true
		}
	}
	return false
}

// containsNestedConstruct is the generalized has_nested_functions flag
// (spec §4.3 "Bailout conditions"): true for a nested function
// definition, class definition, comprehension, or match statement.
func containsNestedConstruct(fa *functionAnalysis) bool {
	return fa.hasNestedDef || fa.hasNestedClass || fa.hasComprehension || fa.hasMatch
}
